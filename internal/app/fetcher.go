package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rebeliceyang/lazykit/internal/datasource"
	"github.com/rebeliceyang/lazykit/internal/history"
	"github.com/rebeliceyang/lazykit/internal/models"
)

// PageLoadedMsg carries the result of one fetch back to the event loop
type PageLoadedMsg struct {
	Seq     uint64
	Offset  int
	Filters []models.FilterCondition
	Page    *datasource.Page
}

// Fetcher owns the query state of the demo table and implements the
// collection's sort and filter hooks. Requests are numbered on the
// event loop and fetched off it; the loop drops results that a newer
// request has already superseded.
type Fetcher struct {
	src     datasource.Source
	history *history.Store
	logger  *slog.Logger

	mu  sync.Mutex
	req datasource.Request

	seq     atomic.Uint64
	results chan PageLoadedMsg
}

// NewFetcher creates a fetcher reading pages of table from src
func NewFetcher(src datasource.Source, table string, pageSize int, store *history.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		src:     src,
		history: store,
		logger:  logger,
		req:     datasource.Request{Table: table, Limit: pageSize},
		results: make(chan PageLoadedMsg, 16),
	}
}

// Results delivers loaded pages
func (f *Fetcher) Results() <-chan PageLoadedMsg {
	return f.results
}

// Latest returns the sequence number of the newest request
func (f *Fetcher) Latest() uint64 {
	return f.seq.Load()
}

// Request returns the current query state
func (f *Fetcher) Request() datasource.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.req
}

// SortHook applies a new sort and reloads from the first row
func (f *Fetcher) SortHook(ctx context.Context, field string, order models.SortOrder) error {
	return f.PrepareSort(field, order)(ctx)
}

// FilterHook applies new filter conditions and reloads from the first row
func (f *Fetcher) FilterHook(ctx context.Context, filters []models.FilterCondition) error {
	return f.PrepareFilter(filters)(ctx)
}

// Page loads the page starting at offset
func (f *Fetcher) Page(ctx context.Context, offset int) error {
	return f.PreparePage(offset)(ctx)
}

// PrepareSort applies a new sort to the query state and returns the
// fetch for it. Called from the event loop, so requests are numbered in
// the order the user made them.
func (f *Fetcher) PrepareSort(field string, order models.SortOrder) func(context.Context) error {
	return f.prepare(func(r *datasource.Request) {
		r.SortField, r.SortOrder = field, order
		if order == models.SortNone {
			r.SortField = ""
		}
		r.Offset = 0
	})
}

// PrepareFilter applies new filter conditions and returns the fetch
func (f *Fetcher) PrepareFilter(filters []models.FilterCondition) func(context.Context) error {
	return f.prepare(func(r *datasource.Request) {
		r.Filters = filters
		r.Offset = 0
	})
}

// PreparePage moves to offset and returns the fetch
func (f *Fetcher) PreparePage(offset int) func(context.Context) error {
	return f.prepare(func(r *datasource.Request) {
		r.Offset = max(offset, 0)
	})
}

// prepare updates the query state and reserves the sequence number
// immediately. Only the returned fetch may run off the event loop.
func (f *Fetcher) prepare(update func(*datasource.Request)) func(context.Context) error {
	f.mu.Lock()
	update(&f.req)
	req := f.req
	seq := f.seq.Add(1)
	f.mu.Unlock()

	return func(ctx context.Context) error {
		return f.fetch(ctx, seq, req)
	}
}

func (f *Fetcher) fetch(ctx context.Context, seq uint64, req datasource.Request) error {
	page, err := f.src.Fetch(ctx, req)
	f.record(req, page, err)
	if err != nil {
		f.logger.Warn("fetch failed", "table", req.Table, "seq", seq, "error", err)
		return err
	}
	f.logger.Debug("fetch complete",
		"table", req.Table,
		"seq", seq,
		"rows", len(page.Rows),
		"total", page.TotalRows,
		"duration", page.Duration)

	select {
	case f.results <- PageLoadedMsg{Seq: seq, Offset: req.Offset, Filters: req.Filters, Page: page}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) record(req datasource.Request, page *datasource.Page, fetchErr error) {
	if f.history == nil {
		return
	}
	entry := history.Entry{
		Table:       req.Table,
		FilterCount: len(req.Filters),
		Success:     fetchErr == nil,
	}
	if page != nil {
		entry.Query = page.Query
		entry.Duration = page.Duration
		entry.RowsReturned = int64(len(page.Rows))
		if args, err := json.Marshal(page.Args); err == nil {
			entry.Args = string(args)
		}
	}
	if fetchErr != nil {
		entry.ErrorMessage = fetchErr.Error()
	}
	if err := f.history.Add(entry); err != nil {
		f.logger.Warn("failed to record fetch history", "error", err)
	}
}
