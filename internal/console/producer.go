package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the console refresh cadence
const DefaultInterval = 2 * time.Second

// TimeFormat is used by the default message source
const TimeFormat = "2006-01-02 15:04:05"

// Producer appends a message to a Buffer on every tick
type Producer struct {
	buf      *Buffer
	interval time.Duration
	next     func(time.Time) string
	onChange func()
	logger   *slog.Logger
}

// ProducerOption configures a Producer
type ProducerOption func(*Producer)

// WithInterval sets the tick interval
func WithInterval(d time.Duration) ProducerOption {
	return func(p *Producer) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSource sets the function producing each message
func WithSource(fn func(time.Time) string) ProducerOption {
	return func(p *Producer) {
		if fn != nil {
			p.next = fn
		}
	}
}

// WithOnChange sets the callback run after each append
func WithOnChange(fn func()) ProducerOption {
	return func(p *Producer) { p.onChange = fn }
}

// WithLogger sets the producer's logger
func WithLogger(l *slog.Logger) ProducerOption {
	return func(p *Producer) {
		if l != nil {
			p.logger = l
		}
	}
}

// DispatchMessage is the default message source
func DispatchMessage(t time.Time) string {
	return fmt.Sprintf("%s: Dispatch Message", t.Format(TimeFormat))
}

// NewProducer creates a producer feeding buf
func NewProducer(buf *Buffer, opts ...ProducerOption) *Producer {
	p := &Producer{
		buf:      buf,
		interval: DefaultInterval,
		next:     DispatchMessage,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the tick interval
func (p *Producer) Interval() time.Duration {
	return p.interval
}

// Tick appends one message as if the ticker fired at t
func (p *Producer) Tick(t time.Time) bool {
	if !p.buf.AddEntry(Entry{Time: t, Message: p.next(t)}) {
		return false
	}
	if p.onChange != nil {
		p.onChange()
	}
	return true
}

// Run ticks until ctx is cancelled or the buffer is closed.
// The first message is produced immediately.
func (p *Producer) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Debug("console producer started", "interval", p.interval)
	if !p.Tick(time.Now()) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("console producer stopped")
			return ctx.Err()
		case t := <-ticker.C:
			if !p.Tick(t) {
				return nil
			}
		}
	}
}
