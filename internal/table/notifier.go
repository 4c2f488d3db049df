package table

// Notifier fans filter changes out to its subscribers.
//
// Subscriptions live as long as the owning Collection; there is no
// unsubscribe. A subscriber must not change filters from inside its
// callback: the registry does not guard against re-entrant changes and
// the resulting state is undefined.
type Notifier struct {
	subs []func() error
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make([]func() error, 0, 8)}
}

// Subscribe appends a callback
func (n *Notifier) Subscribe(fn func() error) {
	if fn == nil {
		return
	}
	n.subs = append(n.subs, fn)
}

// NotifyAll calls every subscriber in subscription order.
// The first failing subscriber stops the fan-out and its error is
// returned; later subscribers are not called.
func (n *Notifier) NotifyAll() error {
	for _, fn := range n.subs {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of subscribers
func (n *Notifier) Len() int {
	return len(n.subs)
}

// Clear drops all subscribers on teardown
func (n *Notifier) Clear() {
	n.subs = nil
}
