package domain

import "context"

// Notifier delivers a report to one alerting channel. Implementations decide
// for themselves which outcomes they care about and stay silent otherwise.
type Notifier interface {
	Type() string
	Notify(ctx context.Context, report Report) error
}
