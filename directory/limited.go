package directory

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles the queries sent to another directory.
type Limited struct {
	dir     Directory
	limiter *rate.Limiter
}

func NewLimited(dir Directory, limiter *rate.Limiter) *Limited {
	return &Limited{dir: dir, limiter: limiter}
}

func (l *Limited) List(ctx context.Context, pattern string, includeUnsubscribed bool) ([]Mailbox, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return l.dir.List(ctx, pattern, includeUnsubscribed)
}

func (l *Limited) Get(ctx context.Context, name string, includeUnsubscribed bool) (Mailbox, bool, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return Mailbox{}, false, err
	}

	return l.dir.Get(ctx, name, includeUnsubscribed)
}

func (l *Limited) ReportsChildState(ctx context.Context) (bool, error) {
	reporter, ok := l.dir.(ChildStateReporter)
	if !ok {
		return false, nil
	}

	return reporter.ReportsChildState(ctx)
}
