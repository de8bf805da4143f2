package session

import (
	"github.com/ProtonMail/foldertree"
	"github.com/ProtonMail/foldertree/reporter"
)

// Option represents a type that can be used to configure the manager.
type Option interface {
	config(*Manager)
}

// WithTreeOptions gives the options every tree of the manager is built or restored with.
func WithTreeOptions(opts ...foldertree.Option) Option {
	return &withTreeOptions{
		opts: opts,
	}
}

type withTreeOptions struct {
	opts []foldertree.Option
}

func (opt withTreeOptions) config(manager *Manager) {
	manager.opts = append(manager.opts, opt.opts...)
}

// WithReporter instructs the manager to report failed flushes and the trees to report degraded queries.
func WithReporter(reporter reporter.Reporter) Option {
	return &withReporter{
		reporter: reporter,
	}
}

type withReporter struct {
	reporter reporter.Reporter
}

func (opt withReporter) config(manager *Manager) {
	manager.reporter = opt.reporter
}
