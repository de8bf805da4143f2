// Package reporter lets callers observe failures the tree absorbs instead of returning them,
// such as directory queries that degraded to an empty result.
package reporter

type Context = map[string]any

// Reporter represents an external reporting tool.
type Reporter interface {
	ReportMessageWithContext(string, Context) error
	ReportExceptionWithContext(any, Context) error
}

//go:generate mockgen -destination mock_reporter/reporter.go . Reporter

type NullReporter struct{}

func (*NullReporter) ReportMessageWithContext(string, Context) error {
	return nil
}

func (*NullReporter) ReportExceptionWithContext(any, Context) error {
	return nil
}
