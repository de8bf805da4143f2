package reporter

import (
	"context"

	"github.com/sirupsen/logrus"
)

type reporterKeyType struct{}

var reporterKeyVal reporterKeyType

// NewContextWithReporter returns a context carrying the reporter. Operations given this context
// report degraded queries and persistence failures to it.
func NewContextWithReporter(ctx context.Context, reporter Reporter) context.Context {
	return context.WithValue(ctx, reporterKeyVal, reporter)
}

func GetReporterFromContext(ctx context.Context) (Reporter, bool) {
	rep, ok := ctx.Value(reporterKeyVal).(Reporter)

	return rep, ok
}

// MessageWithContext reports the message if the context carries a reporter.
func MessageWithContext(ctx context.Context, message string, context Context) {
	rep, ok := GetReporterFromContext(ctx)
	if !ok {
		return
	}

	if err := rep.ReportMessageWithContext(message, context); err != nil {
		logrus.WithError(err).Error("Failed to report message")
	}
}

// ExceptionWithContext reports the exception if the context carries a reporter.
func ExceptionWithContext(ctx context.Context, info any, context Context) {
	rep, ok := GetReporterFromContext(ctx)
	if !ok {
		return
	}

	if err := rep.ReportExceptionWithContext(info, context); err != nil {
		logrus.WithError(err).Error("Failed to report exception")
	}
}
