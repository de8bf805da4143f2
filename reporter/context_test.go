package reporter_test

import (
	"context"
	"testing"

	"github.com/ProtonMail/foldertree/reporter"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	messages []string
}

func (r *recorder) ReportMessageWithContext(msg string, _ reporter.Context) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recorder) ReportExceptionWithContext(info any, _ reporter.Context) error {
	r.messages = append(r.messages, info.(string))
	return nil
}

func TestReporterFromContext(t *testing.T) {
	_, ok := reporter.GetReporterFromContext(context.Background())
	require.False(t, ok)

	// Reporting without a reporter is a no-op.
	reporter.MessageWithContext(context.Background(), "ignored", nil)

	rec := &recorder{}
	ctx := reporter.NewContextWithReporter(context.Background(), rec)

	reporter.MessageWithContext(ctx, "degraded", reporter.Context{"pattern": "INBOX/%"})
	reporter.ExceptionWithContext(ctx, "failed", nil)

	require.Equal(t, []string{"degraded", "failed"}, rec.messages)
}
