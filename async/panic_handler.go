package async

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// PanicHandler is given the value of a recovered panic.
type PanicHandler interface {
	HandlePanic(any)
}

// NoopPanicHandler does not recover panics.
type NoopPanicHandler struct{}

func (n NoopPanicHandler) HandlePanic(any) {}

// LogPanicHandler logs recovered panics with the stack of the panicking goroutine.
type LogPanicHandler struct{}

func (LogPanicHandler) HandlePanic(r any) {
	logrus.WithField("panic", r).WithField("stack", string(debug.Stack())).Error("Recovered from panic")
}

// HandlePanic must be deferred. It recovers a panic and hands it to the handler.
// With a nil or no-op handler the panic goes on.
func HandlePanic(panicHandler PanicHandler) {
	switch panicHandler.(type) {
	case nil, NoopPanicHandler, *NoopPanicHandler:
		return
	}

	if r := recover(); r != nil {
		panicHandler.HandlePanic(r)
	}
}
