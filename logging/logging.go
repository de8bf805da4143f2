// Package logging annotates goroutines with pprof labels naming what they do.
package logging

import (
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strconv"

	"github.com/ProtonMail/foldertree/async"
)

// Labels are attached to the annotated goroutine along with its caller.
type Labels map[string]any

// GoAnnotated runs fn in a new goroutine labelled with its caller, recovering panics with the handler.
func GoAnnotated(ctx context.Context, panicHandler async.PanicHandler, fn func(context.Context), labelMap ...Labels) {
	labels := getLabels(labelMap...)

	go func() {
		defer async.HandlePanic(panicHandler)

		pprof.Do(ctx, labels, fn)
	}()
}

// DoAnnotated runs fn in the current goroutine labelled with its caller.
func DoAnnotated(ctx context.Context, fn func(context.Context), labelMap ...Labels) {
	pprof.Do(ctx, getLabels(labelMap...), fn)
}

func getLabels(labelMap ...Labels) pprof.LabelSet {
	// Get the caller's stack frame.
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		panic("failed to get caller's stack frame")
	}

	labels := []string{"fn", runtime.FuncForPC(pc).Name(), "file", file, "line", strconv.Itoa(line)}

	for _, labelMap := range labelMap {
		for key, val := range labelMap {
			labels = append(labels, key, fmt.Sprintf("%v", val))
		}
	}

	return pprof.Labels(labels...)
}
