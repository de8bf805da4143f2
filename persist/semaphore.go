package persist

import (
	"context"
	"sync"

	"github.com/ProtonMail/foldertree/async"
)

// Semaphore limits the number of concurrent store operations.
type Semaphore struct {
	ch chan struct{}
	wg sync.WaitGroup
	rw sync.RWMutex

	panicHandler async.PanicHandler
}

// NewSemaphore constructs a new semaphore with the given limit.
func NewSemaphore(max int, panicHandler async.PanicHandler) *Semaphore {
	return &Semaphore{ch: make(chan struct{}, max), panicHandler: panicHandler}
}

// Lock locks the semaphore, waiting until it is possible or the context is done.
func (sem *Semaphore) Lock(ctx context.Context) error {
	sem.rw.RLock()

	select {
	case sem.ch <- struct{}{}:
		return nil

	case <-ctx.Done():
		sem.rw.RUnlock()
		return ctx.Err()
	}
}

// Unlock unlocks the semaphore.
func (sem *Semaphore) Unlock() {
	<-sem.ch
	sem.rw.RUnlock()
}

// Block prevents the semaphore from being locked and waits for the functions started by Go.
func (sem *Semaphore) Block() {
	sem.rw.Lock()
	sem.wg.Wait()
}

// Unblock allows the semaphore to be locked again.
func (sem *Semaphore) Unblock() {
	sem.rw.Unlock()
}

// Do executes the given function synchronously.
func (sem *Semaphore) Do(ctx context.Context, fn func()) error {
	if err := sem.Lock(ctx); err != nil {
		return err
	}

	defer sem.Unlock()

	fn()

	return nil
}

// Go executes the given function asynchronously.
func (sem *Semaphore) Go(ctx context.Context, fn func()) error {
	if err := sem.Lock(ctx); err != nil {
		return err
	}

	sem.wg.Add(1)

	go func() {
		defer async.HandlePanic(sem.panicHandler)

		defer sem.Unlock()
		defer sem.wg.Done()

		fn()
	}()

	return nil
}

// Wait waits for all functions started by Go to finish executing.
func (sem *Semaphore) Wait() {
	sem.wg.Wait()
}
