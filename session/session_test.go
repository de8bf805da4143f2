package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ProtonMail/foldertree"
	"github.com/ProtonMail/foldertree/directory"
	"github.com/ProtonMail/foldertree/persist"
	"github.com/ProtonMail/foldertree/persist/mock_persist"
	"github.com/ProtonMail/foldertree/reporter/mock_reporter"
	"github.com/ProtonMail/foldertree/session"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// badger links glog, whose init starts a flush goroutine that never exits.
var ignoreGlog = goleak.IgnoreTopFunction("github.com/golang/glog.(*loggingT).flushDaemon")

func newDirectory(t *testing.T) *directory.Dummy {
	t.Helper()

	dir := directory.NewDummy("/", true)

	require.NoError(t, dir.Create("INBOX", true))
	require.NoError(t, dir.Create("INBOX/Sent", true))
	require.NoError(t, dir.Create("Work", true))

	return dir
}

func newManager(store persist.Store, dir directory.Directory, opts ...session.Option) *session.Manager {
	return session.NewManager(store, func(context.Context, string) (directory.Directory, error) {
		return dir, nil
	}, opts...)
}

func TestManager_OpenFlushRestore(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()
	dir := newDirectory(t)
	store := persist.NewInMemoryStore()
	manager := newManager(store, dir)

	handle, err := manager.Open(ctx, "user")
	require.NoError(t, err)
	require.NotEmpty(t, handle.ID())
	require.True(t, handle.Tree().Changed())

	require.NoError(t, handle.Tree().Expand(ctx, "INBOX", false))
	require.NoError(t, handle.Close(ctx))

	_, err = store.Load(ctx, "user/tree")
	require.NoError(t, err)

	_, err = store.Load(ctx, "user/expanded")
	require.NoError(t, err)

	calls := dir.Calls()

	handle, err = manager.Open(ctx, "user")
	require.NoError(t, err)

	tree := handle.Tree()
	require.False(t, tree.Changed())
	require.True(t, tree.Expanded().Contains("INBOX"))

	sent, ok := tree.Get("INBOX/Sent")
	require.True(t, ok)
	require.Equal(t, "Sent", sent.Label)

	// The restored tree is built without asking the directory.
	require.Equal(t, calls, dir.Calls())

	// Nothing changed, so nothing is written.
	require.NoError(t, store.Delete(ctx, "user/tree"))
	require.NoError(t, handle.Flush(ctx))

	_, err = store.Load(ctx, "user/tree")
	require.True(t, persist.IsNotFound(err))

	require.NoError(t, handle.Close(ctx))
	require.NoError(t, handle.Close(ctx))
	require.ErrorIs(t, handle.Flush(ctx), session.ErrClosed)
}

func TestManager_OpenWaitsForClose(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()
	manager := newManager(persist.NewInMemoryStore(), newDirectory(t))

	handle, err := manager.Open(ctx, "user")
	require.NoError(t, err)

	{
		ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := manager.Open(ctx, "user")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}

	other, err := manager.Open(ctx, "other")
	require.NoError(t, err)
	require.NoError(t, other.Close(ctx))

	// A detached view does not wait for the handle.
	view, err := manager.View(ctx, "user")
	require.NoError(t, err)
	require.NotNil(t, view)

	opened := make(chan *session.Handle)

	go func() {
		handle, err := manager.Open(ctx, "user")
		assert.NoError(t, err)

		opened <- handle
	}()

	select {
	case <-opened:
		t.Fatal("session opened twice")

	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, handle.Close(ctx))

	handle = <-opened
	require.NotNil(t, handle)
	require.NoError(t, handle.Close(ctx))
}

func TestManager_FlushFailure(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	var (
		memory  = persist.NewInMemoryStore()
		store   = mock_persist.NewMockStore(ctl)
		report  = mock_reporter.NewMockReporter(ctl)
		failing = true
	)

	store.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(memory.Load).AnyTimes()
	store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, key string, b []byte) error {
		if failing {
			return errors.New("disk is full")
		}

		return memory.Save(ctx, key, b)
	}).AnyTimes()

	report.EXPECT().ReportExceptionWithContext(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	manager := newManager(store, newDirectory(t), session.WithReporter(report))

	handle, err := manager.Open(ctx, "user")
	require.NoError(t, err)

	require.Error(t, handle.Flush(ctx))
	require.True(t, handle.Tree().Changed())

	failing = false

	require.NoError(t, handle.Flush(ctx))
	require.False(t, handle.Tree().Changed())
	require.NoError(t, handle.Close(ctx))

	_, err = memory.Load(ctx, "user/tree")
	require.NoError(t, err)
}

func TestManager_InvalidSnapshot(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()
	store := persist.NewInMemoryStore()

	require.NoError(t, store.Save(ctx, "user/tree", []byte("not a tree")))
	require.NoError(t, store.Save(ctx, "user/poll", []byte("{")))

	manager := newManager(store, newDirectory(t), session.WithTreeOptions(foldertree.WithInitMode(foldertree.InitUnsubscribed)))

	handle, err := manager.Open(ctx, "user")
	require.NoError(t, err)
	require.True(t, handle.Tree().Changed())
	require.True(t, handle.Tree().ShowingUnsubscribed())

	_, ok := handle.Tree().Get("Work")
	require.True(t, ok)

	require.NoError(t, handle.Close(ctx))

	b, err := store.Load(ctx, "user/tree")
	require.NoError(t, err)

	_, err = foldertree.Restore(newDirectory(t), b, foldertree.WithInitMode(foldertree.InitUnsubscribed))
	require.NoError(t, err)
}

func TestManager_Forget(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()
	store := persist.NewInMemoryStore()
	manager := newManager(store, newDirectory(t))

	handle, err := manager.Open(ctx, "user")
	require.NoError(t, err)
	require.NoError(t, handle.Tree().Expand(ctx, "INBOX", false))
	require.NoError(t, handle.Close(ctx))

	require.NoError(t, manager.Forget(ctx, "user"))

	for _, key := range []string{"user/tree", "user/expanded", "user/poll", "user/subscriptions"} {
		_, err := store.Load(ctx, key)
		require.True(t, persist.IsNotFound(err), key)
	}

	handle, err = manager.Open(ctx, "user")
	require.NoError(t, err)
	require.True(t, handle.Tree().Changed())
	require.False(t, handle.Tree().Expanded().Contains("INBOX"))
	require.NoError(t, handle.Close(ctx))
}

func TestManager_DirectoryFactoryFails(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreGlog)

	ctx := context.Background()

	manager := session.NewManager(persist.NewInMemoryStore(), func(context.Context, string) (directory.Directory, error) {
		return nil, directory.ErrOffline
	})

	_, err := manager.Open(ctx, "user")
	require.ErrorIs(t, err, directory.ErrOffline)

	// The failed open released the session.
	_, err = manager.Open(ctx, "user")
	require.ErrorIs(t, err, directory.ErrOffline)
}
