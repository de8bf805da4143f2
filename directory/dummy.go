package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/ProtonMail/foldertree/imap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrOffline       = errors.New("directory is offline")
	ErrNoSuchMailbox = errors.New("no such mailbox")
	ErrInvalidName   = errors.New("invalid mailbox name")
)

type dummyMailbox struct {
	attrs      imap.FlagSet
	subscribed bool
}

// Dummy is an in-memory directory. Missing superiors of created mailboxes are reported as \Noselect.
// Like LSUB, a listing restricted to subscribed mailboxes also returns unsubscribed mailboxes that have
// subscribed inferiors, flagged \Noselect.
type Dummy struct {
	delimiter  string
	childState bool

	mailboxes map[string]*dummyMailbox

	failing bool
	calls   int

	lock sync.Mutex
}

// NewDummy returns an empty directory using the given delimiter. If childState is set, listed mailboxes
// carry \HasChildren or \HasNoChildren.
func NewDummy(delimiter string, childState bool) *Dummy {
	return &Dummy{
		delimiter:  delimiter,
		childState: childState,
		mailboxes:  make(map[string]*dummyMailbox),
	}
}

// Create adds a mailbox with the given attributes.
func (d *Dummy) Create(name string, subscribed bool, attrs ...string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if name == "" {
		return ErrInvalidName
	}

	d.mailboxes[name] = &dummyMailbox{
		attrs:      imap.NewFlagSet(attrs...).Remove(imap.AttrNoSelect),
		subscribed: subscribed,
	}

	return nil
}

// Remove deletes a mailbox. A mailbox that still has inferiors remains as an implied \Noselect superior.
func (d *Dummy) Remove(name string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.mailboxes[name]; !ok {
		return ErrNoSuchMailbox
	}

	delete(d.mailboxes, name)

	return nil
}

// Subscribe marks an existing mailbox as subscribed.
func (d *Dummy) Subscribe(name string) error {
	return d.setSubscribed(name, true)
}

// Unsubscribe marks an existing mailbox as not subscribed.
func (d *Dummy) Unsubscribe(name string) error {
	return d.setSubscribed(name, false)
}

// SetFailing makes every subsequent query fail with ErrOffline.
func (d *Dummy) SetFailing(failing bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.failing = failing
}

// Calls returns the number of queries answered so far, failed ones included.
func (d *Dummy) Calls() int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.calls
}

func (d *Dummy) ReportsChildState(context.Context) (bool, error) {
	return d.childState, nil
}

func (d *Dummy) List(ctx context.Context, pattern string, includeUnsubscribed bool) ([]Mailbox, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.calls++

	if d.failing {
		return nil, ErrOffline
	}

	var res []Mailbox

	for _, name := range d.names() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		default: // fallthrough
		}

		if !imap.Match(pattern, d.delimiter, name) {
			continue
		}

		mbox := d.toMailbox(name)

		if !includeUnsubscribed && !mbox.Subscribed {
			if !d.hasSubscribedInferiors(name) {
				continue
			}

			mbox.Attributes = mbox.Attributes.Add(imap.AttrNoSelect)
		}

		res = append(res, mbox)
	}

	return res, nil
}

func (d *Dummy) Get(ctx context.Context, name string, includeUnsubscribed bool) (Mailbox, bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.calls++

	if d.failing {
		return Mailbox{}, false, ErrOffline
	}

	if err := ctx.Err(); err != nil {
		return Mailbox{}, false, err
	}

	if !slices.Contains(d.names(), name) {
		return Mailbox{}, false, nil
	}

	mbox := d.toMailbox(name)

	if !includeUnsubscribed && !mbox.Subscribed {
		return Mailbox{}, false, nil
	}

	return mbox, true, nil
}

func (d *Dummy) setSubscribed(name string, subscribed bool) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	mbox, ok := d.mailboxes[name]
	if !ok {
		return ErrNoSuchMailbox
	}

	mbox.subscribed = subscribed

	return nil
}

// names returns every existing name, including implied superiors.
func (d *Dummy) names() []string {
	names := make(map[string]struct{})

	for name := range d.mailboxes {
		names[name] = struct{}{}

		for _, superior := range imap.Superiors(name, d.delimiter) {
			names[superior] = struct{}{}
		}
	}

	res := maps.Keys(names)

	slices.Sort(res)

	return res
}

func (d *Dummy) toMailbox(name string) Mailbox {
	mbox := Mailbox{
		Name:      name,
		Delimiter: d.delimiter,
	}

	if dm, ok := d.mailboxes[name]; ok {
		mbox.Attributes = dm.attrs.Add()
		mbox.Subscribed = dm.subscribed
	} else {
		mbox.Attributes = imap.NewFlagSet(imap.AttrNoSelect)
	}

	if d.childState {
		if d.hasInferiors(name) {
			mbox.Attributes = mbox.Attributes.Add(imap.AttrHasChildren)
		} else {
			mbox.Attributes = mbox.Attributes.Add(imap.AttrHasNoChildren)
		}
	}

	return mbox
}

func (d *Dummy) hasInferiors(name string) bool {
	return len(imap.Inferiors(name, d.delimiter, maps.Keys(d.mailboxes))) > 0
}

func (d *Dummy) hasSubscribedInferiors(name string) bool {
	for other, mbox := range d.mailboxes {
		if mbox.subscribed && imap.HasAncestor(other, name, d.delimiter) {
			return true
		}
	}

	return false
}
