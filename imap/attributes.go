package imap

// Mailbox name attributes as reported in LIST and LSUB responses (RFC 3501 section 7.2.2 and RFC 3348).
const (
	AttrNoSelect      = `\Noselect`
	AttrNoInferiors   = `\Noinferiors`
	AttrMarked        = `\Marked`
	AttrUnmarked      = `\Unmarked`
	AttrHasChildren   = `\HasChildren`
	AttrHasNoChildren = `\HasNoChildren`
)
