package foldertree

import "github.com/emersion/go-imap/utf7"

// LabelDecoder converts the last path component of a mailbox name for display.
type LabelDecoder func(string) string

// PlainLabels displays labels as they are named on the server.
func PlainLabels(label string) string {
	return label
}

// UTF7Labels decodes labels from the modified UTF-7 encoding used by IMAP servers (RFC 3501 section 5.1.3).
// Labels that are not valid modified UTF-7 are displayed unchanged.
func UTF7Labels(label string) string {
	dec, err := utf7.Encoding.NewDecoder().String(label)
	if err != nil {
		return label
	}

	return dec
}
