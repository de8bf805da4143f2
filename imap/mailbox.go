package imap

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
)

// Inbox is the name of the primary mailbox, which is case-insensitive.
const Inbox = "INBOX"

// Canon returns the canonical form of the given name: a first path component equal to root
// (compared case-insensitively) is rewritten to root. An empty root leaves the name unchanged.
func Canon(name, delimiter, root string) string {
	if root == "" {
		return name
	}

	if delimiter == "" {
		if strings.EqualFold(name, root) {
			return root
		}

		return name
	}

	first, rest, found := strings.Cut(name, delimiter)
	if !strings.EqualFold(first, root) {
		return name
	}

	if !found {
		return root
	}

	return root + delimiter + rest
}

// Superiors returns all names superior to the given name, shallowest first.
func Superiors(name, delimiter string) []string {
	if delimiter == "" {
		return nil
	}

	split := strings.Split(name, delimiter)

	var superiors []string

	for i := 1; i < len(split); i++ {
		superiors = append(superiors, strings.Join(split[0:i], delimiter))
	}

	return superiors
}

// Split returns the parent name and the last path component of the given name.
// The parent is empty for a name without delimiters.
func Split(name, delimiter string) (parent, label string) {
	if delimiter == "" {
		return "", name
	}

	idx := strings.LastIndex(name, delimiter)
	if idx < 0 {
		return "", name
	}

	return name[:idx], name[idx+len(delimiter):]
}

// Level returns the depth of the name, which is the number of delimiters it contains.
func Level(name, delimiter string) int {
	if delimiter == "" {
		return 0
	}

	return strings.Count(name, delimiter)
}

// HasAncestor returns true if ancestor is a strict superior of name.
func HasAncestor(name, ancestor, delimiter string) bool {
	return delimiter != "" && strings.HasPrefix(name, ancestor+delimiter)
}

// Inferiors returns the names in the given list that are strict inferiors of parent.
func Inferiors(parent, delimiter string, names []string) []string {
	return xslices.Filter(names, func(name string) bool {
		return HasAncestor(name, parent, delimiter)
	})
}
