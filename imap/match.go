package imap

import (
	"fmt"
	"regexp"
	"strings"
)

// Match reports whether the mailbox name matches the LIST pattern.
// The character "*" matches zero or more characters at its position; "%" is similar
// but does not match the hierarchy delimiter.
func Match(pattern, delimiter, name string) bool {
	rx := "^" + regexp.QuoteMeta(pattern) + "$"

	rx = strings.ReplaceAll(rx, `\*`, ".*")

	if delimiter != "" {
		rx = strings.ReplaceAll(rx, "%", fmt.Sprintf("[^%v]*", regexp.QuoteMeta(delimiter)))
	} else {
		rx = strings.ReplaceAll(rx, "%", ".*")
	}

	re, err := regexp.Compile(rx)
	if err != nil {
		return false
	}

	return re.MatchString(name)
}
