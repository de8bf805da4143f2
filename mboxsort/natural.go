package mboxsort

// natural compares two strings so that runs of ASCII digits compare by their numeric value.
func natural(a, b string) int {
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j

			for i < len(a) && isDigit(a[i]) {
				i++
			}

			for j < len(b) && isDigit(b[j]) {
				j++
			}

			if res := compareDigits(a[si:i], b[sj:j]); res != 0 {
				return res
			}

			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}

			return 1
		}

		i++
		j++
	}

	return (len(a) - i) - (len(b) - j)
}

// compareDigits compares two runs of digits by value; on equal value the shorter run (fewer leading zeros) wins.
func compareDigits(a, b string) int {
	ta, tb := trimZeros(a), trimZeros(b)

	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}

	for k := 0; k < len(ta); k++ {
		if ta[k] != tb[k] {
			return int(ta[k]) - int(tb[k])
		}
	}

	return len(a) - len(b)
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}

	return s
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
