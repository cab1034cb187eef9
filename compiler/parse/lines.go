package parse

// joinLines blanks out line breaks that do not end a logical line:
// the ones inside brackets and the ones escaped with a backslash.
// Comments inside brackets are blanked too.
// Byte offsets are preserved, b is copied only if anything changes.
func joinLines(b []byte) []byte {
	var r []byte

	blank := func(i int) {
		if r == nil {
			r = append([]byte{}, b...)
		}

		r[i] = ' '
	}

	depth := 0

	for i := 0; i < len(b); {
		switch b[i] {
		case '#':
			for ; i < len(b) && b[i] != '\n'; i++ {
				if depth > 0 {
					blank(i)
				}
			}
		case '"', '\'':
			i = skipString(b, i)
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}

			i++
		case '\\':
			j := i + 1
			if j < len(b) && b[j] == '\r' {
				j++
			}

			if j < len(b) && b[j] == '\n' {
				for ; i <= j; i++ {
					blank(i)
				}

				continue
			}

			i++
		case '\n':
			if depth > 0 {
				blank(i)
			}

			i++
		default:
			i++
		}
	}

	if r == nil {
		return b
	}

	return r
}

// skipString returns the end of the string literal at st.
// An unterminated single quoted string stops at the line end, Str reports it.
func skipString(b []byte, st int) int {
	q := b[st]
	long := isTriple(b, st)

	i := st + 1
	if long {
		i = st + 3
	}

	for i < len(b) {
		switch c := b[i]; {
		case c == '\\':
			i += 2
		case long && isTriple(b, i) && c == q:
			return i + 3
		case !long && c == q:
			return i + 1
		case !long && c == '\n':
			return i
		default:
			i++
		}
	}

	return len(b)
}

func isTriple(b []byte, i int) bool {
	return i+2 < len(b) && b[i] == b[i+1] && b[i] == b[i+2]
}
