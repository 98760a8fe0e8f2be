package migrate

// FullStatement scans data for one complete top-level statement and returns
// the number of bytes it occupies, including the terminating semicolon.
// Semicolons inside strings, backtick-quoted names, dollar-quoted text,
// comments, or nested brackets do not terminate a statement. ok is false
// when data holds no complete statement.
func FullStatement(data []byte) (n int, ok bool) {
	depth := 0
	i := 0
	for i < len(data) {
		switch c := data[i]; c {
		case '#':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case '\'', '"':
			end, found := scanQuoted(data, i, c, true)
			if !found {
				return 0, false
			}
			i = end
		case '`':
			end, found := scanQuoted(data, i, '`', false)
			if !found {
				return 0, false
			}
			i = end
		case '$':
			end, isQuote, found := scanDollarQuoted(data, i)
			if !isQuote {
				// a bare $ such as an argument reference
				i++
			} else if !found {
				return 0, false
			} else {
				i = end
			}
		case 'r', 'b':
			// raw and byte string prefixes, which suppress escapes
			if i+1 < len(data) &&
				(data[i+1] == '\'' || data[i+1] == '"') &&
				(i == 0 || !isIdentChar(data[i-1])) {
				end, found := scanQuoted(data, i+1, data[i+1], false)
				if !found {
					return 0, false
				}
				i = end
			} else {
				i++
			}
		case '{', '(', '[':
			depth++
			i++
		case '}', ')', ']':
			if depth > 0 {
				depth--
			}
			i++
		case ';':
			if depth == 0 {
				return i + 1, true
			}
			i++
		default:
			i++
		}
	}
	return 0, false
}

// IsBlank reports whether s holds only whitespace and comments.
func IsBlank(s string) bool {
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		default:
			return false
		}
	}
	return true
}

// scanQuoted consumes a quoted region opened at data[start] and closed by
// quote, honoring backslash escapes only when escapes is set. It returns
// the index just past the closing quote.
func scanQuoted(data []byte, start int, quote byte, escapes bool) (end int, found bool) {
	i := start + 1
	for i < len(data) {
		switch data[i] {
		case '\\':
			if escapes {
				i += 2
				continue
			}
			i++
		case quote:
			return i + 1, true
		default:
			i++
		}
	}
	return 0, false
}

// scanDollarQuoted consumes a $tag$ ... $tag$ region opened at data[start].
// isQuote is false when the dollar sign does not open a quote at all.
func scanDollarQuoted(data []byte, start int) (end int, isQuote, found bool) {
	j := start + 1
	for j < len(data) && isIdentChar(data[j]) {
		j++
	}
	if j >= len(data) || data[j] != '$' {
		return 0, false, false
	}
	tag := data[start : j+1]
	for i := j + 1; i+len(tag) <= len(data); i++ {
		if string(data[i:i+len(tag)]) == string(tag) {
			return i + len(tag), true, true
		}
	}
	return 0, true, false
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
