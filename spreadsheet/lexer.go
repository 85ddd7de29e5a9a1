package spreadsheet

import "strings"

// splitOperator finds the first '+','-','*','/' in s and returns the
// operands either side of it plus the operator byte. ok is false if no
// operator character appears. Precedence and unary minus are not
// supported: the first operator character found splits the expression,
// full stop, and a leading '-' is only ever accepted as part of shape 1
// (a bare negative integer), never as a unary operator here.
func splitOperator(s string) (left, right string, op byte, ok bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '+' || c == '-' || c == '*' || c == '/' {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), c, true
		}
	}
	return "", "", 0, false
}

// parseInteger parses a run of ASCII digits, optionally preceded by '-', as
// a decimal integer. Leading zeros are accepted here ("007" parses as 7) —
// the leading-zero rejection in label.go applies only to a label's row
// digits, not to generic Integer literals.
func parseInteger(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	digits := s[i:]
	var n int64
	for j := 0; j < len(digits); j++ {
		d := digits[j]
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int64(d-'0')
		if n > 1<<32 {
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	return int32(n), true
}

// splitRange splits "A1:B2" into its two label operands. ok is false if the
// separator is absent, or if either side is empty.
func splitRange(s string) (left, right string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	left = strings.TrimSpace(s[:i])
	right = strings.TrimSpace(s[i+1:])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// stripCall matches "NAME(" ... ")" with nothing trailing, returning the
// trimmed name as written (no case conversion) and the trimmed interior. ok is false if the input isn't
// of that shape, including any trailing characters after the closing ')'.
func stripCall(s string) (name, inner string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || s[len(s)-1] != ')' {
		return "", "", false
	}
	name = strings.TrimSpace(s[:open])
	if name == "" {
		return "", "", false
	}
	inner = strings.TrimSpace(s[open+1 : len(s)-1])
	return name, inner, true
}
