package agiprotocol

import "math"

// Byte classes used by the header and response parsers.
const (
	className  = 1 << iota // a-z 0-9 - _
	classDigit             // 0-9
)

var byteClass = func() (t [256]uint8) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= className
	}
	for c := '0'; c <= '9'; c++ {
		t[c] |= className | classDigit
	}
	t['-'] |= className
	t['_'] |= className
	return
}()

func isNameChar(c byte) bool { return byteClass[c]&className != 0 }
func isDigit(c byte) bool    { return byteClass[c]&classDigit != 0 }

// atoi parses a leading decimal integer the way C atoi/strtol do: optional
// leading whitespace, an optional sign, then digits up to the first
// non-digit. It returns 0 when no digits are present.
func atoi(s string) int64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || (s[i] >= '\t' && s[i] <= '\r')) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	var n int64
	for ; i < len(s) && isDigit(s[i]); i++ {
		d := int64(s[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			// strtol saturates
			n = math.MaxInt64
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
