package agiprotocol

import (
	"strconv"
	"strings"
)

// Result is the outcome of one command: the result code and the optional
// data that followed it on the response line.
type Result struct {
	Code int
	Data string

	// CodeText is the result code as sent. Commands that collect digits
	// return them as the code, leading zeros included.
	CodeText string
}

// Failed reports whether the command returned the generic failure code -1.
func (r Result) Failed() bool {
	return r.Code == ResultFailure
}

// Digit returns the key for commands that return the ASCII code of a
// DTMF digit, such as "#" for 35. It is empty for 0 and failures.
func (r Result) Digit() string {
	if r.Code <= 0 || r.Code > 127 {
		return ""
	}
	return string(rune(r.Code))
}

// Value returns the text inside the parentheses that open the data, as in
// "200 result=1 (value)". The second result is false if the data does not
// start with a parenthesized value.
func (r Result) Value() (string, bool) {
	if !strings.HasPrefix(r.Data, "(") {
		return "", false
	}
	end := strings.LastIndexByte(r.Data, ')')
	if end < 0 {
		return "", false
	}
	return r.Data[1:end], true
}

// Attr returns the value of a key=value token in the data, such as endpos
// in "200 result=0 endpos=1234".
func (r Result) Attr(key string) (string, bool) {
	rest := r.Data
	if strings.HasPrefix(rest, "(") {
		if end := strings.LastIndexByte(rest, ')'); end >= 0 {
			rest = rest[end+1:]
		}
	}
	for _, field := range strings.Fields(rest) {
		if k, v, ok := strings.Cut(field, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// String returns the result formatted as a response line without terminator.
func (r Result) String() string {
	if r.Data == "" {
		return ResultPrefix + strconv.Itoa(r.Code)
	}
	return ResultPrefix + strconv.Itoa(r.Code) + " " + r.Data
}

type responseState int

const (
	rsPrefix responseState = iota
	rsResultStart
	rsSign
	rsDigits
	rsSpaceBeforeData
	rsData
)

// ParseResponseLine parses the response line at the start of buf.
//
// The line must be "200 result=" followed by an optionally negative decimal
// code, then either the terminator or spaces and a data payload up to the
// terminator. The data is returned verbatim, parentheses included. It
// returns the offset just past the terminator.
//
// Any other line, a lone "-" without digits, a code that does not fit in an
// int, a NUL byte or a missing terminator fails with a *ParseError of kind
// ErrKindMalformedResponse.
func ParseResponseLine(buf []byte) (Result, int, error) {
	var (
		code, data Span
		matched    int
	)
	state := rsPrefix

	for p := 0; p < len(buf); p++ {
		ch := buf[p]

		switch state {
		case rsPrefix:
			if ch != ResultPrefix[matched] {
				return Result{}, 0, malformedResponse(buf, p)
			}
			if matched++; matched == len(ResultPrefix) {
				state = rsResultStart
			}

		case rsResultStart:
			code.From = p
			switch {
			case ch == '-':
				state = rsSign
			case isDigit(ch):
				state = rsDigits
			default:
				return Result{}, 0, malformedResponse(buf, p)
			}

		case rsSign:
			// "200 result=-" is not a number
			if !isDigit(ch) {
				return Result{}, 0, malformedResponse(buf, p)
			}
			state = rsDigits

		case rsDigits:
			switch {
			case isDigit(ch):
			case ch == LineTerminator:
				code.Edge = p
				data = Span{From: p, Edge: p}
				return finishResponse(buf, code, data, p+1)
			case ch == ' ':
				code.Edge = p
				state = rsSpaceBeforeData
			default:
				return Result{}, 0, malformedResponse(buf, p)
			}

		case rsSpaceBeforeData:
			switch ch {
			case ' ':
			case LineTerminator:
				data = Span{From: p, Edge: p}
				return finishResponse(buf, code, data, p+1)
			case 0:
				return Result{}, 0, malformedResponse(buf, p)
			default:
				data.From = p
				state = rsData
			}

		case rsData:
			switch ch {
			case LineTerminator:
				data.Edge = p
				return finishResponse(buf, code, data, p+1)
			case 0:
				return Result{}, 0, malformedResponse(buf, p)
			}
		}
	}

	return Result{}, 0, malformedResponse(buf, len(buf))
}

func finishResponse(buf []byte, code, data Span, next int) (Result, int, error) {
	text := string(code.Bytes(buf))
	n, err := strconv.Atoi(text)
	if err != nil {
		return Result{}, 0, malformedResponse(buf, code.From)
	}
	return Result{Code: n, Data: string(data.Bytes(buf)), CodeText: text}, next, nil
}

func malformedResponse(buf []byte, at int) error {
	return newMalformedResponseError(lineAt(buf, 0), at)
}
