package agiprotocol

// HeaderLine is one parsed line of the header block.
type HeaderLine struct {
	Name  Span // header name without the "agi_" prefix
	Value Span // header value without surrounding spaces
	End   bool // the line was the empty line that terminates the block
}

type headerState int

const (
	hsStart headerState = iota
	hsPrefixA
	hsPrefixAG
	hsPrefixAGI
	hsNameStart
	hsName
	hsSpaceBeforeValue
	hsValue
	hsSpaceAfterValue
)

// ParseHeaderLine scans the header line that starts at buf[pos].
//
// It returns the name and value spans of the line, or a line with End set if
// buf[pos] is the block terminator, together with the offset just past the
// line terminator where the next line starts. Scanning the same bytes again
// yields the same spans.
//
// A line that does not start with "agi_", has a byte outside the name class
// in its name, contains a NUL byte, or runs off the end of buf without a
// terminator fails with a *ParseError of kind ErrKindMalformedLine.
func ParseHeaderLine(buf []byte, pos int) (HeaderLine, int, error) {
	var line HeaderLine
	state := hsStart

	for p := pos; p < len(buf); p++ {
		ch := buf[p]

		switch state {
		case hsStart:
			switch ch {
			case 'a':
				state = hsPrefixA
			case LineTerminator:
				line.End = true
				return line, p + 1, nil
			default:
				return line, pos, malformedLine(buf, pos, p)
			}

		case hsPrefixA:
			if ch != 'g' {
				return line, pos, malformedLine(buf, pos, p)
			}
			state = hsPrefixAG

		case hsPrefixAG:
			if ch != 'i' {
				return line, pos, malformedLine(buf, pos, p)
			}
			state = hsPrefixAGI

		case hsPrefixAGI:
			if ch != '_' {
				return line, pos, malformedLine(buf, pos, p)
			}
			state = hsNameStart

		case hsNameStart:
			if !isNameChar(ch) {
				return line, pos, malformedLine(buf, pos, p)
			}
			line.Name.From = p
			state = hsName

		case hsName:
			switch {
			case isNameChar(ch):
			case ch == ':':
				line.Name.Edge = p
				state = hsSpaceBeforeValue
			case ch == LineTerminator:
				// A name without a colon carries an empty value.
				line.Name.Edge = p
				line.Value = Span{From: p, Edge: p}
				return line, p + 1, nil
			default:
				return line, pos, malformedLine(buf, pos, p)
			}

		case hsSpaceBeforeValue:
			switch ch {
			case ' ':
			case LineTerminator:
				line.Value = Span{From: p, Edge: p}
				return line, p + 1, nil
			case 0:
				return line, pos, malformedLine(buf, pos, p)
			default:
				line.Value.From = p
				state = hsValue
			}

		case hsValue:
			switch ch {
			case ' ':
				line.Value.Edge = p
				state = hsSpaceAfterValue
			case LineTerminator:
				line.Value.Edge = p
				return line, p + 1, nil
			case 0:
				return line, pos, malformedLine(buf, pos, p)
			}

		case hsSpaceAfterValue:
			switch ch {
			case ' ':
			case LineTerminator:
				// Value.Edge stays at the first trailing space.
				return line, p + 1, nil
			case 0:
				return line, pos, malformedLine(buf, pos, p)
			default:
				state = hsValue
			}
		}
	}

	return line, pos, malformedLine(buf, pos, len(buf))
}

// malformedLine reports the line starting at start, failing at offset at.
func malformedLine(buf []byte, start, at int) error {
	return newMalformedLineError(lineAt(buf, start), at)
}

// lineAt returns the line starting at start without its terminator,
// truncated to a length that is useful in an error message.
func lineAt(buf []byte, start int) []byte {
	const maxQuoted = 120
	end := start
	for end < len(buf) && buf[end] != LineTerminator && end-start < maxQuoted {
		end++
	}
	return buf[start:end]
}
