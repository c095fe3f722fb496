package scan

// Span is one balanced, top-level {...} block of the scanned text.
type Span struct {
	Start int    // byte offset of the opening brace
	End   int    // byte offset of the closing brace (inclusive)
	Text  string // text[Start : End+1]
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Result holds the spans found by [Scan] and the scanner state at end of input.
type Result struct {
	Spans []Span

	// Depth is the brace depth at end of input. A positive value means a
	// trailing object was never closed and has been dropped.
	Depth int

	// InString reports whether the input ended inside a string literal.
	InString bool

	// Unmatched counts closing braces seen at depth zero and ignored.
	Unmatched int
}

// Truncated reports whether an unfinished object was dropped at end of input.
func (r Result) Truncated() bool { return r.Depth > 0 }

// Extract returns the top-level object spans of text in the order their
// closing brace appears.
func Extract(text string) []Span {
	return Scan(text).Spans
}

// Scan runs the object scanner over text and returns the spans together with
// the final scanner state.
func Scan(text string) Result {
	s := scanner{start: -1}
	for i := 0; i < len(text); i++ {
		if s.step(text[i], i) {
			s.spans = append(s.spans, Span{Start: s.start, End: i, Text: text[s.start : i+1]})
			s.start = -1
		}
	}
	return Result{
		Spans:     s.spans,
		Depth:     s.depth,
		InString:  s.inString,
		Unmatched: s.unmatched,
	}
}

// scanner is the quote/escape and brace-depth state machine. Every byte it
// reacts to is ASCII, so stepping over UTF-8 input byte by byte is safe.
type scanner struct {
	inString  bool
	delim     byte
	escaped   bool
	depth     int
	start     int
	unmatched int
	spans     []Span
}

// step consumes the byte c at offset i and reports whether it closed a
// top-level span.
func (s *scanner) step(c byte, i int) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == s.delim:
			s.inString = false
			s.delim = 0
		}
		return false
	}

	switch c {
	case '"', '\'':
		s.inString = true
		s.delim = c
	case '{':
		if s.depth == 0 {
			s.start = i
		}
		s.depth++
	case '}':
		if s.depth == 0 {
			s.unmatched++
			return false
		}
		s.depth--
		return s.depth == 0 && s.start >= 0
	}
	return false
}
