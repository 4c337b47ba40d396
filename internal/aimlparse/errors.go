package aimlparse

import "fmt"

// ParseError is spec.md §7's ParseError kind: malformed XML or AIML
// structure. For XML syntax errors Offset is the decoder's byte offset into
// the source document (line/column are not tracked by encoding/xml, so
// Offset is the best locator available from the stdlib tokenizer); AIML
// structure errors, found after decoding, carry Offset 0.
type ParseError struct {
	Msg    string
	Offset int64
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("aiml parse error at offset %d: %s", e.Offset, e.Msg)
}

func errf(offset int64, format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}
