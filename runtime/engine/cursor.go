package engine

// Cursor is the lazy pull abstraction shared by token sources and run output.
// Next returns the next token and true, or a zero token and false once the
// sequence is exhausted. Cursors are single-use and not safe for concurrent
// callers.
type Cursor interface {
	Next() (Token, bool)
}

type sliceCursor struct {
	toks []Token
	pos  int
}

func (c *sliceCursor) Next() (Token, bool) {
	if c.pos >= len(c.toks) {
		return Token{}, false
	}
	t := c.toks[c.pos]
	c.pos++
	return t, true
}

// Tokens returns a cursor over a fixed token list.
func Tokens(toks ...Token) Cursor {
	return &sliceCursor{toks: toks}
}

// Values returns a cursor of plain value tokens over vals.
func Values(vals ...any) Cursor {
	toks := make([]Token, len(vals))
	for i, v := range vals {
		toks[i] = Val(v)
	}
	return Tokens(toks...)
}

// Empty returns an exhausted cursor.
func Empty() Cursor {
	return &sliceCursor{}
}

// CursorFunc adapts a pull function to a Cursor.
type CursorFunc func() (Token, bool)

func (f CursorFunc) Next() (Token, bool) { return f() }

// Drain pulls c to exhaustion and returns everything it yielded.
func Drain(c Cursor) []Token {
	var toks []Token
	for {
		t, ok := c.Next()
		if !ok {
			return toks
		}
		toks = append(toks, t)
	}
}

// DrainValues pulls c to exhaustion and returns the yielded payloads.
func DrainValues(c Cursor) []any {
	return payloads(Drain(c))
}

// sequenceOf reports whether v is a nested sequence and returns its elements.
// Sequences appear as token slices, plain value slices, or cursors.
func sequenceOf(v any) ([]Token, bool) {
	switch s := v.(type) {
	case []Token:
		return s, true
	case []any:
		toks := make([]Token, len(s))
		for i, el := range s {
			toks[i] = Val(el)
		}
		return toks, true
	case Cursor:
		return Drain(s), true
	default:
		return nil, false
	}
}
