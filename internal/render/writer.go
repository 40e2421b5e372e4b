package render

// mode tells the writer how a token relates to the current `$` run.
type mode uint8

const (
	neutral mode = iota // legal inside and outside math
	inMath              // opens a run if none is open
	noMath              // closes the open run
)

// writer accumulates markup. Every token is followed by its end string
// (a single space unless stated otherwise); the `$` that changes the math
// state is glued to the front of the token that caused the change.
type writer struct {
	buf  []byte
	math bool
}

func newWriter(capHint int) *writer {
	return &writer{buf: make([]byte, 0, capHint)}
}

// Bytes returns the accumulated markup.
func (w *writer) Bytes() []byte {
	return w.buf
}

func (w *writer) token(text string, m mode) {
	w.tokenEnd(text, m, " ")
}

func (w *writer) tokenEnd(text string, m mode, end string) {
	switch {
	case m == inMath && !w.math:
		w.buf = append(w.buf, '$')
		w.math = true
	case m == noMath && w.math:
		w.buf = append(w.buf, '$')
		w.math = false
	}
	w.buf = append(w.buf, text...)
	w.buf = append(w.buf, end...)
}

// closeMath terminates an open run with a standalone `$`.
func (w *writer) closeMath() {
	if !w.math {
		return
	}
	w.buf = append(w.buf, '$', ' ')
	w.math = false
}

// raw writes text without touching the math state.
func (w *writer) raw(text string) {
	w.buf = append(w.buf, text...)
}

// separator ends a pseudocode line: close math, ` \; `, newline, indentation.
func (w *writer) separator(indent string, level int) {
	w.closeMath()
	w.raw(` \; ` + "\n")
	for range level {
		w.raw(indent)
	}
}
