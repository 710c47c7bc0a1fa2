package generator

import (
	"io"
)

type OutputWriter interface {
	WriteOpeningTag(name string)
	WriteClosingTag(name string)
	WriteSelfClosingTag(name string)

	// Err returns the first error encountered while writing, if any.
	Err() error
}

type outputWriter struct {
	w   io.Writer
	err error
}

func (w *outputWriter) write(parts ...string) {
	if w.err != nil {
		return
	}

	for _, p := range parts {
		if _, err := io.WriteString(w.w, p); err != nil {
			w.err = err
			return
		}
	}
}

func (w *outputWriter) WriteOpeningTag(name string) {
	w.write("<", name, ">")
}

func (w *outputWriter) WriteClosingTag(name string) {
	w.write("</", name, ">")
}

func (w *outputWriter) WriteSelfClosingTag(name string) {
	w.write("<", name, " />")
}

func (w *outputWriter) Err() error {
	return w.err
}
