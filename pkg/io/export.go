package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kbmatrix/pkg/record"
)

// Writer writes records as JSON Lines. Output is buffered; call Flush when
// done.
type Writer struct {
	buf *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Write appends rec as one line.
func (w *Writer) Write(rec record.Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	w.n++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.n }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.buf.Flush() }

// WriteLines writes each line's bytes followed by a newline.
func WriteLines(w io.Writer, lines []Line) error {
	buf := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := buf.Write(l.Raw); err != nil {
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// ExportJSONL writes lines to the file at path, replacing it.
// This is a convenience wrapper around [WriteLines] for file-based output.
func ExportJSONL(path string, lines []Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
