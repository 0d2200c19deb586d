// Package extract normalizes irregular, human-formatted statistical CSV
// exports into well-formed rows. Agency releases routinely embed newlines
// inside quoted cells, mix metadata blocks with data blocks of different
// widths, and vary the delimiter between releases, so the standard library
// csv reader is too strict on the read side. The extractor reassembles
// logical rows across physical lines and leaves policy decisions (width
// enforcement) to the caller.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors reported by the extractor. Callers match them with errors.Is.
var (
	// ErrMalformedQuoting indicates the source ended while a quoted field was
	// still open. The input is structurally broken; nothing is recovered.
	ErrMalformedQuoting = errors.New("unterminated quoted field at end of input")

	// ErrInconsistentRowWidth indicates a row's cell count differs from the
	// table width established by the first row. Only reported when width
	// checking is enabled.
	ErrInconsistentRowWidth = errors.New("inconsistent row width")
)

// Option configures an Extractor at construction time.
type Option func(*Extractor)

// WithDelimiter sets the field delimiter. Default is ','.
func WithDelimiter(d rune) Option {
	return func(e *Extractor) { e.delimiter = d }
}

// WithWidthCheck enables strict width validation: the first emitted row
// fixes the table width and any later row with a different cell count fails
// with ErrInconsistentRowWidth. Disabled by default because real agency
// files legitimately mix blocks of different widths; higher-level readers
// enforce width per block instead.
func WithWidthCheck(enabled bool) Option {
	return func(e *Extractor) { e.widthCheck = enabled }
}

// Extractor produces logical rows from a delimited text source, carrying
// quote state across physical line boundaries. It is forward-only and not
// restartable: once Next returns a non-nil error the extractor is exhausted.
//
// An Extractor is not safe for concurrent use; independent extractions over
// independent sources share no state and may run concurrently.
type Extractor struct {
	delimiter  rune
	widthCheck bool

	r     *bufio.Reader
	owned io.Closer // non-nil only when the extractor opened the source itself

	width    int  // established table width
	widthSet bool // width is only meaningful once the first row is emitted
	line     int  // physical line currently being consumed (1-based)
	rowLine  int  // physical line on which the last returned row started
	err      error
	closed   bool
}

// New returns an Extractor reading from r. The stream is borrowed: the
// extractor never closes it, and Close is a no-op.
func New(r io.Reader, opts ...Option) *Extractor {
	e := &Extractor{
		delimiter: ',',
		r:         bufio.NewReader(r),
		line:      1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OpenFile returns an Extractor over the file at path. The extractor owns
// the handle: it is closed when extraction completes, fails, or the caller
// calls Close (callers should defer Close to cover early abandonment).
// An unreadable or missing path is reported here, before any row is read.
func OpenFile(path string, opts ...Option) (*Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: source unavailable: %w", err)
	}
	e := New(f, opts...)
	e.owned = f
	return e, nil
}

// Next returns the next logical row. It returns io.EOF once the source is
// exhausted, ErrMalformedQuoting (wrapped) if the source ends inside a
// quoted field, and ErrInconsistentRowWidth (wrapped) on a width violation
// when width checking is enabled. The returned slice is freshly allocated
// and never reused.
func (e *Extractor) Next() ([]string, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.closed {
		return nil, io.EOF
	}
	for {
		row, err := e.readLogicalRow()
		if err != nil {
			return nil, e.fail(err)
		}
		if row == nil {
			continue // blank physical line: no row
		}
		if e.widthCheck {
			if !e.widthSet {
				e.width = len(row)
				e.widthSet = true
			} else if len(row) != e.width {
				return nil, e.fail(fmt.Errorf("extract: line %d: row has %d cells, want %d: %w",
					e.rowLine, len(row), e.width, ErrInconsistentRowWidth))
			}
		}
		return row, nil
	}
}

// ReadAll drains the extractor, returning every remaining row. A subsequent
// structural error discards nothing already returned by earlier Next calls,
// but ReadAll itself returns only the error.
func (e *Extractor) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := e.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Line reports the physical line number (1-based) on which the most
// recently returned row started. Useful for caller-side error context.
func (e *Extractor) Line() int {
	return e.rowLine
}

// Close releases the underlying file when the extractor owns it and marks
// the extractor exhausted. It is idempotent and a no-op for borrowed
// streams.
func (e *Extractor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.closeOwned()
}

// fail records the terminal error and releases an owned source so the file
// handle never outlives a failed or completed extraction.
func (e *Extractor) fail(err error) error {
	e.err = err
	if cerr := e.closeOwned(); cerr != nil && err == io.EOF {
		e.err = cerr
	}
	return e.err
}

func (e *Extractor) closeOwned() error {
	if e.owned == nil {
		return nil
	}
	c := e.owned
	e.owned = nil
	if err := c.Close(); err != nil {
		return fmt.Errorf("extract: closing source: %w", err)
	}
	return nil
}

// consumeNewline reports whether the next rune is '\n', consuming it when it
// is. Used after a '\r' to distinguish a CRLF terminator from a bare
// carriage return.
func (e *Extractor) consumeNewline() (bool, error) {
	next, _, err := e.r.ReadRune()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if next == '\n' {
		return true, nil
	}
	if uerr := e.r.UnreadRune(); uerr != nil {
		return false, uerr
	}
	return false, nil
}

// readLogicalRow consumes physical lines until a complete logical row is
// assembled. It returns (nil, nil) for a blank physical line, io.EOF at the
// end of the source, and ErrMalformedQuoting when the source ends with the
// quote state still open.
func (e *Extractor) readLogicalRow() ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool // currently inside a quoted span
		quoted   bool // current field began with a quote
		started  bool // any content consumed for this row
	)
	e.rowLine = e.line

	for {
		r, _, err := e.r.ReadRune()
		if err == io.EOF {
			if inQuotes {
				return nil, fmt.Errorf("extract: line %d: %w", e.rowLine, ErrMalformedQuoting)
			}
			if !started {
				return nil, io.EOF
			}
			fields = append(fields, field.String())
			return fields, nil
		}
		if err != nil {
			return nil, fmt.Errorf("extract: line %d: %w", e.line, err)
		}

		if inQuotes {
			if r == '\r' {
				// CRLF line terminators appear inside quoted spans too;
				// normalize them so multi-line cells carry plain '\n'.
				crlf, perr := e.consumeNewline()
				if perr != nil {
					return nil, fmt.Errorf("extract: line %d: %w", e.line, perr)
				}
				if crlf {
					e.line++
					field.WriteRune('\n')
				} else {
					field.WriteRune('\r')
				}
				continue
			}
			if r != '"' {
				if r == '\n' {
					e.line++
				}
				field.WriteRune(r)
				continue
			}
			// Peek for the CSV convention of a doubled quote escaping a
			// literal quote inside a quoted span.
			next, _, nerr := e.r.ReadRune()
			if nerr == nil {
				if next == '"' {
					field.WriteRune('"')
					continue
				}
				if uerr := e.r.UnreadRune(); uerr != nil {
					return nil, fmt.Errorf("extract: line %d: %w", e.line, uerr)
				}
			} else if nerr != io.EOF {
				return nil, fmt.Errorf("extract: line %d: %w", e.line, nerr)
			}
			inQuotes = false
			continue
		}

		switch {
		case r == '"' && field.Len() == 0 && !quoted:
			inQuotes = true
			quoted = true
			started = true
		case r == e.delimiter:
			started = true
			fields = append(fields, field.String())
			field.Reset()
			quoted = false
		case r == '\n':
			e.line++
			if !started {
				return nil, nil
			}
			fields = append(fields, field.String())
			return fields, nil
		case r == '\r':
			crlf, perr := e.consumeNewline()
			if perr != nil {
				return nil, fmt.Errorf("extract: line %d: %w", e.line, perr)
			}
			if crlf {
				e.line++
				if !started {
					return nil, nil
				}
				fields = append(fields, field.String())
				return fields, nil
			}
			// A bare carriage return is cell content, not a terminator.
			started = true
			field.WriteRune('\r')
		default:
			started = true
			field.WriteRune(r)
		}
	}
}
