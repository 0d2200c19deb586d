// Package imf reads International Monetary Fund (IMF) data files, e.g. the
// World Economic Outlook database exports. IMF publishes these in a mix of
// encodings (UTF-16 with BOM, windows-1252, plain ASCII), so the package
// detects the file encoding incrementally and exposes a decoded stream for
// the table extractor to consume.
package imf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Detection is the result of encoding detection: the best-guess encoding
// name (IANA-style, lower case) and the confidence in that guess.
type Detection struct {
	Encoding   string
	Confidence float64
}

// detectConfig carries the line budget for incremental detection.
type detectConfig struct {
	minLines int
	maxLines int
}

// DetectOption adjusts how much of the source detection reads.
type DetectOption func(*detectConfig)

// MinLines sets the minimum number of lines to sample before an early,
// confident stop. Default 1.
func MinLines(n int) DetectOption {
	return func(c *detectConfig) { c.minLines = n }
}

// MaxLines caps the number of lines sampled. Special cases: 0 (default)
// reads only as many lines as needed to classify confidently; -1 reads the
// whole source.
func MaxLines(n int) DetectOption {
	return func(c *detectConfig) { c.maxLines = n }
}

// DetectEncoding reports the detected encoding of the file at path. The
// file is opened in binary mode and closed before returning.
func DetectEncoding(path string, opts ...DetectOption) (Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Detection{}, fmt.Errorf("imf: source unavailable: %w", err)
	}
	defer f.Close()
	return DetectEncodingReader(f, opts...)
}

// DetectEncodingReader reports the detected encoding of a raw byte stream.
// The stream is borrowed, never closed, and consumed up to the configured
// line budget.
func DetectEncodingReader(r io.Reader, opts ...DetectOption) (Detection, error) {
	cfg := detectConfig{minLines: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	br := bufio.NewReader(r)

	// BOMs settle it outright.
	if bom, err := br.Peek(3); err == nil || len(bom) >= 2 {
		switch {
		case len(bom) >= 3 && bytes.Equal(bom[:3], []byte{0xEF, 0xBB, 0xBF}):
			return Detection{Encoding: "utf-8-sig", Confidence: 1.0}, nil
		case len(bom) >= 2 && bom[0] == 0xFF && bom[1] == 0xFE:
			return Detection{Encoding: "utf-16le", Confidence: 1.0}, nil
		case len(bom) >= 2 && bom[0] == 0xFE && bom[1] == 0xFF:
			return Detection{Encoding: "utf-16be", Confidence: 1.0}, nil
		}
	}

	var (
		sawHigh   bool // any byte outside ASCII
		validUTF8 = true
	)
	for i := 1; ; i++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			for _, b := range line {
				if b >= 0x80 {
					sawHigh = true
					break
				}
			}
			// A multi-byte UTF-8 sequence never spans a '\n' (continuation
			// bytes are 0x80-0xBF), so per-line validation is exact.
			if sawHigh && !utf8.Valid(line) {
				validUTF8 = false
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Detection{}, fmt.Errorf("imf: detecting encoding: %w", err)
		}
		if cfg.maxLines == -1 {
			continue
		}
		if cfg.maxLines > 0 && i >= cfg.maxLines {
			break
		}
		// With no hard cap, stop once the sample is decisive.
		if cfg.maxLines == 0 && i >= cfg.minLines && sawHigh {
			break
		}
	}

	switch {
	case !sawHigh:
		return Detection{Encoding: "ascii", Confidence: 1.0}, nil
	case validUTF8:
		return Detection{Encoding: "utf-8", Confidence: 0.99}, nil
	default:
		// Bytes above 0x7F that do not form UTF-8: assume the usual IMF
		// single-byte export encoding.
		return Detection{Encoding: "windows-1252", Confidence: 0.73}, nil
	}
}

// encodingFor maps an encoding name to a decoder. Name matching is
// case-insensitive and tolerant of the common aliases.
func encodingFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "ascii", "utf-8-sig":
		// UTF8BOM strips a leading BOM if present and passes UTF-8 through.
		return unicode.UTF8BOM, nil
	case "utf-16", "utf-16le", "utf16", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("imf: unsupported encoding %q", name)
	}
}

// NewReader wraps a borrowed raw stream with a decoder for the named
// encoding, yielding UTF-8 text. An empty name means the stream is already
// UTF-8 (a leading BOM is still stripped).
func NewReader(r io.Reader, encodingName string) (io.Reader, error) {
	enc, err := encodingFor(encodingName)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// decodedFile couples a decoding reader with the file handle it draws from.
type decodedFile struct {
	io.Reader
	f *os.File
}

func (d *decodedFile) Close() error {
	return d.f.Close()
}

// Open opens the file at path decoded from the named encoding to UTF-8.
// An empty encoding name triggers detection first. The returned ReadCloser
// owns the file handle.
func Open(path string, encodingName string) (io.ReadCloser, error) {
	if encodingName == "" {
		det, err := DetectEncoding(path)
		if err != nil {
			return nil, err
		}
		encodingName = det.Encoding
	}
	enc, err := encodingFor(encodingName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imf: source unavailable: %w", err)
	}
	return &decodedFile{Reader: transform.NewReader(f, enc.NewDecoder()), f: f}, nil
}
