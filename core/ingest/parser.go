package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxCSVSize caps accepted CSV payloads at 10 MiB, checked before decoding.
const MaxCSVSize = 10 << 20

var (
	ErrPayloadTooLarge = errors.New("file exceeds the 10MB size limit")
	ErrEmptyData       = errors.New("CSV file contains no data rows")
)

type (
	// EncodingError reports content that is not valid UTF-8.
	EncodingError struct{ Err error }

	// FormatError reports content that is not well-formed CSV
	// (unbalanced quotes, inconsistent column counts).
	FormatError struct{ Err error }
)

func (e *EncodingError) Error() string { return "invalid file encoding (UTF-8 required): " + e.Err.Error() }
func (e *EncodingError) Unwrap() error { return e.Err }

func (e *FormatError) Error() string { return "malformed CSV: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

// Record is one non-empty CSV data row, keyed by header field name.
type Record map[string]string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes CSV bytes into header-keyed records. The first row is the
// header; rows where every field is empty are skipped. Restart by calling
// Parse again on the original bytes.
func Parse(content []byte) ([]Record, error) {
	if len(content) > MaxCSVSize {
		return nil, ErrPayloadTooLarge
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, &EncodingError{Err: errors.New("invalid byte sequence")}
	}

	rdr := csv.NewReader(bytes.NewReader(content))
	header, err := rdr.Read()
	if err == io.EOF {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, &FormatError{Err: err}
	}

	var records []Record
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Err: err}
		}

		rec := make(Record, len(header))
		empty := true
		for i, name := range header {
			val := row[i]
			if val != "" {
				empty = false
			}
			rec[name] = val
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyData
	}
	return records, nil
}
