package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"finledger/internal/models"

	"github.com/shopspring/decimal"
)

// importColumns is the column layout of an import file: title, type, value, category
const importColumns = 4

var ErrMalformedRow = errors.New("malformed import row")

// RowError reports an invalid row of an import file
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}

// ImportRow is one parsed data row of an import file
type ImportRow struct {
	Line     int
	Title    string
	Type     string
	Value    decimal.Decimal
	Category string
}

// SourceOpener opens a fresh reader over an import source
type SourceOpener func() (io.ReadCloser, error)

// FileSource opens the file at path on every call
func FileSource(path string) SourceOpener {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// ReaderSource serves the same in-memory content on every call
func ReaderSource(content string) SourceOpener {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

// ReadImportRows yields the data rows of the source, skipping the header row and
// blank lines. The sequence stops after the first error. Ranging over it again
// re-opens the source.
func ReadImportRows(ctx context.Context, open SourceOpener) iter.Seq2[ImportRow, error] {
	return func(yield func(ImportRow, error) bool) {
		src, err := open()
		if err != nil {
			yield(ImportRow{}, fmt.Errorf("failed to open import source: %w", err))
			return
		}
		defer src.Close()

		reader := csv.NewReader(src)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		reader.ReuseRecord = true

		headerSeen := false
		for {
			if err := ctx.Err(); err != nil {
				yield(ImportRow{}, err)
				return
			}

			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					yield(ImportRow{}, &RowError{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
					return
				}
				yield(ImportRow{}, fmt.Errorf("failed to read import source: %w", err))
				return
			}

			line, _ := reader.FieldPos(0)
			if isBlankRecord(record) {
				continue
			}
			if !headerSeen {
				headerSeen = true
				continue
			}

			row, err := parseImportRow(line, record)
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func parseImportRow(line int, record []string) (ImportRow, error) {
	if len(record) != importColumns {
		return ImportRow{}, &RowError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d columns, got %d", importColumns, len(record)),
		}
	}

	title := strings.TrimSpace(record[0])
	txType := strings.TrimSpace(record[1])
	rawValue := strings.TrimSpace(record[2])
	category := strings.TrimSpace(record[3])

	if title == "" {
		return ImportRow{}, &RowError{Line: line, Reason: "title is required"}
	}
	if !models.IsValidTransactionType(txType) {
		return ImportRow{}, &RowError{Line: line, Reason: fmt.Sprintf("unknown transaction type %q", txType)}
	}

	value, err := decimal.NewFromString(rawValue)
	if err != nil {
		return ImportRow{}, &RowError{Line: line, Reason: fmt.Sprintf("invalid value %q", rawValue)}
	}
	if err := models.ValidateValue(value); err != nil {
		return ImportRow{}, &RowError{Line: line, Reason: err.Error()}
	}

	if category == "" {
		return ImportRow{}, &RowError{Line: line, Reason: "category is required"}
	}

	return ImportRow{
		Line:     line,
		Title:    title,
		Type:     txType,
		Value:    value,
		Category: category,
	}, nil
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
