// Package tables reads and writes the CSV tables the pipeline consumes and
// produces. Columns are looked up by a normalized header key, so
// "College Name", "college name" and "College_Name" address the same column.
package tables

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/agentstation/collegemap/pkg/constants"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/logging"
)

// Encodings reported by Table.Encoding.
const (
	UTF8   = "utf-8"
	Latin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a CSV file held in memory.
type Table struct {
	Path     string
	Header   []string
	Encoding string

	rows  [][]string
	index map[string]int
}

// Key normalizes a header for lookup: letters and digits only, lowercased.
func Key(header string) string {
	var b strings.Builder
	for _, r := range header {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Read loads a UTF-8 CSV file. Bytes that are not valid UTF-8 yield an
// error matching errors.ErrEncoding.
func Read(path string) (*Table, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.NewIOError("decode", path, errors.ErrEncoding)
	}
	return Parse(bytes.NewReader(data), path, UTF8)
}

// ReadWithFallback loads a CSV file as UTF-8 and falls back to Latin-1 when
// the bytes are not valid UTF-8.
func ReadWithFallback(ctx context.Context, path string) (*Table, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(data) {
		return Parse(bytes.NewReader(data), path, UTF8)
	}

	logging.FromContext(ctx).Warn().
		Str("file", path).
		Msg("Input is not valid UTF-8, decoding as Latin-1")
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.NewIOError("decode", path, errors.ErrEncoding)
	}
	return Parse(bytes.NewReader(decoded), path, Latin1)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// Parse reads CSV records from r. The first record is the header. Rows may
// be shorter or longer than the header.
func Parse(r io.Reader, path, encoding string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapIO("parse", path, err)
	}
	if len(records) == 0 {
		return nil, errors.NewValidationError("header", path, "file has no header row")
	}

	t := &Table{
		Path:     path,
		Encoding: encoding,
		rows:     records[1:],
		index:    make(map[string]int, len(records[0])),
	}
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		t.Header = append(t.Header, h)
		if _, dup := t.index[Key(h)]; !dup {
			t.index[Key(h)] = i
		}
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether a column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.index[Key(column)]
	return ok
}

// Require returns a validation error naming the first missing column.
// Each argument may list alternatives separated by "|".
func (t *Table) Require(columns ...string) error {
	for _, column := range columns {
		if t.first(strings.Split(column, "|")) < 0 {
			return errors.NewValidationError("column", column,
				"required column missing from "+filepath.Base(t.Path))
		}
	}
	return nil
}

// Row returns data row i (0-based). Row numbers reported to users are 1-based.
func (t *Table) Row(i int) Row {
	return Row{table: t, values: t.rows[i], Number: i + 1}
}

// Rows returns every data row in file order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = t.Row(i)
	}
	return rows
}

func (t *Table) first(columns []string) int {
	for _, c := range columns {
		if i, ok := t.index[Key(c)]; ok {
			return i
		}
	}
	return -1
}

// Row is one data row of a Table.
type Row struct {
	table  *Table
	values []string
	Number int
}

// Get returns the trimmed value of the first present column among names,
// or "" when none is present.
func (r Row) Get(names ...string) string {
	i := r.table.first(names)
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Extra returns the values of columns outside known, keyed by header.
func (r Row) Extra(known map[string]bool) map[string]string {
	var extra map[string]string
	for i, h := range r.table.Header {
		if known[Key(h)] || h == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		if i < len(r.values) {
			extra[h] = strings.TrimSpace(r.values[i])
		} else {
			extra[h] = ""
		}
	}
	return extra
}

// ExtraColumns returns the headers outside known, in file order.
func (t *Table) ExtraColumns(known map[string]bool) []string {
	var out []string
	for _, h := range t.Header {
		if !known[Key(h)] && h != "" {
			out = append(out, h)
		}
	}
	return out
}

// Write writes header and rows as CSV, creating parent directories.
func Write(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
