// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/collegemap/pkg/errors"
)

// Format selects how a command writes its result.
type Format string

const (
	// FormatTable renders aligned tables for terminals.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value. The empty string selects the table.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml")
	}
}

// Align is the alignment of one table column.
type Align int

const (
	// AlignDefault leaves the column to tablewriter.
	AlignDefault Align = iota
	// AlignLeft is used for names and locations.
	AlignLeft
	// AlignCenter is used for short flags such as match status.
	AlignCenter
	// AlignRight is used for ranks, scores and counts.
	AlignRight
)

func (a Align) tw() tw.Align {
	switch a {
	case AlignLeft:
		return tw.AlignLeft
	case AlignCenter:
		return tw.AlignCenter
	case AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

// Data is a pre-rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// Formatter writes a value in one format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format, defaulting to tables.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return jsonFormatter{indent: "  "}
	case FormatYAML:
		return yamlFormatter{}
	default:
		return tableFormatter{}
	}
}

type jsonFormatter struct {
	indent string
}

func (f jsonFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.indent)
	return encoder.Encode(data)
}

type yamlFormatter struct{}

func (yamlFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// tableFormatter renders Data directly. Structs become a property/value
// table and struct slices one row per element; anything else falls back
// to JSON.
type tableFormatter struct{}

func (f tableFormatter) Format(w io.Writer, data any) error {
	if d, ok := data.(Data); ok {
		return render(w, d)
	}
	if d, ok := toData(data); ok {
		return render(w, d)
	}
	return jsonFormatter{indent: "  "}.Format(w, data)
}

func render(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		aligns := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			aligns[i] = a.tw()
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: aligns}
		config.Row.Alignment = tw.CellAlignment{PerColumn: aligns}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		table.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toData(data any) (Data, bool) {
	v := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case v.Kind() == reflect.Struct:
		return structData(v), true
	case v.Kind() == reflect.Slice && v.Len() > 0 && reflect.Indirect(v.Index(0)).Kind() == reflect.Struct:
		return sliceData(v), true
	default:
		return Data{}, false
	}
}

// column is an exported struct field shown in tables.
type column struct {
	index int
	label string
}

// columns lists the fields of t in declaration order, labelled from their
// json tags. Unexported fields and fields tagged `json:"-"` are skipped.
func columns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		cols = append(cols, column{index: i, label: headerName(name)})
	}
	return cols
}

func structData(v reflect.Value) Data {
	data := Data{
		Headers:         []string{"Property", "Value"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
	for _, col := range columns(v.Type()) {
		data.Rows = append(data.Rows, []string{col.label, cell(v.Field(col.index))})
	}
	return data
}

func sliceData(v reflect.Value) Data {
	cols := columns(reflect.Indirect(v.Index(0)).Type())
	data := Data{Headers: make([]string, len(cols))}
	for i, col := range cols {
		data.Headers[i] = col.label
	}
	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = cell(elem.Field(col.index))
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// cell renders one field. Nil pointers (an unranked college) are blank.
func cell(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch x := v.Interface().(type) {
	case time.Duration:
		return x.Round(time.Millisecond).String()
	case fmt.Stringer:
		return x.String()
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// headerName title-cases a json tag: "unique_courses" becomes "Unique Courses".
func headerName(tag string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}
