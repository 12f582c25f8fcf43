package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type CellKind string

const (
	CellCheckbox CellKind = "checkbox"
	CellAvatar   CellKind = "avatar"
	CellText     CellKind = "text"
	CellRaw      CellKind = "raw"
)

// Cell is a rendered table cell.
type Cell struct {
	Kind    CellKind `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Checked bool     `json:"checked,omitempty"`
	Src     string   `json:"src,omitempty"`
	Raw     any      `json:"raw,omitempty"`
}

var printer = message.NewPrinter(language.AmericanEnglish)

const (
	dateLayout     = "1/2/2006"
	dateTimeLayout = "1/2/2006, 3:04:05 PM"
)

// RenderCell renders the value of col in row according to the column datatype.
func RenderCell(row Row, col Column, selected bool) Cell {
	v := row[col.ID]
	switch col.DataType {
	case TypeSelect:
		return Cell{Kind: CellCheckbox, Checked: selected}
	case TypeImage:
		src, _ := v.(string)
		return Cell{Kind: CellAvatar, Src: src}
	case TypeDate:
		return Cell{Kind: CellText, Text: FormatDate(v, dateLayout)}
	case TypeDateTime:
		return Cell{Kind: CellText, Text: FormatDate(v, dateTimeLayout)}
	case TypeNumber:
		return Cell{Kind: CellText, Text: FormatNumber(v)}
	default:
		return Cell{Kind: CellRaw, Raw: v}
	}
}

// FormatDate renders v in US locale order, or "" when v is absent.
func FormatDate(v any, layout string) string {
	if v == nil {
		return ""
	}
	if t, ok := toTime(v); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	if s == "" {
		return ""
	}
	for _, l := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(layout)
		}
	}
	return s
}

// FormatNumber renders v with US digit grouping, keeping up to three
// fraction digits.
func FormatNumber(v any) string {
	f, ok := toFloat(v)
	if !ok {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return printer.Sprint(number.Decimal(int64(f)))
	}
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
