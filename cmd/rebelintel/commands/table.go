package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// cell renders a cleaned field value for display.
func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = cell(p)
		}
		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprint(value)
}
