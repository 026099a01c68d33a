// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	columnGap = "  "
	nullValue = "-"
)

// cell is a table value with an optional style. Widths are measured on the
// plain text so styled cells stay aligned.
type cell struct {
	text  string
	style *lipgloss.Style
}

// table prints a name column, a vertical rule and value columns, the way
// the similarity tables have always looked:
//
//	      |  a     b
//	------+-----------
//	a     |  1.00  0.50
type table struct {
	header []string
	rows   [][]cell
}

func (t *table) addRow(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if w := lipgloss.Width(c.text); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func (t *table) render(w io.Writer) error {
	widths := t.widths()

	var sb strings.Builder
	writeLine := func(cells []cell) {
		for i := range widths {
			var c cell
			if i < len(cells) {
				c = cells[i]
			}
			text := pad(c.text, widths[i], i > 0)
			if c.style != nil {
				text = c.style.Render(text)
			}
			switch i {
			case 0:
				sb.WriteString(text)
				sb.WriteString(" |")
			default:
				sb.WriteString(columnGap)
				sb.WriteString(text)
			}
		}
		sb.WriteString("\n")
	}

	header := make([]cell, len(t.header))
	for i, h := range t.header {
		header[i] = cell{text: h}
	}
	writeLine(header)

	rest := 0
	for _, width := range widths[1:] {
		rest += len(columnGap) + width
	}
	sb.WriteString(strings.Repeat("-", widths[0]+1))
	sb.WriteString("+")
	sb.WriteString(strings.Repeat("-", rest))
	sb.WriteString("\n")

	for _, row := range t.rows {
		writeLine(row)
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}
