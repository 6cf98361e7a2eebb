package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bloxtools/bloxsync/internal/config"
	"github.com/bloxtools/bloxsync/internal/mapping"
)

// ProductRow is one rendered line of the product table.
type ProductRow struct {
	Key    string
	Type   string
	Name   string
	Price  int64
	ID     int64
	Source string // "config", "mapping" or "unsynced"
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	tableDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// BuildProductRows assembles sorted table rows from the manifest and the
// mapping, resolving each product's remote ID the same way codegen does.
func BuildProductRows(cfg *config.Config, store *mapping.Store) []ProductRow {
	keys := make([]string, 0, len(cfg.Products))
	for key := range cfg.Products {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]ProductRow, 0, len(keys))
	for _, key := range keys {
		p := cfg.Products[key]
		row := ProductRow{
			Key:    key,
			Type:   p.Type.Display(),
			Name:   p.Name,
			Price:  p.Price,
			Source: "unsynced",
		}
		switch {
		case p.ProductID != 0:
			row.ID = p.ProductID
			row.Source = "config"
		default:
			if entry := store.Get(key); entry != nil {
				row.ID = entry.RobloxID
				row.Source = "mapping"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderProductTable renders rows as an aligned table for list output.
func RenderProductTable(rows []ProductRow) string {
	headers := []string{"KEY", "TYPE", "NAME", "PRICE", "ID", "SOURCE"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		id := "-"
		if r.ID != 0 {
			id = fmt.Sprintf("%d", r.ID)
		}
		cells = append(cells, []string{r.Key, r.Type, r.Name, Robux(r.Price), id, r.Source})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string, style lipgloss.Style, styled bool) {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		line := strings.TrimRight(strings.Join(parts, "  "), " ")
		if styled {
			line = style.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	writeRow(headers, tableHeaderStyle, true)

	total := len(headers)*2 - 2
	for _, w := range widths {
		total += w
	}
	b.WriteString(tableBorderStyle.Render(strings.Repeat("─", total)))
	b.WriteString("\n")

	for i, row := range cells {
		writeRow(row, tableDimStyle, rows[i].Source == "unsynced")
	}

	return b.String()
}
