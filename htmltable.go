package main

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Fixed header sets for the portal's list pages. The pages render tables
// without a usable header row, so column names are attached by arity: the
// RAL list always has 13 columns, the REC list 9.
var (
	ralTableHeaders = []string{
		"Designação", "Tipo Ral", "Anorm.", "Num.Recup.", "Abertura", "Duração",
		"Item", "CF Exec.", "Ass.", "Técn.", "Resp.", "Anatel", "Prejuízo",
	}
	recTableHeaders = []string{
		"ID", "Prioridade", "Num.Recup.", "Cliente", "Designação", "Abertura",
		"CF Exec.", "Resp.", "Técnico",
	}
)

// extractTable pulls the data table out of a portal page. The pages are
// frame-era HTML full of layout tables; the one with the most text is the
// data table. Rows are filtered to the modal column count to drop title and
// pager rows, then headers are attached by column arity.
func extractTable(page string) (Table, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return Table{}, fmt.Errorf("parse page html: %w", err)
	}

	tables := collectElements(doc, "table")
	if len(tables) == 0 {
		return Table{}, fmt.Errorf("no table found in page")
	}
	data := tables[0]
	best := len(nodeText(data))
	for _, t := range tables[1:] {
		if n := len(nodeText(t)); n > best {
			data, best = t, n
		}
	}

	rows := tableCellText(data)
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("no rows in data table")
	}

	width := modalWidth(rows)
	kept := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(r) == width {
			kept = append(kept, r)
		}
	}
	return Table{Headers: headersForWidth(width), Rows: kept}, nil
}

func headersForWidth(width int) []string {
	switch width {
	case len(ralTableHeaders):
		return append([]string(nil), ralTableHeaders...)
	case len(recTableHeaders):
		return append([]string(nil), recTableHeaders...)
	}
	headers := make([]string, width)
	for i := range headers {
		headers[i] = fmt.Sprintf("col_%d", i)
	}
	return headers
}

// modalWidth returns the most frequent row length; ties keep the earliest
// length seen so extraction stays deterministic.
func modalWidth(rows [][]string) int {
	counts := make(map[int]int)
	var order []int
	for _, r := range rows {
		if counts[len(r)] == 0 {
			order = append(order, len(r))
		}
		counts[len(r)]++
	}
	best := order[0]
	for _, w := range order[1:] {
		if counts[w] > counts[best] {
			best = w
		}
	}
	return best
}

// collectElements walks the node tree depth-first and gathers every element
// with the given tag name.
func collectElements(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		found = append(found, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, collectElements(c, tag)...)
	}
	return found
}

// tableCellText reads every tr under the table into a slice of trimmed cell
// strings, skipping rows with no cells.
func tableCellText(table *html.Node) [][]string {
	var rows [][]string
	for _, tr := range collectElements(table, "tr") {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, strings.TrimSpace(nodeText(c)))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// nodeText concatenates the trimmed text content beneath a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
