package main

import (
	"fmt"
	"strings"
)

// DatasetColumns binds the logical ticket fields to the physical column
// names of one dataset variant. Code is the join key and must be bound; the
// other fields resolve to the N/A sentinel when the binding is empty or the
// column is absent (REC exports carry no duration column at all).
type DatasetColumns struct {
	Code     string `yaml:"code"`
	Type     string `yaml:"type"`
	Desc     string `yaml:"desc"`
	Date     string `yaml:"date"`
	Duration string `yaml:"duration"`
	Num      string `yaml:"num"`
}

// fieldValue reads the named column from a row, trimmed. Unbound fields,
// absent columns and blank cells all resolve to N/A, never to "".
func fieldValue(t Table, row []string, name string) string {
	if name == "" {
		return notAvailable
	}
	idx := t.ColumnIndex(name)
	if idx < 0 || idx >= len(row) {
		return notAvailable
	}
	v := strings.TrimSpace(row[idx])
	if v == "" {
		return notAvailable
	}
	return v
}

// enrichDataset joins every ticket row against the hierarchy index and
// accumulates the per-dataset aggregate. Total is fixed to the raw row count
// before the /SG exclusion so it matches the portal's own counter; items and
// tallies only cover the rows that survive it. A missing code column makes
// the whole dataset unprocessable, which is an error for this dataset only.
func enrichDataset(table Table, index HierarchyIndex, name string, cols DatasetColumns) (DatasetAggregate, error) {
	agg := newDatasetAggregate()
	if cols.Code == "" {
		return agg, fmt.Errorf("dataset %s: code column binding is empty", name)
	}
	codeIdx := table.ColumnIndex(cols.Code)
	if codeIdx < 0 {
		return agg, fmt.Errorf("dataset %s: code column %q not found in header %v", name, cols.Code, table.Headers)
	}

	agg.Total = len(table.Rows)
	for _, row := range table.Rows {
		rawCode := ""
		if codeIdx < len(row) {
			rawCode = strings.TrimSpace(row[codeIdx])
		}
		norm := normalizeCode(rawCode)
		if strings.Contains(norm, sgExclusionMarker) {
			continue
		}

		info, ok := index[norm]
		if !ok {
			info = unknownInfo()
		}

		agg.Clusters.Add(info.Cluster)
		agg.Cities.Add(info.City)

		code := rawCode
		if code == "" {
			code = notAvailable
		}
		agg.Items = append(agg.Items, EnrichedTicket{
			Cluster:     info.Cluster,
			Cidade:      info.City,
			Code:        code,
			RalType:     fieldValue(table, row, cols.Type),
			Description: fieldValue(table, row, cols.Desc),
			Date:        fieldValue(table, row, cols.Date),
			Duration:    fieldValue(table, row, cols.Duration),
			Num:         fieldValue(table, row, cols.Num),
		})
	}
	return agg, nil
}

// enrichedExport returns the raw table with the four classification columns
// appended, for the *_enriched.csv files the spreadsheet consumers read.
// Every raw row is exported, including the /SG rows the aggregates exclude;
// rows the index cannot resolve keep the Unknown markers.
func enrichedExport(table Table, index HierarchyIndex, cols DatasetColumns) Table {
	headers := append(append([]string{}, table.Headers...), "Cluster", "Cidade", "Region", "Type")
	codeIdx := table.ColumnIndex(cols.Code)

	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		info := unknownInfo()
		if codeIdx >= 0 && codeIdx < len(row) {
			norm := normalizeCode(row[codeIdx])
			if !strings.Contains(norm, sgExclusionMarker) {
				if hit, ok := index[norm]; ok {
					info = hit
				}
			}
		}
		out := append(append([]string{}, row...), info.Cluster, info.City, info.Region, info.Type)
		rows = append(rows, out)
	}
	return Table{Headers: headers, Rows: rows}
}
