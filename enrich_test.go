package main

import "testing"

func testIndex() HierarchyIndex {
	return buildIndex([]HierarchyEntry{
		{Code: "RC/001", Cluster: "ClusterX", Region: "RIO", Type: "Recuperação (RC)"},
		{Code: "DP/002", Cluster: "ClusterY", Region: "BAHIA", Type: "Despacho (DP)"},
	})
}

func ralTestTable(rows [][]string) Table {
	return Table{
		Headers: []string{"Designação", "Tipo Ral", "Num.Recup.", "Abertura", "Duração", "CF Exec."},
		Rows:    rows,
	}
}

func ralTestColumns() DatasetColumns {
	return DatasetColumns{
		Code:     "CF Exec.",
		Type:     "Tipo Ral",
		Desc:     "Designação",
		Date:     "Abertura",
		Duration: "Duração",
		Num:      "Num.Recup.",
	}
}

func TestEnrichDatasetJoin(t *testing.T) {
	table := ralTestTable([][]string{
		{"Fibra rompida", "BACKBONE", "RAL-1", "01/02/2026 - 10:00", "01d.02h30m", "rc/001"},
		{"Sem rota", "ACESSO", "RAL-2", "02/02/2026 - 11:00", "00d.05h00m", "unknown/999"},
	})
	agg, err := enrichDataset(table, testIndex(), "RAL", ralTestColumns())
	if err != nil {
		t.Fatalf("enrichDataset failed: %v", err)
	}
	if agg.Total != 2 {
		t.Fatalf("total = %d, want 2", agg.Total)
	}
	if len(agg.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(agg.Items))
	}
	if agg.Items[0].Cluster != "ClusterX" || agg.Items[0].Cidade != "RIO" {
		t.Fatalf("hit row not resolved: %+v", agg.Items[0])
	}
	if agg.Items[1].Cluster != unknownLabel || agg.Items[1].Cidade != unknownLabel {
		t.Fatalf("miss row not sentinel: %+v", agg.Items[1])
	}
	if agg.Clusters.Count("ClusterX") != 1 || agg.Clusters.Count(unknownLabel) != 1 {
		t.Fatalf("cluster tally wrong: %v", agg.Clusters.Keys())
	}
	if agg.Cities.Count("RIO") != 1 || agg.Cities.Count(unknownLabel) != 1 {
		t.Fatalf("city tally wrong: %v", agg.Cities.Keys())
	}
}

func TestEnrichDatasetTotalCountsExcludedRows(t *testing.T) {
	table := ralTestTable([][]string{
		{"Fibra", "BACKBONE", "RAL-1", "01/02/2026 - 10:00", "01d.02h30m", "RC/001"},
		{"Segmento SG", "BACKBONE", "RAL-2", "01/02/2026 - 10:05", "01d.00h00m", "DP/SG/77"},
	})
	agg, err := enrichDataset(table, testIndex(), "RAL", ralTestColumns())
	if err != nil {
		t.Fatalf("enrichDataset failed: %v", err)
	}
	if agg.Total != 2 {
		t.Fatalf("total must count excluded rows, got %d", agg.Total)
	}
	if len(agg.Items) != 1 {
		t.Fatalf("items must drop /SG rows, got %d", len(agg.Items))
	}
	if agg.Clusters.Count("ClusterX") != 1 || agg.Clusters.Len() != 1 {
		t.Fatalf("cluster tally counted an excluded row: %v", agg.Clusters.Keys())
	}
}

func TestEnrichDatasetMissingValuesBecomeNA(t *testing.T) {
	table := Table{
		Headers: []string{"CF Exec.", "Tipo Ral"},
		Rows: [][]string{
			{"RC/001", "  "},
		},
	}
	cols := ralTestColumns()
	agg, err := enrichDataset(table, testIndex(), "RAL", cols)
	if err != nil {
		t.Fatalf("enrichDataset failed: %v", err)
	}
	item := agg.Items[0]
	if item.RalType != notAvailable {
		t.Fatalf("blank cell should resolve to N/A, got %q", item.RalType)
	}
	if item.Description != notAvailable || item.Date != notAvailable || item.Duration != notAvailable || item.Num != notAvailable {
		t.Fatalf("absent columns should resolve to N/A, got %+v", item)
	}
}

func TestEnrichDatasetRECWithoutDurationColumn(t *testing.T) {
	table := Table{
		Headers: []string{"ID", "Num.Recup.", "Cliente", "Designação", "Abertura", "CF Exec."},
		Rows: [][]string{
			{"1", "REC-10", "OperadoraX", "Link dedicado", "05/02/2026 - 09:00", "RC/001"},
		},
	}
	cols := DatasetColumns{
		Code: "CF Exec.",
		Type: "Cliente",
		Desc: "Designação",
		Date: "Abertura",
		Num:  "Num.Recup.",
	}
	agg, err := enrichDataset(table, testIndex(), "REC", cols)
	if err != nil {
		t.Fatalf("enrichDataset failed: %v", err)
	}
	item := agg.Items[0]
	if item.Duration != notAvailable {
		t.Fatalf("unbound duration must be N/A, got %q", item.Duration)
	}
	if item.RalType != "OperadoraX" {
		t.Fatalf("REC type must come from the client column, got %q", item.RalType)
	}
}

func TestEnrichDatasetMissingCodeColumn(t *testing.T) {
	table := Table{Headers: []string{"Designação"}, Rows: [][]string{{"x"}}}
	agg, err := enrichDataset(table, testIndex(), "RAL", ralTestColumns())
	if err == nil {
		t.Fatalf("expected error for missing code column")
	}
	if agg.Total != 0 || len(agg.Items) != 0 {
		t.Fatalf("failed dataset must stay zeroed, got %+v", agg)
	}
}

func TestEnrichDatasetEmptyCodeBinding(t *testing.T) {
	table := ralTestTable(nil)
	_, err := enrichDataset(table, testIndex(), "RAL", DatasetColumns{})
	if err == nil {
		t.Fatalf("expected error for empty code binding")
	}
}

func TestEnrichedExportKeepsEveryRawRow(t *testing.T) {
	table := ralTestTable([][]string{
		{"Fibra", "BACKBONE", "RAL-1", "01/02/2026 - 10:00", "01d.02h30m", "RC/001"},
		{"SG row", "BACKBONE", "RAL-2", "01/02/2026 - 10:05", "01d.00h00m", "DP/SG/77"},
		{"Miss", "ACESSO", "RAL-3", "01/02/2026 - 10:10", "00d.01h00m", "nope/1"},
	})
	out := enrichedExport(table, testIndex(), ralTestColumns())
	if len(out.Rows) != 3 {
		t.Fatalf("export must keep all raw rows, got %d", len(out.Rows))
	}
	if got := len(out.Headers); got != len(table.Headers)+4 {
		t.Fatalf("expected 4 appended columns, header len %d", got)
	}
	// Resolved row carries the classification; /SG and miss rows stay Unknown.
	first := out.Rows[0]
	if first[len(first)-4] != "ClusterX" || first[len(first)-1] != "Recuperação (RC)" {
		t.Fatalf("resolved row: %v", first)
	}
	for _, row := range out.Rows[1:] {
		if row[len(row)-4] != unknownLabel {
			t.Fatalf("unresolved row should stay Unknown: %v", row)
		}
	}
}
