package main

import "testing"

func TestParseHierarchyBasic(t *testing.T) {
	entries := parseHierarchy([]string{"RIO", "ClusterA", "RC/001"}, "FIBRA/NET")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Code != "RC/001" || e.Cluster != "ClusterA" || e.Region != "RIO" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Type != "Recuperação (RC)" {
		t.Fatalf("unexpected type: %q", e.Type)
	}
	if e.Source != "FIBRA/NET" {
		t.Fatalf("unexpected source: %q", e.Source)
	}
}

func TestParseHierarchyCodeBeforeAnyHeader(t *testing.T) {
	entries := parseHierarchy([]string{"RC/002"}, "BSOD")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Cluster != unknownLabel || entries[0].Region != unknownLabel {
		t.Fatalf("expected Unknown sentinels, got %+v", entries[0])
	}
}

func TestParseHierarchyRegionResetsCluster(t *testing.T) {
	lines := []string{
		"RIO",
		"Zona Oeste",
		"RC/001",
		"BAHIA LESTE", // region switch: cluster resets to the region line
		"RC/002",
		"Salvador Centro",
		"RC/003",
	}
	entries := parseHierarchy(lines, "FIBRA/NET")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Region != "RIO" || entries[0].Cluster != "Zona Oeste" {
		t.Fatalf("entry 0: %+v", entries[0])
	}
	if entries[1].Region != "BAHIA LESTE" || entries[1].Cluster != "BAHIA LESTE" {
		t.Fatalf("entry 1: %+v", entries[1])
	}
	if entries[2].Region != "BAHIA LESTE" || entries[2].Cluster != "Salvador Centro" {
		t.Fatalf("entry 2: %+v", entries[2])
	}
}

func TestParseHierarchyRegionMatchIsCaseInsensitiveSubstring(t *testing.T) {
	entries := parseHierarchy([]string{"Grande Fortaleza", "RT/010"}, "FIBRA/NET")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Region != "Grande Fortaleza" {
		t.Fatalf("expected header to match FORTALEZA region, got %+v", entries[0])
	}
}

func TestParseHierarchySkipsTableArtifacts(t *testing.T) {
	lines := []string{"RIO", "CLUSTER", "SUBCLUSTER", "CF DESPACHO", "CF FIBRA - PRÓPRIO", "RC/001"}
	entries := parseHierarchy(lines, "FIBRA/NET")
	if len(entries) != 1 {
		t.Fatalf("expected only the code entry, got %d", len(entries))
	}
	// The artifacts must not have become the current cluster.
	if entries[0].Cluster != "RIO" {
		t.Fatalf("artifact leaked into cluster state: %+v", entries[0])
	}
}

func TestParseHierarchyStatePerFile(t *testing.T) {
	first := parseHierarchy([]string{"RIO", "ClusterX", "RC/001"}, "FIBRA/NET")
	second := parseHierarchy([]string{"DP/002"}, "BSOD")
	if first[0].Region != "RIO" {
		t.Fatalf("first file: %+v", first[0])
	}
	if second[0].Region != unknownLabel {
		t.Fatalf("state leaked across files: %+v", second[0])
	}
}

func TestBuildIndexExcludesSGCodes(t *testing.T) {
	entries := []HierarchyEntry{
		{Code: "RC/001", Cluster: "A", Region: "RIO", Type: "Recuperação (RC)"},
		{Code: "rc/sg/123", Cluster: "B", Region: "RIO", Type: "Recuperação (RC)"},
		{Code: "DP /SG/9", Cluster: "C", Region: "RIO", Type: "Despacho (DP)"},
	}
	index := buildIndex(entries)
	if len(index) != 1 {
		t.Fatalf("expected 1 indexed code, got %d: %v", len(index), index)
	}
	for key := range index {
		if key != "RC/001" {
			t.Fatalf("unexpected key %q", key)
		}
	}
}

func TestBuildIndexLastEntryWins(t *testing.T) {
	entries := []HierarchyEntry{
		{Code: "RC/001", Cluster: "First", Region: "RIO", Type: "Recuperação (RC)"},
		{Code: "rc/001", Cluster: "Second", Region: "BAHIA", Type: "Recuperação (RC)"},
	}
	index := buildIndex(entries)
	info, ok := index["RC/001"]
	if !ok {
		t.Fatalf("code not indexed")
	}
	if info.Cluster != "Second" || info.Region != "BAHIA" {
		t.Fatalf("expected later entry to win, got %+v", info)
	}
}

func TestBuildIndexCityMirrorsTrimmedRegion(t *testing.T) {
	entries := []HierarchyEntry{
		{Code: "RC/001", Cluster: "  ClusterA  ", Region: "  RIO  ", Type: "Recuperação (RC)"},
	}
	index := buildIndex(entries)
	info := index["RC/001"]
	if info.Cluster != "ClusterA" || info.Region != "RIO" {
		t.Fatalf("fields not trimmed: %+v", info)
	}
	if info.City != "RIO" {
		t.Fatalf("city must mirror trimmed region, got %q", info.City)
	}
}

func TestClustersTable(t *testing.T) {
	entries := []HierarchyEntry{
		{Code: "RC/001", Cluster: "A", Region: "RIO", Type: "Recuperação (RC)", Source: "FIBRA/NET"},
	}
	table := clustersTable(entries)
	if len(table.Headers) != 5 || table.Headers[0] != "Code" || table.Headers[4] != "Source" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "A" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}
