package main

import "strings"

// knownRegions is the fixed region name list from the portal's organizational
// chart. Traversal order is part of the contract: the first substring match
// wins, never the longest, so runs stay reproducible when a header could
// match more than one entry ("MINAS GERAIS" matches "MINAS" first).
var knownRegions = []string{
	"RIO", "NORDESTE", "FORTALEZA", "BAHIA", "CENTRO OESTE", "NORTE", "MINAS",
	"MINAS GERAIS", "SUL", "SÃO PAULO", "ESPIRITO SANTO", "PARANÁ",
	"SANTA CATARINA", "RIO GRANDE DO SUL",
}

// tableArtifacts are table-rendering residue lines that show up mid-file in
// the exported text. They are neither codes nor hierarchy headers.
var tableArtifacts = map[string]bool{
	"CLUSTER":            true,
	"SUBCLUSTER":         true,
	"CF DESPACHO":        true,
	"CF FIBRA - PRÓPRIO": true,
}

// hierarchyCursor tracks the region and cluster headers in effect while
// walking one source file. Each file starts from the Unknown sentinels.
type hierarchyCursor struct {
	region  string
	cluster string
}

// apply folds a header line into the cursor. A known-region match switches
// region scope and resets the cluster to the same line; any other header is
// a cluster/subcluster label under the current region.
func (c *hierarchyCursor) apply(header string) {
	upper := strings.ToUpper(header)
	for _, r := range knownRegions {
		if strings.Contains(upper, r) {
			c.region = header
			c.cluster = header
			return
		}
	}
	c.cluster = header
}

// parseHierarchy walks the lines of one source file in order and emits one
// entry per code line, tagged with the headers current at that point. A code
// appearing before any header carries the Unknown sentinels.
func parseHierarchy(lines []string, sourceTag string) []HierarchyEntry {
	cur := hierarchyCursor{region: unknownLabel, cluster: unknownLabel}
	var entries []HierarchyEntry
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || tableArtifacts[line] {
			continue
		}
		if classifyLine(line) == lineCode {
			entries = append(entries, HierarchyEntry{
				Code:    line,
				Cluster: cur.cluster,
				Region:  cur.region,
				Type:    codeTypeFor(line),
				Source:  sourceTag,
			})
			continue
		}
		cur.apply(line)
	}
	return entries
}

// sgExclusionMarker flags codes belonging to the SG segment, which this
// dashboard never reports on.
const sgExclusionMarker = "/SG"

// buildIndex folds hierarchy entries into the code lookup index. Later
// entries silently overwrite earlier ones for the same normalized code, and
// codes carrying the /SG marker are never indexed.
func buildIndex(entries []HierarchyEntry) HierarchyIndex {
	index := make(HierarchyIndex, len(entries))
	for _, e := range entries {
		norm := normalizeCode(e.Code)
		if norm == "" || strings.Contains(norm, sgExclusionMarker) {
			continue
		}
		region := strings.TrimSpace(e.Region)
		index[norm] = ClusterInfo{
			Cluster: strings.TrimSpace(e.Cluster),
			Region:  region,
			Type:    e.Type,
			City:    region,
		}
	}
	return index
}

// clustersTable renders parsed entries as the clusters.csv table.
func clustersTable(entries []HierarchyEntry) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Code, e.Cluster, e.Region, e.Type, e.Source})
	}
	return Table{
		Headers: []string{"Code", "Cluster", "Region", "Type", "Source"},
		Rows:    rows,
	}
}
