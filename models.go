package main

import "time"

// Sentinel values shared across the pipeline. Lookup misses and headerless
// codes resolve to unknownLabel; missing row values resolve to notAvailable
// so downstream date parsing can tell them apart from real data.
const (
	unknownLabel = "Unknown"
	notAvailable = "N/A"
)

// HierarchyEntry is one routing code emitted by the hierarchy parser, tagged
// with the region and cluster headers in effect when the code line was read.
type HierarchyEntry struct {
	Code    string
	Cluster string
	Region  string
	Type    string
	Source  string
}

// ClusterInfo is the classification resolved for a normalized routing code.
// City mirrors the trimmed region: the region column in the source text
// doubles as the city-level label the dashboard drills down on.
type ClusterInfo struct {
	Cluster string
	Region  string
	Type    string
	City    string
}

func unknownInfo() ClusterInfo {
	return ClusterInfo{
		Cluster: unknownLabel,
		Region:  unknownLabel,
		Type:    unknownLabel,
		City:    unknownLabel,
	}
}

// HierarchyIndex maps normalized routing codes to their classification.
type HierarchyIndex map[string]ClusterInfo

// EnrichedTicket is one live ticket row joined against the hierarchy index.
type EnrichedTicket struct {
	Cluster     string `json:"cluster"`
	Cidade      string `json:"cidade"`
	Code        string `json:"code"`
	RalType     string `json:"ralType"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Duration    string `json:"duration"`
	Num         string `json:"num"`
}

// DatasetAggregate is the per-dataset result of an enrichment pass. Total
// counts every fetched row; Items, Clusters and Cities only cover rows that
// survived the /SG exclusion, so Total can exceed len(Items) on purpose (the
// published total has to match the source system's own counter).
type DatasetAggregate struct {
	Total    int              `json:"total"`
	Clusters *Tally           `json:"clusters"`
	Cities   *Tally           `json:"cities"`
	Items    []EnrichedTicket `json:"items"`
}

func newDatasetAggregate() DatasetAggregate {
	return DatasetAggregate{
		Clusters: newTally(),
		Cities:   newTally(),
		Items:    []EnrichedTicket{},
	}
}

// DashboardSnapshot is the terminal artifact of one pipeline run. It is
// assembled once, serialized, and never mutated.
type DashboardSnapshot struct {
	UpdatedAt string           `json:"updatedAt"`
	RAL       DatasetAggregate `json:"RAL"`
	REC       DatasetAggregate `json:"REC"`
}

// Table is a rectangular dataset with a named header row, as produced by the
// portal table extractor or read back from a semicolon CSV.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header name, or -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// RunRecord is one pipeline run as stored in the runs table.
type RunRecord struct {
	StartedAt  time.Time
	RALTotal   int
	RECTotal   int
	RALError   string
	RECError   string
	DigestSent bool
}

// NotificationRecord is one digest delivery attempt.
type NotificationRecord struct {
	Channel   string
	Recipient string
	SentAt    time.Time
	OK        bool
	Detail    string
}
