package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Raw dataset file names inside the data directory. The enriched exports
// take the same name with an _enriched suffix.
const (
	ralDataFile  = "dados_ral.csv"
	recDataFile  = "dados_rec.csv"
	clustersFile = "clusters.csv"
)

// RunResult tracks what each stage of a refresh produced. Per-dataset errors
// are carried here instead of aborting: a broken dataset zeroes its own
// aggregate and the snapshot still ships.
type RunResult struct {
	Snapshot         DashboardSnapshot
	HierarchyEntries int
	IndexSize        int
	RALError         error
	RECError         error
	DigestSent       bool
}

// Pipeline runs the classification-and-aggregation cycle: hierarchy parse,
// index build, dataset enrichment, snapshot assembly, persistence and the
// digest notification.
type Pipeline struct {
	cfg     Config
	db      *sql.DB
	portal  *PortalClient
	targets []notifyTarget
}

func NewPipeline(cfg Config, db *sql.DB) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg, db: db, targets: notifyTargets(cfg)}
	if !cfg.OfflineMode {
		portal, err := NewPortalClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("build portal client: %w", err)
		}
		p.portal = portal
	}
	return p, nil
}

// RunOnce executes one full refresh. The returned error covers only the
// steps that make the run worthless (snapshot write failure); dataset and
// notifier problems are reported inside RunResult and logged.
func (p *Pipeline) RunOnce(now time.Time, suppressDigest bool) (RunResult, error) {
	var result RunResult

	if err := os.MkdirAll(p.cfg.DataDir, 0755); err != nil {
		return result, fmt.Errorf("create data dir: %w", err)
	}

	entries := p.loadHierarchy()
	result.HierarchyEntries = len(entries)
	index := buildIndex(entries)
	result.IndexSize = len(index)
	log.Printf("hierarchy parsed entries=%d indexed=%d", len(entries), len(index))

	if err := writeCSV(filepath.Join(p.cfg.DataDir, clustersFile), clustersTable(entries)); err != nil {
		log.Printf("write clusters table: %v", err)
	}

	if p.portal != nil {
		if err := p.portal.Login(); err != nil {
			log.Printf("portal login failed, datasets will be unavailable: %v", err)
		}
	}

	ralAgg, ralTable, ralErr := p.processDataset("RAL", ralDataFile, p.cfg.RALListURL, index, p.cfg.RALColumns)
	recAgg, recTable, recErr := p.processDataset("REC", recDataFile, p.cfg.RECListURL, index, p.cfg.RECColumns)
	result.RALError = ralErr
	result.RECError = recErr

	result.Snapshot = DashboardSnapshot{
		UpdatedAt: now.Format(stampLayout),
		RAL:       ralAgg,
		REC:       recAgg,
	}
	log.Printf("aggregates ral_total=%d rec_total=%d", ralAgg.Total, recAgg.Total)

	if err := writeSnapshot(p.cfg.DashboardPath, result.Snapshot); err != nil {
		return result, fmt.Errorf("write snapshot: %w", err)
	}

	if ralErr == nil {
		p.writeEnriched(ralDataFile, ralTable, index, p.cfg.RALColumns)
	}
	if recErr == nil {
		p.writeEnriched(recDataFile, recTable, index, p.cfg.RECColumns)
	}

	if !suppressDigest && len(p.targets) > 0 && p.shouldSendDigest(now) {
		text := formatDigest(result.Snapshot, now, p.cfg.DashboardURL)
		result.DigestSent = sendDigest(p.db, p.targets, text, now)
	}

	p.recordRun(now, result)
	return result, nil
}

// loadHierarchy parses every configured source file in order and
// concatenates the entries. A missing file is logged and skipped; parser
// state never leaks between files.
func (p *Pipeline) loadHierarchy() []HierarchyEntry {
	var entries []HierarchyEntry
	for _, src := range p.cfg.HierarchySources {
		lines, err := readLines(src.Path)
		if err != nil {
			log.Printf("hierarchy source %s unavailable: %v", src.Path, err)
			continue
		}
		parsed := parseHierarchy(lines, src.Source)
		log.Printf("hierarchy source %s parsed entries=%d", src.Path, len(parsed))
		entries = append(entries, parsed...)
	}
	return entries
}

// processDataset loads one live dataset (from the portal, or the stored raw
// CSV in offline mode) and enriches it. Errors are per-dataset: the caller
// gets a zeroed aggregate and the run keeps going.
func (p *Pipeline) processDataset(name, file, pageURL string, index HierarchyIndex, cols DatasetColumns) (DatasetAggregate, Table, error) {
	rawPath := filepath.Join(p.cfg.DataDir, file)

	var table Table
	if p.portal != nil {
		page, err := p.portal.FetchPage(pageURL)
		if err != nil {
			return newDatasetAggregate(), Table{}, fmt.Errorf("dataset %s: %w", name, err)
		}
		table, err = extractTable(page)
		if err != nil {
			return newDatasetAggregate(), Table{}, fmt.Errorf("dataset %s: %w", name, err)
		}
		if err := writeCSV(rawPath, table); err != nil {
			log.Printf("dataset %s: persist raw table: %v", name, err)
		}
	} else {
		var err error
		table, err = readCSV(rawPath)
		if err != nil {
			return newDatasetAggregate(), Table{}, fmt.Errorf("dataset %s: %w", name, err)
		}
	}

	agg, err := enrichDataset(table, index, name, cols)
	if err != nil {
		return newDatasetAggregate(), table, err
	}
	return agg, table, nil
}

func (p *Pipeline) writeEnriched(file string, table Table, index HierarchyIndex, cols DatasetColumns) {
	name := strings.TrimSuffix(file, filepath.Ext(file)) + "_enriched.csv"
	path := filepath.Join(p.cfg.DataDir, name)
	if err := writeCSV(path, enrichedExport(table, index, cols)); err != nil {
		log.Printf("write enriched export %s: %v", path, err)
	}
}

// shouldSendDigest enforces the digest interval against the notification
// log, so the gate survives restarts.
func (p *Pipeline) shouldSendDigest(now time.Time) bool {
	if p.db == nil {
		return true
	}
	last, ok, err := LastSuccessfulNotification(p.db)
	if err != nil {
		log.Printf("read notification log: %v", err)
		return true
	}
	if !ok {
		return true
	}
	return now.Sub(last) >= time.Duration(p.cfg.DigestIntervalHours)*time.Hour
}

func (p *Pipeline) recordRun(now time.Time, result RunResult) {
	if p.db == nil {
		return
	}
	run := RunRecord{
		StartedAt:  now,
		RALTotal:   result.Snapshot.RAL.Total,
		RECTotal:   result.Snapshot.REC.Total,
		DigestSent: result.DigestSent,
	}
	if result.RALError != nil {
		run.RALError = result.RALError.Error()
	}
	if result.RECError != nil {
		run.RECError = result.RECError.Error()
	}
	if err := InsertRun(p.db, run); err != nil {
		log.Printf("record run: %v", err)
	}
}

// writeSnapshot serializes the snapshot as indented UTF-8 JSON.
func writeSnapshot(path string, snap DashboardSnapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
