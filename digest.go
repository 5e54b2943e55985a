package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	sirDateLayout   = "02/01/2006 - 15:04"
	shortDateLayout = "02/01 15:04"
	stampLayout     = "02/01/2006 15:04"

	digestTopClusters = 10
	digestOldestLimit = 5
)

// farFuture ranks unparseable (but present) dates after every real date in
// the oldest-N ordering.
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// formatDigest renders the notification message for one snapshot. Pure: no
// I/O, no clock reads beyond the caller-supplied timestamp.
//
// The RAL figures are computed from a re-filtered item list that drops
// QUALIDADE tickets, while the stored snapshot total keeps them: the
// snapshot has to match the portal's counter, the digest is an operational
// call-to-action list where quality tickets are noise. The divergence is
// deliberate reporting policy.
func formatDigest(snap DashboardSnapshot, now time.Time, dashboardURL string) string {
	ralItems := excludeQuality(snap.RAL.Items)
	recItems := snap.REC.Items

	var b strings.Builder
	b.WriteString("💎 *COP REDE INF:*\n")
	b.WriteString("📡 *SIR MONITORAMENTO*\n\n")
	fmt.Fprintf(&b, "📅 *ATUALIZADO:* %s\n\n", now.Format(stampLayout))

	b.WriteString("📊 *TOTAL DE ATIVIDADES*\n")
	fmt.Fprintf(&b, "🔴 *RAL:* %d\n", len(ralItems))
	b.WriteString("*POR CLUSTERS:*\n")
	b.WriteString(clusterBreakdown(ralItems))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "🟢 *REC:* %d\n", snap.REC.Total)
	b.WriteString("*POR CLUSTERS:*\n")
	b.WriteString(clusterBreakdown(recItems))
	b.WriteString("\n\n")

	b.WriteString("🏷️ *TIPO DE RAL*\n")
	for _, sc := range countSubtypes(ralItems) {
		fmt.Fprintf(&b, "🔹 %s: %d\n", sc.Label, sc.Count)
	}
	b.WriteString("\n")

	b.WriteString("🏁 *Top 5 RALS mais antigos:*\n")
	b.WriteString(formatOldestBlocks(oldestItems(ralItems, digestOldestLimit), "RAL"))
	b.WriteString("\n\n")

	b.WriteString("🏁 *Top 5 REC mais antigos:*\n")
	b.WriteString(formatOldestBlocks(oldestItems(recItems, digestOldestLimit), "REC"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "🔗 [Dashboard](%s)", dashboardURL)
	return b.String()
}

// excludeQuality drops every item whose type contains QUALIDADE, case
// insensitively, preserving order.
func excludeQuality(items []EnrichedTicket) []EnrichedTicket {
	kept := make([]EnrichedTicket, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToUpper(item.RalType), "QUALIDADE") {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// clusterBreakdown recomputes cluster counts from an item list and renders
// the top clusters as bullet lines.
func clusterBreakdown(items []EnrichedTicket) string {
	tally := newTally()
	for _, item := range items {
		tally.Add(item.Cluster)
	}
	lines := make([]string, 0, digestTopClusters)
	for _, kc := range tally.Top(digestTopClusters) {
		lines = append(lines, fmt.Sprintf("• %s: %d", kc.Key, kc.Count))
	}
	return strings.Join(lines, "\n")
}

// SubtypeCount is one of the digest's RAL type buckets.
type SubtypeCount struct {
	Label string
	Count int
}

// countSubtypes classifies items into the six digest buckets, testing the
// matches in fixed priority order; the first hit takes the item and a type
// matching nothing counts nowhere. The QUALIDADE bucket always reads zero
// because those items were filtered out upstream; the line stays in the
// digest so readers see the bucket exists.
func countSubtypes(items []EnrichedTicket) []SubtypeCount {
	counts := []SubtypeCount{
		{Label: "FOTÔNICA"},
		{Label: "BACKBONE"},
		{Label: "COLETOR"},
		{Label: "PPC"},
		{Label: "ACESSO CLIENTE"},
		{Label: "QUALIDADE"},
	}
	for _, item := range items {
		t := strings.ToUpper(item.RalType)
		switch {
		case strings.Contains(t, "FOTÔNICA") || strings.Contains(t, "FOTONICA"):
			counts[0].Count++
		case strings.Contains(t, "BACKBONE"):
			counts[1].Count++
		case strings.Contains(t, "COLETOR"):
			counts[2].Count++
		case strings.Contains(t, "PPC"):
			counts[3].Count++
		case strings.Contains(t, "ACESSO"), strings.Contains(t, "CLIENTE"):
			counts[4].Count++
		}
	}
	return counts
}

// oldestItems ranks items by opening date ascending and keeps the first
// limit entries. Items without a date (the N/A sentinel) are left out
// entirely; dates that are present but unparseable sort after every real
// date instead of erroring.
func oldestItems(items []EnrichedTicket, limit int) []EnrichedTicket {
	type dated struct {
		item EnrichedTicket
		at   time.Time
	}
	ranked := make([]dated, 0, len(items))
	for _, item := range items {
		if item.Date == "" || item.Date == notAvailable {
			continue
		}
		at, err := time.Parse(sirDateLayout, item.Date)
		if err != nil {
			at = farFuture
		}
		ranked = append(ranked, dated{item: item, at: at})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].at.Before(ranked[j].at) })
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	out := make([]EnrichedTicket, len(ranked))
	for i, d := range ranked {
		out[i] = d.item
	}
	return out
}

// formatOldestBlocks renders the oldest-N entries in the digest's visual
// block layout. REC entries append the designation when one is present.
func formatOldestBlocks(items []EnrichedTicket, label string) string {
	if len(items) == 0 {
		return "Nenhum registro encontrado."
	}
	blocks := make([]string, 0, len(items))
	for idx, item := range items {
		suffix := ""
		if label == "REC" && item.Description != "" && item.Description != notAvailable {
			suffix = fmt.Sprintf(" - DESIGNAÇÃO: %s", item.Description)
		}
		block := fmt.Sprintf(
			"#%d ▓▓▓▓▓▓▓▓▓ ⏳ %s\n🪪 %s %s%s\n🌐 %s • 🗺️ %s\n📅 %s",
			idx+1,
			formatDuration(item.Duration),
			label, item.Num, suffix,
			item.RalType, item.Cidade,
			formatShortDate(item.Date),
		)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// formatDuration compacts the portal's "31d.04h12m" form to "31d 4h".
// Strings that do not follow that shape pass through untouched.
func formatDuration(dur string) string {
	if dur == "" || dur == notAvailable {
		return notAvailable
	}
	dayPart, rest, _ := strings.Cut(dur, ".")
	days, err := strconv.Atoi(strings.TrimSuffix(dayPart, "d"))
	if err != nil {
		return dur
	}
	hours := 0
	if len(rest) >= 3 {
		hours, err = strconv.Atoi(strings.TrimSuffix(rest[:3], "h"))
		if err != nil {
			return dur
		}
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}

// formatShortDate compacts "12/01/2026 - 11:15" to "12/01 11:15", passing
// unparseable values through.
func formatShortDate(date string) string {
	at, err := time.Parse(sirDateLayout, date)
	if err != nil {
		return date
	}
	return at.Format(shortDateLayout)
}
