package main

import "strings"

type lineKind int

const (
	lineHeader lineKind = iota
	lineCode
)

// codePrefixes are the two-letter openings that mark a line as a routing
// code even without a "/" separator. Matching is case-sensitive: the portal
// renders codes uppercased, and lowercase header words like "rt" never occur.
var codePrefixes = []string{"DP", "RC", "RT", "CF"}

// classifyLine decides whether a raw text line is a routing code or a
// region/cluster header. Codes carry a "/" separator or one of the known
// prefixes. A header that itself contains "/" (combined region/state labels)
// is misclassified as a code; the flat text format gives no stronger signal,
// so that limitation is accepted rather than guessed around.
func classifyLine(line string) lineKind {
	if strings.Contains(line, "/") {
		return lineCode
	}
	for _, p := range codePrefixes {
		if strings.HasPrefix(line, p) {
			return lineCode
		}
	}
	return lineHeader
}

// codeTypeFor derives the work type from a code's prefix.
func codeTypeFor(code string) string {
	switch {
	case strings.HasPrefix(code, "RC"):
		return "Recuperação (RC)"
	case strings.HasPrefix(code, "RT"):
		return "Retirada (RT)"
	case strings.HasPrefix(code, "DP"):
		return "Despacho (DP)"
	}
	return unknownLabel
}

// normalizeCode strips all whitespace and uppercases a routing code so
// hierarchy entries and ticket rows join on the same key. Idempotent.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}
