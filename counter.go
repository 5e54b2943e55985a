package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Tally is an insertion-ordered counter. Rankings by descending count break
// ties by first-seen order, which keeps top-N output stable across runs.
type Tally struct {
	keys   []string
	counts map[string]int
}

func newTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments the count for key, appending it on first sight.
func (t *Tally) Add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// Count returns the current count for key, zero when never added.
func (t *Tally) Count(key string) int { return t.counts[key] }

// Len returns the number of distinct keys.
func (t *Tally) Len() int { return len(t.keys) }

// Keys returns the keys in first-seen order.
func (t *Tally) Keys() []string { return append([]string(nil), t.keys...) }

// KeyCount pairs a tally key with its count.
type KeyCount struct {
	Key   string
	Count int
}

// Top returns up to n entries by descending count; equal counts keep
// first-seen order.
func (t *Tally) Top(n int) []KeyCount {
	ranked := make([]KeyCount, 0, len(t.keys))
	for _, k := range t.keys {
		ranked = append(ranked, KeyCount{Key: k, Count: t.counts[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// MarshalJSON renders the tally as a JSON object in first-seen order.
func (t *Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", t.counts[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a tally from a JSON object, preserving key order.
func (t *Tally) UnmarshalJSON(data []byte) error {
	t.keys = nil
	t.counts = make(map[string]int)
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tally: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tally: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		t.keys = append(t.keys, key)
		t.counts[key] = n
	}
	_, err = dec.Token()
	return err
}
