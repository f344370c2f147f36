// Package stats turns the analyzer's untrusted output into a bounded,
// internally consistent stat record. Normalize is pure and total: whatever
// shape the input has, the result is five integers in [0,100] that sum to
// exactly 100 and a summary of at most SummaryMaxLen runes.
package stats

import (
	"math"
	"sort"
	"strings"
)

const (
	// Total is the exact sum every normalized stat set must reach.
	Total = 100

	// SummaryMaxLen is the rune cap for the generated summary.
	SummaryMaxLen = 60

	defaultValue = 50
	flatValue    = 20
)

// RawStats are the candidate values as decoded from the analyzer response.
// A nil field means the analyzer did not produce that stat.
type RawStats struct {
	Attack  *float64
	Defense *float64
	Magic   *float64
	Mana    *float64
	Speed   *float64
}

// Stats is a normalized record. Invariant: each value is in [0,100] and
// Attack+Defense+Magic+Mana+Speed == 100.
type Stats struct {
	Attack  int
	Defense int
	Magic   int
	Mana    int
	Speed   int
	Summary string
}

func (s Stats) Sum() int {
	return s.Attack + s.Defense + s.Magic + s.Mana + s.Speed
}

// Normalize coerces raw candidates into a valid stat set. summary is the
// analyzer's summary candidate; fallback (typically the original character
// description) is used when the summary is blank.
func Normalize(raw RawStats, summary, fallback string) Stats {
	values := [5]float64{
		coerce(raw.Attack),
		coerce(raw.Defense),
		coerce(raw.Magic),
		coerce(raw.Mana),
		coerce(raw.Speed),
	}

	var total float64
	for _, v := range values {
		total += v
	}

	var out [5]int
	if total <= 0 {
		for i := range out {
			out[i] = flatValue
		}
	} else {
		out = apportion(values, total)
	}

	return Stats{
		Attack:  out[0],
		Defense: out[1],
		Magic:   out[2],
		Mana:    out[3],
		Speed:   out[4],
		Summary: normalizeSummary(summary, fallback),
	}
}

func coerce(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return defaultValue
	}
	if *v < 0 {
		return 0
	}
	if *v > 100 {
		return 100
	}
	return *v
}

// apportion rescales values to sum exactly Total using the largest-remainder
// method: floor everything, then hand the leftover units to the entries with
// the biggest fractional parts, ties broken by stat order. Deterministic for
// a given input.
func apportion(values [5]float64, total float64) [5]int {
	var out [5]int
	type remainder struct {
		index int
		frac  float64
	}
	remainders := make([]remainder, 0, len(values))

	allocated := 0
	for i, v := range values {
		exact := v * Total / total
		floor := int(math.Floor(exact))
		out[i] = floor
		allocated += floor
		remainders = append(remainders, remainder{index: i, frac: exact - float64(floor)})
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac > remainders[b].frac
	})

	for i := 0; i < Total-allocated; i++ {
		out[remainders[i%len(remainders)].index]++
	}

	return out
}

func normalizeSummary(summary, fallback string) string {
	s := strings.TrimSpace(summary)
	if s == "" {
		s = strings.TrimSpace(fallback)
	}
	return truncateRunes(s, SummaryMaxLen)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
