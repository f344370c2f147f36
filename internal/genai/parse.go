package genai

import (
	"encoding/json"
	"strings"
)

// Verdict is the judge's decision over two character images. Winner is "A"
// (slot 1) or "B" (slot 2).
type Verdict struct {
	Winner string `json:"winner"`
	Story  string `json:"story"`
}

// Analysis is the analyzer's raw read of a portrait. Pointer fields stay nil
// when the model omitted them; converting absence into defaults is the stat
// normalizer's job, not this decoder's.
type Analysis struct {
	Attack  *float64 `json:"attack"`
	Defense *float64 `json:"defense"`
	Magic   *float64 `json:"magic"`
	Mana    *float64 `json:"mana"`
	Speed   *float64 `json:"speed"`
	Summary *string  `json:"summary"`
}

// ExtractJSON returns the outermost {...} span of a model reply, which tends
// to wrap its JSON in prose or code fences. Returns "" when no braces exist.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// ParseVerdict strictly decodes a judge reply. ok is false for anything that
// is not valid JSON with a usable winner and story; the caller decides how to
// degrade.
func ParseVerdict(raw string) (Verdict, bool) {
	text := ExtractJSON(raw)
	if text == "" {
		return Verdict{}, false
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return Verdict{}, false
	}
	if v.Winner != "A" && v.Winner != "B" {
		return Verdict{}, false
	}
	if strings.TrimSpace(v.Story) == "" {
		return Verdict{}, false
	}
	return v, true
}

// ParseAnalysis strictly decodes an analyzer reply. A failed decode returns
// ok=false with a zero Analysis, which normalizes to the safe flat defaults.
func ParseAnalysis(raw string) (Analysis, bool) {
	text := ExtractJSON(raw)
	if text == "" {
		return Analysis{}, false
	}

	var a Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return Analysis{}, false
	}
	return a, true
}
