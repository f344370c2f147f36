package genai_test

import (
	"testing"

	"github.com/dom/battle-arena/internal/genai"
	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantOK     bool
		wantWinner string
	}{
		{
			name:       "clean json",
			raw:        `{"winner":"B","story":"{B} outwitted {A} in three moves."}`,
			wantOK:     true,
			wantWinner: "B",
		},
		{
			name:       "json wrapped in prose and code fences",
			raw:        "Here is my verdict:\n```json\n{\"winner\":\"A\",\"story\":\"{A} stood firm.\"}\n```\n",
			wantOK:     true,
			wantWinner: "A",
		},
		{
			name:   "plain prose is rejected",
			raw:    "Character A wins because it looks stronger.",
			wantOK: false,
		},
		{
			name:   "invalid winner value",
			raw:    `{"winner":"C","story":"nope"}`,
			wantOK: false,
		},
		{
			name:   "empty story",
			raw:    `{"winner":"A","story":"   "}`,
			wantOK: false,
		},
		{
			name:   "truncated json",
			raw:    `{"winner":"A","story":"cut off`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := genai.ParseVerdict(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantWinner, v.Winner)
				assert.NotEmpty(t, v.Story)
			}
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		a, ok := genai.ParseAnalysis(`{"attack":80,"defense":40,"magic":70,"mana":30,"speed":60,"summary":"quick and fierce"}`)
		assert.True(t, ok)
		assert.Equal(t, 80.0, *a.Attack)
		assert.Equal(t, "quick and fierce", *a.Summary)
	})

	t.Run("partial payload keeps missing fields nil", func(t *testing.T) {
		a, ok := genai.ParseAnalysis(`{"attack":12}`)
		assert.True(t, ok)
		assert.NotNil(t, a.Attack)
		assert.Nil(t, a.Defense)
		assert.Nil(t, a.Summary)
	})

	t.Run("garbage is not an analysis", func(t *testing.T) {
		_, ok := genai.ParseAnalysis("the portrait shows a wolf")
		assert.False(t, ok)
	})
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, genai.ExtractJSON(`noise {"a":1} trailing`))
	assert.Equal(t, "", genai.ExtractJSON("no braces here"))
	assert.Equal(t, "", genai.ExtractJSON("}{"))
}
