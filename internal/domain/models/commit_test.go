package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		summary string
		body    string
	}{
		{"summary only", "Fix the thing", "Fix the thing", ""},
		{"summary with body", "Fix the thing\n\nIt was broken.", "Fix the thing", "It was broken."},
		{"trailing newline", "Fix the thing\n", "Fix the thing", ""},
		{"body without blank line", "Fix the thing\nMore detail", "Fix the thing", "More detail"},
		{"empty message", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, body := SplitMessage(tt.message)
			assert.Equal(t, tt.summary, summary)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestShortSHA(t *testing.T) {
	c := &Commit{SHA: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	assert.Equal(t, "aaaaaaa", c.ShortSHA())

	short := &Commit{SHA: "abc"}
	assert.Equal(t, "abc", short.ShortSHA())
}

func TestIsMerge(t *testing.T) {
	assert.False(t, (&Commit{ParentSHAs: []string{"a"}}).IsMerge())
	assert.True(t, (&Commit{ParentSHAs: []string{"a", "b"}}).IsMerge())
}
