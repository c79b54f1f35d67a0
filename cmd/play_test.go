package cmd

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		options int
		want    []int
		wantErr bool
	}{
		{"single", "2", 4, []int{1}, false},
		{"comma separated", "1,3", 4, []int{0, 2}, false},
		{"space separated", "1 3", 4, []int{0, 2}, false},
		{"duplicates collapse", "2,2,2", 4, []int{1}, false},
		{"empty", "", 4, nil, true},
		{"zero", "0", 4, nil, true},
		{"out of range", "5", 4, nil, true},
		{"not a number", "a", 4, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.input, tt.options)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "What is GCS?", stripHTML("<p>What is GCS?</p>"))
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "a  b", stripHTML("a <b> b"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "long…", truncate("longer than that", 5))

	got := truncate("Netzwerkübertragung", 10)
	assert.Equal(t, "Netzwerkü…", got)
	assert.True(t, utf8.ValidString(got))
}
