package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedDistinctLower(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"blanks only", []string{"", "  "}, []string{}},
		{"case-insensitive duplicates", []string{" Chat", "chat", "CHAT "}, []string{"chat"}},
		{"sorted output", []string{"video", "Audio", "chat", "audio"}, []string{"audio", "chat", "video"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortedDistinctLower(tt.in))
		})
	}
}
