package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkshelf/pkg/types"
)

var gallery = []types.Bookmark{
	{ID: "1", Name: "ChatGPT", URL: "https://chatgpt.com", Type: "chat", Region: "us"},
	{ID: "2", Name: "Gemini", URL: "https://gemini.google.com", Type: "Chat", Region: "US"},
	{ID: "3", Name: "Midjourney", URL: "https://midjourney.com", Type: "image", Region: "us"},
	{ID: "4", Name: "Kimi", URL: "https://kimi.moonshot.cn", Type: "chat", Region: "cn"},
	{ID: "5", Name: "Untyped", URL: "https://untyped.example"},
}

func ids(items []types.Bookmark) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter keeps everything", Filter{}, []string{"1", "2", "3", "4", "5"}},
		{"all disables a dimension", Filter{Type: "All", Region: "ALL"}, []string{"1", "2", "3", "4", "5"}},
		{"type is exact and case-insensitive", Filter{Type: "CHAT"}, []string{"1", "2", "4"}},
		{"type does not match substrings", Filter{Type: "cha"}, []string{}},
		{"region combines with type", Filter{Type: "chat", Region: "cn"}, []string{"4"}},
		{"query matches url", Filter{Query: "  moonshot "}, []string{"4"}},
		{"query matches type", Filter{Query: "IMAGE"}, []string{"3"}},
		{"query ignores region", Filter{Query: "us"}, []string{}},
		{"query matches across name and url", Filter{Query: "gemini https"}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(project(gallery, tt.filter.normalize())))
		})
	}
}

func TestOptionsOf(t *testing.T) {
	o := optionsOf(gallery)
	assert.Equal(t, []string{"chat", "image"}, o.Types)
	assert.Equal(t, []string{"cn", "us"}, o.Regions)
}

func (s *ClientSuite) TestApplyIsMemoizedPerVersion() {
	s.remote = newFakeRemote("Alpha", "Beta", "Alphabet")
	s.client = s.newClient(WithPins(false))
	s.load()

	first := s.client.Apply(Filter{Query: "alpha"})
	s.Equal([]string{"Alpha", "Alphabet"}, names(first))
	first[0].Name = "mutated"

	again := s.client.Apply(Filter{Query: " ALPHA "})
	s.Equal([]string{"Alpha", "Alphabet"}, names(again), "results are copies")

	task, err := s.client.AddLocal(s.ctx, "Alpha Two", "two.example", "", "")
	s.Require().NoError(err)
	s.Equal([]string{"Alpha Two", "Alpha", "Alphabet"}, names(s.client.Apply(Filter{Query: "alpha"})))
	s.Require().NoError(task.Wait(s.ctx))
}

func (s *ClientSuite) TestOptions() {
	s.remote = newFakeRemote()
	s.remote.add(types.Bookmark{Name: "One", URL: "https://one", Type: " Chat", Region: "EU"})
	s.remote.add(types.Bookmark{Name: "Two", URL: "https://two", Type: "chat", Region: "us"})
	s.client = s.newClient(WithPins(false))
	s.load()

	o := s.client.Options()
	s.Equal([]string{"chat"}, o.Types)
	s.Equal([]string{"eu", "us"}, o.Regions)
}
