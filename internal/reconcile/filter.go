package reconcile

import (
	"strings"

	pstrings "linkshelf/pkg/platform/strings"
	"linkshelf/pkg/types"
)

// AllValues disables a filter dimension.
const AllValues = "all"

// Filter narrows the visible records. Type and Region match exactly
// (case-insensitive); Query is a substring of name, url and type.
type Filter struct {
	Type   string
	Region string
	Query  string
}

func (f Filter) normalize() Filter {
	norm := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == AllValues {
			return ""
		}
		return v
	}
	return Filter{
		Type:   norm(f.Type),
		Region: norm(f.Region),
		Query:  strings.ToLower(strings.TrimSpace(f.Query)),
	}
}

// match expects a normalized filter.
func (f Filter) match(b types.Bookmark) bool {
	if f.Type != "" && strings.ToLower(b.Type) != f.Type {
		return false
	}
	if f.Region != "" && strings.ToLower(b.Region) != f.Region {
		return false
	}
	if f.Query == "" {
		return true
	}
	haystack := strings.ToLower(b.Name + " " + b.URL + " " + b.Type)
	return strings.Contains(haystack, f.Query)
}

// project is the pure filter over items.
func project(items []types.Bookmark, f Filter) []types.Bookmark {
	out := make([]types.Bookmark, 0, len(items))
	for _, b := range items {
		if f.match(b) {
			out = append(out, b)
		}
	}
	return out
}

// Options lists the distinct type and region values present, lowercased and
// sorted, for building filter choices.
type Options struct {
	Types   []string
	Regions []string
}

func optionsOf(items []types.Bookmark) Options {
	typesSeen := make([]string, 0, len(items))
	regions := make([]string, 0, len(items))
	for _, b := range items {
		typesSeen = append(typesSeen, b.Type)
		regions = append(regions, b.Region)
	}
	return Options{
		Types:   pstrings.SortedDistinctLower(typesSeen),
		Regions: pstrings.SortedDistinctLower(regions),
	}
}
