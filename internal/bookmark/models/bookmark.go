package models

import (
	"cmp"
	"slices"
	"strings"

	dErrors "linkshelf/pkg/domain-errors"
)

// Bookmark is one persisted record of the ordered collection.
type Bookmark struct {
	ID     string
	Name   string
	URL    string
	Rank   int
	Type   string
	Region string
}

// NewBookmark validates and normalizes the user-supplied fields of a record.
// ID and Rank are assigned by the store.
func NewBookmark(name, url, typ, region string) (*Bookmark, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name and url required")
	}
	return &Bookmark{
		Name:   name,
		URL:    url,
		Type:   strings.TrimSpace(typ),
		Region: strings.TrimSpace(region),
	}, nil
}

// Patch lists the fields an update overwrites. Nil means untouched.
type Patch struct {
	Name   *string
	URL    *string
	Type   *string
	Region *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.URL == nil && p.Type == nil && p.Region == nil
}

// Validate rejects patches that would blank a required field.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	}
	if p.URL != nil && strings.TrimSpace(*p.URL) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "url cannot be empty")
	}
	return nil
}

// Apply overwrites the supplied fields on b.
func (p Patch) Apply(b *Bookmark) {
	if p.Name != nil {
		b.Name = strings.TrimSpace(*p.Name)
	}
	if p.URL != nil {
		b.URL = strings.TrimSpace(*p.URL)
	}
	if p.Type != nil {
		b.Type = strings.TrimSpace(*p.Type)
	}
	if p.Region != nil {
		b.Region = strings.TrimSpace(*p.Region)
	}
}

// Compare orders bookmarks by rank, then id.
func Compare(a, b *Bookmark) int {
	if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort orders records in place by (rank, id).
func Sort(records []*Bookmark) {
	slices.SortFunc(records, Compare)
}
