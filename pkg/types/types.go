// Package types defines the JSON wire types of the bookmarks API. Both the
// server handlers and the client SDK speak these.
package types

// Bookmark is one record of the ordered collection. ID is empty for a record
// the client has not persisted yet.
type Bookmark struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Rank   int    `json:"rank"`
	Type   string `json:"type,omitempty"`
	Region string `json:"region,omitempty"`
}

// Pending reports whether the record still waits for a store-assigned id.
func (b Bookmark) Pending() bool {
	return b.ID == ""
}

// CreateBookmarkRequest is the POST /api/bookmarks body.
type CreateBookmarkRequest struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Region string `json:"region,omitempty"`
}

// UpdateBookmarkRequest is the PATCH /api/bookmarks body. Nil fields are left
// untouched.
type UpdateBookmarkRequest struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	URL    *string `json:"url,omitempty"`
	Type   *string `json:"type,omitempty"`
	Region *string `json:"region,omitempty"`
}

// ReorderRequest is the PUT /api/bookmarks body.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// LoginRequest is the POST /api/auth body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthStatus is returned by GET /api/auth.
type AuthStatus struct {
	IsAdmin bool `json:"isAdmin"`
}

// OKResponse acknowledges mutations that return no resource.
type OKResponse struct {
	OK bool `json:"ok"`
}
