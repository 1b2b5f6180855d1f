package handler

import (
	"linkshelf/internal/bookmark/models"
	"linkshelf/pkg/types"
)

func toResponse(b *models.Bookmark) types.Bookmark {
	return types.Bookmark{
		ID:     b.ID,
		Name:   b.Name,
		URL:    b.URL,
		Rank:   b.Rank,
		Type:   b.Type,
		Region: b.Region,
	}
}

func toResponses(records []*models.Bookmark) []types.Bookmark {
	out := make([]types.Bookmark, 0, len(records))
	for _, b := range records {
		out = append(out, toResponse(b))
	}
	return out
}
