package entities

import (
	"strings"
	"time"

	"astroguia-backend/domain/config"
	pkgerrors "astroguia-backend/pkg/errors"
)

// Favorite marks an item a user saved. Removal is a soft delete.
type Favorite struct {
	UserID    string     `json:"userId" dynamodbav:"user_id"`
	ItemType  string     `json:"itemType" dynamodbav:"item_type"`
	ItemID    string     `json:"itemId" dynamodbav:"item_id"`
	CreatedAt time.Time  `json:"createdAt" dynamodbav:"created_at"`
	Deleted   bool       `json:"deleted" dynamodbav:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" dynamodbav:"deleted_at,omitempty"`
}

// NewFavorite validates and creates a live favorite
func NewFavorite(userID, itemType, itemID string, cfg *config.DomainConfig, now time.Time) (*Favorite, error) {
	itemType = strings.TrimSpace(itemType)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return nil, pkgerrors.NewValidationError("user ID and item ID are required")
	}
	if !cfg.IsFavoriteItemType(itemType) {
		return nil, pkgerrors.NewValidationErrorf("unsupported favorite type %q", itemType)
	}
	return &Favorite{
		UserID:    userID,
		ItemType:  itemType,
		ItemID:    itemID,
		CreatedAt: now.UTC(),
	}, nil
}

// Remove soft-deletes the favorite
func (f *Favorite) Remove(now time.Time) {
	t := now.UTC()
	f.Deleted = true
	f.DeletedAt = &t
}

// Key is the composite identity of a favorite
func (f *Favorite) Key() string {
	return FavoriteKey(f.ItemType, f.ItemID)
}

// FavoriteKey builds the per-user identity of a favorite
func FavoriteKey(itemType, itemID string) string {
	return itemType + "#" + itemID
}
