package commands

import (
	"context"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/events"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// SaveFavoriteCommand saves an item to a user's favorites
type SaveFavoriteCommand struct {
	UserID   string
	ItemType string
	ItemID   string
}

// Validate validates the command
func (c SaveFavoriteCommand) Validate() error {
	if c.UserID == "" || c.ItemID == "" {
		return pkgerrors.NewValidationError("user ID and item ID are required")
	}
	return nil
}

// RemoveFavoriteCommand soft-deletes a favorite
type RemoveFavoriteCommand struct {
	UserID   string
	ItemType string
	ItemID   string
}

// Validate validates the command
func (c RemoveFavoriteCommand) Validate() error {
	if c.UserID == "" || c.ItemID == "" {
		return pkgerrors.NewValidationError("user ID and item ID are required")
	}
	return nil
}

// FavoritesHandler handles favorite commands
type FavoritesHandler struct {
	favorites ports.FavoriteRepository
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	now       ports.Clock
	logger    *zap.Logger
}

// NewFavoritesHandler creates a new handler instance
func NewFavoritesHandler(
	favorites ports.FavoriteRepository,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	now ports.Clock,
	logger *zap.Logger,
) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
		logger:    logger,
	}
}

// HandleSave saves a favorite. Saving a live favorite again is a no-op.
func (h *FavoritesHandler) HandleSave(ctx context.Context, cmd SaveFavoriteCommand) (*entities.Favorite, error) {
	favorite, err := entities.NewFavorite(cmd.UserID, cmd.ItemType, cmd.ItemID, h.cfg, h.now())
	if err != nil {
		return nil, err
	}

	existing, err := h.favorites.Get(ctx, favorite.UserID, favorite.ItemType, favorite.ItemID)
	switch {
	case err == nil && !existing.Deleted:
		return existing, nil
	case err != nil && !pkgerrors.IsNotFound(err):
		return nil, err
	}

	if h.cfg.MaxFavoritesPerType > 0 {
		live, err := h.favorites.ListByType(ctx, favorite.UserID, favorite.ItemType)
		if err != nil {
			return nil, err
		}
		if len(live) >= h.cfg.MaxFavoritesPerType {
			return nil, pkgerrors.NewConflictError("favorite limit reached").
				WithDetail("limit", h.cfg.MaxFavoritesPerType)
		}
	}

	if err := h.favorites.Save(ctx, favorite); err != nil {
		return nil, err
	}
	h.publish(ctx, events.TypeFavoriteSaved, favorite)
	return favorite, nil
}

// HandleRemove soft-deletes a favorite
func (h *FavoritesHandler) HandleRemove(ctx context.Context, cmd RemoveFavoriteCommand) (*entities.Favorite, error) {
	favorite, err := h.favorites.Get(ctx, cmd.UserID, cmd.ItemType, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if favorite.Deleted {
		return nil, pkgerrors.NewNotFoundError("favorite")
	}

	favorite.Remove(h.now())
	if err := h.favorites.Save(ctx, favorite); err != nil {
		return nil, err
	}
	h.publish(ctx, events.TypeFavoriteRemoved, favorite)
	return favorite, nil
}

func (h *FavoritesHandler) publish(ctx context.Context, eventType string, f *entities.Favorite) {
	evt := events.NewFavoriteChanged(eventType, f.UserID, f.ItemType, f.ItemID, h.now())
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Error("Failed to publish favorite event", zap.String("user_id", f.UserID), zap.Error(err))
	}
}
