package handlers

import (
	"context"
	"time"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	"astroguia-backend/application/services"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/services/learn"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// ArticleQueryHandler serves learning articles with the built-in catalogue
// as fallback.
type ArticleQueryHandler struct {
	repo    ports.ArticleRepository
	catalog *learn.Catalog
	limit   int

	lists   *services.TieredProvider[[]entities.Article]
	article *services.TieredProvider[entities.Article]
}

// NewArticleQueryHandler creates a new article query handler
func NewArticleQueryHandler(
	repo ports.ArticleRepository,
	catalog *learn.Catalog,
	cfg *config.DomainConfig,
	cache ports.Cache,
	cacheTTL time.Duration,
	metrics ports.Metrics,
	logger *zap.Logger,
) *ArticleQueryHandler {
	tiered := services.TieredConfig{
		Policy:   services.AlwaysFallback,
		Cache:    cache,
		CacheTTL: cacheTTL,
		Metrics:  metrics,
		Logger:   logger,
	}
	return &ArticleQueryHandler{
		repo:    repo,
		catalog: catalog,
		limit:   cfg.FeaturedArticleLimit,
		lists:   services.NewTieredProvider[[]entities.Article]("articles", tiered),
		article: services.NewTieredProvider[entities.Article]("article", tiered),
	}
}

// HandleCategories returns the fixed categories
func (h *ArticleQueryHandler) HandleCategories(_ context.Context, _ queries.ListArticleCategoriesQuery) ([]entities.ArticleCategoryInfo, error) {
	return entities.ArticleCategories(), nil
}

// HandleByCategory returns a category's articles, newest first
func (h *ArticleQueryHandler) HandleByCategory(ctx context.Context, query queries.ListArticlesQuery) (*queries.Sourced[[]entities.Article], error) {
	res, err := h.lists.Get(ctx, "category:"+string(query.Category),
		func(ctx context.Context) ([]entities.Article, error) {
			return nonEmpty(h.repo.ListByCategory(ctx, query.Category))
		},
		func(context.Context) ([]entities.Article, error) {
			return h.catalog.ByCategory(query.Category), nil
		},
	)
	return sourced(res, err)
}

// HandleFeatured returns up to the configured number of featured articles
func (h *ArticleQueryHandler) HandleFeatured(ctx context.Context, _ queries.GetFeaturedArticlesQuery) (*queries.Sourced[[]entities.Article], error) {
	res, err := h.lists.Get(ctx, "featured",
		func(ctx context.Context) ([]entities.Article, error) {
			return nonEmpty(h.repo.ListFeatured(ctx, h.limit))
		},
		func(context.Context) ([]entities.Article, error) {
			featured := h.catalog.Featured()
			if h.limit > 0 && len(featured) > h.limit {
				featured = featured[:h.limit]
			}
			return featured, nil
		},
	)
	return sourced(res, err)
}

// HandleByID returns one article, or a NOT_FOUND error
func (h *ArticleQueryHandler) HandleByID(ctx context.Context, query queries.GetArticleQuery) (*queries.Sourced[entities.Article], error) {
	res, err := h.article.Get(ctx, query.ArticleID,
		func(ctx context.Context) (entities.Article, error) {
			return deref(h.repo.GetByID(ctx, query.ArticleID))
		},
		func(context.Context) (entities.Article, error) {
			a, ok := h.catalog.ByID(query.ArticleID)
			if !ok {
				return entities.Article{}, pkgerrors.NewNotFoundError("article")
			}
			return a, nil
		},
	)
	return sourced(res, err)
}

// nonEmpty treats an empty remote listing as missing so the catalogue answers
func nonEmpty(articles []entities.Article, err error) ([]entities.Article, error) {
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, pkgerrors.NewNotFoundError("articles")
	}
	return articles, nil
}
