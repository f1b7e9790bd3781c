package handlers

import (
	"net/http"
	"strings"
	"time"

	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/queries"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"
	"astroguia-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentHandler serves horoscopes, moon phases, cosmic events,
// compatibility and learning articles
type ContentHandler struct {
	base
	now func() time.Time
}

// NewContentHandler creates a new content handler
func NewContentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	now func() time.Time,
	logger *zap.Logger,
) *ContentHandler {
	if now == nil {
		now = time.Now
	}
	return &ContentHandler{base: newBase(commandBus, queryBus, errorHandler, logger), now: now}
}

// DailyHoroscope handles GET /horoscopes/{sign}/daily?date=YYYY-MM-DD
func (h *ContentHandler) DailyHoroscope(w http.ResponseWriter, r *http.Request) {
	sign := astrology.Sign(strings.ToLower(chi.URLParam(r, "sign")))
	askSourced[entities.DailyHoroscope](h, w, r, queries.GetDailyHoroscopeQuery{
		Sign: sign,
		Date: h.dateParam(r),
	})
}

// MoonPhase handles GET /moon-phase?date=YYYY-MM-DD
func (h *ContentHandler) MoonPhase(w http.ResponseWriter, r *http.Request) {
	askSourced[entities.MoonPhase](h, w, r, queries.GetMoonPhaseQuery{Date: h.dateParam(r)})
}

// CosmicEvents handles GET /cosmic-events?month=YYYY-MM
func (h *ContentHandler) CosmicEvents(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = utils.MonthKey(h.now())
	}
	askSourced[[]entities.CosmicEvent](h, w, r, queries.GetCosmicEventsQuery{Month: month})
}

// Compatibility handles GET /compatibility?sign1=&sign2=
func (h *ContentHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	askSourced[entities.Compatibility](h, w, r, queries.GetCompatibilityQuery{
		Sign1: astrology.Sign(strings.ToLower(q.Get("sign1"))),
		Sign2: astrology.Sign(strings.ToLower(q.Get("sign2"))),
	})
}

// ArticleCategories handles GET /articles/categories
func (h *ContentHandler) ArticleCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListArticleCategoriesQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, h.meta(r))
}

// Articles handles GET /articles?category=
func (h *ContentHandler) Articles(w http.ResponseWriter, r *http.Request) {
	category := entities.ArticleCategory(strings.ToLower(r.URL.Query().Get("category")))
	askSourced[[]entities.Article](h, w, r, queries.ListArticlesQuery{Category: category})
}

// FeaturedArticles handles GET /articles/featured
func (h *ContentHandler) FeaturedArticles(w http.ResponseWriter, r *http.Request) {
	askSourced[[]entities.Article](h, w, r, queries.GetFeaturedArticlesQuery{})
}

// Article handles GET /articles/{articleID}
func (h *ContentHandler) Article(w http.ResponseWriter, r *http.Request) {
	askSourced[entities.Article](h, w, r, queries.GetArticleQuery{ArticleID: chi.URLParam(r, "articleID")})
}

func (h *ContentHandler) dateParam(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return utils.DateKey(h.now())
}

// askSourced runs a tiered read and reports the serving tier in meta.source
func askSourced[T any](h *ContentHandler, w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	res, ok := result.(*queries.Sourced[T])
	if !ok || res == nil {
		h.errors.Handle(w, r, pkgerrors.NewInternalError("unexpected query result"))
		return
	}

	meta := h.meta(r)
	meta.Source = res.Source
	common.RespondWithMeta(w, http.StatusOK, res.Data, meta)
}
