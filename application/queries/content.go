package queries

import (
	"regexp"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"
	pkgerrors "astroguia-backend/pkg/errors"
)

var (
	dateKeyPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// GetDailyHoroscopeQuery gets a sign's horoscope for a day (YYYY-MM-DD)
type GetDailyHoroscopeQuery struct {
	Sign astrology.Sign
	Date string
}

// Validate validates the GetDailyHoroscopeQuery
func (q GetDailyHoroscopeQuery) Validate() error {
	if !q.Sign.Valid() {
		return pkgerrors.NewValidationErrorf("unknown sign %q", q.Sign)
	}
	if !dateKeyPattern.MatchString(q.Date) {
		return pkgerrors.NewValidationError("date must be YYYY-MM-DD")
	}
	return nil
}

// GetMoonPhaseQuery gets the moon phase for a day (YYYY-MM-DD)
type GetMoonPhaseQuery struct {
	Date string
}

// Validate validates the GetMoonPhaseQuery
func (q GetMoonPhaseQuery) Validate() error {
	if !dateKeyPattern.MatchString(q.Date) {
		return pkgerrors.NewValidationError("date must be YYYY-MM-DD")
	}
	return nil
}

// GetCosmicEventsQuery gets a month's events (YYYY-MM)
type GetCosmicEventsQuery struct {
	Month string
}

// Validate validates the GetCosmicEventsQuery
func (q GetCosmicEventsQuery) Validate() error {
	if !monthKeyPattern.MatchString(q.Month) {
		return pkgerrors.NewValidationError("month must be YYYY-MM")
	}
	return nil
}

// GetCompatibilityQuery gets the compatibility of two signs
type GetCompatibilityQuery struct {
	Sign1 astrology.Sign
	Sign2 astrology.Sign
}

// Validate validates the GetCompatibilityQuery
func (q GetCompatibilityQuery) Validate() error {
	if !q.Sign1.Valid() || !q.Sign2.Valid() {
		return pkgerrors.NewValidationError("two valid signs are required")
	}
	return nil
}

// ListArticleCategoriesQuery lists the fixed article categories
type ListArticleCategoriesQuery struct{}

// Validate validates the ListArticleCategoriesQuery
func (q ListArticleCategoriesQuery) Validate() error { return nil }

// ListArticlesQuery lists a category's articles, newest first
type ListArticlesQuery struct {
	Category entities.ArticleCategory
}

// Validate validates the ListArticlesQuery
func (q ListArticlesQuery) Validate() error {
	if !q.Category.Valid() {
		return pkgerrors.NewValidationErrorf("unknown category %q", q.Category)
	}
	return nil
}

// GetFeaturedArticlesQuery lists featured articles
type GetFeaturedArticlesQuery struct{}

// Validate validates the GetFeaturedArticlesQuery
func (q GetFeaturedArticlesQuery) Validate() error { return nil }

// GetArticleQuery gets one article
type GetArticleQuery struct {
	ArticleID string
}

// Validate validates the GetArticleQuery
func (q GetArticleQuery) Validate() error {
	if q.ArticleID == "" {
		return pkgerrors.NewValidationError("article ID is required")
	}
	return nil
}
