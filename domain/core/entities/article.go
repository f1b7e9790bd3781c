package entities

import "time"

// ArticleCategory groups learning articles
type ArticleCategory string

const (
	CategoryBasics   ArticleCategory = "basics"
	CategoryPlanets  ArticleCategory = "planets"
	CategorySigns    ArticleCategory = "signs"
	CategoryHouses   ArticleCategory = "houses"
	CategoryAspects  ArticleCategory = "aspects"
	CategoryTransits ArticleCategory = "transits"
	CategoryOther    ArticleCategory = "other"
)

// ArticleCategoryInfo describes a category for navigation
type ArticleCategoryInfo struct {
	ID          ArticleCategory `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IconName    string          `json:"iconName"`
}

var articleCategories = []ArticleCategoryInfo{
	{CategoryBasics, "Basics", "Fundamental concepts of astrology", "school"},
	{CategoryPlanets, "Planets", "Planetary influences and meanings", "public"},
	{CategorySigns, "Zodiac Signs", "Characteristics of the 12 zodiac signs", "star"},
	{CategoryHouses, "Houses", "The 12 houses and their significance", "home"},
	{CategoryAspects, "Aspects", "Planetary relationships and their effects", "timeline"},
	{CategoryTransits, "Transits", "How planetary movements affect you", "sync"},
	{CategoryOther, "Other", "Additional astrological topics", "more_horiz"},
}

// ArticleCategories returns the fixed category list
func ArticleCategories() []ArticleCategoryInfo {
	out := make([]ArticleCategoryInfo, len(articleCategories))
	copy(out, articleCategories)
	return out
}

// Valid reports whether c is a known category
func (c ArticleCategory) Valid() bool {
	for _, info := range articleCategories {
		if info.ID == c {
			return true
		}
	}
	return false
}

// Article is a learning article
type Article struct {
	ID            string          `json:"id" dynamodbav:"article_id"`
	Title         string          `json:"title" dynamodbav:"title"`
	Description   string          `json:"description" dynamodbav:"description"`
	Content       string          `json:"content" dynamodbav:"content"`
	Category      ArticleCategory `json:"category" dynamodbav:"category"`
	ReadTime      int             `json:"readTime" dynamodbav:"read_time"`
	ImageURL      string          `json:"imageUrl" dynamodbav:"image_url"`
	IsPremium     bool            `json:"isPremium" dynamodbav:"is_premium"`
	Featured      bool            `json:"featured" dynamodbav:"featured"`
	Author        string          `json:"author,omitempty" dynamodbav:"author,omitempty"`
	PublishedDate time.Time       `json:"publishedDate" dynamodbav:"published_date"`
	Tags          []string        `json:"tags" dynamodbav:"tags"`
}
