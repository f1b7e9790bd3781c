// Package learn serves the built-in article catalogue used when the
// document store has no articles for a request.
package learn

import (
	"embed"
	"strings"
	"time"

	"astroguia-backend/domain/core/entities"
)

//go:embed content/*.md
var content embed.FS

const day = 24 * time.Hour

type template struct {
	suffix, title, description, author string
	readTime                           int
	premium                            bool
	age                                time.Duration
	tags                               []string
}

var categoryTemplates = []template{
	{"1", "Understanding the Basics", "An introduction to the foundational concepts", "AstroGuía Team", 5, false, 7 * day, []string{"beginner", "fundamentals"}},
	{"2", "Advanced Techniques", "Dive deeper into complex astrological concepts", "Dr. Stella Cosmos", 10, true, 14 * day, []string{"advanced", "techniques"}},
	{"3", "Historical Perspectives", "The evolution of astrological practices through history", "Prof. Luna Star", 8, false, 21 * day, []string{"history", "traditions"}},
}

type featured struct {
	template
	category entities.ArticleCategory
}

var featuredArticles = []featured{
	{template{"1", "Understanding Mercury Retrograde", "What it really means when Mercury goes retrograde and how to navigate this period",
		"Dr. Stella Cosmos", 7, false, 5 * day, []string{"mercury", "retrograde", "practical tips"}}, entities.CategoryPlanets},
	{template{"2", "The Four Elements in Astrology", "How fire, earth, air, and water shape our personalities and relationships",
		"Prof. Luna Star", 8, false, 10 * day, []string{"elements", "personality", "compatibility"}}, entities.CategoryBasics},
	{template{"3", "Saturn Return: Your Quarter-Life Crisis Explained", "What happens when Saturn returns to its birth position and how to use this transit for growth",
		"Dr. Stella Cosmos", 10, true, 15 * day, []string{"saturn return", "life transitions", "personal growth"}}, entities.CategoryTransits},
}

// Catalog builds fallback articles with publish dates relative to its clock
type Catalog struct {
	now func() time.Time
}

// NewCatalog creates a catalogue; a nil clock means time.Now
func NewCatalog(now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{now: now}
}

// ByCategory returns the three template articles for category, newest first
func (c *Catalog) ByCategory(category entities.ArticleCategory) []entities.Article {
	body := readContent(string(category))
	now := c.now().UTC()

	out := make([]entities.Article, 0, len(categoryTemplates))
	for _, t := range categoryTemplates {
		out = append(out, t.article(string(category)+"_"+t.suffix, category, body, now, "https://via.placeholder.com/300x200"))
	}
	return out
}

// Featured returns the fixed featured articles
func (c *Catalog) Featured() []entities.Article {
	now := c.now().UTC()
	out := make([]entities.Article, 0, len(featuredArticles))
	for _, f := range featuredArticles {
		a := f.article("featured_"+f.suffix, f.category, readContent("featured_"+f.suffix), now, "https://via.placeholder.com/400x300")
		a.Featured = true
		out = append(out, a)
	}
	return out
}

// ByID finds a catalogue article by its identifier
func (c *Catalog) ByID(id string) (entities.Article, bool) {
	for _, a := range c.Featured() {
		if a.ID == id {
			return a, true
		}
	}
	i := strings.LastIndex(id, "_")
	if i <= 0 {
		return entities.Article{}, false
	}
	category := entities.ArticleCategory(id[:i])
	if !category.Valid() {
		return entities.Article{}, false
	}
	for _, a := range c.ByCategory(category) {
		if a.ID == id {
			return a, true
		}
	}
	return entities.Article{}, false
}

func (t template) article(id string, category entities.ArticleCategory, body string, now time.Time, image string) entities.Article {
	return entities.Article{
		ID:            id,
		Title:         t.title,
		Description:   t.description,
		Content:       body,
		Category:      category,
		ReadTime:      t.readTime,
		ImageURL:      image,
		IsPremium:     t.premium,
		Author:        t.author,
		PublishedDate: now.Add(-t.age),
		Tags:          append([]string(nil), t.tags...),
	}
}

func readContent(name string) string {
	data, err := content.ReadFile("content/" + name + ".md")
	if err != nil {
		data, _ = content.ReadFile("content/other.md")
	}
	return strings.TrimRight(string(data), "\n")
}
