package learn

import (
	"testing"
	"time"

	"astroguia-backend/domain/core/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock() time.Time { return time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC) }

func TestCatalog_ByCategory(t *testing.T) {
	c := NewCatalog(clock)

	for _, info := range entities.ArticleCategories() {
		articles := c.ByCategory(info.ID)
		require.Len(t, articles, 3, info.ID)
		for i, a := range articles {
			assert.Equal(t, info.ID, a.Category)
			assert.NotEmpty(t, a.Content)
			assert.True(t, a.Content[0] == '#', "markdown heading expected")
			if i > 0 {
				assert.True(t, a.PublishedDate.Before(articles[i-1].PublishedDate), "newest first")
			}
		}
	}

	assert.Contains(t, c.ByCategory(entities.CategoryAspects)[0].Content, "Planetary Aspects")
	assert.Equal(t, "houses_2", c.ByCategory(entities.CategoryHouses)[1].ID)
}

func TestCatalog_Featured(t *testing.T) {
	featured := NewCatalog(clock).Featured()
	require.Len(t, featured, 3)
	assert.Equal(t, "featured_1", featured[0].ID)
	assert.Contains(t, featured[1].Content, "Four Elements")
	for _, a := range featured {
		assert.True(t, a.Featured)
	}
}

func TestCatalog_ByID(t *testing.T) {
	c := NewCatalog(clock)

	a, ok := c.ByID("featured_3")
	require.True(t, ok)
	assert.Equal(t, entities.CategoryTransits, a.Category)

	a, ok = c.ByID("signs_2")
	require.True(t, ok)
	assert.Equal(t, "Advanced Techniques", a.Title)

	_, ok = c.ByID("signs_9")
	assert.False(t, ok)
	_, ok = c.ByID("nothing")
	assert.False(t, ok)
}
