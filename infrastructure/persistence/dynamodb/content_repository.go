package dynamodb

import (
	"context"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const featuredPK = "FEATURED"

// HoroscopeRepository implements ports.HoroscopeRepository using DynamoDB.
// Content is written by the content pipeline; Save methods exist for it
// and for seeding.
type HoroscopeRepository struct {
	table *Table
}

// NewHoroscopeRepository creates a new HoroscopeRepository
func NewHoroscopeRepository(table *Table) *HoroscopeRepository {
	return &HoroscopeRepository{table: table}
}

type horoscopeItem struct {
	keys
	entities.DailyHoroscope
}

type moonPhaseItem struct {
	keys
	entities.MoonPhase
}

type cosmicEventItem struct {
	keys
	entities.CosmicEvent
}

type compatibilityItem struct {
	keys
	entities.Compatibility
}

func horoscopeKey(sign astrology.Sign, date string) (string, string) {
	return "HOROSCOPE#" + string(sign), "DATE#" + date
}

func cosmicPK(month string) string { return "COSMIC#" + month }

func compatibilityPK(a, b astrology.Sign) string {
	return "COMPAT#" + entities.CompatibilityKey(a, b)
}

// GetDaily retrieves a sign's horoscope for a day
func (r *HoroscopeRepository) GetDaily(ctx context.Context, sign astrology.Sign, date string) (*entities.DailyHoroscope, error) {
	pk, sk := horoscopeKey(sign, date)
	var item horoscopeItem
	if err := r.table.get(ctx, "get horoscope", "horoscope", pk, sk, &item); err != nil {
		return nil, err
	}
	h := item.DailyHoroscope
	return &h, nil
}

// SaveDaily stores a daily horoscope
func (r *HoroscopeRepository) SaveDaily(ctx context.Context, h entities.DailyHoroscope) error {
	pk, sk := horoscopeKey(h.Sign, h.Date)
	return r.table.put(ctx, "save horoscope", horoscopeItem{
		keys:           keys{PK: pk, SK: sk, EntityType: entityHoroscope},
		DailyHoroscope: h,
	})
}

// GetMoonPhase retrieves the phase for a day
func (r *HoroscopeRepository) GetMoonPhase(ctx context.Context, date string) (*entities.MoonPhase, error) {
	var item moonPhaseItem
	if err := r.table.get(ctx, "get moon phase", "moon phase", "MOONPHASE", "DATE#"+date, &item); err != nil {
		return nil, err
	}
	m := item.MoonPhase
	return &m, nil
}

// SaveMoonPhase stores a moon phase
func (r *HoroscopeRepository) SaveMoonPhase(ctx context.Context, m entities.MoonPhase) error {
	return r.table.put(ctx, "save moon phase", moonPhaseItem{
		keys:      keys{PK: "MOONPHASE", SK: "DATE#" + m.Date, EntityType: entityMoonPhase},
		MoonPhase: m,
	})
}

// ListCosmicEvents returns a month's events sorted by start date
func (r *HoroscopeRepository) ListCosmicEvents(ctx context.Context, month string) ([]entities.CosmicEvent, error) {
	events := []entities.CosmicEvent{}
	err := r.table.query(ctx, queryRequest{
		op:      "list cosmic events",
		key:     expression.Key("PK").Equal(expression.Value(cosmicPK(month))),
		forward: true,
	}, func(av map[string]types.AttributeValue) error {
		var item cosmicEventItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return err
		}
		events = append(events, item.CosmicEvent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SaveCosmicEvent stores an event under the month it starts in
func (r *HoroscopeRepository) SaveCosmicEvent(ctx context.Context, e entities.CosmicEvent) error {
	start := e.StartDate.UTC()
	return r.table.put(ctx, "save cosmic event", cosmicEventItem{
		keys: keys{
			PK:         cosmicPK(start.Format("2006-01")),
			SK:         "START#" + start.Format(time.RFC3339) + "#" + e.ID,
			EntityType: entityCosmicEvent,
		},
		CosmicEvent: e,
	})
}

// GetCompatibility retrieves the pairing of two signs in either order
func (r *HoroscopeRepository) GetCompatibility(ctx context.Context, a, b astrology.Sign) (*entities.Compatibility, error) {
	var item compatibilityItem
	if err := r.table.get(ctx, "get compatibility", "compatibility", compatibilityPK(a, b), skMetadata, &item); err != nil {
		return nil, err
	}
	c := item.Compatibility
	return &c, nil
}

// SaveCompatibility stores a pairing under its sorted key
func (r *HoroscopeRepository) SaveCompatibility(ctx context.Context, c entities.Compatibility) error {
	return r.table.put(ctx, "save compatibility", compatibilityItem{
		keys:          keys{PK: compatibilityPK(c.Sign1, c.Sign2), SK: skMetadata, EntityType: entityCompatibility},
		Compatibility: c,
	})
}

// ArticleRepository implements ports.ArticleRepository using DynamoDB.
// GSI1 lists a category by publish date; GSI2 holds featured articles.
type ArticleRepository struct {
	table *Table
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(table *Table) *ArticleRepository {
	return &ArticleRepository{table: table}
}

type articleItem struct {
	keys
	entities.Article
}

func articlePK(id string) string { return "ARTICLE#" + id }

func categoryPK(c entities.ArticleCategory) string { return "CATEGORY#" + string(c) }

// ListByCategory returns a category's articles, newest first
func (r *ArticleRepository) ListByCategory(ctx context.Context, category entities.ArticleCategory) ([]entities.Article, error) {
	return r.list(ctx, queryRequest{
		op:    "list articles",
		index: r.table.gsi1,
		key:   expression.Key("GSI1PK").Equal(expression.Value(categoryPK(category))),
	})
}

// ListFeatured returns up to limit featured articles, newest first
func (r *ArticleRepository) ListFeatured(ctx context.Context, limit int) ([]entities.Article, error) {
	return r.list(ctx, queryRequest{
		op:    "list featured articles",
		index: r.table.gsi2,
		key:   expression.Key("GSI2PK").Equal(expression.Value(featuredPK)),
		limit: limit,
	})
}

// GetByID retrieves one article
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entities.Article, error) {
	var item articleItem
	if err := r.table.get(ctx, "get article", "article", articlePK(id), skMetadata, &item); err != nil {
		return nil, err
	}
	a := item.Article
	return &a, nil
}

// Save stores an article and its index entries
func (r *ArticleRepository) Save(ctx context.Context, a entities.Article) error {
	published := "PUBLISHED#" + a.PublishedDate.UTC().Format(time.RFC3339)
	k := keys{
		PK:         articlePK(a.ID),
		SK:         skMetadata,
		GSI1PK:     categoryPK(a.Category),
		GSI1SK:     published,
		EntityType: entityArticle,
	}
	if a.Featured {
		k.GSI2PK = featuredPK
		k.GSI2SK = published
	}
	return r.table.put(ctx, "save article", articleItem{keys: k, Article: a})
}

func (r *ArticleRepository) list(ctx context.Context, req queryRequest) ([]entities.Article, error) {
	articles := []entities.Article{}
	err := r.table.query(ctx, req, func(av map[string]types.AttributeValue) error {
		var item articleItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return err
		}
		articles = append(articles, item.Article)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}
