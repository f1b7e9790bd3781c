package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/services/chart"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAPI is a mock implementation of the DynamoDB API subset
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *MockAPI) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func (m *MockAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockAPI) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func newTestTable(api *MockAPI) *Table {
	return NewTable(api, "astroguia", "GSI1", "GSI2", zap.NewNop())
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s is not a string", name)
	return v.Value
}

func testChart(t *testing.T, owner string) *entities.ChartRecord {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen := chart.NewGenerator(chart.NewSeededProvider(3, cfg), cfg, chart.WithClock(func() time.Time { return at }))
	birth, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: "1992-07-30", Place: "Porto"})
	require.NoError(t, err)
	c, err := gen.Generate(context.Background(), owner, birth)
	require.NoError(t, err)
	return c
}

func TestChartRepository_SaveWritesKeysAndSyncedFlag(t *testing.T) {
	api := new(MockAPI)
	repo := NewChartRepository(newTestTable(api))
	c := testChart(t, "user-1").MarkUnsynced()

	var written map[string]types.AttributeValue
	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.TableName) == "astroguia"
	})).Run(func(args mock.Arguments) {
		written = args.Get(1).(*dynamodb.PutItemInput).Item
	}).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, repo.Save(context.Background(), c))

	assert.Equal(t, "CHART#"+c.ID().String(), stringAttr(t, written, "PK"))
	assert.Equal(t, "METADATA", stringAttr(t, written, "SK"))
	assert.Equal(t, "OWNER#user-1", stringAttr(t, written, "GSI1PK"))
	assert.Contains(t, stringAttr(t, written, "GSI1SK"), "CREATED#2024-05-01T12:00:00Z#")
	assert.Equal(t, "CHART", stringAttr(t, written, "EntityType"))
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, written["synced"])
	_, hasGSI2 := written["GSI2PK"]
	assert.False(t, hasGSI2)
}

func TestChartRepository_GetByIDRoundTrip(t *testing.T) {
	api := new(MockAPI)
	repo := NewChartRepository(newTestTable(api))
	c := testChart(t, "user-1")

	item, err := attributevalue.MarshalMap(chartItem{
		keys:          keys{PK: chartPK(c.ID().String()), SK: skMetadata},
		ChartDocument: c.ToDocument(),
	})
	require.NoError(t, err)
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	got, err := repo.GetByID(context.Background(), c.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.ID())
	assert.Equal(t, c.SunSign(), got.SunSign())
	assert.True(t, got.Synced())
}

func TestChartRepository_GetByIDMissing(t *testing.T) {
	api := new(MockAPI)
	repo := NewChartRepository(newTestTable(api))
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := repo.GetByID(context.Background(), valueobjects.NewChartID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestChartRepository_ErrorsAreClassified(t *testing.T) {
	api := new(MockAPI)
	repo := NewChartRepository(newTestTable(api))
	api.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := repo.Save(context.Background(), testChart(t, "user-1"))
	assert.True(t, pkgerrors.IsPersistence(err))
	assert.True(t, pkgerrors.IsRetryable(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = repo.Save(ctx, testChart(t, "user-1"))
	assert.True(t, pkgerrors.IsCancelled(err))
	assert.False(t, pkgerrors.IsPersistence(err))
}

func TestChartRepository_ListByOwnerPaginates(t *testing.T) {
	api := new(MockAPI)
	repo := NewChartRepository(newTestTable(api))
	first, second := testChart(t, "user-1"), testChart(t, "user-1")

	page := func(c *entities.ChartRecord) map[string]types.AttributeValue {
		item, err := attributevalue.MarshalMap(chartItem{ChartDocument: c.ToDocument()})
		require.NoError(t, err)
		return item
	}
	cursor := map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "x"}}

	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{
		Items:            []map[string]types.AttributeValue{page(first)},
		LastEvaluatedKey: cursor,
	}, nil).Once()
	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil &&
			aws.ToString(in.IndexName) == "GSI1" &&
			!aws.ToBool(in.ScanIndexForward)
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{page(second)},
	}, nil).Once()

	charts, err := repo.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, charts, 2)
	assert.Equal(t, first.ID(), charts[0].ID())
	assert.Equal(t, second.ID(), charts[1].ID())
	api.AssertExpectations(t)
}

func TestUserRepository_GetAndSave(t *testing.T) {
	api := new(MockAPI)
	repo := NewUserRepository(newTestTable(api))
	user, err := entities.NewUser("user-1", "a@example.com", time.Now())
	require.NoError(t, err)

	var written map[string]types.AttributeValue
	api.On("PutItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(*dynamodb.PutItemInput).Item
	}).Return(&dynamodb.PutItemOutput{}, nil)
	require.NoError(t, repo.Save(context.Background(), user))
	assert.Equal(t, "USER#user-1", stringAttr(t, written, "PK"))
	assert.Equal(t, "PROFILE", stringAttr(t, written, "SK"))

	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
		return pk == "USER#user-1"
	})).Return(&dynamodb.GetItemOutput{Item: written}, nil)

	got, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	api.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return in.Key["PK"].(*types.AttributeValueMemberS).Value == "USER#user-1" &&
			in.Key["SK"].(*types.AttributeValueMemberS).Value == "PROFILE"
	})).Return(&dynamodb.DeleteItemOutput{}, nil)
	require.NoError(t, repo.Delete(context.Background(), "user-1"))
	api.AssertExpectations(t)
}

func TestFavoriteRepository_ListByTypeFiltersAndSorts(t *testing.T) {
	api := new(MockAPI)
	repo := NewFavoriteRepository(newTestTable(api))
	older := entities.Favorite{UserID: "u", ItemType: "article", ItemID: "a1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := entities.Favorite{UserID: "u", ItemType: "article", ItemID: "a2", CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}

	items := make([]map[string]types.AttributeValue, 0, 2)
	for _, f := range []entities.Favorite{older, newer} {
		item, err := attributevalue.MarshalMap(favoriteItem{Favorite: f})
		require.NoError(t, err)
		items = append(items, item)
	}

	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.FilterExpression != nil && in.IndexName == nil
	})).Return(&dynamodb.QueryOutput{Items: items}, nil)

	got, err := repo.ListByType(context.Background(), "u", "article")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a2", got[0].ItemID)
	assert.Equal(t, "a1", got[1].ItemID)
}

func TestHoroscopeRepository_Lookups(t *testing.T) {
	api := new(MockAPI)
	repo := NewHoroscopeRepository(newTestTable(api))

	item, err := attributevalue.MarshalMap(horoscopeItem{DailyHoroscope: entities.DailyHoroscope{
		Sign: astrology.Leo, Date: "2024-05-01", Mood: "bright",
	}})
	require.NoError(t, err)
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return in.Key["PK"].(*types.AttributeValueMemberS).Value == "HOROSCOPE#leo" &&
			in.Key["SK"].(*types.AttributeValueMemberS).Value == "DATE#2024-05-01"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	h, err := repo.GetDaily(context.Background(), astrology.Leo, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "bright", h.Mood)

	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return in.Key["PK"].(*types.AttributeValueMemberS).Value == "COMPAT#"+entities.CompatibilityKey(astrology.Leo, astrology.Aries)
	})).Return(&dynamodb.GetItemOutput{}, nil)

	_, err = repo.GetCompatibility(context.Background(), astrology.Leo, astrology.Aries)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestArticleRepository_SaveIndexesFeatured(t *testing.T) {
	api := new(MockAPI)
	repo := NewArticleRepository(newTestTable(api))

	var written map[string]types.AttributeValue
	api.On("PutItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(*dynamodb.PutItemInput).Item
	}).Return(&dynamodb.PutItemOutput{}, nil)

	err := repo.Save(context.Background(), entities.Article{
		ID:            "intro",
		Category:      entities.CategoryBasics,
		Featured:      true,
		PublishedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "CATEGORY#basics", stringAttr(t, written, "GSI1PK"))
	assert.Equal(t, "FEATURED", stringAttr(t, written, "GSI2PK"))
	assert.Equal(t, "PUBLISHED#2024-03-01T00:00:00Z", stringAttr(t, written, "GSI2SK"))
}

func TestArticleRepository_ListFeaturedHonoursLimit(t *testing.T) {
	api := new(MockAPI)
	repo := NewArticleRepository(newTestTable(api))

	items := make([]map[string]types.AttributeValue, 0, 3)
	for _, id := range []string{"a", "b", "c"} {
		item, err := attributevalue.MarshalMap(articleItem{Article: entities.Article{ID: id}})
		require.NoError(t, err)
		items = append(items, item)
	}
	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == "GSI2"
	})).Return(&dynamodb.QueryOutput{Items: items}, nil)

	got, err := repo.ListFeatured(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
}
