package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"astroguia-backend/application/commands"
	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/queries"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/services/chart"
	"astroguia-backend/interfaces/http/rest/middleware"
	"astroguia-backend/pkg/auth"
	pkgerrors "astroguia-backend/pkg/errors"
	"astroguia-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret"

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Source     string `json:"source"`
		Synced     *bool  `json:"synced"`
		Pagination *struct {
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type testServer struct {
	handler    *chi.Mux
	router     *Router
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	token      string
}

func newTestServer(t *testing.T, requestsPerWindow int) *testServer {
	t.Helper()
	logger := zap.NewNop()

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: testSecret, Issuer: "astroguia"})
	require.NoError(t, err)
	token, err := auth.NewJWTGenerator(testSecret, "astroguia", nil, time.Hour).GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)

	limiter := auth.NewSlidingWindowLimiter(requestsPerWindow, time.Minute)
	collector := observability.NewCollector("astroguia_test")

	commandBus := bus.NewCommandBus()
	queryBus := querybus.NewQueryBus()
	router := NewRouter(
		commandBus,
		queryBus,
		middleware.NewAuthenticator(validator, limiter, false, logger),
		pkgerrors.NewErrorHandler(logger, false),
		observability.NewRecorder(collector, nil),
		collector.Handler(),
		RouterConfig{EnableCORS: true, AllowedOrigins: []string{"*"}},
		logger,
	)
	router.now = func() time.Time { return time.Date(2024, 8, 3, 9, 0, 0, 0, time.UTC) }

	return &testServer{
		router:     router,
		commandBus: commandBus,
		queryBus:   queryBus,
		token:      token,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	if s.handler == nil {
		s.handler = s.router.Setup()
	}
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sampleChart(t *testing.T, owner string) *entities.ChartRecord {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	gen := chart.NewGenerator(chart.NewSeededProvider(11, cfg), cfg)
	birth, err := valueobjects.NewBirthDetails(valueobjects.BirthDetailsInput{Date: "1990-03-25"})
	require.NoError(t, err)
	c, err := gen.Generate(context.Background(), owner, birth)
	require.NoError(t, err)
	return c
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "astroguia_test_http_requests_total")
}

func TestRouter_ReadinessReportsFailingDependency(t *testing.T) {
	s := newTestServer(t, 100)
	s.router.AddReadinessCheck("local_store", func(context.Context) error { return nil })
	s.router.AddReadinessCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	rec := s.do(t, http.MethodGet, "/ready", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(t, http.MethodGet, "/api/v1/charts", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RateLimitsCallers(t *testing.T) {
	s := newTestServer(t, 1)
	require.NoError(t, s.queryBus.Register(queries.GetMoonPhaseQuery{}, querybus.Typed(
		func(context.Context, queries.GetMoonPhaseQuery) (*queries.Sourced[entities.MoonPhase], error) {
			return &queries.Sourced[entities.MoonPhase]{Source: "remote"}, nil
		})))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/moon-phase", "", true).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodGet, "/api/v1/moon-phase", "", true).Code)
}

func TestChartRoutes_GenerateReportsSyncState(t *testing.T) {
	tests := []struct {
		name       string
		unsynced   bool
		wantStatus int
	}{
		{name: "stored remotely", wantStatus: http.StatusCreated},
		{name: "kept locally", unsynced: true, wantStatus: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 100)
			var got commands.GenerateChartCommand
			require.NoError(t, s.commandBus.Register(commands.GenerateChartCommand{}, bus.Typed(
				func(_ context.Context, cmd commands.GenerateChartCommand) (*entities.ChartRecord, error) {
					got = cmd
					c := sampleChart(t, cmd.OwnerID)
					if tt.unsynced {
						c = c.MarkUnsynced()
					}
					return c, nil
				})))

			rec := s.do(t, http.MethodPost, "/api/v1/charts", `{"birthDate":"1990-03-25","birthPlace":"Lisbon"}`, true)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			resp := decode(t, rec)
			require.NotNil(t, resp.Meta.Synced)
			assert.Equal(t, !tt.unsynced, *resp.Meta.Synced)
			assert.Equal(t, "user-1", got.OwnerID)
			assert.Equal(t, "Lisbon", got.Birth.Place)

			var doc entities.ChartDocument
			require.NoError(t, json.Unmarshal(resp.Data, &doc))
			assert.NotEmpty(t, doc.ID)
			assert.Equal(t, !tt.unsynced, doc.Synced)
			assert.Len(t, doc.ChartData.Sectors, 12)
		})
	}
}

func TestChartRoutes_GenerateValidatesBody(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.commandBus.Register(commands.GenerateChartCommand{}, bus.Typed(
		func(context.Context, commands.GenerateChartCommand) (*entities.ChartRecord, error) {
			t.Fatal("handler must not run")
			return nil, nil
		})))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/charts", `{"birthPlace":"Lisbon"}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/charts", `{"birthDate":"1990-03-25","unknown":1}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/charts", `{"birthDate":"1990-03-25","latitude":120}`, true).Code)
}

func TestChartRoutes_GenerateMapsErrors(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.commandBus.Register(commands.GenerateChartCommand{}, bus.Typed(
		func(context.Context, commands.GenerateChartCommand) (*entities.ChartRecord, error) {
			return nil, pkgerrors.NewValidationError("invalid birth date")
		})))

	rec := s.do(t, http.MethodPost, "/api/v1/charts", `{"birthDate":"1990-02-30"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid birth date")
}

func TestChartRoutes_GetMissingChartIs404(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.queryBus.Register(queries.GetChartQuery{}, querybus.Typed(
		func(context.Context, queries.GetChartQuery) (*queries.GetChartResult, error) {
			return nil, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/charts/unknown", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartRoutes_GetReportsSource(t *testing.T) {
	s := newTestServer(t, 100)
	c := sampleChart(t, "user-1").MarkUnsynced()
	require.NoError(t, s.queryBus.Register(queries.GetChartQuery{}, querybus.Typed(
		func(_ context.Context, q queries.GetChartQuery) (*queries.GetChartResult, error) {
			assert.Equal(t, c.ID().String(), q.ChartID)
			return &queries.GetChartResult{Data: c, Source: "fallback"}, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/charts/"+c.ID().String(), "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "fallback", resp.Meta.Source)
	require.NotNil(t, resp.Meta.Synced)
	assert.False(t, *resp.Meta.Synced)
}

func TestChartRoutes_ListPaginates(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.queryBus.Register(queries.ListUserChartsQuery{}, querybus.Typed(
		func(_ context.Context, q queries.ListUserChartsQuery) (*queries.ListUserChartsResult, error) {
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 1, q.PageSize)
			return &queries.ListUserChartsResult{
				Charts:   []*entities.ChartRecord{sampleChart(t, q.UserID)},
				Total:    3,
				Page:     q.Page,
				PageSize: q.PageSize,
			}, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/charts?page=2&page_size=1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Meta.Pagination)
	assert.Equal(t, 3, resp.Meta.Pagination.Total)
}

func TestContentRoutes_HoroscopeDefaultsToToday(t *testing.T) {
	s := newTestServer(t, 100)
	var got queries.GetDailyHoroscopeQuery
	require.NoError(t, s.queryBus.Register(queries.GetDailyHoroscopeQuery{}, querybus.Typed(
		func(_ context.Context, q queries.GetDailyHoroscopeQuery) (*queries.Sourced[entities.DailyHoroscope], error) {
			got = q
			return &queries.Sourced[entities.DailyHoroscope]{
				Data:   entities.DailyHoroscope{Sign: q.Sign, Date: q.Date},
				Source: "fallback",
			}, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/horoscopes/Leo/daily", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, astrology.Leo, got.Sign)
	assert.Equal(t, "2024-08-03", got.Date)
	assert.Equal(t, "fallback", decode(t, rec).Meta.Source)
}

func TestContentRoutes_InvalidSignIs400(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.queryBus.Register(queries.GetDailyHoroscopeQuery{}, querybus.Typed(
		func(context.Context, queries.GetDailyHoroscopeQuery) (*queries.Sourced[entities.DailyHoroscope], error) {
			return nil, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/horoscopes/ophiuchus/daily", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentRoutes_CosmicEventsDefaultsToCurrentMonth(t *testing.T) {
	s := newTestServer(t, 100)
	var month string
	require.NoError(t, s.queryBus.Register(queries.GetCosmicEventsQuery{}, querybus.Typed(
		func(_ context.Context, q queries.GetCosmicEventsQuery) (*queries.Sourced[[]entities.CosmicEvent], error) {
			month = q.Month
			return &queries.Sourced[[]entities.CosmicEvent]{Data: []entities.CosmicEvent{}, Source: "remote"}, nil
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/cosmic-events", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-08", month)
}

func TestContentRoutes_MissingArticleIs404(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.queryBus.Register(queries.GetArticleQuery{}, querybus.Typed(
		func(context.Context, queries.GetArticleQuery) (*queries.Sourced[entities.Article], error) {
			return nil, pkgerrors.NewNotFoundError("article")
		})))

	rec := s.do(t, http.MethodGet, "/api/v1/articles/nope", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileRoutes_Favorites(t *testing.T) {
	s := newTestServer(t, 100)
	var removed commands.RemoveFavoriteCommand
	require.NoError(t, s.commandBus.Register(commands.SaveFavoriteCommand{}, bus.Typed(
		func(_ context.Context, cmd commands.SaveFavoriteCommand) (*entities.Favorite, error) {
			return &entities.Favorite{UserID: cmd.UserID, ItemType: cmd.ItemType, ItemID: cmd.ItemID}, nil
		})))
	require.NoError(t, s.commandBus.Register(commands.RemoveFavoriteCommand{}, bus.Typed(
		func(_ context.Context, cmd commands.RemoveFavoriteCommand) (*entities.Favorite, error) {
			removed = cmd
			return &entities.Favorite{}, nil
		})))

	rec := s.do(t, http.MethodPut, "/api/v1/me/favorites/article/a-1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var fav entities.Favorite
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &fav))
	assert.Equal(t, "a-1", fav.ItemID)

	rec = s.do(t, http.MethodDelete, "/api/v1/me/favorites/article/a-1", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, commands.RemoveFavoriteCommand{UserID: "user-1", ItemType: "article", ItemID: "a-1"}, removed)
}

func TestProfileRoutes_OnboardingReturnsChart(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.commandBus.Register(commands.CompleteOnboardingCommand{}, bus.Typed(
		func(_ context.Context, cmd commands.CompleteOnboardingCommand) (*commands.OnboardingResult, error) {
			assert.Equal(t, "user@example.com", cmd.Email)
			require.NotNil(t, cmd.Preferences)
			assert.Equal(t, "dark", cmd.Preferences.Theme)
			c := sampleChart(t, cmd.UserID)
			return &commands.OnboardingResult{
				User:  &entities.User{ID: cmd.UserID, HasCompletedOnboarding: true, NatalChartID: c.ID().String()},
				Chart: c,
			}, nil
		})))

	rec := s.do(t, http.MethodPost, "/api/v1/me/onboarding",
		`{"birthDate":"1990-03-25","preferences":{"language":"es","theme":"dark"}}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		User  entities.User          `json:"user"`
		Chart entities.ChartDocument `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.True(t, body.User.HasCompletedOnboarding)
	assert.Equal(t, body.User.NatalChartID, body.Chart.ID)
}

func TestProfileRoutes_MissingProfileIs404(t *testing.T) {
	s := newTestServer(t, 100)
	require.NoError(t, s.queryBus.Register(queries.GetProfileQuery{}, querybus.Typed(
		func(context.Context, queries.GetProfileQuery) (*entities.User, error) {
			return nil, pkgerrors.NewNotFoundError("user")
		})))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/me", "", true).Code)
}
