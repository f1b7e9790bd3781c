package common

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, PageSize: 20}},
		{"page=3&page_size=5", PaginationParams{Page: 3, PageSize: 5}},
		{"page=-1&page_size=abc", PaginationParams{Page: 1, PageSize: 20}},
		{"page_size=1000", PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		assert.Equal(t, tt.want, ExtractPaginationParams(r, 20), tt.query)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Paginate(items, PaginationParams{Page: 1, PageSize: 2}))
	assert.Equal(t, []int{5}, Paginate(items, PaginationParams{Page: 3, PageSize: 2}))
	assert.Empty(t, Paginate(items, PaginationParams{Page: 4, PageSize: 2}))
	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, PaginationParams{Page: math.MaxInt64, PageSize: 20}))
		assert.Empty(t, Paginate(items, PaginationParams{Page: math.MaxInt64 / 3, PageSize: 7}))
	})

	meta := BuildPaginationMeta(3, 2, len(items))
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestRespondWithMeta(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithMeta(w, http.StatusAccepted, map[string]string{"id": "x"}, &MetaInfo{Source: "fallback"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "fallback", body.Meta.Source)
	assert.NotEmpty(t, body.Meta.Timestamp)
}

func TestParseJSONBody(t *testing.T) {
	var dst struct {
		Date string `json:"date"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2000-01-01"}`))
	require.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &dst, 0))
	assert.Equal(t, "2000-01-01", dst.Date)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, ParseJSONBody(httptest.NewRecorder(), r, &dst, 0))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, ParseJSONBody(httptest.NewRecorder(), r, &dst, 0), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"x"} {}`))
	assert.Error(t, ParseJSONBody(httptest.NewRecorder(), r, &dst, 0))
}

func TestPaginationParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, math.MaxInt, PaginationParams{Page: math.MaxInt64, PageSize: 20}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 20}.Offset())
}

func TestUserID_RequestScope(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	outer := WithRequestScope(context.Background())
	inner := WithUserID(outer, "user-3")

	id, ok := GetUserID(inner)
	require.True(t, ok)
	assert.Equal(t, "user-3", id)

	id, ok = GetUserID(outer)
	require.True(t, ok, "outer context sees the caller set downstream")
	assert.Equal(t, "user-3", id)

	_, ok = GetUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}
