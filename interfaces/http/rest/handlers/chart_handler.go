package handlers

import (
	"net/http"

	"astroguia-backend/application/commands"
	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/queries"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultChartPageSize = 20

// ChartHandler handles natal chart requests
type ChartHandler struct {
	base
}

// NewChartHandler creates a new chart handler
func NewChartHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ChartHandler {
	return &ChartHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// BirthDetailsRequest is the birth data accepted by chart and profile endpoints
type BirthDetailsRequest struct {
	BirthDate  string   `json:"birthDate" validate:"required"`
	BirthTime  string   `json:"birthTime,omitempty"`
	BirthPlace string   `json:"birthPlace,omitempty" validate:"max=200"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Timezone   string   `json:"timezone,omitempty" validate:"max=64"`
}

func (req BirthDetailsRequest) input() valueobjects.BirthDetailsInput {
	return valueobjects.BirthDetailsInput{
		Date:      req.BirthDate,
		Time:      req.BirthTime,
		Place:     req.BirthPlace,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  req.Timezone,
	}
}

// ChartListResponse is one page of charts
type ChartListResponse struct {
	Charts  []entities.ChartDocument `json:"charts"`
	Partial bool                     `json:"partial,omitempty"`
}

// GenerateChart handles POST /charts. A chart that only reached the local
// store is returned with 202 and synced=false.
func (h *ChartHandler) GenerateChart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req BirthDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.GenerateChartCommand{
		OwnerID: user.UserID,
		Birth:   req.input(),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	chart := result.(*entities.ChartRecord)
	synced := chart.Synced()
	status := http.StatusCreated
	if !synced {
		status = http.StatusAccepted
	}

	meta := h.meta(r)
	meta.Synced = &synced
	common.RespondWithMeta(w, status, chart.ToDocument(), meta)
}

// GetChart handles GET /charts/{chartID}
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetChartQuery{
		UserID:  user.UserID,
		ChartID: chi.URLParam(r, "chartID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	res, _ := result.(*queries.GetChartResult)
	if res == nil || res.Data == nil {
		h.notFound(w, r, "chart")
		return
	}

	synced := res.Data.Synced()
	meta := h.meta(r)
	meta.Source = res.Source
	meta.Synced = &synced
	common.RespondWithMeta(w, http.StatusOK, res.Data.ToDocument(), meta)
}

// ListCharts handles GET /charts
func (h *ChartHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	params := common.ExtractPaginationParams(r, defaultChartPageSize)
	result, err := h.queryBus.Ask(r.Context(), queries.ListUserChartsQuery{
		UserID:   user.UserID,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page := result.(*queries.ListUserChartsResult)
	docs := make([]entities.ChartDocument, 0, len(page.Charts))
	for _, c := range page.Charts {
		docs = append(docs, c.ToDocument())
	}

	meta := h.meta(r)
	meta.Pagination = common.BuildPaginationMeta(page.Page, page.PageSize, page.Total)
	common.RespondWithMeta(w, http.StatusOK, ChartListResponse{Charts: docs, Partial: page.Partial}, meta)
}
