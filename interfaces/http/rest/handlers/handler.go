// Package handlers holds the HTTP handlers of the v1 API. Handlers only
// translate between HTTP and the command and query buses.
package handlers

import (
	"errors"
	"net/http"

	"astroguia-backend/application/commands/bus"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/pkg/auth"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"
	"astroguia-backend/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// base carries what every handler needs
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

func newBase(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) base {
	return base{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// currentUser returns the authenticated caller, writing a 401 when absent
func (b base) currentUser(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		b.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return nil, false
	}
	return user, true
}

// decode parses a JSON body and runs its validation tags
func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, common.DefaultMaxBodyBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			b.errors.HandleStatus(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		b.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		b.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (b base) meta(r *http.Request) *common.MetaInfo {
	return &common.MetaInfo{RequestID: middleware.GetReqID(r.Context())}
}

func (b base) notFound(w http.ResponseWriter, r *http.Request, resource string) {
	b.errors.Handle(w, r, pkgerrors.NewNotFoundError(resource))
}
