package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pantrypal/internal/auth"
	"pantrypal/internal/errors"
	syncer "pantrypal/internal/sync"
)

// SyncHandler exposes explicit control over the caller's live sync.
type SyncHandler struct {
	coord *syncer.Coordinator
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(coord *syncer.Coordinator) *SyncHandler {
	return &SyncHandler{coord: coord}
}

// SyncStatusResponse reports per-collection subscription states.
type SyncStatusResponse struct {
	States map[string]string `json:"states"`
}

// Start attaches live remote subscriptions for the caller. Idempotent.
func (h *SyncHandler) Start(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.coord.StartSyncing(userID)
	return c.NoContent(http.StatusNoContent)
}

// Stop detaches the caller's live subscriptions. Idempotent.
func (h *SyncHandler) Stop(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.coord.StopSyncing(userID)
	return c.NoContent(http.StatusNoContent)
}

// Status reports the subscription state of every synced collection.
func (h *SyncHandler) Status(c echo.Context) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	states := map[string]string{}
	for _, kind := range []syncer.Kind{syncer.KindPantryItems, syncer.KindProfile, syncer.KindFavorites, syncer.KindMealPlans} {
		states[string(kind)] = h.coord.SyncState(userID, kind).String()
	}
	return c.JSON(http.StatusOK, SyncStatusResponse{States: states})
}
