package pubhttp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blog-publisher/internal/usecase"
)

// PublishRunner is the slice of the schedule worker the handler needs.
type PublishRunner interface {
	RunOnce(trigger string) *usecase.PublishResult
	LastResult() *usecase.PublishResult
}

type Handler struct {
	runner PublishRunner
}

func NewHandler(runner PublishRunner) *Handler {
	return &Handler{runner: runner}
}

// RegisterRoutes mounts the publisher endpoints on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/publisher/run", h.Run)
	e.GET("/v1/publisher/last", h.Last)
}

// Run triggers one publish run synchronously and returns its result.
// (POST /v1/publisher/run)
func (h *Handler) Run(ctx echo.Context) error {
	result := h.runner.RunOnce("manual")
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	return ctx.JSON(status, result)
}

// Last returns the most recent run's result.
// (GET /v1/publisher/last)
func (h *Handler) Last(ctx echo.Context) error {
	result := h.runner.LastResult()
	if result == nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "no publish run recorded yet"})
	}
	return ctx.JSON(http.StatusOK, result)
}
