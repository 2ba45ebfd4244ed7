package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	"github.com/yanqian/neo-hazard/internal/domain/session"
	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

// SessionHandler exposes prediction sessions over HTTP.
type SessionHandler struct {
	svc    session.Service
	logger *slog.Logger
}

// NewSessionHandler constructs the session HTTP handler.
func NewSessionHandler(svc session.Service, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// Create opens a new session in identifier mode.
func (h *SessionHandler) Create(c *gin.Context) {
	snap, err := h.svc.Create(c.Request.Context())
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, newSessionView(snap))
}

// Get returns the current inputs and state of a session.
func (h *SessionHandler) Get(c *gin.Context) {
	snap, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, newSessionView(snap))
}

// Delete discards a session.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMode switches between identifier and manual input.
func (h *SessionHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	snap, err := h.svc.SetMode(c.Request.Context(), c.Param("id"), req.Mode)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, newSessionView(snap))
}

// SetField stores one raw input value.
func (h *SessionHandler) SetField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	snap, err := h.svc.SetField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, newSessionView(snap))
}

// Submit starts a prediction. The response carries the loading state; clients poll Get.
func (h *SessionHandler) Submit(c *gin.Context) {
	snap, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusAccepted, newSessionView(snap))
}

// Health reports liveness.
func (h *SessionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toHTTPError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch {
	case prediction.IsValidationError(err):
		status = http.StatusBadRequest
	case code == prediction.CodeSubmitInFlight:
		status = http.StatusConflict
	case code == session.CodeNotFound:
		status = http.StatusNotFound
	case code == session.CodeLimit:
		status = http.StatusServiceUnavailable
	default:
		code = "internal_error"
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
