package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/Dhoini/billing-gateway/pkg/req"
	"github.com/Dhoini/billing-gateway/pkg/res"
	"github.com/gin-gonic/gin"
)

type HublaSubscriptions interface {
	GetSubscription(ctx context.Context, id string) (json.RawMessage, error)
	CancelSubscription(ctx context.Context, id string) (json.RawMessage, error)
}

// HublaHandler обрабатывает HTTP запросы подписок Hubla.
type HublaHandler struct {
	hubla      HublaSubscriptions
	production bool
	log        *logger.Logger
}

func NewHublaHandler(hubla HublaSubscriptions, production bool, log *logger.Logger) *HublaHandler {
	return &HublaHandler{hubla: hubla, production: production, log: log}
}

type HublaCancelRequest struct {
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

// GetSubscription обрабатывает GET /api/v1/hubla/subscriptions/detail?subscriptionId=
func (h *HublaHandler) GetSubscription(c *gin.Context) {
	id := c.Query("subscriptionId")
	if id == "" {
		res.Error(c.Writer, "Invalid request data", "subscriptionId: required", http.StatusBadRequest)
		c.Abort()
		return
	}

	sub, err := h.hubla.GetSubscription(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	res.Success(c.Writer, map[string]any{"subscription": sub}, http.StatusOK)
}

// CancelSubscription обрабатывает POST /api/v1/hubla/subscriptions/cancel
func (h *HublaHandler) CancelSubscription(c *gin.Context) {
	body, err := req.HandleBody[HublaCancelRequest](c.Writer, c.Request)
	if err != nil {
		h.log.Warnw("Invalid Hubla cancel request", "error", err)
		c.Abort()
		return
	}

	out, err := h.hubla.CancelSubscription(c.Request.Context(), body.SubscriptionID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	res.Success(c.Writer, map[string]any{"result": out}, http.StatusOK)
}
