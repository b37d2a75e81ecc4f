package handlers

import (
	"context"
	"net/http"

	"github.com/Dhoini/billing-gateway/internal/billing"
	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/internal/services"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/Dhoini/billing-gateway/pkg/req"
	"github.com/Dhoini/billing-gateway/pkg/res"
	"github.com/gin-gonic/gin"
)

type PlanChanger interface {
	ChangePlan(ctx context.Context, in services.PlanChangeInput) (*services.PlanChangeOutput, error)
}

type SubscriptionManager interface {
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	ChangeBillingType(ctx context.Context, id, billingType string) (*models.Subscription, error)
}

// SubscriptionHandler обрабатывает HTTP запросы подписок Asaas.
type SubscriptionHandler struct {
	planChange    PlanChanger
	subscriptions SubscriptionManager
	production    bool
	log           *logger.Logger
}

// NewSubscriptionHandler создает новый экземпляр SubscriptionHandler.
func NewSubscriptionHandler(planChange PlanChanger, subscriptions SubscriptionManager, production bool, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		planChange:    planChange,
		subscriptions: subscriptions,
		production:    production,
		log:           log,
	}
}

// --- DTO ---

type PlanChangeRequest struct {
	SubscriptionID   string  `json:"subscriptionId" validate:"required"`
	NewValue         float64 `json:"newValue" validate:"gt=0"`
	Description      string  `json:"description" validate:"max=500"`
	ApplyImmediately bool    `json:"applyImmediately"`
}

type BillingTypeRequest struct {
	SubscriptionID string `json:"subscriptionId" validate:"required"`
	BillingType    string `json:"billingType" validate:"required,oneof=BOLETO CREDIT_CARD PIX UNDEFINED"`
}

type proRataView struct {
	Chargeable    bool    `json:"chargeable"`
	Amount        float64 `json:"amount"`
	RemainingDays int     `json:"remainingDays"`
	DaysInMonth   int     `json:"daysInMonth"`
	Reason        string  `json:"reason"`
}

func newProRataView(q billing.ProRataQuote) proRataView {
	return proRataView{
		Chargeable:    q.Chargeable,
		Amount:        q.Amount.InexactFloat64(),
		RemainingDays: q.RemainingDays,
		DaysInMonth:   q.DaysInMonth,
		Reason:        q.Reason,
	}
}

// ChangePlan обрабатывает POST /api/v1/subscriptions/plan-change
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	body, err := req.HandleBody[PlanChangeRequest](c.Writer, c.Request)
	if err != nil {
		h.log.Warnw("Invalid plan change request", "error", err)
		c.Abort()
		return
	}

	out, err := h.planChange.ChangePlan(c.Request.Context(), services.PlanChangeInput{
		SubscriptionID:   body.SubscriptionID,
		NewValue:         body.NewValue,
		Description:      body.Description,
		ApplyImmediately: body.ApplyImmediately,
	})
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	res.Success(c.Writer, map[string]any{
		"subscription":   out.Subscription,
		"proRataPayment": out.ProRataPayment,
		"proRata":        newProRataView(out.Quote),
	}, http.StatusOK)
}

// ChangeBillingType обрабатывает POST /api/v1/subscriptions/billing-type
func (h *SubscriptionHandler) ChangeBillingType(c *gin.Context) {
	body, err := req.HandleBody[BillingTypeRequest](c.Writer, c.Request)
	if err != nil {
		h.log.Warnw("Invalid billing type request", "error", err)
		c.Abort()
		return
	}

	sub, err := h.subscriptions.ChangeBillingType(c.Request.Context(), body.SubscriptionID, body.BillingType)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	res.Success(c.Writer, map[string]any{"subscription": sub}, http.StatusOK)
}

// GetSubscription обрабатывает GET /api/v1/subscriptions/detail?subscriptionId=
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id := c.Query("subscriptionId")
	if id == "" {
		res.Error(c.Writer, "Invalid request data", "subscriptionId: required", http.StatusBadRequest)
		c.Abort()
		return
	}

	sub, err := h.subscriptions.GetSubscription(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.production)
		return
	}
	res.Success(c.Writer, map[string]any{"subscription": sub}, http.StatusOK)
}
