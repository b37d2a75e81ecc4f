package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dhoini/billing-gateway/internal/services"
	"github.com/Dhoini/billing-gateway/internal/upstream"
	"github.com/Dhoini/billing-gateway/pkg/res"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the response envelope. Provider
// answers keep the provider's own status and body.
func respondError(c *gin.Context, err error, production bool) {
	defer c.Abort()

	if errors.Is(err, services.ErrInvalidInput) {
		res.Error(c.Writer, "Invalid request data", err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, services.ErrSubscriptionNotFound) {
		res.Error(c.Writer, "Subscription not found", nil, http.StatusNotFound)
		return
	}

	switch kind, typed := upstream.Classify(err); kind {
	case upstream.KindValidation:
		res.Error(c.Writer, "Invalid request data", typed.Error(), http.StatusBadRequest)
	case upstream.KindUpstream:
		uerr := typed.(*upstream.UpstreamError)
		res.Error(c.Writer, fmt.Sprintf("%s request failed", uerr.Service), uerr.Body, uerr.Status)
	case upstream.KindTransport:
		var details any
		if !production {
			details = typed.Error()
		}
		res.Error(c.Writer, "Payment provider unavailable", details, http.StatusBadGateway)
	default:
		var details any
		if !production {
			details = err.Error()
		}
		res.Error(c.Writer, "Internal server error", details, http.StatusInternalServerError)
	}
}
