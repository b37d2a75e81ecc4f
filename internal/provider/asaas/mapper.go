package asaas

import (
	"time"

	"github.com/Dhoini/billing-gateway/internal/models"
)

// ToModelSubscription преобразует подписку Asaas в модель хранилища
func ToModelSubscription(s *Subscription, now time.Time) models.Subscription {
	created := now
	if t, err := time.Parse(dateLayout, s.DateCreated); err == nil {
		created = t
	}
	return models.Subscription{
		ID:          s.ID,
		Provider:    models.ProviderAsaas,
		CustomerID:  s.Customer,
		UserID:      s.ExternalReference,
		Value:       s.Value,
		Cycle:       s.Cycle,
		BillingType: s.BillingType,
		Description: s.Description,
		Status:      s.Status,
		NextDueDate: s.DueDate(),
		CreatedAt:   created,
		UpdatedAt:   now,
	}
}

// ToModelPayment преобразует платеж Asaas в модель хранилища
func ToModelPayment(p *Payment, subscriptionID string, now time.Time) models.Payment {
	due, _ := time.Parse(dateLayout, p.DueDate)
	return models.Payment{
		ID:             p.ID,
		SubscriptionID: subscriptionID,
		CustomerID:     p.Customer,
		Value:          p.Value,
		BillingType:    p.BillingType,
		DueDate:        due,
		Description:    p.Description,
		Status:         p.Status,
		InvoiceURL:     p.InvoiceURL,
		CreatedAt:      now,
	}
}
