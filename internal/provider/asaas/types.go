package asaas

import "time"

// Billing types accepted by Asaas
const (
	BillingTypeBoleto     = "BOLETO"
	BillingTypeCreditCard = "CREDIT_CARD"
	BillingTypePix        = "PIX"
	BillingTypeUndefined  = "UNDEFINED"
)

// Subscription подписка в формате Asaas
type Subscription struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Value             float64 `json:"value"`
	NextDueDate       string  `json:"nextDueDate"`
	Cycle             string  `json:"cycle"`
	BillingType       string  `json:"billingType"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"externalReference,omitempty"`
	DateCreated       string  `json:"dateCreated,omitempty"`
}

// DueDate parses NextDueDate. An empty or malformed date yields the zero time.
func (s *Subscription) DueDate() time.Time {
	t, err := time.Parse(dateLayout, s.NextDueDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UpdateSubscriptionRequest тело PUT /subscriptions/{id}. Пустые поля не отправляются.
type UpdateSubscriptionRequest struct {
	Value                 float64 `json:"value,omitempty"`
	Description           string  `json:"description,omitempty"`
	BillingType           string  `json:"billingType,omitempty"`
	UpdatePendingPayments bool    `json:"updatePendingPayments,omitempty"`
}

// CreatePaymentRequest тело POST /payments
type CreatePaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// Payment платеж в формате Asaas
type Payment struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Subscription      string  `json:"subscription,omitempty"`
	Value             float64 `json:"value"`
	BillingType       string  `json:"billingType"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	Status            string  `json:"status"`
	InvoiceURL        string  `json:"invoiceUrl,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// FormatDate renders t the way Asaas expects dates.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
