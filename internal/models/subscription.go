package models

import "time"

// Providers
const (
	ProviderAsaas = "asaas"
	ProviderHubla = "hubla"
)

// Subscription представляет подписку пользователя, ключ - ID подписки у провайдера.
// Записи никогда не удаляются физически, меняется только Status.
type Subscription struct {
	ID          string    `bson:"_id" json:"id"`                                     // ID подписки у провайдера
	Provider    string    `bson:"provider" json:"provider"`                          // asaas или hubla
	CustomerID  string    `bson:"customer_id" json:"customer"`                       // ID клиента у провайдера
	UserID      string    `bson:"user_id,omitempty" json:"userId,omitempty"`         // пользователь-владелец (externalReference)
	Value       float64   `bson:"value" json:"value"`                                // текущая стоимость
	Cycle       string    `bson:"cycle" json:"cycle"`                                // MONTHLY, YEARLY...
	BillingType string    `bson:"billing_type" json:"billingType"`                   // способ оплаты
	Description string    `bson:"description,omitempty" json:"description,omitempty"` // описание тарифа
	Status      string    `bson:"status" json:"status"`                              // ACTIVE, INACTIVE, EXPIRED
	NextDueDate time.Time `bson:"next_due_date" json:"nextDueDate"`                  // дата следующего списания
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
