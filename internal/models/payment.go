package models

import "time"

// Payment одноразовый платеж, созданный у провайдера (например, доплата pro-rata).
type Payment struct {
	ID             string    `bson:"_id" json:"id"`                           // ID платежа у провайдера
	SubscriptionID string    `bson:"subscription_id" json:"subscriptionId"`   // подписка, к которой относится доплата
	CustomerID     string    `bson:"customer_id" json:"customer"`             // ID клиента у провайдера
	Value          float64   `bson:"value" json:"value"`                      // сумма
	BillingType    string    `bson:"billing_type" json:"billingType"`         // BOLETO, CREDIT_CARD, PIX
	DueDate        time.Time `bson:"due_date" json:"dueDate"`                 // дата выставления
	Description    string    `bson:"description" json:"description"`          // описание
	Status         string    `bson:"status" json:"status"`                    // статус у провайдера
	InvoiceURL     string    `bson:"invoice_url,omitempty" json:"invoiceUrl"` // ссылка на счет
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`             // время сохранения записи
}
