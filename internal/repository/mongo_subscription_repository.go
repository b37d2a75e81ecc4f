package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/billing-gateway/internal/models"
	"github.com/Dhoini/billing-gateway/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	subscriptionsCollection = "subscriptions"
	paymentsCollection      = "payments"
)

// CollectionProvider отдает коллекции по имени, реализуется db.Mongo.
type CollectionProvider interface {
	Collection(name string) *mongo.Collection
}

// mongoSubscriptionRepo реализует SubscriptionRepository для MongoDB.
type mongoSubscriptionRepo struct {
	subscriptions *mongo.Collection
	payments      *mongo.Collection
	log           *logger.Logger
}

// NewMongoSubscriptionRepository создает репозиторий поверх коллекций subscriptions и payments.
func NewMongoSubscriptionRepository(db CollectionProvider, log *logger.Logger) SubscriptionRepository {
	return &mongoSubscriptionRepo{
		subscriptions: db.Collection(subscriptionsCollection),
		payments:      db.Collection(paymentsCollection),
		log:           log,
	}
}

func (r *mongoSubscriptionRepo) Save(ctx context.Context, sub *models.Subscription) error {
	if sub == nil || sub.ID == "" {
		return fmt.Errorf("save subscription: %w", ErrInvalidData)
	}

	update := bson.M{
		"$set":         subscriptionFields(sub),
		"$setOnInsert": bson.M{"created_at": sub.CreatedAt},
	}
	_, err := r.subscriptions.UpdateOne(ctx, bson.M{"_id": sub.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.log.Errorw("Failed to save subscription", "error", err, "subscriptionID", sub.ID)
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	r.log.Debugw("Subscription saved", "subscriptionID", sub.ID)
	return nil
}

func (r *mongoSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.subscriptions.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.log.Errorw("Failed to get subscription", "error", err, "subscriptionID", id)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (r *mongoSubscriptionRepo) SavePayment(ctx context.Context, p *models.Payment) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("save payment: %w", ErrInvalidData)
	}

	_, err := r.payments.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		r.log.Errorw("Failed to save payment", "error", err, "paymentID", p.ID, "subscriptionID", p.SubscriptionID)
		return fmt.Errorf("failed to save payment: %w", err)
	}

	r.log.Debugw("Payment saved", "paymentID", p.ID, "subscriptionID", p.SubscriptionID)
	return nil
}

// subscriptionFields поля для $set, created_at пишется только при вставке
func subscriptionFields(sub *models.Subscription) bson.M {
	return bson.M{
		"provider":      sub.Provider,
		"customer_id":   sub.CustomerID,
		"user_id":       sub.UserID,
		"value":         sub.Value,
		"cycle":         sub.Cycle,
		"billing_type":  sub.BillingType,
		"description":   sub.Description,
		"status":        sub.Status,
		"next_due_date": sub.NextDueDate,
		"updated_at":    sub.UpdatedAt,
	}
}
