package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dhoini/billing-gateway/pkg/logger"
)

// HublaService прокси к API подписок Hubla
type HublaService struct {
	hubla HublaClient
	log   *logger.Logger
}

func NewHublaService(client HublaClient, log *logger.Logger) *HublaService {
	return &HublaService{hubla: client, log: log}
}

func (s *HublaService) GetSubscription(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}
	out, err := s.hubla.GetSubscription(ctx, id)
	if err != nil {
		s.log.Errorw("Failed to get Hubla subscription", "error", err, "subscriptionID", id)
		return nil, err
	}
	return out, nil
}

func (s *HublaService) CancelSubscription(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: subscriptionId is required", ErrInvalidInput)
	}
	out, err := s.hubla.CancelSubscription(ctx, id)
	if err != nil {
		s.log.Errorw("Failed to cancel Hubla subscription", "error", err, "subscriptionID", id)
		return nil, err
	}
	s.log.Infow("Hubla subscription canceled", "subscriptionID", id)
	return out, nil
}
