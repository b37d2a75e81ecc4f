package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHublaService_PassThrough(t *testing.T) {
	fh := &fakeHubla{body: json.RawMessage(`{"id":"hs_1","status":"active"}`)}
	svc := NewHublaService(fh, logger.NewNop())

	got, err := svc.GetSubscription(context.Background(), "hs_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"hs_1","status":"active"}`, string(got))

	_, err = svc.CancelSubscription(context.Background(), "hs_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"hs_1", "hs_1"}, fh.ids)
}

func TestHublaService_Errors(t *testing.T) {
	fh := &fakeHubla{err: errBoom}
	svc := NewHublaService(fh, logger.NewNop())

	_, err := svc.CancelSubscription(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fh.ids)

	_, err = svc.GetSubscription(context.Background(), "hs_1")
	assert.ErrorIs(t, err, errBoom)
}
