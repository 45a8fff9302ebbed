package push_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/push"
)

func TestSendPushParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  push.SendPushParams
		wantErr bool
	}{
		{
			name:   "valid",
			params: push.SendPushParams{Token: "device-token", Title: "New comment", Body: "Alice replied"},
		},
		{
			name:   "body only",
			params: push.SendPushParams{Token: "device-token", Body: "Alice replied"},
		},
		{
			name:    "missing token",
			params:  push.SendPushParams{Title: "New comment"},
			wantErr: true,
		},
		{
			name:    "empty content",
			params:  push.SendPushParams{Token: "device-token"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, push.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewFCMClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	client, err := push.NewFCMClient(context.Background(), push.Config{})
	assert.ErrorIs(t, err, push.ErrInvalidConfig)
	assert.Nil(t, client)
}

func TestNoopSender(t *testing.T) {
	t.Parallel()

	sender := push.NewNoopSender(nil)

	require.NoError(t, sender.SendPush(context.Background(), push.SendPushParams{
		Token: "device-token",
		Title: "You were mentioned",
	}))

	err := sender.SendPush(context.Background(), push.SendPushParams{Title: "no token"})
	assert.ErrorIs(t, err, push.ErrInvalidParams)
}
