package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfa/returns-service/internal/domain"
	"github.com/transfa/returns-service/internal/store"
)

func TestListNotifications_LimitsToLatestFifty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.seedCustomer(t, "Jane", "Doe")

	require.NoError(t, env.repo.WithTx(ctx, func(tx store.Tx) error {
		sink := newNotificationSink(tx, testNow)
		for i := 0; i < 60; i++ {
			if err := sink.Notify(ctx, customer.SubjectID, domain.RecipientCustomer, fmt.Sprintf("message %d", i), "Test"); err != nil {
				return err
			}
		}
		return nil
	}))

	notes, err := env.svc.ListNotifications(ctx, customer)
	require.NoError(t, err)
	require.Len(t, notes, domain.NotificationListLimit)
	assert.Equal(t, "message 59", notes[0].Message)
	assert.Equal(t, "message 10", notes[len(notes)-1].Message)
}

func TestMarkNotificationRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jane := env.seedCustomer(t, "Jane", "Doe")
	john := env.seedCustomer(t, "John", "Roe")
	env.submit(t, jane, env.seedOrder(t, jane, "10.00", testNow))

	notes, err := env.svc.ListNotifications(ctx, jane)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	err = env.svc.MarkNotificationRead(ctx, john, notes[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = env.svc.MarkNotificationRead(ctx, jane, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, env.svc.MarkNotificationRead(ctx, jane, notes[0].ID))
	notes, err = env.svc.ListNotifications(ctx, jane)
	require.NoError(t, err)
	assert.True(t, notes[0].IsRead)
}

func TestNotifyAllAdmins_NoAdminsIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.repo.WithTx(ctx, func(tx store.Tx) error {
		return newNotificationSink(tx, testNow).NotifyAllAdmins(ctx, "hello", "Test")
	})
	require.NoError(t, err)
}
