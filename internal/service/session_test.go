package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ReserveRequiresLogin(t *testing.T) {
	f := newFixture(t, "")
	sess := NewSession(f.svc)

	rec, err := sess.Reserve(context.Background(), "Cafe A", "2024-05-01", "18:00", 2)

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Nil(t, rec)
	assert.Equal(t, "Please log in to make a reservation.", Message(err))
}

func TestSession_FullFlow(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	sess := NewSession(f.svc)

	user, err := sess.Login(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "U1", sess.UserID())
	assert.Len(t, sess.ListRestaurants(ctx), 2)

	rec, err := sess.Reserve(ctx, "Cafe A", "2024-05-01", "18:00", 2)
	require.NoError(t, err)

	current, err := sess.Current(ctx)
	require.NoError(t, err)
	require.Len(t, current.CurrentBookings, 1)

	history, err := sess.History(ctx, "U1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = sess.Cancel(ctx, rec.BookingID)
	require.NoError(t, err)

	current, err = sess.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, current.CurrentBookings)

	sess.Logout()
	_, err = sess.Cancel(ctx, rec.BookingID)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSession_FailedLoginKeepsPreviousUser(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	sess := NewSession(f.svc)
	_, err := sess.Login(ctx, "U1")
	require.NoError(t, err)

	_, err = sess.Login(ctx, "nobody")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "U1", sess.UserID())
}

func TestSessions_OpenGetClose(t *testing.T) {
	f := newFixture(t, "")
	sessions := NewSessions(f.svc)

	token, user, err := sessions.Open(context.Background(), "U2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Bob", user.Name)

	sess, err := sessions.Get(token)
	require.NoError(t, err)
	assert.Equal(t, "U2", sess.UserID())

	require.NoError(t, sessions.Close(token))
	_, err = sessions.Get(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, sessions.Close(token), ErrSessionNotFound)
}

func TestSessions_OpenUnknownUser(t *testing.T) {
	f := newFixture(t, "")
	sessions := NewSessions(f.svc)

	token, user, err := sessions.Open(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
