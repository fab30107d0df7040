package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDuplicateUserError(t *testing.T) {
	cases := map[string]string{
		"E11000 duplicate key error collection: auradeploy.users index: uq_users_email dup key":     "Email already registered",
		"E11000 duplicate key error collection: auradeploy.users index: uq_users_username dup key":  "Username already taken",
		"E11000 duplicate key error collection: auradeploy.users index: uq_users_google_id dup key": "Google account already linked",
		"E11000 duplicate key error collection: auradeploy.users index: _id_ dup key":               "User already exists",
	}
	for raw, want := range cases {
		err := duplicateUserError(errors.New(raw))
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, want, appErr.Message)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	}
}

func TestTransitionUpdate_OnlySetsProvidedTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	update := transitionUpdate(domain.StatusTransition{
		ServerID:    "srv",
		From:        domain.StatusStarting,
		To:          domain.StatusRunning,
		LastStarted: &now,
		At:          now,
	})

	require.Len(t, update, 1)
	set, ok := update[0].Value.(bson.D)
	require.True(t, ok)

	keys := make([]string, 0, len(set))
	for _, e := range set {
		keys = append(keys, e.Key)
	}
	assert.ElementsMatch(t, []string{"status", "transitionDueAt", "updatedAt", "lastStarted"}, keys)
	assert.Equal(t, "running", set[0].Value)
}

func TestServerDocument_KeepsOwnerAndStatus(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 3, 0, time.UTC)
	s := domain.Server{
		ServerID:        "srv",
		OwnerID:         "owner",
		Status:          domain.StatusStarting,
		Type:            domain.TypePaper,
		TransitionDueAt: &due,
	}

	doc := toServerDocument(s)
	assert.Equal(t, "owner", doc.OwnerID)
	assert.Equal(t, "starting", doc.Status)
	assert.Equal(t, s, doc.toDomain())
}
