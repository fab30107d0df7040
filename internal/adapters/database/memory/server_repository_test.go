package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/adapters/database/memory"
	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ServerRepositoryTestSuite struct {
	suite.Suite
	repo *memory.ServerRepository
	ctx  context.Context
	now  time.Time
}

func (suite *ServerRepositoryTestSuite) SetupTest() {
	suite.repo = memory.NewServerRepository()
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *ServerRepositoryTestSuite) newServer(ownerID string, createdAt time.Time, status domain.ServerStatus) domain.Server {
	s := domain.Server{
		ServerID:  uuid.NewString(),
		OwnerID:   ownerID,
		Name:      "survival",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	suite.Require().NoError(suite.repo.SaveServer(suite.ctx, s))
	return s
}

func (suite *ServerRepositoryTestSuite) TestFindServersByOwner_NewestFirstAndScoped() {
	owner := uuid.NewString()
	older := suite.newServer(owner, suite.now.Add(-time.Hour), domain.StatusStopped)
	newer := suite.newServer(owner, suite.now, domain.StatusStopped)
	suite.newServer(uuid.NewString(), suite.now, domain.StatusStopped)

	servers, err := suite.repo.FindServersByOwner(suite.ctx, owner, 10, 0)
	suite.Require().NoError(err)
	suite.Require().Len(servers, 2)
	suite.Equal(newer.ServerID, servers[0].ServerID)
	suite.Equal(older.ServerID, servers[1].ServerID)

	page, err := suite.repo.FindServersByOwner(suite.ctx, owner, 10, 5)
	suite.Require().NoError(err)
	suite.Empty(page)

	count, err := suite.repo.CountServersByOwner(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *ServerRepositoryTestSuite) TestFindServerByID_OtherOwnerIsNotFound() {
	s := suite.newServer(uuid.NewString(), suite.now, domain.StatusStopped)

	_, err := suite.repo.FindServerByID(suite.ctx, uuid.NewString(), s.ServerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ServerRepositoryTestSuite) TestTransitionServerStatus_LosesRace() {
	s := suite.newServer(uuid.NewString(), suite.now, domain.StatusStopped)
	due := suite.now.Add(3 * time.Second)

	first := domain.StatusTransition{ServerID: s.ServerID, From: domain.StatusStopped, To: domain.StatusStarting, TransitionDueAt: &due, LastStarted: &suite.now, At: suite.now}
	updated, err := suite.repo.TransitionServerStatus(suite.ctx, first)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusStarting, updated.Status)
	suite.Equal(&suite.now, updated.LastStarted)

	_, err = suite.repo.TransitionServerStatus(suite.ctx, first)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ServerRepositoryTestSuite) TestFindDueTransitions() {
	owner := uuid.NewString()
	due := suite.newServer(owner, suite.now, domain.StatusStopped)
	pending := suite.newServer(owner, suite.now, domain.StatusStopped)

	past := suite.now.Add(-time.Second)
	future := suite.now.Add(time.Minute)
	_, err := suite.repo.TransitionServerStatus(suite.ctx, domain.StatusTransition{ServerID: due.ServerID, From: domain.StatusStopped, To: domain.StatusStarting, TransitionDueAt: &past, At: suite.now})
	suite.Require().NoError(err)
	_, err = suite.repo.TransitionServerStatus(suite.ctx, domain.StatusTransition{ServerID: pending.ServerID, From: domain.StatusStopped, To: domain.StatusStarting, TransitionDueAt: &future, At: suite.now})
	suite.Require().NoError(err)

	servers, err := suite.repo.FindDueTransitions(suite.ctx, suite.now, 10)
	suite.Require().NoError(err)
	suite.Require().Len(servers, 1)
	suite.Equal(due.ServerID, servers[0].ServerID)
}

func (suite *ServerRepositoryTestSuite) TestDeleteServer() {
	owner := uuid.NewString()
	s := suite.newServer(owner, suite.now, domain.StatusStopped)

	suite.ErrorIs(suite.repo.DeleteServer(suite.ctx, uuid.NewString(), s.ServerID), apperrors.ErrNotFound)
	suite.NoError(suite.repo.DeleteServer(suite.ctx, owner, s.ServerID))

	_, err := suite.repo.FindServerByID(suite.ctx, owner, s.ServerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestServerRepository(t *testing.T) {
	suite.Run(t, new(ServerRepositoryTestSuite))
}
