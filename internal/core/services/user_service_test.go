package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/core/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, googleID))
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

func hashed(suite *UserServiceTestSuite, password string) *string {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &hash
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()
}

// --- Register Tests ---
func (suite *UserServiceTestSuite) TestRegister_Success() {
	req := dto.RegisterRequest{Username: "steve_01", Email: "  Steve@Example.com ", Password: "diamonds"}

	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "steve_01").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "steve@example.com" && u.PasswordHash != nil && *u.PasswordHash != "diamonds" &&
			u.Role == domain.RoleUser && u.IsActive
	})).Return(nil).Once()

	user, err := suite.service.Register(suite.ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.True(utils.CheckPasswordHash("diamonds", *user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_MultiBytePasswordOverBcryptLimit() {
	// 40 characters, 80 bytes.
	req := dto.RegisterRequest{Username: "steve", Email: "steve@example.com", Password: strings.Repeat("é", 40)}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, req.Email).Return(nil, apperrors.ErrNotFound).Maybe()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, req.Username).Return(nil, apperrors.ErrNotFound).Maybe()

	_, err := suite.service.Register(suite.ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(400, apperrors.StatusCode(err))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	existing := &domain.User{UserID: uuid.NewString(), Email: "steve@example.com"}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(existing, nil).Once()

	user, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Username: "steve", Email: "steve@example.com", Password: "diamonds"})

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("Email already registered", appErr.Message)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUsername() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "alex@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "steve").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	_, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Username: "steve", Email: "alex@example.com", Password: "diamonds"})

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("Username already taken", appErr.Message)
}

// --- AuthenticateUser Tests ---
func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	user := &domain.User{UserID: uuid.NewString(), Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: true}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", suite.ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	got, err := suite.service.AuthenticateUser(suite.ctx, "Steve@example.com", "diamonds")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
	suite.NotNil(got.LastLogin)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownAndWrongPasswordLookTheSame() {
	user := &domain.User{UserID: uuid.NewString(), Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: true}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, wrongPassErr := suite.service.AuthenticateUser(suite.ctx, "steve@example.com", "gravel")
	_, unknownErr := suite.service.AuthenticateUser(suite.ctx, "nobody@example.com", "gravel")

	suite.ErrorIs(wrongPassErr, apperrors.ErrInvalidCredentials)
	suite.ErrorIs(unknownErr, apperrors.ErrInvalidCredentials)
	suite.Equal(wrongPassErr.Error(), unknownErr.Error())
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Deactivated() {
	user := &domain.User{UserID: uuid.NewString(), Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: false}
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(user, nil).Once()

	_, err := suite.service.AuthenticateUser(suite.ctx, "steve@example.com", "diamonds")

	suite.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

// --- UpdateProfile Tests ---
func (suite *UserServiceTestSuite) TestUpdateProfile_ChangePassword() {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: true}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(nil).Once().Run(func(args mock.Arguments) {
		saved := args.Get(1).(domain.User)
		suite.True(utils.CheckPasswordHash("emeralds", *saved.PasswordHash))
	})

	_, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{
		CurrentPassword: strPtr("diamonds"),
		NewPassword:     strPtr("emeralds"),
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateProfile_PasswordChecks() {
	userID := uuid.NewString()
	newUser := func() *domain.User {
		return &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: true}
	}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(newUser(), nil).Once()
	_, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{NewPassword: strPtr("emeralds")})
	suite.Equal(400, apperrors.StatusCode(err))
	suite.Contains(err.Error(), "Current password is required")

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(newUser(), nil).Once()
	_, err = suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{CurrentPassword: strPtr("gravel"), NewPassword: strPtr("emeralds")})
	suite.Equal(401, apperrors.StatusCode(err))
	suite.Contains(err.Error(), "Current password is incorrect")

	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_MultiBytePasswordOverBcryptLimit() {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", PasswordHash: hashed(suite, "diamonds"), IsActive: true}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(user, nil).Once()

	_, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{
		CurrentPassword: strPtr("diamonds"),
		NewPassword:     strPtr(strings.Repeat("é", 40)),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_OAuthOnlySetsPasswordDirectly() {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", GoogleID: strPtr("g-1"), IsActive: true}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	updated, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{NewPassword: strPtr("emeralds")})

	suite.Require().NoError(err)
	suite.True(updated.HasPassword())
}

func (suite *UserServiceTestSuite) TestUpdateProfile_UsernameTakenByOther() {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", PasswordHash: strPtr("x")}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "alex").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	_, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{Username: strPtr("alex")})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_NoChange() {
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Username: "steve", Email: "steve@example.com", PasswordHash: strPtr("x")}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(user, nil).Once()

	got, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{Username: strPtr("steve"), Email: strPtr("STEVE@example.com")})

	suite.Require().NoError(err)
	suite.Equal(user, got)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

// --- FindOrCreateGoogleUser Tests ---
func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_LinksExistingEmail() {
	user := &domain.User{UserID: uuid.NewString(), Username: "steve", Email: "steve@example.com", PasswordHash: strPtr("x"), IsActive: true}
	suite.mockUserRepo.On("FindUserByGoogleID", suite.ctx, "g-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "steve@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.GoogleID != nil && *u.GoogleID == "g-1"
	})).Return(nil).Once()

	got, err := suite.service.FindOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "g-1", Email: "Steve@example.com"})

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesWithUniqueUsername() {
	suite.mockUserRepo.On("FindUserByGoogleID", suite.ctx, "g-2").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "alex@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "alex_smith").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "g-2", Email: "alex@example.com", Name: "Alex Smith"})

	suite.Require().NoError(err)
	suite.Regexp(`^alex_smith_[0-9a-z]{4}$`, user.Username)
	suite.Equal("g-2", *user.GoogleID)
	suite.True(user.HasPassword())
	suite.True(user.IsActive)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_Deactivated() {
	user := &domain.User{UserID: uuid.NewString(), GoogleID: strPtr("g-3"), IsActive: false}
	suite.mockUserRepo.On("FindUserByGoogleID", suite.ctx, "g-3").Return(user, nil).Once()

	_, err := suite.service.FindOrCreateGoogleUser(suite.ctx, domain.GoogleUserInfo{ID: "g-3"})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(suite.ctx, userID)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestGetUserByID_RepoError() {
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(nil, assert.AnError).Once()

	_, err := suite.service.GetUserByID(suite.ctx, userID)

	suite.ErrorIs(err, assert.AnError)
	suite.Contains(err.Error(), "failed to get user by ID in service")
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
