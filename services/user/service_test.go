package user

import (
	"context"
	"testing"

	"fitgate/config"
	"fitgate/models"
	"fitgate/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	config.AppConfig.JWTSecret = "unit-test-secret"
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementPoints(id string, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	args := m.Called(id, projection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestUserService_Register_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := &MockUserRepository{}
	svc := &DefaultUserService{Repo: repo}

	repo.On("GetByEmail", "jane@example.com").Return(nil, nil)
	repo.On("Create", mock.Anything).Return(nil)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jane",
		Email:    "  Jane@Example.COM ",
		Password: "s3cret-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, models.RoleClient, res.User.Role)
	assert.NotEqual(t, "s3cret-pass", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("s3cret-pass")))
	assert.NotEmpty(t, res.Token)

	userID, role, err := utils.ExtractIdentityFromToken(res.Token)
	assert.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, models.RoleClient, role)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	repo := &MockUserRepository{}
	svc := &DefaultUserService{Repo: repo}

	repo.On("GetByEmail", "jane@example.com").Return(&models.User{ID: "u1"}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_Authenticate_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	repo := &MockUserRepository{}
	svc := &DefaultUserService{Repo: repo}

	repo.On("GetByEmail", "jane@example.com").Return(&models.User{
		ID:           "u1",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}, nil)

	res, err := svc.Authenticate(context.Background(), "jane@example.com", "s3cret-pass")

	assert.NoError(t, err)
	assert.Equal(t, "u1", res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	repo := &MockUserRepository{}
	svc := &DefaultUserService{Repo: repo}

	repo.On("GetByEmail", "jane@example.com").Return(&models.User{
		ID:           "u1",
		PasswordHash: string(hash),
	}, nil)

	_, err := svc.Authenticate(context.Background(), "jane@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{}
	svc := &DefaultUserService{Repo: repo}

	repo.On("GetByEmail", "ghost@example.com").Return(nil, nil)

	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
