package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"easytap/internal/pkg/apperrors"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func TestCallerContextRoundTrip(t *testing.T) {
	caller := Caller{ID: "user-1", Role: RoleCustomer}
	ctx := WithCaller(context.Background(), caller)

	got, ok := CallerFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, caller, got)

	_, ok = CallerFrom(context.Background())
	assert.False(t, ok)
}

func TestRequireCaller(t *testing.T) {
	svc := NewService(new(MockProfileRepository), testLogger)

	t.Run("returns the caller from context", func(t *testing.T) {
		ctx := WithCaller(context.Background(), Caller{ID: "user-1", Role: RoleCustomer})
		caller, err := svc.RequireCaller(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", caller.ID)
	})

	t.Run("missing caller is unauthorized", func(t *testing.T) {
		_, err := svc.RequireCaller(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestRequireAdmin(t *testing.T) {
	svc := NewService(new(MockProfileRepository), testLogger)

	t.Run("admin passes", func(t *testing.T) {
		ctx := WithCaller(context.Background(), Caller{ID: "admin-1", Role: RoleAdmin})
		caller, err := svc.RequireAdmin(ctx)
		assert.NoError(t, err)
		assert.True(t, caller.IsAdmin())
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		ctx := WithCaller(context.Background(), Caller{ID: "user-1", Role: RoleCustomer})
		_, err := svc.RequireAdmin(ctx)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		_, err := svc.RequireAdmin(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestGetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a customer profile", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("GetProfileByID", ctx, "cust-1").Return(&Profile{ID: "cust-1", Role: RoleCustomer}, nil)

		svc := NewService(repo, testLogger)
		p, err := svc.GetCustomer(ctx, "cust-1")
		assert.NoError(t, err)
		assert.Equal(t, "cust-1", p.ID)
	})

	t.Run("admin profile is not a valid target", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("GetProfileByID", ctx, "admin-1").Return(&Profile{ID: "admin-1", Role: RoleAdmin}, nil)

		svc := NewService(repo, testLogger)
		_, err := svc.GetCustomer(ctx, "admin-1")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewService(new(MockProfileRepository), testLogger)
		_, err := svc.GetCustomer(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("missing profile", func(t *testing.T) {
		repo := new(MockProfileRepository)
		repo.On("GetProfileByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

		svc := NewService(repo, testLogger)
		_, err := svc.GetCustomer(ctx, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
