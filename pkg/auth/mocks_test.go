package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// MockStateStorage is a mock implementation of StateStorage.
type MockStateStorage struct {
	mock.Mock
}

func (m *MockStateStorage) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	args := m.Called(ctx, state, expiresAt)
	return args.Error(0)
}

func (m *MockStateStorage) ConsumeState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockProviderAdapter is a mock implementation of ProviderAdapter.
type MockProviderAdapter struct {
	mock.Mock
}

func (m *MockProviderAdapter) ProviderID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProviderAdapter) AuthURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *MockProviderAdapter) ResolveProfile(ctx context.Context, code string) (string, orgauth.ExternalProfile, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Get(1).(orgauth.ExternalProfile), args.Error(2)
}

// MockVerifier is a mock implementation of Verifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyCallback(ctx context.Context, accessToken string, profile orgauth.ExternalProfile, done func(*orgauth.Account, error)) {
	args := m.Called(ctx, accessToken, profile)
	var account *orgauth.Account
	if a := args.Get(0); a != nil {
		account = a.(*orgauth.Account)
	}
	done(account, args.Error(1))
}
