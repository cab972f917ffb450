package orgauth

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of APIClient.
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Emails(ctx context.Context) ([]ProfileEmail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ProfileEmail), args.Error(1)
}

func (m *MockAPIClient) BelongsToOrganization(ctx context.Context, org string) (Membership, error) {
	args := m.Called(ctx, org)
	return args.Get(0).(Membership), args.Error(1)
}

func (m *MockAPIClient) FindTeamWithName(ctx context.Context, org, name string) (string, error) {
	args := m.Called(ctx, org, name)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) BelongsToTeam(ctx context.Context, teamID string) (bool, error) {
	args := m.Called(ctx, teamID)
	return args.Bool(0), args.Error(1)
}

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindAccountsByEmails(ctx context.Context, emails []string) ([]*Account, error) {
	args := m.Called(ctx, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Account), args.Error(1)
}

func (m *MockAccountStore) SaveAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
