package githubauth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/orggate/pkg/auth"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) GetAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Auth(ctx context.Context, code, state string) (auth.SignIn, error) {
	args := m.Called(ctx, code, state)
	return args.Get(0).(auth.SignIn), args.Error(1)
}
