package githubauth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/orggate/handler"
	"github.com/dmitrymomot/orggate/pkg/audit"
	"github.com/dmitrymomot/orggate/pkg/auth"
	"github.com/dmitrymomot/orggate/pkg/binder"
	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// Service serves the GitHub OAuth redirect and callback.
type Service struct {
	authn        auth.OAuthAuthenticator
	log          *slog.Logger
	audit        *audit.Recorder
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAuditRecorder records every callback outcome.
func WithAuditRecorder(r *audit.Recorder) Option {
	return func(s *Service) {
		s.audit = r
	}
}

// WithErrorHandler overrides the JSON error handler.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// NewService creates the GitHub sign in service.
func NewService(authn auth.OAuthAuthenticator, opts ...Option) *Service {
	s := &Service{
		authn: authn,
		log:   logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log)
	}
	return s
}

// Handle implements Mountable.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.login,
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	))
	r.Get("/callback", handler.Wrap(s.callback,
		handler.WithBinders[handler.Context, CallbackRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, CallbackRequest](s.errorHandler),
	))

	return r
}

// LoginRequest carries nothing; the state is generated server side.
type LoginRequest struct{}

func (s *Service) login(ctx handler.Context, _ LoginRequest) handler.Response {
	url, err := s.authn.GetAuthURL(ctx)
	if err != nil {
		return handler.JSONError(fmt.Errorf("%w: %w", handler.NewHTTPError(http.StatusInternalServerError, "login_unavailable"), err))
	}
	return handler.Redirect(url)
}

// CallbackRequest is the query GitHub appends to the redirect URL.
type CallbackRequest struct {
	Code             string `query:"code"`
	State            string `query:"state"`
	Error            string `query:"error"`
	ErrorDescription string `query:"error_description"`
}

func (s *Service) callback(ctx handler.Context, req CallbackRequest) handler.Response {
	if req.Error != "" {
		s.log.WarnContext(ctx, "github returned an authorization error",
			slog.String("error", req.Error),
			slog.String("description", req.ErrorDescription),
			logger.Component("githubauth"),
		)
		return s.fail(ctx, fmt.Errorf("%w: %s", errProviderDeny, req.Error))
	}
	if req.Code == "" {
		return s.fail(ctx, errMissingCode)
	}

	signIn, err := s.authn.Auth(ctx, req.Code, req.State)
	if err != nil {
		return s.fail(ctx, statusError(err), audit.WithIdentity(orgauth.ProviderGitHub, signIn.ExternalID))
	}
	account := signIn.Account

	s.log.InfoContext(ctx, "github sign in succeeded",
		logger.AccountID(account.ID),
		logger.Level(account.Level),
		logger.Component("githubauth"),
	)
	s.record(ctx, audit.ResultSuccess,
		audit.WithIdentity(orgauth.ProviderGitHub, signIn.ExternalID),
		audit.WithAccountID(account.ID.String()),
		audit.WithMetadata(map[string]any{"level": account.Level.String()}),
	)
	return handler.JSON(newAccountView(account))
}

// fail logs and audits a rejected callback. err must carry an HTTPError.
func (s *Service) fail(ctx handler.Context, err error, opts ...audit.EventOption) handler.Response {
	var httpErr handler.HTTPError
	errors.As(err, &httpErr)

	result := audit.ResultFailure
	if httpErr.Code >= http.StatusInternalServerError {
		result = audit.ResultError
	}
	s.log.WarnContext(ctx, "github sign in failed",
		logger.Error(err),
		slog.String("reason", httpErr.Key),
		logger.Component("githubauth"),
	)
	s.record(ctx, result, append(opts, audit.WithReason(httpErr.Key))...)
	return handler.JSONError(err)
}

func (s *Service) record(ctx handler.Context, result audit.Result, opts ...audit.EventOption) {
	if s.audit == nil {
		return
	}
	opts = append([]audit.EventOption{
		audit.WithIdentity(orgauth.ProviderGitHub, ""),
		audit.WithUserAgent(ctx.Request().UserAgent()),
	}, opts...)
	if err := s.audit.Record(ctx, audit.ActionSignIn, result, opts...); err != nil {
		s.log.ErrorContext(ctx, "failed to record audit event", logger.Error(err), logger.Component("githubauth"))
	}
}
