package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/handler"
	"github.com/dmitrymomot/orggate/pkg/binder"
	"github.com/dmitrymomot/orggate/pkg/logger"
)

type pingRequest struct {
	Name string `query:"name"`
	N    int    `query:"n"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, pingRequest](func(ctx handler.Context, req pingRequest) handler.Response {
			return handler.JSON(map[string]any{"name": req.Name, "n": req.N})
		})
		fn := handler.Wrap(h, handler.WithBinders[handler.Context, pingRequest](binder.Query()))

		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/?name=bob&n=3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got handler.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, map[string]any{"name": "bob", "n": float64(3)}, got.Data)
	})

	t.Run("skips binders that do not apply", func(t *testing.T) {
		t.Parallel()

		skip := func(*http.Request, any) error { return binder.ErrBinderNotApplicable }
		h := handler.HandlerFunc[handler.Context, pingRequest](func(ctx handler.Context, req pingRequest) handler.Response {
			return handler.JSON(req.Name)
		})
		fn := handler.Wrap(h, handler.WithBinders[handler.Context, pingRequest](skip, binder.Query()))

		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/?name=ann", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("binding error uses error handler", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, pingRequest](func(ctx handler.Context, req pingRequest) handler.Response {
			t.Fatal("handler must not run")
			return nil
		})
		fn := handler.Wrap(h,
			handler.WithBinders[handler.Context, pingRequest](binder.Query()),
			handler.WithErrorHandler[handler.Context, pingRequest](handler.NewErrorHandler(logger.Noop())),
		)

		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/?n=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got handler.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Error)
		assert.Equal(t, "invalid_request", got.Error.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var gotErr error
		h := handler.HandlerFunc[handler.Context, pingRequest](func(handler.Context, pingRequest) handler.Response { return nil })
		fn := handler.Wrap(h, handler.WithErrorHandler[handler.Context, pingRequest](func(ctx handler.Context, err error) {
			gotErr = err
		}))

		fn(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, gotErr, handler.ErrNilResponse)
	})

	t.Run("default error handler uses http error key", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, pingRequest](func(handler.Context, pingRequest) handler.Response { return nil })
		bind := func(*http.Request, any) error { return handler.NewHTTPError(http.StatusTeapot, "teapot") }
		fn := handler.Wrap(h, handler.WithBinders[handler.Context, pingRequest](bind))

		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Contains(t, w.Body.String(), "teapot")
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) handler.Decorator[handler.Context, pingRequest] {
			return func(next handler.HandlerFunc[handler.Context, pingRequest]) handler.HandlerFunc[handler.Context, pingRequest] {
				return func(ctx handler.Context, req pingRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.HandlerFunc[handler.Context, pingRequest](func(handler.Context, pingRequest) handler.Response {
			order = append(order, "handler")
			return handler.JSON(nil)
		})
		fn := handler.Wrap(h, handler.WithDecorators(mark("a"), mark("b")))

		fn(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"a", "b", "handler"}, order)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), key{}, "v"))
	w := httptest.NewRecorder()

	ctx := handler.NewContext(w, r)
	assert.Same(t, r, ctx.Request())
	assert.Equal(t, "v", ctx.Value(key{}))
	assert.NoError(t, ctx.Err())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("http error", func(t *testing.T) {
		t.Parallel()

		err := errors.Join(handler.NewHTTPError(http.StatusConflict, "conflict"))
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(err).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusConflict, w.Code)
		var got handler.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "conflict", got.Error.Code)
	})

	t.Run("internal error hides message", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(errors.New("db password leaked")).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	require.NoError(t, handler.Redirect("https://example.com/login").Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/login", w.Header().Get("Location"))
}
