package binder_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/pkg/binder"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	type request struct {
		Code     string `query:"code"`
		State    string `query:"state,omitempty"`
		Page     int    `query:"page"`
		Debug    *bool  `query:"debug"`
		Internal string `query:"-"`
		Fallback string
	}

	t.Run("binds tagged and untagged fields", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/cb?code=abc&state=xyz&page=2&debug=true&Internal=no&fallback=yes", nil)
		var req request
		require.NoError(t, binder.Query()(r, &req))

		assert.Equal(t, "abc", req.Code)
		assert.Equal(t, "xyz", req.State)
		assert.Equal(t, 2, req.Page)
		require.NotNil(t, req.Debug)
		assert.True(t, *req.Debug)
		assert.Empty(t, req.Internal)
		assert.Equal(t, "yes", req.Fallback)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/cb?page=two", nil)
		var req request
		assert.ErrorIs(t, binder.Query()(r, &req), binder.ErrFailedToParseQuery)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/cb", nil)
		assert.ErrorIs(t, binder.Query()(r, request{}), binder.ErrFailedToParseQuery)
	})
}
