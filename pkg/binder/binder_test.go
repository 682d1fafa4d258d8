package binder_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/discountkit/pkg/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	type payload struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Values map[string]any  `json:"values"`
	}

	newRequest := func(body, contentType string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(`{"name":"tier","amount":"12.50","values":{"qty":3}}`, "application/json; charset=utf-8"), &got)
		require.NoError(t, err)
		assert.Equal(t, "tier", got.Name)
		assert.Equal(t, "12.5", got.Amount.String())
		assert.Equal(t, float64(3), got.Values["qty"])
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(`{}`, ""), &got)
		assert.ErrorIs(t, err, binder.ErrMissingContentType)
		assert.True(t, binder.IsBindError(err))
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(`{}`, "text/plain"), &got)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(`{"nmae":"x"}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest(`{"name":"a"}{"name":"b"}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		var got payload
		err := binder.JSON()(newRequest("", "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("optional body", func(t *testing.T) {
		t.Parallel()
		got := payload{Name: "kept"}
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		require.NoError(t, binder.JSON(binder.WithOptionalBody())(req, &got))
		assert.Equal(t, "kept", got.Name)
	})

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		var got payload
		body := `{"name":"` + strings.Repeat("a", 64) + `"}`
		err := binder.JSON(binder.WithMaxSize(32))(newRequest(body, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrBodyTooLarge)
	})

	t.Run("cancelled request", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var got payload
		req := newRequest(`{}`, "application/json").WithContext(ctx)
		err := binder.JSON()(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()
	type request struct {
		ID       uuid.UUID `path:"id"`
		Index    int       `path:"index"`
		Optional *uint     `path:"page"`
		Ignored  string    `path:"-"`
		Untagged string
	}

	id := uuid.New()
	params := map[string]string{
		"id":       id.String(),
		"index":    "2",
		"page":     "7",
		"Untagged": "x",
		"-":        "x",
	}
	extractor := func(_ *http.Request, name string) string { return params[name] }
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		var got request
		require.NoError(t, binder.Path(extractor)(req, &got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, 2, got.Index)
		require.NotNil(t, got.Optional)
		assert.Equal(t, uint(7), *got.Optional)
		assert.Empty(t, got.Ignored)
		assert.Empty(t, got.Untagged)
	})

	t.Run("missing params keep values", func(t *testing.T) {
		t.Parallel()
		got := request{Index: 9}
		err := binder.Path(func(*http.Request, string) string { return "" })(req, &got)
		require.NoError(t, err)
		assert.Equal(t, 9, got.Index)
		assert.Nil(t, got.Optional)
	})

	t.Run("invalid uuid", func(t *testing.T) {
		t.Parallel()
		var got request
		err := binder.Path(func(_ *http.Request, name string) string {
			if name == "id" {
				return "not-a-uuid"
			}
			return ""
		})(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
		assert.True(t, binder.IsBindError(err))
	})

	t.Run("invalid int", func(t *testing.T) {
		t.Parallel()
		var got request
		err := binder.Path(func(_ *http.Request, name string) string {
			if name == "index" {
				return "two"
			}
			return ""
		})(req, &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var got request
		assert.ErrorIs(t, binder.Path(nil)(req, &got), binder.ErrFailedToParsePath)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, binder.Path(extractor)(req, request{}), binder.ErrFailedToParsePath)
		var n int
		assert.ErrorIs(t, binder.Path(extractor)(req, &n), binder.ErrFailedToParsePath)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()
	type request struct {
		Only   []string `query:"only"`
		Strict bool     `query:"strict"`
		Price  *float64 `query:"price"`
	}

	t.Run("comma list and repeats", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/test?only=subject,email&only=message&strict=yes&price=1.5", nil)
		var got request
		require.NoError(t, binder.Query()(req, &got))
		assert.Equal(t, []string{"subject", "email", "message"}, got.Only)
		assert.True(t, got.Strict)
		require.NotNil(t, got.Price)
		assert.InDelta(t, 1.5, *got.Price, 0.0001)
	})

	t.Run("absent parameters", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		var got request
		require.NoError(t, binder.Query()(req, &got))
		assert.Nil(t, got.Only)
		assert.Nil(t, got.Price)
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/test?strict=maybe", nil)
		var got request
		assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrFailedToParseQuery)
	})
}
