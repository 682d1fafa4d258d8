package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/discountkit/handler"
	"github.com/dmitrymomot/discountkit/pkg/binder"
	"github.com/dmitrymomot/discountkit/pkg/logger"
	"github.com/dmitrymomot/discountkit/pkg/requestid"
	"github.com/dmitrymomot/discountkit/pkg/validator"
)

type echoRequest struct {
	Name string `json:"name"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var got handler.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := handler.HandlerFunc[handler.Context, echoRequest](func(ctx handler.Context, req echoRequest) handler.Response {
		return handler.JSON(map[string]string{"name": req.Name})
	})

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinders[handler.Context, echoRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"tiers"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"name": "tiers"}, decode(t, w).Data)
	})

	t.Run("binding failure is a bad request", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinders[handler.Context, echoRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		got := decode(t, w)
		require.NotNil(t, got.Error)
		assert.Equal(t, "bad_request", got.Error.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[handler.Context, struct{}](
			func(handler.Context, struct{}) handler.Response { return nil },
		))
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_server_error", decode(t, w).Error.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response { return handler.Empty() }),
			handler.WithDecorators(mark("outer"), mark("inner")),
		)
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("context exposes request", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[handler.Context, struct{}](func(ctx handler.Context, _ struct{}) handler.Response {
			return handler.JSON(ctx.Request().URL.Path, handler.WithJSONStatus(http.StatusAccepted))
		}))
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/v1/forms", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "/v1/forms", decode(t, w).Data)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("data with meta", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSON([]string{"a"}, handler.WithJSONMeta(map[string]any{"count": 1}))
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"data":["a"],"meta":{"count":1}}`, w.Body.String())
	})

	t.Run("error value", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSON(handler.ErrConflict)
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":{"code":"conflict","message":"Conflict"}}`, w.Body.String())
	})

	t.Run("server errors hide the message", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		resp := handler.JSONError(errors.New("dial tcp: connection refused"))
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		got := decode(t, w)
		assert.Equal(t, "Internal Server Error", got.Error.Message)
	})

	t.Run("validation errors carry descriptors", func(t *testing.T) {
		t.Parallel()
		res := validator.Validate(validator.Values{}, validator.Rules{"subject": "required"})
		w := httptest.NewRecorder()
		resp := handler.JSONError(fmt.Errorf("save ticket: %w", res.Err()))
		require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		got := decode(t, w)
		assert.Equal(t, "validation_failed", got.Error.Code)
		assert.Equal(t, validator.KindRequired, got.Error.Fields["subject"].Kind)
		assert.Equal(t, "subject", got.Error.Fields["subject"].Properties.Field)
	})
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	errMissing := errors.New("thing missing")

	newHandler := func(buf *bytes.Buffer, fail error) http.Handler {
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithFormat(logger.FormatJSON),
			logger.WithLevel(slog.LevelDebug),
			logger.WithContextExtractors(requestid.LogExtractor()),
		)
		errs := handler.NewErrorHandler(log, handler.WithErrorMapping(errMissing, handler.ErrNotFound))
		return requestid.Middleware(handler.Wrap(
			handler.HandlerFunc[handler.Context, struct{}](func(handler.Context, struct{}) handler.Response { return handler.Fail(fail) }),
			handler.WithErrorHandler[handler.Context, struct{}](errs),
		))
	}

	t.Run("mapped error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		req := httptest.NewRequest(http.MethodGet, "/drafts/1", nil)
		req.Header.Set(requestid.Header, "req-42")
		w := httptest.NewRecorder()
		newHandler(&buf, fmt.Errorf("load: %w", errMissing)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		got := decode(t, w)
		assert.Equal(t, "not_found", got.Error.Code)
		assert.Equal(t, "load: thing missing", got.Error.Message)
		assert.Equal(t, "req-42", got.Meta["request_id"])

		logged := buf.String()
		assert.Contains(t, logged, `"level":"WARN"`)
		assert.Contains(t, logged, `"request_id":"req-42"`)
		assert.Contains(t, logged, `"status_code":404`)
	})

	t.Run("http error wins over mappings", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newHandler(&buf, errors.Join(handler.ErrConflict, errMissing)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newHandler(&buf, errors.New("boom")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", decode(t, w).Error.Message)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"error":"boom"`)
	})

	t.Run("binding errors", func(t *testing.T) {
		t.Parallel()
		cases := map[error]int{
			binder.ErrFailedToParseJSON:    http.StatusBadRequest,
			binder.ErrBodyTooLarge:         http.StatusRequestEntityTooLarge,
			binder.ErrUnsupportedMediaType: http.StatusUnsupportedMediaType,
		}
		for err, status := range cases {
			var buf bytes.Buffer
			w := httptest.NewRecorder()
			newHandler(&buf, fmt.Errorf("%w: detail", err)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, status, w.Code, err.Error())
		}
	})
}
