package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/calobot/internal/runtime"
)

type fakeEngine struct {
	reply string
	err   error
	last  runtime.Turn
}

func (f *fakeEngine) Process(_ context.Context, turn runtime.Turn) (string, error) {
	f.last = turn
	return f.reply, f.err
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMessageEndpoint(t *testing.T) {
	t.Run("relays the turn and returns the reply", func(t *testing.T) {
		engine := &fakeEngine{reply: "Hello Ana! 👋"}
		h := NewHandler(engine)

		rec := post(t, h, MessageRequest{UserID: "42", DisplayName: "Ana", Text: "oi"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Hello Ana! 👋", resp.Reply)
		assert.Equal(t, runtime.Turn{UserID: "42", DisplayName: "Ana", Text: "oi"}, engine.last)
	})

	t.Run("probe with nothing to send is 204", func(t *testing.T) {
		engine := &fakeEngine{}
		h := NewHandler(engine)

		rec := post(t, h, MessageRequest{UserID: "42", Probe: true})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, engine.last.Probe)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		h := NewHandler(&fakeEngine{})
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing user_id", func(t *testing.T) {
		rec := post(t, NewHandler(&fakeEngine{}), MessageRequest{Text: "oi"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty text on non-probe messages", func(t *testing.T) {
		rec := post(t, NewHandler(&fakeEngine{}), MessageRequest{UserID: "42"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("engine failure is a server error", func(t *testing.T) {
		engine := &fakeEngine{err: errors.New("store down")}
		rec := post(t, NewHandler(engine), MessageRequest{UserID: "42", Text: "oi"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&fakeEngine{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewHandler(&fakeEngine{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
