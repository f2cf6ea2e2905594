package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NotReadyByDefault(t *testing.T) {
	h := New()
	assert.False(t, h.IsReady())

	h.SetReady(true)
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestHealth_ReadyEndpoint(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service is not ready")

	h.SetReady(true)
	w = httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_FailingCheckNeedsThreshold(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("flaky", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	require.Len(t, h.readiness, 1)
	c := h.readiness[0]

	// Below the failure threshold the check still reports healthy.
	c.run(context.Background())
	c.run(context.Background())
	assert.True(t, h.IsReady())

	c.run(context.Background())
	assert.False(t, h.IsReady())

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealth_RecoveryAfterSuccess(t *testing.T) {
	h := New()
	h.SetReady(true)

	var fail bool
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	c := h.readiness[0]

	fail = true
	for range failureThreshold {
		c.run(context.Background())
	}
	assert.False(t, h.IsReady())

	fail = false
	c.run(context.Background())
	assert.True(t, h.IsReady())
}

func TestHealth_LiveEndpoint(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(10000))
	h.liveness[0].run(context.Background())

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
