package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New("salon-test")

	m.RecordAllocation("seat", "allocated")
	m.RecordAllocation("seat", "allocated")
	m.RecordAllocation("head-spa", "exhausted")
	m.RecordComboOrder("swapped")
	m.RecordReflow("applied")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AllocationsTotal.WithLabelValues("seat", "allocated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AllocationsTotal.WithLabelValues("head-spa", "exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComboOrdersTotal.WithLabelValues("swapped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReflowsTotal.WithLabelValues("applied")))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordAllocation("seat", "allocated")
		m.RecordComboOrder("forward")
		m.RecordReflow("rejected")
	})
}

func TestHandler(t *testing.T) {
	m := New("salon-test")
	m.RecordComboOrder("forward")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `booking_combo_orders_total{order="forward",service="salon-test"} 1`), body)
}
