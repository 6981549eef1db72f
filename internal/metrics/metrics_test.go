package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")))
}

func TestRecordProductMutation(t *testing.T) {
	m := New()
	m.RecordProductMutation("update", OutcomeSuccess)
	m.RecordProductMutation("update", OutcomeSuccess)
	m.RecordProductMutation("delete", OutcomeNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.productMutations.WithLabelValues("update", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.productMutations.WithLabelValues("delete", OutcomeNotFound)))

	var nilMetrics *Metrics
	nilMetrics.RecordProductMutation("update", OutcomeError)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RecordProductMutation("create", OutcomeSuccess)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "product_mutations_total"))
}
