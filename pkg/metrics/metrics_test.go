package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_LabelsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	HTTPRequests.Reset()
	HTTPDuration.Reset()

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/:filename", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/about.md", "/history.txt", "/a/b/c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/:filename", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
	require.Equal(t, 2, testutil.CollectAndCount(HTTPDuration))
}

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	LoginAttempts.WithLabelValues("success").Inc()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["cms_login_attempts_total"])

	require.Panics(t, func() { RegisterCollectors(reg) }, "double registration must fail loudly")
}
