package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LoadsAndSaves(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewCookieStore([]byte("0123456789abcdef"), testOpts)

	r := gin.New()
	r.Use(Middleware(store))
	r.POST("/login", func(c *gin.Context) {
		s := Get(c)
		s.SignIn("admin")
		s.SetSuccess("hi")
		require.NoError(t, Save(c))
		c.Status(http.StatusFound)
	})
	r.GET("/whoami", func(c *gin.Context) {
		s := Get(c)
		msg := s.PopSuccess()
		require.NoError(t, Save(c))
		c.String(http.StatusOK, s.Username+"|"+msg)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	ck := w.Result().Cookies()
	require.Len(t, ck, 1)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(ck[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "admin|hi", w.Body.String())
	require.Len(t, w.Result().Cookies(), 1, "consuming the flash rewrites the cookie")
}

func TestGetWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := Lookup(c)
	require.False(t, ok)
	require.NotNil(t, Get(c))
	require.Error(t, Save(c))
}
