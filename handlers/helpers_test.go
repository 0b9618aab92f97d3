package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/TamerJohn/literate-spoon/internal/document/repository"
	"github.com/TamerJohn/literate-spoon/internal/document/service"
	"github.com/TamerJohn/literate-spoon/internal/render"
	"github.com/TamerJohn/literate-spoon/internal/sessions"
	"github.com/TamerJohn/literate-spoon/internal/users"
)

var seedDocs = map[string]string{
	"about.md":    "# ruby is",
	"history.txt": "1993 - Yukihiro Matsumoto dreams up Ruby.\n 1995 - Ruby 0.95 released.\n 1996 - Ruby 1.0 released.\n ",
	"changes.txt": "2020 - Ruby 3.0 released.\n 2021 - Ruby 3.1 released.\n 2022 - Ruby 3.2 released.\n ",
	"xyz.xyz":     "aaaaa",
}

// testEnv is a router over a scratch data directory plus a browser-like
// cookie jar.
type testEnv struct {
	t       *testing.T
	dir     string
	router  *gin.Engine
	store   *sessions.CookieStore
	cookies map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	dir := filepath.Join(root, "data")
	repo, err := repository.NewFileRepo(dir)
	require.NoError(t, err)
	for name, content := range seedDocs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	usersFile := filepath.Join(root, "users.yml")
	require.NoError(t, os.WriteFile(usersFile, []byte("admin: secret\n"), 0o600))

	store := sessions.NewCookieStore([]byte("handler-test-secret"), sessions.CookieOptions{Name: "cms_session", MaxAge: time.Hour})
	router := NewRouter(Options{
		Documents: service.New(repo),
		Renderer:  render.New(),
		Users:     users.NewService(users.NewYAMLRepository(usersFile)),
		Sessions:  store,
	})
	return &testEnv{t: t, dir: dir, router: router, store: store, cookies: map[string]*http.Cookie{}}
}

func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range e.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(e.cookies, ck.Name)
		} else {
			e.cookies[ck.Name] = ck
		}
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder { return e.do(http.MethodGet, path, nil) }

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return e.do(http.MethodPost, path, form)
}

// follow requests the Location of a redirect.
func (e *testEnv) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	e.t.Helper()
	require.Equal(e.t, http.StatusFound, w.Code)
	return e.get(w.Header().Get("Location"))
}

// signIn puts an admin session in the jar without going through the form.
func (e *testEnv) signIn() {
	e.t.Helper()
	s := &sessions.Session{}
	s.SignIn("admin")
	w := httptest.NewRecorder()
	require.NoError(e.t, e.store.Save(context.Background(), w, s))
	for _, ck := range w.Result().Cookies() {
		e.cookies[ck.Name] = ck
	}
}

// session decodes the jar's current session without consuming anything.
func (e *testEnv) session() *sessions.Session {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range e.cookies {
		req.AddCookie(ck)
	}
	s, err := e.store.Load(context.Background(), req)
	require.NoError(e.t, err)
	return s
}

func (e *testEnv) fileContent(name string) string {
	e.t.Helper()
	b, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(e.t, err)
	return string(b)
}

func supportedSeeds() []string {
	return []string{"about.md", "changes.txt", "history.txt"}
}
