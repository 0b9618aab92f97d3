package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testOpts = CookieOptions{Name: "cms_session", MaxAge: time.Hour}

// roundTrip saves sess with store and loads it back through the cookie the
// response carried.
func roundTrip(t *testing.T, store Store, sess *Session) (*Session, *http.Response) {
	t.Helper()
	ctx := context.Background()
	w := httptest.NewRecorder()
	require.NoError(t, store.Save(ctx, w, sess))
	resp := w.Result()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range resp.Cookies() {
		if ck.MaxAge >= 0 {
			req.AddCookie(ck)
		}
	}
	loaded, err := store.Load(ctx, req)
	require.NoError(t, err)
	return loaded, resp
}

func TestCookieStore_RoundTrip(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef"), testOpts)
	s := &Session{}
	s.SignIn("admin")
	s.SetSuccess("Successfully logged in as admin")

	got, resp := roundTrip(t, store, s)
	require.Equal(t, "admin", got.Username)
	require.Equal(t, "Successfully logged in as admin", got.FlashSuccess)
	require.False(t, got.Changed())

	ck := resp.Cookies()[0]
	require.Equal(t, "cms_session", ck.Name)
	require.True(t, ck.HttpOnly)
	require.Equal(t, 3600, ck.MaxAge)
}

func TestCookieStore_UnchangedSessionWritesNothing(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef"), testOpts)
	w := httptest.NewRecorder()
	require.NoError(t, store.Save(context.Background(), w, &Session{Username: "admin"}))
	require.Empty(t, w.Result().Cookies())
}

func TestCookieStore_EmptySessionClearsCookie(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef"), testOpts)
	s := &Session{Username: "admin"}
	s.SignOut()

	w := httptest.NewRecorder()
	require.NoError(t, store.Save(context.Background(), w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestCookieStore_RejectsForeignCookie(t *testing.T) {
	signer := NewCookieStore([]byte("secret-one-xxxxxxxx"), testOpts)
	reader := NewCookieStore([]byte("secret-two-xxxxxxxx"), testOpts)
	s := &Session{}
	s.SignIn("admin")

	w := httptest.NewRecorder()
	require.NoError(t, signer.Save(context.Background(), w, s))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(w.Result().Cookies()[0])

	got, err := reader.Load(context.Background(), req)
	require.NoError(t, err)
	require.False(t, got.IsAuthenticated())

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: "cms_session", Value: "garbage"})
	got, err = reader.Load(context.Background(), req2)
	require.NoError(t, err)
	require.True(t, got.Empty())
}

func TestServerStore_Redis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	repo := NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), "")
	store := NewServerStore(repo, testOpts)

	s := &Session{}
	s.SignIn("admin")
	s.SetError("boom")

	got, resp := roundTrip(t, store, s)
	require.NotEmpty(t, s.ID)
	require.Equal(t, s.ID, resp.Cookies()[0].Value)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, "admin", got.Username)
	require.Equal(t, "boom", got.FlashError)
	require.True(t, m.Exists("session:"+s.ID))

	// signing out removes the stored record
	got.SignOut()
	got.PopError()
	w := httptest.NewRecorder()
	require.NoError(t, store.Save(context.Background(), w, got))
	require.False(t, m.Exists("session:"+s.ID))
	require.Less(t, w.Result().Cookies()[0].MaxAge, 0)
}

func TestServerStore_UnknownIDGivesFreshSession(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	store := NewServerStore(NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), ""), testOpts)

	for _, v := range []string{"not-a-uuid", "6f1c1f4e-0a7b-4c5e-9d0e-2a8f3b1c4d5e"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cms_session", Value: v})
		got, err := store.Load(context.Background(), req)
		require.NoError(t, err)
		require.True(t, got.Empty())
		require.Empty(t, got.ID)
	}
}

func TestServerStore_SignInIssuesFreshID(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	store := NewServerStore(NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), ""), testOpts)

	anon := &Session{}
	anon.SetError("You must be signed in to do that.")
	loaded, _ := roundTrip(t, store, anon)
	before := anon.ID
	require.NotEmpty(t, before)

	loaded.PopError()
	loaded.SignIn("admin")
	signedIn, resp := roundTrip(t, store, loaded)
	require.NotEqual(t, before, loaded.ID)
	require.Equal(t, loaded.ID, resp.Cookies()[0].Value)
	require.Equal(t, "admin", signedIn.Username)
	require.False(t, m.Exists("session:"+before), "the pre-login id must be gone")
	require.True(t, m.Exists("session:"+loaded.ID))

	// same user again keeps the id
	after := loaded.ID
	signedIn.SignIn("admin")
	signedIn.SetSuccess("Welcome")
	roundTrip(t, store, signedIn)
	require.Equal(t, after, signedIn.ID)
}
