package sessions

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TamerJohn/literate-spoon/internal/tokens"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

// Store loads the session of a request and writes it back onto the response.
// Save must run before the response body is written.
type Store interface {
	Load(ctx context.Context, r *http.Request) (*Session, error)
	Save(ctx context.Context, w http.ResponseWriter, s *Session) error
}

type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Name == "" {
		o.Name = "cms_session"
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	return o
}

func (o CookieOptions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) clear(w http.ResponseWriter) {
	http.SetCookie(w, o.cookie("", -1))
}

// CookieStore keeps the whole session in a signed cookie.
type CookieStore struct {
	secret []byte
	opts   CookieOptions
}

func NewCookieStore(secret []byte, opts CookieOptions) *CookieStore {
	return &CookieStore{secret: secret, opts: opts.withDefaults()}
}

// Load never fails on a bad cookie: tampered, expired or foreign tokens
// give a fresh anonymous session.
func (s *CookieStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	ck, err := r.Cookie(s.opts.Name)
	if err != nil || ck.Value == "" {
		return &Session{}, nil
	}
	claims, err := tokens.ParseSession(s.secret, ck.Value)
	if err != nil {
		logger.Debugf("discarding session cookie: %v", err)
		return &Session{}, nil
	}
	sess := &Session{
		Username:     claims.Username,
		FlashError:   claims.Error,
		FlashSuccess: claims.Success,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *CookieStore) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if !sess.Changed() {
		return nil
	}
	if sess.Empty() {
		s.opts.clear(w)
		sess.markSaved()
		return nil
	}
	raw, err := tokens.SignSession(s.secret, tokens.SessionClaims{
		Username: sess.Username,
		Error:    sess.FlashError,
		Success:  sess.FlashSuccess,
	}, s.opts.MaxAge)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.opts.cookie(raw, int(s.opts.MaxAge.Seconds())))
	sess.ExpiresAt = time.Now().Add(s.opts.MaxAge)
	sess.markSaved()
	return nil
}

// ServerStore keeps sessions in a Repository; the cookie only holds a random id.
type ServerStore struct {
	repo Repository
	opts CookieOptions
}

func NewServerStore(repo Repository, opts CookieOptions) *ServerStore {
	return &ServerStore{repo: repo, opts: opts.withDefaults()}
}

func (s *ServerStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	ck, err := r.Cookie(s.opts.Name)
	if err != nil || ck.Value == "" {
		return &Session{}, nil
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return &Session{}, nil
	}
	sess, err := s.repo.Get(ctx, ck.Value)
	if err != nil {
		return &Session{}, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return &Session{}, nil
	}
	return sess, nil
}

func (s *ServerStore) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if !sess.Changed() {
		return nil
	}
	if sess.Empty() {
		if sess.ID != "" {
			if err := s.repo.Delete(ctx, sess.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			s.opts.clear(w)
			sess.ID = ""
		}
		sess.markSaved()
		return nil
	}
	if sess.rotated && sess.ID != "" {
		if err := s.repo.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		sess.ID = ""
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.ExpiresAt = time.Now().UTC().Add(s.opts.MaxAge)
	if err := s.repo.Put(ctx, sess); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(sess.ID, int(s.opts.MaxAge.Seconds())))
	sess.markSaved()
	return nil
}
