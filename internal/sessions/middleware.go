package sessions

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

const contextKey = "cms.session"

var errNoSession = errors.New("session middleware not installed")

type state struct {
	store   Store
	session *Session
}

// Middleware loads the request's session into the gin context. A store
// failure is logged and the request continues with an empty session.
func Middleware(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c.Request.Context(), c.Request)
		if err != nil {
			logger.Warnf("session load failed: %v", err)
		}
		if sess == nil {
			sess = &Session{}
		}
		c.Set(contextKey, &state{store: store, session: sess})
		c.Next()
	}
}

// Lookup returns the session loaded by Middleware, if any.
func Lookup(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	st, ok := v.(*state)
	if !ok {
		return nil, false
	}
	return st.session, true
}

// Get returns the request's session. Without Middleware a throwaway empty
// session is returned so callers need no nil checks.
func Get(c *gin.Context) *Session {
	if s, ok := Lookup(c); ok {
		return s
	}
	return &Session{}
}

// Save writes pending session changes onto the response.
func Save(c *gin.Context) error {
	v, ok := c.Get(contextKey)
	if !ok {
		return errNoSession
	}
	st := v.(*state)
	return st.store.Save(c.Request.Context(), c.Writer, st.session)
}
