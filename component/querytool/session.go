package querytool

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/hdsi-querytool/lib/httpauth"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
)

const sessionCookieName = "querytool_session"

// browserSession is the HDSI session of one browser. Browser sessions do not share tokens.
type browserSession struct {
	id            string
	controller    *httpauth.Controller
	loginRequired atomic.Bool
	// lastUsed is the time of the last request, in Unix nanoseconds.
	lastUsed atomic.Int64
}

func (s *browserSession) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *browserSession) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}

func (c *Component) newBrowserSession() *browserSession {
	session := &browserSession{id: uuid.NewString()}
	session.controller = httpauth.New(c.httpClient, c.config.Client, httpauth.PromptFunc(func(ctx context.Context) {
		logging.Ctx(ctx).Debug().Msg("HDSI credentials required")
		session.loginRequired.Store(true)
	}))
	return session
}

// session returns the stored browser session of the request. Browsers without one get a
// session that is only stored after a successful login.
func (c *Component) session(r *http.Request) *browserSession {
	now := c.now()
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if existing, ok := c.sessions.Load(cookie.Value); ok {
			session := existing.(*browserSession)
			if session.idleSince(now) < c.config.SessionTimeout {
				session.touch(now)
				return session
			}
			c.sessions.CompareAndDelete(cookie.Value, session)
		}
	}
	session := c.newBrowserSession()
	session.touch(now)
	return session
}

// storeSession keeps the browser session and hands its cookie to the browser.
// Idle sessions are evicted first.
func (c *Component) storeSession(w http.ResponseWriter, session *browserSession) {
	now := c.now()
	c.evictIdleSessions(now)
	session.touch(now)
	c.sessions.Store(session.id, session)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Component) evictIdleSessions(now time.Time) {
	c.sessions.Range(func(key, value any) bool {
		if value.(*browserSession).idleSince(now) >= c.config.SessionTimeout {
			c.sessions.CompareAndDelete(key, value)
		}
		return true
	})
}

func (c *Component) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		c.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
