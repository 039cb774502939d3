package server

import (
	"net/http"

	"github.com/promptlab-hq/promptlab/core/session"
)

// sessionCookie is the name of the session identifier cookie.
const sessionCookie = "promptlab_session"

// getSession returns the request's session, creating one (and setting
// the cookie) when none exists or the old one expired.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}

	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
