package middleware

import (
	"net/http"

	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	HeaderSessionToken = "X-Session-Token"
	sessionContextKey  = "session"
	tokenContextKey    = "session_token"
)

// RequireSession resolves the X-Session-Token header into the logged-in
// *service.Session and rejects the request when there is none.
func RequireSession(sessions *service.Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(HeaderSessionToken)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, service.Message(service.ErrNotLoggedIn))
			}
			sess, err := sessions.Get(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, service.Message(err))
			}
			c.Set(sessionContextKey, sess)
			c.Set(tokenContextKey, token)
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) (*service.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(*service.Session)
	return sess, ok
}

func SessionToken(c echo.Context) string {
	token, _ := c.Get(tokenContextKey).(string)
	return token
}
