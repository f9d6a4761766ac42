package middleware

import (
	"log"
	"net/http"

	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": ...}. Errors that did not
// come through a handler as *echo.HTTPError never expose their raw text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := StatusCode(err)
	msg := service.Message(err)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, map[string]string{"message": msg})
}
