package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds handler execution. Responses are buffered by
// http.TimeoutHandler, which is fine for the small JSON bodies served here.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	message := `{"success":false,"message":"request timed out","error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
