package middlewares

import (
	"commandcenter/source/utils"
	"crypto/subtle"
	"net/http"
)

const PIN_HEADER = "X-Access-Pin"

// PinMatches compares in constant time. An empty expected PIN never matches.
func PinMatches(expected, given string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}

// PinAuth is the static access gate in front of the API.
func PinAuth(pin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(PIN_HEADER)
			if given == "" {
				utils.SendResponse(w, http.StatusUnauthorized, "Access PIN not provided", nil, 0)
				return
			}

			if !PinMatches(pin, given) {
				utils.SendResponse(w, http.StatusUnauthorized, "Invalid access PIN", nil, 0)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
