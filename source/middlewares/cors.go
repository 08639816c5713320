package middlewares

import (
	"commandcenter/source/utils"
	"net/http"
	"os"
	"slices"
)

func AllowedOrigins() []string {
	if os.Getenv(utils.ENV) == utils.ENV_RELEASE {
		return []string{
			"https://commandcenter.app",
			"https://www.commandcenter.app",
		}
	}

	return []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:8000",
	}
}

func Cors(next http.Handler) http.Handler {
	allowedOrigins := AllowedOrigins()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Access-Pin, Idempotency-Key")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			utils.SendResponse(w, http.StatusOK, "", nil, 0)
			return
		}

		next.ServeHTTP(w, r)
	})
}
