package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"entrevia/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var visitors = make(map[string]*visitor)
var mu sync.Mutex

func getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		v = &visitor{rate.NewLimiter(limit, burst), time.Now()}
		visitors[key] = v
	}
	v.lastSeen = time.Now()

	return v.limiter
}

// CleanupVisitors evicts limiter state for clients idle past the lockout
// horizon. Run it as a goroutine.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for key, v := range visitors {
			if time.Since(v.lastSeen) > 2*time.Hour {
				delete(visitors, key)
			}
		}
		mu.Unlock()
	}
}

// RateLimit is the global per-IP limiter applied to the whole API.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := getLimiter("global|"+utils.ClientIP(r), 3, 5)
		if !limiter.Allow() {
			utils.RespondError(w, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.",
				utils.APIError{Code: "rate_limit_exceeded", Detail: "request rate exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ScopedThrottle caps a route at perHour requests per client IP. The bucket
// refills over the hour, so the full budget is only available again once the
// window slides past.
func ScopedThrottle(scope string, perHour int) func(http.Handler) http.Handler {
	limit := rate.Limit(float64(perHour) / 3600)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(scope+"|"+utils.ClientIP(r), limit, perHour)
			if !limiter.Allow() {
				utils.RespondError(w, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.",
					utils.APIError{Code: "rate_limit_exceeded", Detail: scope + " rate exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// InterviewThrottle additionally budgets per interview UUID, so one candidate
// cannot spend another candidate's message allowance from the same IP.
func InterviewThrottle(scope string, perHour int) func(http.Handler) http.Handler {
	limit := rate.Limit(float64(perHour) / 3600)
	scoped := ScopedThrottle(scope, perHour)
	return func(next http.Handler) http.Handler {
		return scoped(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uuid := mux.Vars(r)["uuid"]; uuid != "" {
				limiter := getLimiter(scope+"|uuid|"+uuid, limit, perHour)
				if !limiter.Allow() {
					utils.RespondError(w, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.",
						utils.APIError{Code: "rate_limit_exceeded", Detail: scope + " rate exceeded for interview"})
					return
				}
			}
			next.ServeHTTP(w, r)
		}))
	}
}
