package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/finledger/internal/domain"
	"github.com/msomdec/finledger/internal/service"
)

type contextKey string

const principalContextKey contextKey = "principal"

const bearerPrefix = "Bearer "

// PrincipalFromContext returns the authenticated caller of the request, if
// any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(domain.Principal)
	return p, ok
}

// WithPrincipal attaches p to ctx. A context that already carries a
// principal is returned unchanged.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, principalContextKey, p)
}

// principal returns the caller of r, or the anonymous principal.
func principal(r *http.Request) domain.Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}

// Authenticator turns a bearer token into a request principal. It never
// rejects a request: a missing or bad token leaves the request anonymous
// and the route guard decides whether that is acceptable.
type Authenticator struct {
	tokens *service.TokenCodec
	users  domain.UserRepository
	routes *RouteTable
}

// NewAuthenticator creates a new Authenticator. Paths the route table marks
// public are not inspected.
func NewAuthenticator(tokens *service.TokenCodec, users domain.UserRepository, routes *RouteTable) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, routes: routes}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.routes.IsPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := PrincipalFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		p, ok := a.authenticate(r)
		if ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (domain.Principal, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || token == "" {
		return domain.Principal{}, false
	}

	claims, err := a.tokens.Decode(token)
	if err != nil {
		slog.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
		return domain.Principal{}, false
	}

	roles := claims.GrantedRoles()
	if len(claims.Roles) == 0 {
		user, err := a.users.GetByEmail(r.Context(), claims.Subject)
		if err != nil {
			slog.Debug("token subject not resolvable", "path", r.URL.Path, "error", err)
			return domain.Principal{}, false
		}
		roles = []domain.Role{user.Role}
	}

	if !a.tokens.IsValid(token, claims.Subject) {
		slog.Debug("bearer token expired", "path", r.URL.Path)
		return domain.Principal{}, false
	}
	return domain.Principal{Email: claims.Subject, Roles: roles}, true
}

// SecurityHeaders sets conservative defaults on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// RateLimit rejects requests from a client address whose bucket is empty.
func RateLimit(limiter *service.LoginLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeServiceError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. Forwarded-for headers are
// client-controlled and never consulted, so one peer shares one bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
