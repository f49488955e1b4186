package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/finledger/internal/domain"
)

// RouteRule gates requests whose method and path match. An empty Method
// matches every method. In Pattern, "{name}" matches exactly one segment and
// a trailing "/**" matches the prefix itself and anything below it.
//
// A rule is either Public, or requires an authenticated caller holding at
// least one of Roles. A non-public rule with no Roles admits any
// authenticated caller.
type RouteRule struct {
	Method  string
	Pattern string
	Roles   []domain.Role
	Public  bool
}

func (rule RouteRule) matches(method, path string) bool {
	if rule.Method != "" && rule.Method != method {
		return false
	}
	return matchPath(rule.Pattern, path)
}

// authenticatedRule applies to requests no rule matches.
var authenticatedRule = RouteRule{Pattern: "/**"}

// RouteTable is an ordered rule list evaluated first match wins.
type RouteTable struct {
	rules []RouteRule
}

// NewRouteTable creates a RouteTable from rules in evaluation order.
func NewRouteTable(rules ...RouteRule) *RouteTable {
	return &RouteTable{rules: rules}
}

// Match returns the first rule matching the request, or the default
// authenticated rule.
func (t *RouteTable) Match(method, path string) RouteRule {
	path = cleanPath(path)
	for _, rule := range t.rules {
		if rule.matches(method, path) {
			return rule
		}
	}
	return authenticatedRule
}

// IsPublic reports whether the request needs no authentication at all.
func (t *RouteTable) IsPublic(method, path string) bool {
	return t.Match(method, path).Public
}

// Authorize enforces the role gate. It runs after the Authenticator and
// before routing to a handler.
func (t *RouteTable) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule := t.Match(r.Method, r.URL.Path)
		if rule.Public {
			next.ServeHTTP(w, r)
			return
		}

		p, ok := PrincipalFromContext(r.Context())
		if !ok || p.Anonymous() {
			slog.Warn("access denied", "method", r.Method, "path", r.URL.Path, "reason", "unauthenticated")
			writeServiceError(w, r, domain.ErrUnauthenticated)
			return
		}
		if len(rule.Roles) > 0 && !p.HasAnyRole(rule.Roles...) {
			slog.Warn("access denied", "method", r.Method, "path", r.URL.Path, "reason", "role", "email", p.Email)
			writeServiceError(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func cleanPath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}

func matchPath(pattern, path string) bool {
	pat := splitPath(pattern)
	segs := splitPath(path)

	if n := len(pat); n > 0 && pat[n-1] == "**" {
		prefix := pat[:n-1]
		if len(segs) < len(prefix) {
			return false
		}
		return matchSegments(prefix, segs[:len(prefix)])
	}
	if len(pat) != len(segs) {
		return false
	}
	return matchSegments(pat, segs)
}

func matchSegments(pat, segs []string) bool {
	for i, p := range pat {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Routes is the service's access policy.
func Routes() *RouteTable {
	admin := []domain.Role{domain.RoleAdmin}
	user := []domain.Role{domain.RoleUser}
	either := []domain.Role{domain.RoleAdmin, domain.RoleUser}

	return NewRouteTable(
		RouteRule{Method: http.MethodPost, Pattern: "/auth/login", Public: true},
		RouteRule{Method: http.MethodPost, Pattern: "/auth/register", Public: true},
		RouteRule{Method: http.MethodGet, Pattern: "/auth/test", Public: true},
		RouteRule{Method: http.MethodGet, Pattern: "/healthz", Public: true},

		RouteRule{Pattern: "/users/**", Roles: admin},

		RouteRule{Method: http.MethodGet, Pattern: "/banks/**", Roles: either},
		RouteRule{Pattern: "/banks/**", Roles: admin},

		RouteRule{Method: http.MethodGet, Pattern: "/bank-accounts", Roles: admin},
		RouteRule{Method: http.MethodGet, Pattern: "/bank-accounts/bank/{bankId}", Roles: admin},
		RouteRule{Method: http.MethodPut, Pattern: "/bank-accounts/{id}/restore", Roles: admin},
		RouteRule{Pattern: "/bank-accounts/**", Roles: either},

		RouteRule{Pattern: "/transactions/**", Roles: either},

		RouteRule{Method: http.MethodPost, Pattern: "/fixed-incomes", Roles: user},
		RouteRule{Method: http.MethodGet, Pattern: "/fixed-incomes", Roles: user},
		RouteRule{Pattern: "/fixed-incomes/**", Roles: either},

		RouteRule{Method: http.MethodPost, Pattern: "/fixed-expenses", Roles: user},
		RouteRule{Method: http.MethodGet, Pattern: "/fixed-expenses", Roles: user},
		RouteRule{Pattern: "/fixed-expenses/**", Roles: either},
	)
}
