// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Roles the identity layer hands us. Enforcement of who gets which role is
// the identity provider's job; this service only gates a few privileged
// operations (template grading, hard purge) on the verified role.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// Actor is the verified identity attached to a request. It is injected into
// r.Context() by LoadActor and threaded explicitly into every mutating store
// call that records deleted_by/submitted_by/graded_by.
type Actor struct {
	ID   string
	Name string
	Role string
}

type ctxKey string

const actorKey ctxKey = "actor"

// Session cookie value keys, as written by the identity gateway.
const (
	actorIDKey   = "actor_id"
	actorNameKey = "actor_name"
	actorRoleKey = "actor_role"
)

// Verifier decodes gateway-issued identities. Two transports are accepted:
// a securecookie-signed session cookie (browser traffic) and an HS256
// bearer token (service-to-service and SPA API calls).
type Verifier struct {
	store      *sessions.CookieStore
	cookieName string
	jwtSecret  []byte
	log        *zap.Logger
}

// NewVerifier builds a Verifier. cookieKey signs/verifies the identity
// cookie; jwtSecret verifies bearer tokens. Either may be empty to disable
// that transport.
func NewVerifier(cookieKey, cookieName, jwtSecret string, logger *zap.Logger) *Verifier {
	v := &Verifier{
		cookieName: cookieName,
		jwtSecret:  []byte(jwtSecret),
		log:        logger,
	}
	if cookieKey != "" {
		v.store = sessions.NewCookieStore([]byte(cookieKey))
	}
	return v
}

// CurrentActor returns the request's verified actor, if any.
func CurrentActor(r *http.Request) (Actor, bool) {
	a, ok := r.Context().Value(actorKey).(Actor)
	return a, ok
}

// WithActor returns a request whose context carries the given actor.
// Exposed for handler tests.
func WithActor(r *http.Request, a Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, a))
}

// LoadActor injects the actor into context when the request carries a valid
// identity. Requests without one pass through untouched; RequireActor is the
// gate.
func (v *Verifier) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := v.fromBearer(r); ok {
			next.ServeHTTP(w, WithActor(r, a))
			return
		}
		if a, ok := v.fromCookie(r); ok {
			next.ServeHTTP(w, WithActor(r, a))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (v *Verifier) fromBearer(r *http.Request) (Actor, bool) {
	if len(v.jwtSecret) == 0 {
		return Actor{}, false
	}
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return Actor{}, false
	}
	raw := strings.TrimPrefix(h, "Bearer ")

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.jwtSecret, nil
	})
	if err != nil || !tok.Valid {
		if err != nil && v.log != nil {
			v.log.Debug("bearer token rejected", zap.Error(err))
		}
		return Actor{}, false
	}

	a := Actor{
		ID:   claimString(claims, "sub"),
		Name: claimString(claims, "name"),
		Role: claimString(claims, "role"),
	}
	if a.ID == "" || a.Role == "" {
		return Actor{}, false
	}
	return a, true
}

func (v *Verifier) fromCookie(r *http.Request) (Actor, bool) {
	if v.store == nil {
		return Actor{}, false
	}
	sess, err := v.store.Get(r, v.cookieName)
	if err != nil {
		return Actor{}, false
	}
	a := Actor{
		ID:   sessString(sess, actorIDKey),
		Name: sessString(sess, actorNameKey),
		Role: sessString(sess, actorRoleKey),
	}
	if a.ID == "" || a.Role == "" {
		return Actor{}, false
	}
	return a, true
}

// RequireActor rejects requests that carry no verified identity.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentActor(r); !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits only actors holding one of the allowed roles.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := CurrentActor(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, allowed := set[strings.ToLower(a.Role)]; !allowed {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func sessString(sess *sessions.Session, key string) string {
	if v, ok := sess.Values[key].(string); ok {
		return v
	}
	return ""
}
