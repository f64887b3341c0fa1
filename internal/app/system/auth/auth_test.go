package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-0123456789"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func echoActor(t *testing.T, got *Actor) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := CurrentActor(r); ok {
			*got = a
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadActor_Bearer(t *testing.T) {
	v := NewVerifier("", "collabhub-id", testSecret, nil)

	var got Actor
	h := v.LoadActor(echoActor(t, &got))

	token := signToken(t, jwt.MapClaims{
		"sub":  "u-42",
		"name": "An Nguyen",
		"role": RoleStudent,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	r := httptest.NewRequest(http.MethodGet, "/groups", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got.ID != "u-42" || got.Role != RoleStudent {
		t.Errorf("actor = %+v, want id u-42 role student", got)
	}
}

func TestLoadActor_RejectsBadSignature(t *testing.T) {
	v := NewVerifier("", "collabhub-id", testSecret, nil)

	var got Actor
	h := v.LoadActor(echoActor(t, &got))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1", "role": RoleAdmin})
	bad, err := tok.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/groups", nil)
	r.Header.Set("Authorization", "Bearer "+bad)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got.ID != "" {
		t.Errorf("actor should not be set for a bad signature, got %+v", got)
	}
}

func TestLoadActor_MissingRoleClaim(t *testing.T) {
	v := NewVerifier("", "collabhub-id", testSecret, nil)

	var got Actor
	h := v.LoadActor(echoActor(t, &got))

	token := signToken(t, jwt.MapClaims{"sub": "u-7"})
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got.ID != "" {
		t.Errorf("actor should not be set without a role claim, got %+v", got)
	}
}

func TestRequireActor(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	RequireActor(next).ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without actor: status = %d, want 401", w.Code)
	}

	r = WithActor(httptest.NewRequest(http.MethodGet, "/", nil), Actor{ID: "u-1", Role: RoleStudent})
	w = httptest.NewRecorder()
	RequireActor(next).ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("with actor: status = %d, want 200", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RequireRole(RoleLecturer, RoleAdmin)

	tests := []struct {
		role string
		want int
	}{
		{RoleLecturer, http.StatusOK},
		{RoleAdmin, http.StatusOK},
		{RoleStudent, http.StatusForbidden},
	}
	for _, tt := range tests {
		r := WithActor(httptest.NewRequest(http.MethodGet, "/", nil), Actor{ID: "u-1", Role: tt.role})
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, r)
		if w.Code != tt.want {
			t.Errorf("role %s: status = %d, want %d", tt.role, w.Code, tt.want)
		}
	}

	// No actor at all.
	w := httptest.NewRecorder()
	mw(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no actor: status = %d, want 401", w.Code)
	}
}
