package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusnest/pkg/auth"
	"campusnest/pkg/model"
)

// idempotentHandler wraps an echo handler that numbers every real
// invocation, so a replayed response is distinguishable from a fresh one.
func idempotentHandler(t *testing.T) (http.Handler, *InMemoryIdempotencyStore) {
	t.Helper()

	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	var calls int
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		actor := auth.ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "bookings for %s via %s %s call %d", actor.ID, r.Method, r.URL.Path, calls)
	})

	return Idempotency(store, "Idempotency-Key")(echo), store
}

func doAs(t *testing.T, h http.Handler, actorID, method, path, key string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, path, nil)
	r = r.WithContext(auth.WithActor(r.Context(), &auth.Actor{ID: actorID, Role: model.RoleStudent}))
	if key != "" {
		r.Header.Set("Idempotency-Key", key)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestIdempotency_ReplaysForSameActorAndRoute(t *testing.T) {
	h, _ := idempotentHandler(t)

	first := doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "retry-1")
	second := doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "retry-1")

	if first.Body.String() != second.Body.String() {
		t.Errorf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
	if !strings.Contains(second.Body.String(), "call 1") {
		t.Errorf("expected the cached first invocation, got %q", second.Body.String())
	}
}

func TestIdempotency_KeyIsScopedPerActor(t *testing.T) {
	h, _ := idempotentHandler(t)

	doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "retry-1")
	got := doAs(t, h, "student-2", http.MethodPost, "/api/v1/bookings", "retry-1")

	if strings.Contains(got.Body.String(), "student-1") {
		t.Fatalf("student-2 received student-1's cached response: %q", got.Body.String())
	}
	if !strings.Contains(got.Body.String(), "bookings for student-2") {
		t.Errorf("expected student-2's own response, got %q", got.Body.String())
	}
}

func TestIdempotency_KeyIsScopedPerRoute(t *testing.T) {
	h, _ := idempotentHandler(t)

	doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "retry-1")

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"different path", http.MethodPost, "/api/v1/hostels"},
		{"different method", http.MethodPut, "/api/v1/bookings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := doAs(t, h, "student-1", tt.method, tt.path, "retry-1")
			if strings.Contains(got.Body.String(), "call 1") {
				t.Errorf("reusing the key on another route replayed the cache: %q", got.Body.String())
			}
			want := fmt.Sprintf("via %s %s", tt.method, tt.path)
			if !strings.Contains(got.Body.String(), want) {
				t.Errorf("expected a fresh invocation of %s, got %q", want, got.Body.String())
			}
		})
	}
}

func TestIdempotency_StoreKeysIncludeActorAndRoute(t *testing.T) {
	h, store := idempotentHandler(t)

	doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "retry-1")

	if _, found := store.Get("retry-1"); found {
		t.Error("cache must not be addressable by the bare header value")
	}
	if _, found := store.Get("student-1|POST|/api/v1/bookings|retry-1"); !found {
		t.Error("expected entry scoped by actor, method and path")
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	h, store := idempotentHandler(t)

	first := doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "")
	second := doAs(t, h, "student-1", http.MethodPost, "/api/v1/bookings", "")

	if first.Body.String() == second.Body.String() {
		t.Error("requests without the header must not be replayed")
	}
	if _, found := store.Get("student-1|POST|/api/v1/bookings|"); found {
		t.Error("requests without the header must not be cached")
	}
}
