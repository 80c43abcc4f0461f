package realtime

import "testing"

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	c := &Client{ID: "conn-1", UserID: "u1"}

	if evicted := r.Register("u1", c); evicted != nil {
		t.Errorf("Register() evicted %v, want nil", evicted)
	}
	if !r.IsOnline("u1") {
		t.Error("IsOnline() = false after Register")
	}
	got, ok := r.Resolve("u1")
	if !ok || got != c {
		t.Errorf("Resolve() = %v, %v; want registered client", got, ok)
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	first := &Client{ID: "conn-1", UserID: "u1"}
	second := &Client{ID: "conn-2", UserID: "u1"}

	r.Register("u1", first)
	evicted := r.Register("u1", second)
	if evicted != first {
		t.Fatalf("Register() evicted = %v, want first connection", evicted)
	}

	got, _ := r.Resolve("u1")
	if got != second {
		t.Errorf("Resolve() = %v, want second connection", got)
	}
}

func TestRegistryGuardedUnregister(t *testing.T) {
	r := NewRegistry()
	first := &Client{ID: "conn-1", UserID: "u1"}
	second := &Client{ID: "conn-2", UserID: "u1"}

	r.Register("u1", first)
	r.Register("u1", second)

	// Teardown of the evicted connection must not remove the replacement.
	if r.Unregister("u1", first) {
		t.Error("Unregister(first) = true, want false after eviction")
	}
	if !r.IsOnline("u1") {
		t.Error("IsOnline() = false, want true while replacement registered")
	}

	if !r.Unregister("u1", second) {
		t.Error("Unregister(second) = false, want true")
	}
	if r.IsOnline("u1") {
		t.Error("IsOnline() = true after final Unregister")
	}
}

func TestRegistryUnregisterMissingIsNoop(t *testing.T) {
	r := NewRegistry()
	if r.Unregister("ghost", nil) {
		t.Error("Unregister() = true for unknown user, want false")
	}
}
