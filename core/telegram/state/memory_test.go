package state

import (
	"testing"
)

func TestMemoryManagerStateLifecycle(t *testing.T) {
	m := NewMemoryManager()
	const user = int64(42)

	if m.InProgress(user) {
		t.Fatal("fresh user must be idle")
	}
	m.SetState(user, "awaiting_name")
	m.SetTemp(user, "quiz_id", int64(7))
	m.SetTemp(user, "text", "hello")

	if got := m.GetState(user); got != "awaiting_name" {
		t.Fatalf("state = %q", got)
	}
	if id, ok := m.GetTempInt64(user, "quiz_id"); !ok || id != 7 {
		t.Fatalf("quiz_id = %d, %v", id, ok)
	}
	if _, ok := m.GetTempInt64(user, "text"); ok {
		t.Fatal("string value must not read as int64")
	}
	if s, ok := m.GetTempString(user, "text"); !ok || s != "hello" {
		t.Fatalf("text = %q, %v", s, ok)
	}

	m.ClearState(user)
	if m.InProgress(user) {
		t.Fatal("ClearState must return the user to idle")
	}
	if _, ok := m.GetTemp(user, "quiz_id"); !ok {
		t.Fatal("ClearState must keep temporary data")
	}

	m.Clear(user)
	if _, ok := m.GetTemp(user, "quiz_id"); ok {
		t.Fatal("Clear must drop temporary data")
	}
}

func TestMemoryManagersAreIndependent(t *testing.T) {
	a, b := NewMemoryManager(), NewMemoryManager()
	a.SetState(1, "x")
	if b.InProgress(1) {
		t.Fatal("managers must not share sessions")
	}
}
