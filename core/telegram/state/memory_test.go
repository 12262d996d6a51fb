package state

import "testing"

func TestMemoryManagerDefaultSession(t *testing.T) {
	m := NewMemoryManager()

	sess := m.Get(1)
	if sess == nil {
		t.Fatal("expected default session")
	}
	if sess.State != StateIdle {
		t.Fatalf("state = %q, expected idle", sess.State)
	}
	if m.HasState(1) {
		t.Fatal("fresh user should have no active state")
	}
}

func TestMemoryManagerStateTransitions(t *testing.T) {
	m := NewMemoryManager()
	const stAskName State = "ask_name"

	m.SetState(7, stAskName)
	if got := m.GetState(7); got != stAskName {
		t.Fatalf("state = %q, expected %q", got, stAskName)
	}
	if !m.HasState(7) {
		t.Fatal("expected active state")
	}
	if !m.InProgress(7) {
		t.Fatal("expected in-progress")
	}

	m.ClearState(7)
	if got := m.GetState(7); got != StateIdle {
		t.Fatalf("state after clear = %q, expected idle", got)
	}
}

func TestMemoryManagerTempData(t *testing.T) {
	m := NewMemoryManager()

	m.SetTemp(7, "dimension", "1024x1024")
	val, ok := m.GetTemp(7, "dimension")
	if !ok || val != "1024x1024" {
		t.Fatalf("temp = %v (%v)", val, ok)
	}

	m.SetTemp(7, "chat", int64(99))
	if id, ok := m.GetTempInt64(7, "chat"); !ok || id != 99 {
		t.Fatalf("int64 temp = %d (%v)", id, ok)
	}
	if _, ok := m.GetTempInt64(7, "dimension"); ok {
		t.Fatal("string temp must not assert as int64")
	}

	m.ClearTemp(7, "dimension")
	if _, ok := m.GetTemp(7, "dimension"); ok {
		t.Fatal("temp survived ClearTemp")
	}
}

func TestMemoryManagerClearDropsEverything(t *testing.T) {
	m := NewMemoryManager()
	const stAwaitPrompt State = "await_prompt"

	m.SetState(7, stAwaitPrompt)
	m.SetTemp(7, "last_prompt", "a red fox")
	m.Clear(7)

	if m.HasState(7) {
		t.Fatal("state survived Clear")
	}
	if _, ok := m.GetTemp(7, "last_prompt"); ok {
		t.Fatal("temp survived Clear")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	const st State = "await_otp"

	m.SetState(1, st)
	m.SetTemp(1, "k", "v")

	if m.HasState(2) {
		t.Fatal("state leaked across users")
	}
	if _, ok := m.GetTemp(2, "k"); ok {
		t.Fatal("temp leaked across users")
	}
}
