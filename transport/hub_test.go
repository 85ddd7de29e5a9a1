package transport

import (
	"testing"

	"gridsheet/spreadsheet"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	e, err := spreadsheet.NewEngine(5, 5)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(e)
}

func TestHubDispatchAppliesToEngine(t *testing.T) {
	h := newTestHub(t)
	if r := h.Dispatch("A1=10"); r.Status != spreadsheet.DispatchOk {
		t.Fatalf("A1=10: status=%v", r.Status)
	}

	var value int32
	h.View(func(e *spreadsheet.Engine) {
		value = e.Grid.CellAt(0, 0).Value
	})
	if value != 10 {
		t.Errorf("A1 value = %d, want 10", value)
	}
}

func TestHubSubscribeNotifiesOnDispatch(t *testing.T) {
	h := newTestHub(t)
	changes, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Dispatch("A1=1")

	select {
	case <-changes:
	default:
		t.Fatal("expected a notification after Dispatch")
	}
}

func TestHubViewportReflectsState(t *testing.T) {
	h := newTestHub(t)
	h.Dispatch("B1=0")
	h.Dispatch("A1=5/0")

	out := h.Viewport()
	if !contains(out, "ERR") {
		t.Errorf("viewport %q should show ERR for tainted A1", out)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
