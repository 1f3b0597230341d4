package sweep

import (
	"errors"
	"testing"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		state    ConfirmState
		raw      string
		approved bool
		next     ConfirmState
		err      error
	}{
		{"yes approves once", AskEachTime, "yes\n", true, AskEachTime, nil},
		{"y shorthand", AskEachTime, "y", true, AskEachTime, nil},
		{"no denies once", AskEachTime, "no\n", false, AskEachTime, nil},
		{"n shorthand", AskEachTime, "n", false, AskEachTime, nil},
		{"All sticks to confirm", AskEachTime, "All\n", true, ConfirmAll, nil},
		{"all case-insensitive", AskEachTime, "ALL", true, ConfirmAll, nil},
		{"None sticks to deny", AskEachTime, "None\n", false, DenyAll, nil},
		{"sticky confirm ignores answer", ConfirmAll, "no", true, ConfirmAll, nil},
		{"sticky deny ignores answer", DenyAll, "yes", false, DenyAll, nil},
		{"garbage rejected", AskEachTime, "maybe", false, AskEachTime, ErrBadAnswer},
		{"empty rejected", AskEachTime, "\n", false, AskEachTime, ErrBadAnswer},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			approved, next, err := Decide(tt.state, tt.raw)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Decide(%v, %q) err = %v, want %v", tt.state, tt.raw, err, tt.err)
			}
			if approved != tt.approved {
				t.Errorf("approved = %v, want %v", approved, tt.approved)
			}
			if next != tt.next {
				t.Errorf("next = %v, want %v", next, tt.next)
			}
		})
	}
}

func TestSticky(t *testing.T) {
	t.Parallel()

	if _, ok := AskEachTime.Sticky(); ok {
		t.Error("AskEachTime should not be sticky")
	}
	if approved, ok := ConfirmAll.Sticky(); !ok || !approved {
		t.Error("ConfirmAll should stick to approval")
	}
	if approved, ok := DenyAll.Sticky(); !ok || approved {
		t.Error("DenyAll should stick to denial")
	}
}
