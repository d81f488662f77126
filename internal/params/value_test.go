package params

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDomainOf(t *testing.T) {
	tests := []struct {
		name    string
		values  []any
		want    Domain
		wantErr error
	}{
		{"range", []any{0, 10}, Range(0, 10, 1), nil},
		{"range with step", []any{1.0, 20.0, 0.5}, Range(1, 20, 0.5), nil},
		{"toggle", []any{"webgl", "canvas"}, Toggle("webgl", "canvas"), nil},
		{"mixed", []any{"yes", 1}, Domain{}, ErrInvalidDomain},
		{"single", []any{1}, Domain{}, ErrInvalidDomain},
		{"three strings", []any{"a", "b", "c"}, Domain{}, ErrInvalidDomain},
	}

	for _, tt := range tests {
		got, err := DomainOf(tt.values...)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestDomainFormat(t *testing.T) {
	num := Range(0, 1000, 1)
	if got := num.Format(Number(7)); got != "7" {
		t.Fatalf("Format(7) = %q", got)
	}
	if got := num.Format(Number(2.5)); got != "2.5" {
		t.Fatalf("Format(2.5) = %q", got)
	}

	tog := Toggle("yes", "no")
	if got := tog.Format(Bool(true)); got != "yes" {
		t.Fatalf("Format(true) = %q", got)
	}
	if got := tog.Format(Bool(false)); got != "no" {
		t.Fatalf("Format(false) = %q", got)
	}
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal([]Value{Unset, Bool(true), Number(4.5)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(data); got != "[null,true,4.5]" {
		t.Fatalf("got %s", got)
	}
}

func TestMemoryPanelSetRaw(t *testing.T) {
	reg, state, panel := newTestRegistry("")
	if err := reg.Register("outline", "Outline", Toggle("yes", "no"), Bool(true), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("vertices", "Vertices", Range(3, 20, 1), Number(4), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := panel.SetRaw("outline", "no"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if err := panel.SetRaw("vertices", "12"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if got := state.Encode(); got != "outline=no&vertices=12" {
		t.Fatalf("query = %q", got)
	}

	if err := panel.SetRaw("vertices", "many"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("SetRaw(many) = %v, want ErrInvalidValue", err)
	}
	if err := panel.SetRaw("outline", "maybe"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("SetRaw(maybe) = %v, want ErrInvalidValue", err)
	}
	if err := panel.SetRaw("nope", "1"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("SetRaw(nope) = %v, want ErrUnknown", err)
	}
	if err := panel.Drag("outline", 1); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("Drag(outline) = %v, want ErrKindMismatch", err)
	}
}
