package params

import (
	"errors"
	"math"
	"strings"
	"testing"
)

type call struct {
	value   Value
	initial bool
}

type recorder struct {
	calls []call
}

func (r *recorder) callback(v Value, initial bool) {
	r.calls = append(r.calls, call{v, initial})
}

func newTestRegistry(query string) (*Registry, *QueryState, *MemoryPanel) {
	state := NewQueryState(query)
	panel := NewMemoryPanel()
	return New(state, panel), state, panel
}

func TestNumericRoundTrip(t *testing.T) {
	reg, state, panel := newTestRegistry("")
	var rec recorder

	if err := reg.Register("x", "X", Range(0, 10, 1), Number(5), rec.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (call{Number(5), true}) {
		t.Fatalf("initial calls = %+v, want one cb(5, true)", rec.calls)
	}
	if _, ok := state.Get("x"); ok {
		t.Fatal("initial value must not be written to the URL")
	}

	if err := panel.Set("x", Number(7)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(rec.calls) != 2 || rec.calls[1] != (call{Number(7), false}) {
		t.Fatalf("calls = %+v, want cb(7, false) second", rec.calls)
	}
	if raw, _ := state.Get("x"); raw != "7" {
		t.Fatalf("URL x = %q, want 7", raw)
	}
	if got := state.Encode(); got != "x=7" {
		t.Fatalf("query = %q, want x=7", got)
	}

	fresh := New(NewQueryState(state.Encode()), NewMemoryPanel())
	var again recorder
	if err := fresh.Register("x", "X", Range(0, 10, 1), Number(5), again.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(again.calls) != 1 || again.calls[0] != (call{Number(7), true}) {
		t.Fatalf("re-registered calls = %+v, want cb(7, true)", again.calls)
	}
}

func TestNumericCommitsOnRelease(t *testing.T) {
	reg, state, panel := newTestRegistry("")
	var rec recorder
	if err := reg.Register("count", "Feature count", Range(100, 500, 1), Number(200), rec.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, v := range []float64{250, 300, 350} {
		if err := panel.Drag("count", v); err != nil {
			t.Fatalf("Drag: %v", err)
		}
	}
	if len(rec.calls) != 1 {
		t.Fatalf("drag fired %d callbacks, want none after the initial one", len(rec.calls)-1)
	}
	if _, ok := state.Get("count"); ok {
		t.Fatal("drag wrote to the URL")
	}

	if err := panel.Release("count"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if len(rec.calls) != 2 || rec.calls[1] != (call{Number(350), false}) {
		t.Fatalf("calls = %+v, want cb(350, false) on release", rec.calls)
	}
	if got := reg.Value("count"); got != Number(350) {
		t.Fatalf("Value = %v, want 350", got)
	}
}

func TestNonFiniteCommitStaysInRange(t *testing.T) {
	reg, state, panel := newTestRegistry("")
	var rec recorder
	if err := reg.Register("x", "X", Range(0, 10, 1), Number(5), rec.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := panel.Set("x", Number(math.NaN())); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := reg.Value("x"); got != Number(5) {
		t.Fatalf("Value after NaN = %v, want 5", got)
	}
	if _, ok := state.Get("x"); ok {
		t.Fatal("NaN was written to the URL")
	}
	if got := panel.Shown("x"); got != Number(5) {
		t.Fatalf("control shows %v, want 5", got)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("NaN fired %d callbacks", len(rec.calls)-1)
	}

	if err := panel.Set("x", Number(math.Inf(1))); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := reg.Value("x"); got != Number(10) {
		t.Fatalf("Value after +Inf = %v, want 10", got)
	}
	if raw, _ := state.Get("x"); raw != "10" {
		t.Fatalf("URL x = %q, want 10", raw)
	}
}

func TestBooleanRoundTrip(t *testing.T) {
	reg, state, panel := newTestRegistry("")
	var rec recorder

	if err := reg.Register("flag", "Flag", Toggle("on", "off"), Bool(false), rec.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (call{Bool(false), true}) {
		t.Fatalf("initial calls = %+v", rec.calls)
	}

	if err := panel.Toggle("flag", true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if len(rec.calls) != 2 || rec.calls[1] != (call{Bool(true), false}) {
		t.Fatalf("calls = %+v, want exactly one cb(true, false)", rec.calls)
	}
	if raw, _ := state.Get("flag"); raw != "on" {
		t.Fatalf("URL flag = %q, want on", raw)
	}

	if err := panel.Toggle("flag", false); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if raw, _ := state.Get("flag"); raw != "off" {
		t.Fatalf("URL flag = %q, want off", raw)
	}
}

func TestBooleanFromURLNeedsRegistration(t *testing.T) {
	reg, _, _ := newTestRegistry("flag=on")

	if got := reg.Value("flag"); got != Unset || got.IsSet() {
		t.Fatalf("Value before Register = %v, want Unset", got)
	}

	if err := reg.Register("flag", "Flag", Toggle("on", "off"), Bool(false), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := reg.Value("flag"); got != Bool(true) {
		t.Fatalf("Value after Register = %v, want true", got)
	}
}

func TestUnknownToggleStringIsFalse(t *testing.T) {
	reg, _, _ := newTestRegistry("renderer=vulkan")
	if err := reg.Register("renderer", "Use WebGL", Toggle("webgl", "canvas"), Bool(true), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := reg.Value("renderer"); got != Bool(false) {
		t.Fatalf("Value = %v, want false", got)
	}
}

func TestUnregisteredLookupIsUnset(t *testing.T) {
	reg, _, _ := newTestRegistry("x=3")
	got := reg.Value("missing")
	if got.IsSet() {
		t.Fatalf("Value(missing) = %v, want Unset", got)
	}
	if got == Bool(false) || got == Number(0) {
		t.Fatal("Unset must differ from false and 0")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) reported a parameter")
	}
}

func TestMalformedURLFallsBackToDefault(t *testing.T) {
	tests := []struct {
		query string
		want  Value
	}{
		{"count=abc", Number(200)},
		{"count=", Number(200)},
		{"count=NaN", Number(200)},
		{"count=7abc", Number(200)},
		{"count=300", Number(300)},
		{"count=1e9", Number(500)},
		{"count=-4", Number(100)},
	}

	for _, tt := range tests {
		reg, _, _ := newTestRegistry(tt.query)
		var rec recorder
		if err := reg.Register("count", "Count", Range(100, 500, 1), Number(200), rec.callback); err != nil {
			t.Fatalf("%s: Register: %v", tt.query, err)
		}
		if got := reg.Value("count"); got != tt.want {
			t.Fatalf("%s: Value = %v, want %v", tt.query, got, tt.want)
		}
		if len(rec.calls) != 1 || !rec.calls[0].initial || rec.calls[0].value != tt.want {
			t.Fatalf("%s: calls = %+v", tt.query, rec.calls)
		}
	}
}

func TestExternalNavigation(t *testing.T) {
	reg, state, panel := newTestRegistry("count=200&renderer=canvas")
	var count, renderer recorder
	if err := reg.Register("count", "Count", Range(100, 500, 1), Number(150), count.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("renderer", "Use WebGL", Toggle("webgl", "canvas"), Bool(false), renderer.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}

	state.Navigate("count=400&renderer=canvas")
	if len(count.calls) != 2 || count.calls[1] != (call{Number(400), false}) {
		t.Fatalf("count calls = %+v", count.calls)
	}
	if len(renderer.calls) != 1 {
		t.Fatalf("unchanged renderer fired %d extra callbacks", len(renderer.calls)-1)
	}
	if got := panel.Shown("count"); got != Number(400) {
		t.Fatalf("control shows %v, want 400", got)
	}

	state.Navigate("renderer=webgl")
	if got := reg.Value("count"); got != Number(150) {
		t.Fatalf("removed key: Value = %v, want default 150", got)
	}
	if got := reg.Value("renderer"); got != Bool(true) {
		t.Fatalf("renderer = %v, want true", got)
	}
	if len(renderer.calls) != 2 || renderer.calls[1] != (call{Bool(true), false}) {
		t.Fatalf("renderer calls = %+v", renderer.calls)
	}
}

func TestNavigationOrderIsStable(t *testing.T) {
	for i := 0; i < 20; i++ {
		reg, state, _ := newTestRegistry("")
		var order []string
		for _, id := range []string{"delta", "alpha", "charlie", "bravo"} {
			id := id
			err := reg.Register(id, id, Range(0, 10, 1), Number(0), func(v Value, initial bool) {
				if !initial {
					order = append(order, id)
				}
			})
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
		}

		state.Navigate("alpha=1&bravo=2&charlie=3&delta=4")
		if got := strings.Join(order, ","); got != "alpha,bravo,charlie,delta" {
			t.Fatalf("run %d: callback order = %s", i, got)
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	reg, _, _ := newTestRegistry("")
	if err := reg.Register("x", "X", Range(0, 10, 1), Number(1), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate", reg.Register("x", "X", Range(0, 10, 1), Number(1), nil), ErrDuplicate},
		{"inverted range", reg.Register("y", "Y", Range(10, 0, 1), Number(1), nil), ErrInvalidDomain},
		{"same toggle strings", reg.Register("z", "Z", Toggle("a", "a"), Bool(true), nil), ErrInvalidDomain},
		{"kind mismatch", reg.Register("w", "W", Toggle("yes", "no"), Number(1), nil), ErrKindMismatch},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, tt.err, tt.want)
		}
	}

	if got := len(reg.Parameters()); got != 1 {
		t.Fatalf("Parameters() has %d entries, want 1", got)
	}
}

func TestHeadlessRegistry(t *testing.T) {
	reg := New(NewQueryState("width=3"), nil)
	var rec recorder
	if err := reg.Register("width", "Width", Range(1, 20, 1), Number(2), rec.callback); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (call{Number(3), true}) {
		t.Fatalf("calls = %+v", rec.calls)
	}
}
