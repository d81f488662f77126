package params

import (
	"fmt"
	"math"
)

// Callback receives the current value of a parameter. initial is true only
// for the call made during registration.
type Callback func(v Value, initial bool)

// Parameter is a snapshot of a registered parameter.
type Parameter struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Domain  Domain `json:"domain"`
	Default Value  `json:"default"`
	Value   Value  `json:"value"`
}

type binding struct {
	Parameter
	onChange Callback
	control  Control
}

// Registry holds the parameters of one session. It is not safe for
// concurrent use; all calls, callbacks included, run on the caller's
// goroutine.
type Registry struct {
	state  URLState
	panel  Panel
	params map[string]*binding
	order  []*binding
}

// New returns an empty registry reading from state. A nil panel registers
// parameters without controls.
func New(state URLState, panel Panel) *Registry {
	return &Registry{
		state:  state,
		panel:  panel,
		params: make(map[string]*binding),
	}
}

// Register binds a parameter to the URL and to a control.
//
// The starting value is the URL value for id when one parses, else def.
// onChange is called once with initial=true before Register returns, then
// with initial=false on every committed user change and every external URL
// change. Numeric controls commit when the interaction finishes; toggles
// commit immediately. Committed user changes are written to the URL.
func (r *Registry) Register(id, label string, d Domain, def Value, onChange Callback) error {
	if _, ok := r.params[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("parameter %s: %w", id, err)
	}
	if def.Kind != d.Kind {
		return fmt.Errorf("%w: %s default is %s, domain is %s", ErrKindMismatch, id, def.Kind, d.Kind)
	}
	def = d.Clamp(def)

	b := &binding{
		Parameter: Parameter{ID: id, Label: label, Domain: d, Default: def},
		onChange:  onChange,
	}

	raw, ok := r.state.Track(id, func(raw string, ok bool) {
		b.Value = b.resolve(raw, ok)
		if b.control != nil {
			b.control.Show(b.Value)
		}
		b.notify(false)
	})
	b.Value = b.resolve(raw, ok)

	r.params[id] = b
	r.order = append(r.order, b)

	if r.panel != nil {
		b.control = r.panel.Add(Info{ID: id, Label: label, Domain: d}, b.Value)
	}
	b.notify(true)

	if b.control != nil {
		commit := func(v Value) { r.commit(b, v) }
		if d.Kind == KindNumeric {
			b.control.OnFinishChange(commit)
		} else {
			b.control.OnChange(commit)
		}
	}

	return nil
}

// Value returns the current value of id, or Unset when id is not registered.
func (r *Registry) Value(id string) Value {
	if b, ok := r.params[id]; ok {
		return b.Value
	}
	return Unset
}

// Lookup returns the snapshot of a registered parameter.
func (r *Registry) Lookup(id string) (Parameter, bool) {
	if b, ok := r.params[id]; ok {
		return b.Parameter, true
	}
	return Parameter{}, false
}

// Parameters returns snapshots in registration order.
func (r *Registry) Parameters() []Parameter {
	out := make([]Parameter, 0, len(r.order))
	for _, b := range r.order {
		out = append(out, b.Parameter)
	}
	return out
}

func (r *Registry) commit(b *binding, v Value) {
	if v.Kind != b.Domain.Kind {
		return
	}
	if v.Kind == KindNumeric && math.IsNaN(v.Number) {
		// keep the committed value and put it back on the control
		if b.control != nil {
			b.control.Show(b.Value)
		}
		return
	}
	v = b.Domain.Clamp(v)
	b.Value = v
	if b.control != nil {
		b.control.Show(v)
	}
	r.state.Update(b.ID, b.Domain.Format(v))
	b.notify(false)
}

// resolve turns a raw URL value into a parameter value, falling back to
// the default when it is missing or does not parse.
func (b *binding) resolve(raw string, ok bool) Value {
	if !ok {
		return b.Default
	}
	if v, parsed := b.Domain.Parse(raw); parsed {
		return v
	}
	return b.Default
}

func (b *binding) notify(initial bool) {
	if b.onChange != nil {
		b.onChange(b.Value, initial)
	}
}
