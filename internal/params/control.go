package params

import "fmt"

// Info describes a parameter to a control toolkit.
type Info struct {
	ID     string
	Label  string
	Domain Domain
}

// Control is the user facing widget bound to one parameter.
type Control interface {
	// Show reflects a value changed elsewhere without firing callbacks.
	Show(v Value)
	// OnChange fires on every user edit, including intermediate slider values.
	OnChange(fn func(Value))
	// OnFinishChange fires once the user completes an interaction.
	OnFinishChange(fn func(Value))
}

// Panel creates controls. One implementation exists per control toolkit.
type Panel interface {
	Add(info Info, initial Value) Control
}

// MemoryPanel is a Panel without a user interface. User interaction is
// simulated through Drag, Release, Toggle and Set.
type MemoryPanel struct {
	controls map[string]*memoryControl
}

// NewMemoryPanel returns an empty panel.
func NewMemoryPanel() *MemoryPanel {
	return &MemoryPanel{controls: make(map[string]*memoryControl)}
}

type memoryControl struct {
	info     Info
	value    Value
	onChange []func(Value)
	onFinish []func(Value)
}

func (c *memoryControl) Show(v Value)                  { c.value = v }
func (c *memoryControl) OnChange(fn func(Value))       { c.onChange = append(c.onChange, fn) }
func (c *memoryControl) OnFinishChange(fn func(Value)) { c.onFinish = append(c.onFinish, fn) }

func (c *memoryControl) fireChange() {
	for _, fn := range c.onChange {
		fn(c.value)
	}
}

func (c *memoryControl) fireFinish() {
	for _, fn := range c.onFinish {
		fn(c.value)
	}
}

// Add implements Panel.
func (p *MemoryPanel) Add(info Info, initial Value) Control {
	c := &memoryControl{info: info, value: initial}
	p.controls[info.ID] = c
	return c
}

// Shown returns the value currently displayed by the control for id.
func (p *MemoryPanel) Shown(id string) Value {
	if c, ok := p.controls[id]; ok {
		return c.value
	}
	return Unset
}

// Drag moves a numeric control without completing the interaction.
func (p *MemoryPanel) Drag(id string, f float64) error {
	c, err := p.control(id, KindNumeric)
	if err != nil {
		return err
	}
	c.value = Number(f)
	c.fireChange()
	return nil
}

// Release completes an interaction on a numeric control.
func (p *MemoryPanel) Release(id string) error {
	c, err := p.control(id, KindNumeric)
	if err != nil {
		return err
	}
	c.fireFinish()
	return nil
}

// Toggle sets a boolean control.
func (p *MemoryPanel) Toggle(id string, on bool) error {
	c, err := p.control(id, KindBool)
	if err != nil {
		return err
	}
	c.value = Bool(on)
	c.fireChange()
	c.fireFinish()
	return nil
}

// Set performs one complete user edit: drag and release for numbers,
// a toggle for booleans.
func (p *MemoryPanel) Set(id string, v Value) error {
	switch v.Kind {
	case KindNumeric:
		if err := p.Drag(id, v.Number); err != nil {
			return err
		}
		return p.Release(id)
	case KindBool:
		return p.Toggle(id, v.Flag)
	default:
		return fmt.Errorf("%w: %s is unset", ErrInvalidValue, id)
	}
}

// SetRaw parses raw with the control's domain and applies it with Set.
// Unlike URL values, raw input that does not parse is an error.
func (p *MemoryPanel) SetRaw(id, raw string) error {
	c, ok := p.controls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	d := c.info.Domain
	v, ok := d.Parse(raw)
	if d.Kind == KindBool {
		switch raw {
		case d.On, "true":
			v = Bool(true)
		case d.Off, "false":
			v = Bool(false)
		default:
			ok = false
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, id, raw)
	}
	return p.Set(id, v)
}

func (p *MemoryPanel) control(id string, kind Kind) (*memoryControl, error) {
	c, ok := p.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	if c.info.Domain.Kind != kind {
		return nil, fmt.Errorf("%w: %s is %s", ErrKindMismatch, id, c.info.Domain.Kind)
	}
	return c, nil
}
