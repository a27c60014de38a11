package param

import (
	"errors"
	"fmt"
)

// Address identifies one control channel on the wire (0..DomainMax). It is
// the key for all per-parameter state; it is not a memory address.
type Address uint8

// ErrConfigInvalid reports a descriptor whose range or default violates the
// protocol's value space. It is raised at construction time and is not
// recoverable.
var ErrConfigInvalid = errors.New("invalid parameter config")

// Descriptor is the static description of one controllable parameter.
// Descriptors are built once per control panel and are immutable; only their
// address/value pairs are ever persisted.
type Descriptor struct {
	Name      string
	Address   Address
	Min, Max  int
	Default   int
	Formatter Formatter
}

// NewDescriptor validates the range and default against the protocol value
// space. Min, Max and Default must all lie in 0..DomainMax and Default must
// lie in [Min, Max].
func NewDescriptor(name string, addr Address, min, max, def int, f Formatter) (Descriptor, error) {
	if min < 0 || max > DomainMax || min > max {
		return Descriptor{}, fmt.Errorf("%w: %s: range [%d,%d] outside protocol value space", ErrConfigInvalid, name, min, max)
	}
	if def < min || def > max {
		return Descriptor{}, fmt.Errorf("%w: %s: default %d outside [%d,%d]", ErrConfigInvalid, name, def, min, max)
	}
	return Descriptor{Name: name, Address: addr, Min: min, Max: max, Default: def, Formatter: f}, nil
}

// mustDescriptor backs the built-in panel tables, where a range violation is
// a programming error.
func mustDescriptor(name string, addr Address, min, max, def int, f Formatter) Descriptor {
	d, err := NewDescriptor(name, addr, min, max, def, f)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders a value through the descriptor's formatter.
func (d Descriptor) Format(value uint8) string {
	return d.Formatter.Format(value)
}

// DefaultValue returns the descriptor's default as a raw protocol value.
func (d Descriptor) DefaultValue() uint8 {
	return uint8(d.Default)
}

// InRange reports whether a raw value is inside the descriptor's valid range.
func (d Descriptor) InRange(value uint8) bool {
	return int(value) >= d.Min && int(value) <= d.Max
}
