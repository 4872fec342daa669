package soap

import (
	"fmt"
	"math"

	upnp "github.com/huin/goupnp/soap"
)

// Argument is one action input in its wire form.
type Argument struct {
	Name  string
	Value string
}

// Args is an ordered argument list. Order is protocol order and is never
// sorted.
type Args struct {
	list []Argument
	err  error
}

// NewArgs starts an empty argument list.
func NewArgs() *Args {
	return &Args{}
}

// InstanceArgs starts an argument list with InstanceID 0, which every
// AVTransport action declares first.
func InstanceArgs() *Args {
	return NewArgs().Uint("InstanceID", 0)
}

// Text appends a string argument. Escaping happens when the envelope is
// serialized.
func (a *Args) Text(name, value string) *Args {
	v, err := upnp.MarshalString(value)
	return a.add(name, v, err)
}

// Int appends a signed integer argument.
func (a *Args) Int(name string, value int) *Args {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return a.add(name, "", fmt.Errorf("%d out of i4 range", value))
	}
	v, err := upnp.MarshalI4(int32(value))
	return a.add(name, v, err)
}

// Uint appends an unsigned integer argument.
func (a *Args) Uint(name string, value uint32) *Args {
	v, err := upnp.MarshalUi4(value)
	return a.add(name, v, err)
}

// Bool appends a boolean as "1" or "0".
func (a *Args) Bool(name string, value bool) *Args {
	v, err := upnp.MarshalBoolean(value)
	return a.add(name, v, err)
}

// Enum appends an enumeration using its declared wire string.
func (a *Args) Enum(name string, value interface{ Wire() (string, error) }) *Args {
	v, err := value.Wire()
	return a.add(name, v, err)
}

func (a *Args) add(name, value string, err error) *Args {
	if a.err != nil {
		return a
	}
	if err != nil {
		a.err = fmt.Errorf("marshal argument %s: %w", name, err)
		return a
	}
	a.list = append(a.list, Argument{Name: name, Value: value})
	return a
}

// List returns a copy of the arguments in order, or the first marshal error.
func (a *Args) List() ([]Argument, error) {
	if a == nil {
		return nil, nil
	}
	if a.err != nil {
		return nil, a.err
	}
	out := make([]Argument, len(a.list))
	copy(out, a.list)
	return out, nil
}
