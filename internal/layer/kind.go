package layer

import (
	"fmt"
	"strings"

	"github.com/FlavioCFOliveira/GoNeuron/internal/activations"
	"github.com/FlavioCFOliveira/GoNeuron/internal/tensor"
)

// Kind names a built-in layer type. The zero value is KindIdentity.
type Kind int

const (
	KindIdentity Kind = iota
	KindSigmoid
	KindTanh
	KindReLU
	KindLinear
)

var kindNames = [...]string{
	KindIdentity: "identity",
	KindSigmoid:  "sigmoid",
	KindTanh:     "tanh",
	KindReLU:     "relu",
	KindLinear:   "linear",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name. The empty string is KindIdentity.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return KindIdentity, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindIdentity, fmt.Errorf("layer: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("layer: unknown kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Trainable reports whether layers of this kind carry parameters.
func (k Kind) Trainable() bool { return k == KindLinear }

// New builds a layer of the given kind. Activation kinds require in == out
// and ignore init.
func New(kind Kind, in, out int, init tensor.Initializer) (Layer, error) {
	if kind == KindLinear {
		l, err := NewLinear(in, out, init)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	if in != out {
		return nil, fmt.Errorf("layer: %s: %w: in=%d out=%d", kind, tensor.ErrShape, in, out)
	}
	var act activations.Activation
	switch kind {
	case KindIdentity:
		act = activations.Identity{}
	case KindSigmoid:
		act = activations.Sigmoid{}
	case KindTanh:
		act = activations.Tanh{}
	case KindReLU:
		act = activations.ReLU{}
	default:
		return nil, fmt.Errorf("layer: unknown kind %d", int(kind))
	}
	a, err := NewActivation(in, act)
	if err != nil {
		return nil, err
	}
	return a, nil
}
