package layerblend

import (
	"errors"
	"fmt"
	"math/bits"
)

// Mask is a bit pattern over skeletal layers. A set bit on a graph node means
// that layer is silenced for the node.
type Mask uint64

// MaskAllBlocked fully silences a node.
const MaskAllBlocked Mask = ^Mask(0)

// MaskCapacity is the number of distinct layers a Mask can address.
const MaskCapacity = 64

var (
	// ErrMaskCapacity is returned when a MaskLayout runs out of bits.
	ErrMaskCapacity = errors.New("layerblend: mask capacity exceeded")
	// ErrUnknownLayer is returned when a layer name was never defined.
	ErrUnknownLayer = errors.New("layerblend: unknown layer")
)

// Bit returns a mask with only bit i set. Bits past MaskCapacity yield zero.
func Bit(i int) Mask {
	if i < 0 || i >= MaskCapacity {
		return 0
	}
	return 1 << uint(i)
}

// Has reports whether every bit of o is set in m.
func (m Mask) Has(o Mask) bool {
	return m&o == o
}

// Overlaps reports whether m and o share at least one bit.
func (m Mask) Overlaps(o Mask) bool {
	return m&o != 0
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// String formats the mask in binary, or "all" for MaskAllBlocked.
func (m Mask) String() string {
	if m == MaskAllBlocked {
		return "all"
	}
	return fmt.Sprintf("0b%b", uint64(m))
}

// MaskLayout hands out mask bits to named skeletal layers. Bit assignment is
// checked at registration time, so content cannot silently alias two layers
// onto one bit or run past the mask width.
type MaskLayout struct {
	names []string
	index map[string]int
}

// NewMaskLayout creates a layout and defines the given layers in order, so
// the first name owns bit 0.
func NewMaskLayout(names ...string) (*MaskLayout, error) {
	l := &MaskLayout{index: make(map[string]int)}
	for _, n := range names {
		if _, err := l.Define(n); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Define assigns the next free bit to name and returns it. Defining a name
// twice returns the bit it already owns.
func (l *MaskLayout) Define(name string) (Mask, error) {
	if i, ok := l.index[name]; ok {
		return Bit(i), nil
	}
	if len(l.names) >= MaskCapacity {
		return 0, fmt.Errorf("define layer %q: %w", name, ErrMaskCapacity)
	}
	l.index[name] = len(l.names)
	l.names = append(l.names, name)
	return Bit(len(l.names) - 1), nil
}

// Mask returns the union of the bits owned by the named layers.
func (l *MaskLayout) Mask(names ...string) (Mask, error) {
	var m Mask
	for _, n := range names {
		i, ok := l.index[n]
		if !ok {
			return 0, fmt.Errorf("layer %q: %w", n, ErrUnknownLayer)
		}
		m |= Bit(i)
	}
	return m, nil
}

// Names returns the layers set in m, in bit order.
func (l *MaskLayout) Names(m Mask) []string {
	var out []string
	for i, n := range l.names {
		if m&Bit(i) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of defined layers.
func (l *MaskLayout) Len() int {
	return len(l.names)
}
