package mesh

import "fmt"

// Kind is the topological dimension of an entity.
type Kind uint8

const (
	KindVertex  Kind = 0
	KindSurface Kind = 2
	KindVolume  Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindSurface:
		return "surface"
	case KindVolume:
		return "volume"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// EntityHandle references a surface or volume of a Model by arena index.
// The zero handle is null.
//
// Layout: kind in the top byte, arena index + 1 in the low 56 bits.
type EntityHandle uint64

const (
	kindShift = 56
	indexMask = (uint64(1) << kindShift) - 1
)

func makeHandle(kind Kind, index int) EntityHandle {
	return EntityHandle(uint64(kind)<<kindShift | (uint64(index+1) & indexMask))
}

func (h EntityHandle) IsNull() bool {
	return h == 0
}

func (h EntityHandle) Kind() Kind {
	return Kind(uint64(h) >> kindShift)
}

// Index returns the 0-based arena index, or -1 for the null handle.
func (h EntityHandle) Index() int {
	if h == 0 {
		return -1
	}
	return int(uint64(h)&indexMask) - 1
}

func (h EntityHandle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s#%d", h.Kind(), h.Index())
}

// Sense tells which side of a surface faces into a volume.
type Sense int8

const (
	SenseUnknown Sense = 0
	SenseForward Sense = 1
	SenseReverse Sense = -1
	// SenseBoth marks a surface that has the same volume on both sides.
	SenseBoth Sense = 2
)

func (s Sense) String() string {
	switch s {
	case SenseForward:
		return "forward"
	case SenseReverse:
		return "reverse"
	case SenseBoth:
		return "both"
	}
	return "unknown"
}
