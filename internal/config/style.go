package config

import "fmt"

// EdgeStyle selects the tabletop edge profile. It is a closed enum; the
// geometry builder switches over it exhaustively rather than comparing
// string tags.
type EdgeStyle int

const (
	// EdgeStraight is a plain axis-aligned box edge.
	EdgeStraight EdgeStyle = iota
	// EdgeBeveled adds small corner fillets and an inward extrusion bevel.
	EdgeBeveled
	// EdgeRounded uses large rounded corners proportional to the plan size.
	EdgeRounded
)

var edgeNames = [...]string{"straight", "beveled", "rounded"}

// String returns the stable wire name of the edge style.
func (s EdgeStyle) String() string {
	if s < 0 || int(s) >= len(edgeNames) {
		return fmt.Sprintf("edge_style(%d)", int(s))
	}
	return edgeNames[s]
}

// ParseEdgeStyle maps a wire name back to an EdgeStyle.
func ParseEdgeStyle(name string) (EdgeStyle, error) {
	for i, n := range edgeNames {
		if n == name {
			return EdgeStyle(i), nil
		}
	}
	return EdgeStraight, fmt.Errorf("unknown edge style %q", name)
}

// MarshalText implements encoding.TextMarshaler so the style serializes as
// its name in JSON and YAML.
func (s EdgeStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EdgeStyle) UnmarshalText(b []byte) error {
	v, err := ParseEdgeStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// LegStyle selects the leg arrangement. Closed enum, same reasoning as
// EdgeStyle.
type LegStyle int

const (
	// LegStandard is four vertical corner posts.
	LegStandard LegStyle = iota
	// LegUShape is two opposing post pairs joined by horizontal connectors.
	LegUShape
	// LegXShape is a diagonal cross frame at each length-end.
	LegXShape
	// LegLShape replaces the whole table with an L-shaped desk: two
	// overlapping slabs and six support legs.
	LegLShape
)

var legNames = [...]string{"standard", "u_shape", "x_shape", "l_shape"}

// String returns the stable wire name of the leg style.
func (s LegStyle) String() string {
	if s < 0 || int(s) >= len(legNames) {
		return fmt.Sprintf("leg_style(%d)", int(s))
	}
	return legNames[s]
}

// ParseLegStyle maps a wire name back to a LegStyle.
func ParseLegStyle(name string) (LegStyle, error) {
	for i, n := range legNames {
		if n == name {
			return LegStyle(i), nil
		}
	}
	return LegStandard, fmt.Errorf("unknown leg style %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s LegStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LegStyle) UnmarshalText(b []byte) error {
	v, err := ParseLegStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
