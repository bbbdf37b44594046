// pkg/core/ordnance.go
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrdnanceType identifies the kind of utility item thrown at round start.
type OrdnanceType int

const (
	Smoke OrdnanceType = iota
	HighExplosive
	Molotov
	Incendiary
	Flashbang
	Decoy
)

// OrdnanceTypes lists every known type in declaration order.
var OrdnanceTypes = []OrdnanceType{Smoke, HighExplosive, Molotov, Incendiary, Flashbang, Decoy}

var ordnanceTypeNames = map[OrdnanceType]string{
	Smoke:         "Smoke",
	HighExplosive: "HighExplosive",
	Molotov:       "Molotov",
	Incendiary:    "Incendiary",
	Flashbang:     "Flashbang",
	Decoy:         "Decoy",
}

func (t OrdnanceType) String() string {
	if name, ok := ordnanceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OrdnanceType(%d)", int(t))
}

// ParseOrdnanceType parses a persisted type tag (case-insensitive) or its ordinal.
func ParseOrdnanceType(s string) (OrdnanceType, error) {
	s = strings.TrimSpace(s)
	for t, name := range ordnanceTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return OrdnanceType(n), nil
	}
	return 0, fmt.Errorf("unknown ordnance type %q", s)
}

func (t OrdnanceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *OrdnanceType) UnmarshalText(b []byte) error {
	v, err := ParseOrdnanceType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON accepts both the tag string and the numeric ordinal.
func (t *OrdnanceType) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*t = OrdnanceType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("ordnance type: %w", err)
	}
	return t.UnmarshalText([]byte(s))
}

// Vector3 is a float triple used for positions, velocities and orientations.
// Orientations store pitch, yaw and roll in X, Y and Z.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vector3) String() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", v.X, v.Y, v.Z)
}

// Ordnance is one configured entry of a map catalog. A nil geometry pointer
// means the value was absent in the persisted record.
type Ordnance struct {
	Name     string       `json:"name"`
	Type     OrdnanceType `json:"type"`
	Position *Vector3     `json:"position"`
	Angle    *Vector3     `json:"angle"`
	Velocity *Vector3     `json:"velocity"`
	Team     Team         `json:"team"`
	Site     Site         `json:"bombsite"`
	Delay    float32      `json:"delay"`
}

// HasGeometry reports whether position, angle and velocity are all present.
func (o Ordnance) HasGeometry() bool {
	return o.Position != nil && o.Angle != nil && o.Velocity != nil
}

// Clone returns a deep copy that shares no geometry with the receiver.
func (o Ordnance) Clone() Ordnance {
	c := o
	c.Position = cloneVector(o.Position)
	c.Angle = cloneVector(o.Angle)
	c.Velocity = cloneVector(o.Velocity)
	return c
}

func cloneVector(v *Vector3) *Vector3 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// CloneAll deep-copies a list of entries, preserving order.
func CloneAll(entries []Ordnance) []Ordnance {
	out := make([]Ordnance, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// MapConfig is the per-map configuration file. Spawns are carried through
// untouched so that saving a catalog never drops them.
type MapConfig struct {
	Spawns   []json.RawMessage `json:"spawns"`
	Grenades []Ordnance        `json:"grenades"`
}
