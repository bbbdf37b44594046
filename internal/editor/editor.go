// Package editor turns an in-game authoring command into a catalog entry.
package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GL1TCH1337/cs2-retakes/internal/parser"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

// DefaultName is used when the command carries no name.
const DefaultName = "New Grenade"

// Usage is the argument synopsis shown on errors.
const Usage = "<T/CT> <A/B> [smoke|he|molotov|incendiary|flash|decoy] [name]"

// DefaultVelocity is a medium-range lob used when no velocity is configured.
var DefaultVelocity = core.Vector3{X: -431.16, Y: -115.31, Z: 506.39}

// Pose is where the authoring player stands and looks.
type Pose struct {
	Origin    core.Vector3
	EyeAngles core.Vector3
}

// Build creates an entry from args (team, site, optional type, optional
// name) thrown from pose with the given velocity. Words after the type are
// joined into the name.
func Build(args []string, pose Pose, velocity core.Vector3) (core.Ordnance, error) {
	if err := parser.RequireArgs(args, 2, Usage); err != nil {
		return core.Ordnance{}, err
	}

	team, err := parser.ParseTeam(args[0])
	if err != nil {
		return core.Ordnance{}, err
	}
	site, err := parser.ParseSite(args[1])
	if err != nil {
		return core.Ordnance{}, err
	}

	typ := core.Smoke
	if len(args) > 2 {
		typ, _ = parser.ParseOrdnanceAlias(args[2])
	}

	name := DefaultName
	if len(args) > 3 {
		parts := make([]string, 0, len(args)-3)
		for i := 3; i < len(args); i++ {
			if a := parser.Arg(args, i); a != "" {
				parts = append(parts, a)
			}
		}
		if joined := strings.Join(parts, " "); joined != "" {
			name = joined
		}
	}

	pos, ang, vel := pose.Origin, pose.EyeAngles, velocity
	return core.Ordnance{
		Name:     name,
		Type:     typ,
		Position: &pos,
		Angle:    &ang,
		Velocity: &vel,
		Team:     team,
		Site:     site,
		Delay:    0,
	}, nil
}

// Snippet renders entry in the persisted shape for pasting into a map file.
func Snippet(entry core.Ordnance) (string, error) {
	b, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render snippet: %w", err)
	}
	return string(b), nil
}
