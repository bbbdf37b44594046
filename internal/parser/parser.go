// Package parser converts raw host command arguments into typed values.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GL1TCH1337/cs2-retakes/internal/geo"
	"github.com/GL1TCH1337/cs2-retakes/internal/util"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

var (
	// ErrArgCount is returned when a command has too few arguments.
	ErrArgCount = errors.New("not enough arguments")
	// ErrInvalidTeam is returned for team arguments other than T or CT.
	ErrInvalidTeam = errors.New("invalid team")
	// ErrInvalidSite is returned for bombsite arguments other than A or B.
	ErrInvalidSite = errors.New("invalid bombsite")
)

// parseIntFromFloat parses a string that may be an integer or float into int64.
// Some hosts forward every numeric argument as a float ("3.000000").
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// ParseInt parses a whole number argument.
func ParseInt(s string) (int, error) {
	v, err := parseIntFromFloat(util.CleanArg(s))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ParseTeam accepts T, CT, TERRORIST and COUNTERTERRORIST in any case.
func ParseTeam(s string) (core.Team, error) {
	switch strings.ToUpper(util.CleanArg(s)) {
	case "T", "TERRORIST":
		return core.Terrorist, nil
	case "CT", "COUNTERTERRORIST":
		return core.CounterTerrorist, nil
	}
	return core.TeamUnassigned, fmt.Errorf("%w %q: must be T or CT", ErrInvalidTeam, s)
}

// ParseHostTeam accepts either a team name or the engine's team number, and
// unlike ParseTeam also accepts spectator and unassigned.
func ParseHostTeam(s string) (core.Team, error) {
	if t, err := ParseTeam(s); err == nil {
		return t, nil
	}
	t, err := core.ParseTeam(util.CleanArg(s))
	if err != nil {
		return core.TeamUnassigned, fmt.Errorf("%w %q", ErrInvalidTeam, s)
	}
	return t, nil
}

// ParseSite accepts A or B in any case.
func ParseSite(s string) (core.Site, error) {
	switch strings.ToUpper(util.CleanArg(s)) {
	case "A":
		return core.SiteA, nil
	case "B":
		return core.SiteB, nil
	}
	return core.SiteA, fmt.Errorf("%w %q: must be A or B", ErrInvalidSite, s)
}

var ordnanceAliases = map[string]core.OrdnanceType{
	"smoke":         core.Smoke,
	"he":            core.HighExplosive,
	"hegrenade":     core.HighExplosive,
	"highexplosive": core.HighExplosive,
	"molotov":       core.Molotov,
	"molo":          core.Molotov,
	"incendiary":    core.Incendiary,
	"inc":           core.Incendiary,
	"flash":         core.Flashbang,
	"flashbang":     core.Flashbang,
	"decoy":         core.Decoy,
}

// ParseOrdnanceAlias maps an authoring shorthand to a type. Unknown or empty
// input falls back to Smoke; known reports whether the alias was recognized.
func ParseOrdnanceAlias(s string) (t core.OrdnanceType, known bool) {
	t, known = ordnanceAliases[strings.ToLower(util.CleanArg(s))]
	if !known {
		return core.Smoke, false
	}
	return t, true
}

// ParseVector parses "x,y,z" into a vector.
func ParseVector(s string) (core.Vector3, error) {
	v, err := geo.VectorFromString(util.CleanArg(s))
	if err != nil {
		return core.Vector3{}, fmt.Errorf("parse vector %q: %w", s, err)
	}
	return v, nil
}

// Arg returns args[i] cleaned, or "" when out of range.
func Arg(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return util.CleanArg(args[i])
}

// RequireArgs returns ErrArgCount when args has fewer than n items.
func RequireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("%w: expected %d, got %d (usage: %s)", ErrArgCount, n, len(args), usage)
	}
	return nil
}
