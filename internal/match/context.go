package match

import (
	"sync"
)

const noMap = "No map loaded"

// Context holds the current map and round
type Context struct {
	mu      sync.RWMutex
	mapName string
	round   int
	site    string
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{mapName: noMap}
}

// MapName returns the current map name
func (mc *Context) MapName() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.mapName
}

// Round returns the current round number
func (mc *Context) Round() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.round
}

// Site returns the bombsite selected for the current round, empty before selection
func (mc *Context) Site() string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.site
}

// SetMap sets the current map and resets round state
func (mc *Context) SetMap(name string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.mapName = name
	mc.round = 0
	mc.site = ""
}

// SetRound starts a new round and clears the selected site
func (mc *Context) SetRound(round int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.round = round
	mc.site = ""
}

// SetSite records the bombsite selected for the current round
func (mc *Context) SetSite(site string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.site = site
}

// Loaded reports whether a map has been set
func (mc *Context) Loaded() bool {
	return mc.MapName() != noMap
}
