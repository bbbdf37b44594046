package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&OrdnanceEntry{},
	&OrdnanceSpawn{},
}

// OrdnanceEntry is one configured throw of a map catalog. Seq keeps the
// authoring order, which decides who throws first when teams are short.
type OrdnanceEntry struct {
	ID       uint                                `json:"id" gorm:"primarykey;autoIncrement;"`
	MapName  string                              `json:"mapName" gorm:"size:64;index:idx_entry_map_seq,priority:1"`
	Seq      int                                 `json:"seq" gorm:"index:idx_entry_map_seq,priority:2"`
	Name     string                              `json:"name" gorm:"size:127"`
	Type     string                              `json:"type" gorm:"size:32"`
	Team     string                              `json:"team" gorm:"size:32"`
	Site     string                              `json:"site" gorm:"size:8"`
	Position geom.Point                          `json:"position"`
	Angle    datatypes.JSONType[*OrdnanceVector] `json:"angle"`
	Velocity datatypes.JSONType[*OrdnanceVector] `json:"velocity"`
	Delay    float32                             `json:"delay" gorm:"default:0"`
}

// TableName overrides the table name
func (*OrdnanceEntry) TableName() string {
	return "ordnance_entries"
}

// OrdnanceVector is the JSON column shape of angle and velocity.
type OrdnanceVector struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// OrdnanceSpawn is the audit row of a single dispatch attempt.
type OrdnanceSpawn struct {
	ID       uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time  `json:"time" gorm:"index:idx_spawn_time"`
	MapName  string     `json:"mapName" gorm:"size:64;index:idx_spawn_map"`
	Name     string     `json:"name" gorm:"size:127"`
	Type     string     `json:"type" gorm:"size:32"`
	Team     string     `json:"team" gorm:"size:32"`
	Site     string     `json:"site" gorm:"size:8"`
	Position geom.Point `json:"position"`
	Outcome  string     `json:"outcome" gorm:"size:16;index:idx_spawn_outcome"`
	Error    string     `json:"error" gorm:"size:512"`
}

// TableName overrides the table name
func (*OrdnanceSpawn) TableName() string {
	return "ordnance_spawns"
}
