package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// FileName is the plugin configuration file looked up in the config directory.
const FileName = "retakes.cfg.json"

// MemoryConfig holds JSON-file storage backend settings
type MemoryConfig struct {
	MapsDir        string `json:"mapsDir" mapstructure:"mapsDir"`
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path      string `json:"path" mapstructure:"path"`
	BatchSize int    `json:"batchSize" mapstructure:"batchSize"`
}

// PostgresConfig holds Postgres connection settings
type PostgresConfig struct {
	Host      string `json:"host" mapstructure:"host"`
	Port      string `json:"port" mapstructure:"port"`
	Username  string `json:"username" mapstructure:"username"`
	Password  string `json:"password" mapstructure:"password"`
	Database  string `json:"database" mapstructure:"database"`
	SSLMode   string `json:"sslMode" mapstructure:"sslMode"`
	BatchSize int    `json:"batchSize" mapstructure:"batchSize"`
}

// DSN returns the libpq connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=%s`,
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

// StorageConfig selects and configures the catalog backend
type StorageConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds spawn telemetry settings
type InfluxConfig struct {
	Enabled  bool
	URL      string
	Token    string
	Org      string
	Bucket   string
	Backup   string
	Batch    uint
	Interval time.Duration
}

// GraylogConfig holds GELF sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// OrdnanceConfig holds gameplay settings for the scheduler and authoring tools
type OrdnanceConfig struct {
	Enabled         bool
	FreezeTimeCvar  string
	DefaultVelocity core.Vector3
	SaveAuthored    bool
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./retakeslogs")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.mapsDir", "./maps")
	viper.SetDefault("storage.memory.outputDir", "./spawns")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./retakes.db")
	viper.SetDefault("storage.sqlite.batchSize", 100)
	viper.SetDefault("storage.postgres.batchSize", 500)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "retakes")
	viper.SetDefault("db.sslMode", "disable")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "retakes")
	viper.SetDefault("influx.bucket", "ordnance")
	viper.SetDefault("influx.backupPath", "./retakeslogs/influx_backup.lp.gz")
	viper.SetDefault("influx.batchSize", 500)
	viper.SetDefault("influx.flushInterval", "1s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "cs2-retakes")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("ordnance.enabled", true)
	viper.SetDefault("ordnance.freezeTimeCvar", "mp_freezetime")
	viper.SetDefault("ordnance.defaultVelocity", []float64{-431.16, -115.31, 506.39})
	viper.SetDefault("ordnance.saveAuthored", false)

	viper.SetEnvPrefix("RETAKES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: strings.ToLower(viper.GetString("storage.type")),
		Memory: MemoryConfig{
			MapsDir:        viper.GetString("storage.memory.mapsDir"),
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:      viper.GetString("storage.sqlite.path"),
			BatchSize: viper.GetInt("storage.sqlite.batchSize"),
		},
		Postgres: PostgresConfig{
			Host:      viper.GetString("db.host"),
			Port:      viper.GetString("db.port"),
			Username:  viper.GetString("db.username"),
			Password:  viper.GetString("db.password"),
			Database:  viper.GetString("db.database"),
			SSLMode:   viper.GetString("db.sslMode"),
			BatchSize: viper.GetInt("storage.postgres.batchSize"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the spawn telemetry configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
		Backup:   viper.GetString("influx.backupPath"),
		Batch:    viper.GetUint("influx.batchSize"),
		Interval: viper.GetDuration("influx.flushInterval"),
	}
}

// GetGraylogConfig returns the GELF sink configuration.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOrdnanceConfig returns the ordnance settings. A malformed default
// velocity falls back to the built-in lob.
func GetOrdnanceConfig() OrdnanceConfig {
	return OrdnanceConfig{
		Enabled:         viper.GetBool("ordnance.enabled"),
		FreezeTimeCvar:  viper.GetString("ordnance.freezeTimeCvar"),
		DefaultVelocity: vectorOrDefault(viper.Get("ordnance.defaultVelocity")),
		SaveAuthored:    viper.GetBool("ordnance.saveAuthored"),
	}
}

var fallbackVelocity = core.Vector3{X: -431.16, Y: -115.31, Z: 506.39}

func vectorOrDefault(raw any) core.Vector3 {
	var parts []any
	switch v := raw.(type) {
	case []any:
		parts = v
	case []float64:
		for _, f := range v {
			parts = append(parts, f)
		}
	case string:
		for _, p := range strings.Split(v, ",") {
			parts = append(parts, strings.TrimSpace(p))
		}
	default:
		return fallbackVelocity
	}
	if len(parts) != 3 {
		return fallbackVelocity
	}
	var out [3]float32
	for i, p := range parts {
		f, err := cast.ToFloat32E(p)
		if err != nil {
			return fallbackVelocity
		}
		out[i] = f
	}
	return core.Vector3{X: out[0], Y: out[1], Z: out[2]}
}
