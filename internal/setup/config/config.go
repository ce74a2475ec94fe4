package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// CurrentVersion is the version of the config file layout this build understands.
const CurrentVersion = 1

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Telemetry  Telemetry  `koanf:"telemetry"`
	Discord    Discord    `koanf:"discord"`
	Reputation Reputation `koanf:"reputation"`
	Greeter    Greeter    `koanf:"greeter"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"db_name"`
	// Require TLS for the connection.
	SSL          bool `koanf:"ssl"`
	MaxOpenConns int  `koanf:"max_open_conns"`
	MaxIdleConns int  `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle connection lifetime in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
// An empty host disables every Redis-backed cache.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Enabled reports whether a Redis server is configured.
func (r *Redis) Enabled() bool {
	return r.Host != ""
}

// Telemetry contains metrics and tracing configuration.
type Telemetry struct {
	// Address for the Prometheus endpoint, e.g. "localhost:9090". Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
	// Uptrace DSN for trace export. Empty disables it.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Deployment environment reported with traces.
	Environment string `koanf:"environment"`
}

// Discord contains the bot's platform configuration.
type Discord struct {
	Token string `koanf:"token"`
	// Guild the slash commands are registered in.
	GuildID uint64 `koanf:"guild_id"`
}

// Emoji identifies a custom emoji by ID, or a unicode emoji by name when ID is zero.
type Emoji struct {
	ID   uint64 `koanf:"id"`
	Name string `koanf:"name"`
}

// IsSet reports whether the emoji is configured at all.
func (e Emoji) IsSet() bool {
	return e.ID != 0 || e.Name != ""
}

// Matches reports whether a reaction emoji is this emoji.
// Custom emojis match by ID, unicode emojis by name.
func (e Emoji) Matches(id uint64, name string) bool {
	if e.ID != 0 {
		return e.ID == id
	}
	return e.Name != "" && e.Name == name
}

// Reaction returns the emoji in the form the reaction endpoints expect.
func (e Emoji) Reaction() string {
	if e.ID != 0 {
		return e.Name + ":" + strconv.FormatUint(e.ID, 10)
	}
	return e.Name
}

// Reputation contains reputation point configuration.
type Reputation struct {
	// Display name of the points, e.g. "points".
	PointsName string `koanf:"points_name"`
	// Reaction that grants a single point to the message author.
	PlusOneEmoji Emoji `koanf:"plus_one_emoji"`
	// Name of the emoji that counts as a thank-you when typed in a message.
	VoteEmojiName string `koanf:"vote_emoji_name"`
	// Largest absolute amount a single give may carry.
	MaxAmount int `koanf:"max_amount"`
	// Scoreboard rows per page.
	PageSize int `koanf:"page_size"`
	// Roles that bypass every give restriction.
	UnlimitedRoles []uint64 `koanf:"unlimited_roles"`
	// Roles allowed to give more than one point at once.
	MultiPointRoles []uint64 `koanf:"multi_point_roles"`
	// Roles allowed to take points away.
	NegativeRoles []uint64 `koanf:"negative_roles"`
}

// Greeter contains new member greeting configuration.
type Greeter struct {
	// Reaction added to join messages nobody greeted. Unset disables the greeter.
	Emoji Emoji `koanf:"emoji"`
	// Minimum delay in seconds before checking a join message.
	MinDelay int `koanf:"min_delay"`
	// Maximum delay in seconds before checking a join message.
	MaxDelay int `koanf:"max_delay"`
}

// LoadConfig loads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion(config.Version, CurrentVersion); err != nil {
		return nil, err
	}

	config.applyDefaults()

	return &config, nil
}

// applyDefaults fills in values left out of the config file.
func (c *Config) applyDefaults() {
	if c.Debug.LogLevel == "" {
		c.Debug.LogLevel = "info"
	}
	if c.Debug.MaxLogsToKeep <= 0 {
		c.Debug.MaxLogsToKeep = 10
	}
	if c.Debug.MaxLogLines <= 0 {
		c.Debug.MaxLogLines = 10000
	}

	if c.PostgreSQL.Port == 0 {
		c.PostgreSQL.Port = 5432
	}
	if c.PostgreSQL.MaxOpenConns <= 0 {
		c.PostgreSQL.MaxOpenConns = 10
	}
	if c.PostgreSQL.MaxIdleConns <= 0 {
		c.PostgreSQL.MaxIdleConns = 5
	}
	if c.PostgreSQL.MaxLifetime <= 0 {
		c.PostgreSQL.MaxLifetime = 30
	}
	if c.PostgreSQL.MaxIdleTime <= 0 {
		c.PostgreSQL.MaxIdleTime = 5
	}

	if c.Redis.Enabled() && c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}

	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = "production"
	}

	if c.Reputation.PointsName == "" {
		c.Reputation.PointsName = "points"
	}
	if c.Reputation.VoteEmojiName == "" {
		c.Reputation.VoteEmojiName = "vote"
	}
	if c.Reputation.MaxAmount <= 0 {
		c.Reputation.MaxAmount = 5
	}
	if c.Reputation.PageSize <= 0 {
		c.Reputation.PageSize = 10
	}

	if c.Greeter.MinDelay <= 0 {
		c.Greeter.MinDelay = 30
	}
	if c.Greeter.MaxDelay < c.Greeter.MinDelay {
		c.Greeter.MaxDelay = c.Greeter.MinDelay + 100
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(current, expected int) error {
	if current == 0 {
		return ErrConfigVersionMissing
	}

	if current != expected {
		return fmt.Errorf("%w (got: %d, expected: %d)", ErrConfigVersionMismatch, current, expected)
	}

	return nil
}
