// Package constants collects small literal values shared across the
// compiler so call sites never repeat magic strings.
package constants

const (
	// Empty is the empty string.
	Empty = ""
	// Dot separates path segments in dot-path aliases and field paths.
	Dot = "."
	// CommaSpace joins comma-separated SQL fragments.
	CommaSpace = ", "
	// AliasPrefix prefixes every monotonically-numbered composer alias.
	AliasPrefix = "___t"
)

const (
	// EnvKeyPrefix is the prefix for all environment-derived configuration keys.
	EnvKeyPrefix = "ENTITYORM"
	// EnvLogLevel selects the log level (debug|info|warn|error).
	EnvLogLevel = EnvKeyPrefix + "_LOG_LEVEL"
	// EnvDatabaseURL supplies the Postgres connection string for the demo CLI.
	EnvDatabaseURL = EnvKeyPrefix + "_DATABASE_URL"
	// ViperDatabaseURLKey is the viper config key bound to EnvDatabaseURL
	// through SetEnvPrefix+AutomaticEnv (ENTITYORM_DATABASE_URL -> "database_url").
	ViperDatabaseURLKey = "database_url"
)
