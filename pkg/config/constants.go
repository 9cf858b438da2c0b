package config

// EnvPrefix is passed to envconfig; individual fields carry the full variable
// name so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, shared with the tests.
const (
	EnvAppEnv   = "FORRAJERA_APP_ENV"
	EnvPort     = "FORRAJERA_APP_PORT"
	EnvLogLevel = "FORRAJERA_LOG_LEVEL"

	EnvDBDSN    = "FORRAJERA_DB_DSN"
	EnvDBHost   = "FORRAJERA_DB_HOST"
	EnvDBUser   = "FORRAJERA_DB_USER"
	EnvDBName   = "FORRAJERA_DB_NAME"
	EnvRedisURL = "FORRAJERA_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
