package config

// EnvPrefix is passed to envconfig; individual fields carry the full
// BUILDFORGE_ names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BUILDFORGE_DB_DSN"
	EnvDBHost = "BUILDFORGE_DB_HOST"
	EnvDBUser = "BUILDFORGE_DB_USER"
	EnvDBName = "BUILDFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
