package config

const (
	EnvPrefix = "CALLDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CALLDESK_DB_DSN"
	EnvDBHost = "CALLDESK_DB_HOST"
	EnvDBUser = "CALLDESK_DB_USER"
	EnvDBName = "CALLDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
