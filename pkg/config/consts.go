package config

const (
	// EnvPrefix is the envconfig namespace for all StarConnect variables.
	EnvPrefix = "STARCONNECT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
