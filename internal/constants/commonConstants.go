package constants

type (
	CachePrefix string
	APIStatus   string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSquadron CachePrefix = "SQUADRON_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)
