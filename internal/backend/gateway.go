package backend

import (
	"fmt"

	"zentra/internal/data/repository"
	"zentra/pkg/utils"

	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverREST     = "rest"
	DriverMemory   = "memory"
)

// NewGateway picks the gateway named by config.Backend.Driver. repo is only
// used by the postgres driver.
func NewGateway(config *utils.Config, repo *repository.Repository, log *zap.Logger) (Gateway, error) {
	switch config.Backend.Driver {
	case DriverPostgres, "":
		if repo == nil {
			return nil, fmt.Errorf("postgres backend requires a database")
		}
		return NewLocalGateway(repo, NewLocalConfig(config), log), nil
	case DriverREST:
		if config.Backend.URL == "" || config.Backend.APIKey == "" {
			log.Warn("REST backend is missing BACKEND_URL or BACKEND_API_KEY; calls will fail")
		}
		return NewRESTGateway(config.Backend.URL, config.Backend.APIKey, nil, log), nil
	case DriverMemory:
		var opts []MemoryOption
		if config.Auth.RequireEmailConfirmation {
			opts = append(opts, WithEmailConfirmation())
		}
		return NewMemoryGateway(log, opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", config.Backend.Driver)
	}
}
