package server

import (
	"context"

	awsclient "github.com/dudedrops/dudes-api/internal/client/aws"
	"github.com/dudedrops/dudes-api/internal/config"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// FromEnv loads configuration and the cosigner key from the environment and
// builds the server.
func FromEnv(ctx context.Context) (*Server, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}
	logger.InitLogger(cfg.Stage)
	gin.SetMode(GinMode(cfg.Stage))

	secrets, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	cosigner, err := secrets.GetSigningKey(ctx, config.CosignerSecretARNEnv, config.CosignerSecretKeyEnv)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load cosigner key")
	}

	srv, err := New(ctx, cfg, cosigner)
	if err != nil {
		return nil, nil, err
	}
	return srv, cfg, nil
}
