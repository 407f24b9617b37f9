package server

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/dudedrops/dudes-api/internal/allocator"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/auth"
	"github.com/dudedrops/dudes-api/internal/chainconfig"
	"github.com/dudedrops/dudes-api/internal/claims"
	"github.com/dudedrops/dudes-api/internal/client/rpc"
	solclient "github.com/dudedrops/dudes-api/internal/client/solana"
	"github.com/dudedrops/dudes-api/internal/config"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/handlers"
	"github.com/dudedrops/dudes-api/internal/instructions"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/dudedrops/dudes-api/internal/middleware"
	"github.com/dudedrops/dudes-api/internal/services"
	"github.com/dudedrops/dudes-api/internal/store"
	"github.com/dudedrops/dudes-api/internal/txbuilder"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Server owns the router and everything it depends on.
type Server struct {
	Router *gin.Engine

	limiter *middleware.RateLimiter
	closers []func()
}

// RouterDeps are the pieces the HTTP surface is built from.
type RouterDeps struct {
	Drop               handlers.DropOperations
	Sessions           *auth.SessionResolver
	Limiter            *middleware.RateLimiter
	CORSAllowedOrigins []string
}

// New builds every component from cfg and mounts the routes. cosigner signs
// the server's part of prepared transactions.
func New(ctx context.Context, cfg *config.Config, cosigner ed25519.PrivateKey) (*Server, error) {
	s := &Server{}

	documents, err := s.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	policy := rpc.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.RPCMaxAttempts
	chain := solclient.NewClient(rpc.NewClient(
		rpc.WithBaseURL(cfg.SolanaRPCURL),
		rpc.WithAttemptTimeout(cfg.RPCAttemptTimeout),
		rpc.WithRetryPolicy(policy),
	))
	index := assets.NewIndexClient(rpc.NewClient(
		rpc.WithBaseURL(cfg.DASRPCURL),
		rpc.WithAttemptTimeout(cfg.RPCAttemptTimeout),
		rpc.WithRetryPolicy(policy),
	))

	program, err := instructions.NewProgram(cfg.ProgramID, cfg.Treasury, cfg.MerkleTree, cfg.CollectionMint, instructions.Limits{
		MinFeeLamports: cfg.DeliveryMinFee,
		MaxFeeLamports: cfg.DeliveryMaxFee,
	})
	if err != nil {
		return nil, errors.Wrap(err, "derive program addresses")
	}

	verifier, err := chainconfig.NewVerifier(chain, chainconfig.Identities{
		ProgramID:      cfg.ProgramID,
		Admin:          cfg.Admin,
		Treasury:       cfg.Treasury,
		MerkleTree:     cfg.MerkleTree,
		CollectionMint: cfg.CollectionMint,
	}, chainconfig.WithTTL(cfg.ConfigCacheTTL))
	if err != nil {
		return nil, errors.Wrap(err, "create config verifier")
	}

	classifier := assets.NewClassifier()
	drop := services.NewDropService(services.Dependencies{
		Program:    program,
		Verifier:   verifier,
		Assets:     assets.NewFetcher(index, classifier, cfg.IndexLagWindow),
		Owned:      index,
		Classifier: classifier,
		Allocator:  allocator.New(documents, chain, cfg.ProgramID),
		Builder: txbuilder.New(chain, cosigner,
			txbuilder.WithComputeBudget(cfg.ComputeUnitLimit, cfg.ComputeUnitPrice),
		),
		Claims: claims.NewManager(documents, chain,
			claims.WithLockTTL(cfg.ClaimLockDuration),
			claims.WithScanLimit(cfg.SignatureScanLimit),
		),
		Store: documents,
		Fees: services.FeeSchedule{
			BaseLamports:    cfg.DeliveryBaseFee,
			PerItemLamports: cfg.DeliveryPerItemFee,
		},
		MetadataBase: cfg.MetadataBase,
	})

	s.limiter = middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	s.Router = NewRouter(RouterDeps{
		Drop:               drop,
		Sessions:           auth.NewSessionResolver(documents),
		Limiter:            s.limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	logger.Log.Info("Server initialized",
		zap.String("stage", cfg.Stage),
		zap.String("program", cfg.ProgramID.String()),
		zap.String("config", program.Config.String()),
		zap.Bool("memory_store", cfg.UsesMemoryStore()),
	)
	return s, nil
}

func (s *Server) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.UsesMemoryStore() {
		logger.Log.Warn("DATABASE_URL not set, documents are kept in memory")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, pg.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pg.Ping(pingCtx); err != nil {
		pg.Close()
		return nil, errors.Wrap(err, "unable to reach database")
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

// Close stops background work and releases connections.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewRouter mounts the public and wallet-session routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS(deps.CORSAllowedOrigins))
	router.Use(middleware.CorrelationIDMiddleware())
	if gin.Mode() != gin.ReleaseMode {
		router.Use(middleware.LogRequest())
	}
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}

	health := handlers.NewHealthHandler()
	router.GET("/health", health.Health)
	router.GET("/healthz", health.Health)

	drop := handlers.NewDropHandler(deps.Drop)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(auth.EnsureWalletSession(deps.Sessions))
		{
			boxes := protected.Group("/boxes")
			{
				boxes.POST("/open", drop.OpenBox)
				boxes.POST("/mint", drop.MintBoxes)
			}

			protected.POST("/deliveries", drop.PrepareDelivery)

			claimRoutes := protected.Group("/claims")
			{
				claimRoutes.POST("/prepare", drop.PrepareClaim)
				claimRoutes.POST("/finalize", drop.FinalizeClaim)
			}
		}
	}

	return router
}

func configureCORS(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		middleware.CorrelationIDHeader,
	}
	corsConfig.ExposeHeaders = []string{
		middleware.CorrelationIDHeader,
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// GinMode returns the gin mode for a deployment stage.
func GinMode(stage string) string {
	if stage == constants.ProdEnvironment {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}
