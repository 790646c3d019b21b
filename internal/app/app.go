package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/config"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/race-tipping/internal/interfaces/httpapi"
	"github.com/riskibarqy/race-tipping/internal/observability"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	idgen "github.com/riskibarqy/race-tipping/internal/platform/id"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/riskibarqy/race-tipping/internal/platform/resilience"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases storage and must be called after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store := cache.NewStore(cfg.CacheTTL)
	repos, err := buildRepositories(ctx, cfg, store, logger)
	if err != nil {
		return nil, nil, err
	}

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		_ = repos.close()
		return nil, nil, err
	}

	ids := idgen.NewUUIDGenerator()
	participantSvc := usecase.NewParticipantService(repos.participants, ids)
	raceSvc := usecase.NewRaceService(repos.races, repos.tips, participantSvc, ids, logger)
	tipSvc := usecase.NewTipService(repos.races, repos.tips, participantSvc, usecase.TipConfig{
		RequireTippable: cfg.TipsRequireTippable,
	}, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.users, repos.races, repos.tips, store, usecase.LeaderboardConfig{
		MaxWorkers: cfg.LeaderboardMaxWorkers,
	}, logger)
	profileSvc := usecase.NewProfileService(repos.users, leaderboardSvc, store, logger)

	raceSvc.SetLeaderboardInvalidator(leaderboardSvc)
	tipSvc.SetLeaderboardInvalidator(leaderboardSvc)
	profileSvc.SetLeaderboardInvalidator(leaderboardSvc)

	if cfg.QStashEnabled {
		raceSvc.SetJobQueue(jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger))
	}

	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		UserSyncer:         profileSvc,
		TipRateLimiter:     httpapi.NewPrincipalRateLimiter(cfg.TipRatePerSecond, cfg.TipRateBurst),
	}
	if cfg.MetricsEnabled {
		metrics := observability.NewMetrics()
		raceSvc.SetRecorder(metrics)
		tipSvc.SetRecorder(metrics)
		leaderboardSvc.SetRecorder(metrics)
		routerCfg.Metrics = metrics
		routerCfg.MetricsHandler = metrics.Handler()
	}

	handler := httpapi.NewHandler(participantSvc, raceSvc, tipSvc, leaderboardSvc, profileSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, routerCfg)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	if cfg.AuthMode == config.AuthModeJWT {
		verifier, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		logger.Info("token verification", "mode", config.AuthModeJWT)
		return verifier, nil
	}

	logger.Info("token verification", "mode", config.AuthModeIntrospect, "base_url", cfg.AnubisBaseURL)
	return anubis.NewClient(&http.Client{Timeout: cfg.AnubisTimeout}, anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       cfg.AnubisCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
	}, logger), nil
}
