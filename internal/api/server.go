package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trendfit/domain/collection"
	"trendfit/domain/curve"
	"trendfit/internal"
	"trendfit/internal/curvefit"
	"trendfit/internal/metrics"
)

// CurveFitter is the fitting surface the handlers need
type CurveFitter interface {
	CurveFit(req curvefit.FitRequest) (curve.SampledCurve, error)
	BestCurveFitDetailed(req curvefit.BestFitRequest) (curve.SampledCurve, curvefit.Selection, error)
	Candidates(maxDegree int) ([]int, error)
}

// InsightGenerator produces collection insights
type InsightGenerator interface {
	Generate(ctx context.Context, coll *collection.Collection, typ string) (collection.Insight, error)
	GenerateAll(ctx context.Context, coll *collection.Collection) (map[string]collection.Insight, error)
}

// Server is the HTTP front end of the fitting service
type Server struct {
	router   *gin.Engine
	fitter   CurveFitter
	insights InsightGenerator
	metrics  *metrics.Metrics
	logger   *internal.Logger
}

// NewServer builds the router. ginMode is one of gin's modes; empty keeps
// the current one.
func NewServer(fitter CurveFitter, insights InsightGenerator, m *metrics.Metrics, logger *internal.Logger, ginMode string) *Server {
	if logger == nil {
		logger = internal.NopLogger
	}
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	s := &Server{
		router:   gin.New(),
		fitter:   fitter,
		insights: insights,
		metrics:  m,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(RequestLogger(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	utils := s.router.Group("/utils")
	utils.POST("/fit", s.handleFit)
	utils.POST("/bestfit", s.handleBestFit)

	s.router.POST("/insights/:type", s.handleInsights)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
