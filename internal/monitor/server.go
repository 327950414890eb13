// Package monitor hosts the monitoring surface of the screener: health and
// metrics endpoints, an on-demand detection endpoint, and a background loop
// re-running detection over a watched dataset.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/anomaly"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

// Server provides the monitoring HTTP endpoints.
type Server struct {
	echo    *echo.Echo
	logger  *zap.Logger
	params  anomaly.Params
	metrics *Metrics
	host    string
	port    int
	loop    *Loop
}

// NewServer builds the echo server with health, metrics and detect routes.
func NewServer(host string, port int, params anomaly.Params, logger *zap.Logger, loop *Loop) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	reg := prometheus.NewRegistry()
	s := &Server{
		echo:    e,
		logger:  logger,
		params:  params,
		metrics: NewMetrics(reg),
		host:    host,
		port:    port,
		loop:    loop,
	}
	if loop != nil {
		loop.metrics = s.metrics
	}

	e.GET("/v2/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	e.POST("/v2/detect", s.handleDetect)
	return s, nil
}

// Metrics exposes the registered metric set, mainly for the polling loop.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(fmt.Sprintf("%s:%d", s.host, s.port))
	}()
	s.logger.Info("monitoring server listening", zap.String("host", s.host), zap.Int("port", s.port))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// HealthResponse is the body of GET /v2/health.
type HealthResponse struct {
	Status            string    `json:"status"`
	MonitoringActive  bool      `json:"monitoring_active"`
	WatchedDataset    string    `json:"watched_dataset,omitempty"`
	LastRunAt         time.Time `json:"last_run_at"`
	LastRunWarnings   int       `json:"last_run_warnings"`
	DetectionDefaults string    `json:"detection_defaults"`
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{
		Status: "healthy",
		DetectionDefaults: fmt.Sprintf("k=%d..%d eps=%g minPts=%d percentile=%g",
			s.params.KMin, s.params.KMax, s.params.Eps, s.params.MinPts, s.params.Percentile),
	}
	if s.loop != nil {
		resp.MonitoringActive = true
		resp.WatchedDataset = s.loop.path
		at, warnings := s.loop.LastRun()
		resp.LastRunAt = at
		resp.LastRunWarnings = warnings
	}
	return c.JSON(http.StatusOK, resp)
}

// DetectRequest carries raw long-format rows: unit-tagged strings exactly as
// they appear in the table, so the server applies the same normalization as
// the CLI path.
type DetectRequest struct {
	Rows []struct {
		Index int    `json:"index"`
		A     string `json:"a"`
		DA    string `json:"da"`
		SA    string `json:"sa"`
		Scan  string `json:"scan"`
	} `json:"rows"`
}

// DetectResponse is the warning set of an on-demand run.
type DetectResponse struct {
	RunID     string            `json:"run_id"`
	Rows      int               `json:"rows"`
	Threshold float64           `json:"threshold"`
	Warnings  []anomaly.Warning `json:"warnings"`
}

func (s *Server) handleDetect(c echo.Context) error {
	var req DetectRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid detect request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	t := &dataset.Table{Rows: make([]dataset.Indication, len(req.Rows))}
	for i, r := range req.Rows {
		t.Rows[i] = dataset.Indication{
			Index: r.Index,
			A:     dataset.ParseValue(r.A, dataset.UnitPercent),
			DA:    dataset.ParseValue(r.DA, dataset.UnitMillimeter),
			SA:    dataset.ParseValue(r.SA, dataset.UnitMillimeter),
			Scan:  dataset.ParseValue(r.Scan, dataset.UnitMillimeter),
		}
	}
	res, err := anomaly.Detect(t, s.params)
	if err != nil {
		s.metrics.RunFailures.Inc()
		s.logger.Warn("detection failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	s.metrics.Runs.Inc()
	s.metrics.Warnings.Add(float64(len(res.Warnings)))
	s.metrics.LastWarnings.Set(float64(len(res.Warnings)))
	return c.JSON(http.StatusOK, DetectResponse{
		RunID:     res.RunID,
		Rows:      res.Rows,
		Threshold: res.Threshold,
		Warnings:  res.Warnings,
	})
}
