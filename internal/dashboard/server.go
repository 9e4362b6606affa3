// Package dashboard serves the scheduling JSON API.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/lock"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/scheduler"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB       *gorm.DB
	Port     int
	Out      io.Writer
	Locker   lock.Locker
	Location *time.Location
	Logger   logrus.FieldLogger

	// MaxSearchDays and HighUtilizationPercent tune feasibility checks.
	MaxSearchDays          int
	HighUtilizationPercent float64

	// Now is the clock used for status derivation; defaults to time.Now.
	Now func() time.Time
}

func (o *StartOpts) applyDefaults() {
	if o.Port <= 0 {
		o.Port = 8080
	}
	if o.Locker == nil {
		o.Locker = lock.NewLocal()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

func (o *StartOpts) feasibilityOpts() scheduler.FeasibilityOpts {
	return scheduler.FeasibilityOpts{
		MaxSearchDays:          o.MaxSearchDays,
		HighUtilizationPercent: o.HighUtilizationPercent,
		Location:               o.Location,
		Logger:                 o.Logger,
	}
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	opts.applyDefaults()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           newRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.WithError(err).Warn("dashboard shutdown")
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Scheduling API running at http://localhost:%d\n", opts.Port)
	}
	opts.Logger.WithField("port", opts.Port).Info("dashboard listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// newRouter builds the gin engine with every route registered. opts must
// have defaults applied.
func newRouter(opts StartOpts) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))
	registerRoutes(router, &api{opts: opts})
	return router
}

// requestLogger logs each request at debug level, and at warn when the
// handler answers with a server error.
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}
