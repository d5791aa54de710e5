package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/artguide/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	checks  map[string]func(context.Context) error
	timeout time.Duration
}

// New creates a Service. Any dependency can be nil and is then skipped.
func New(db DBPinger, llm, collection Checker) *Service {
	s := &Service{checks: map[string]func(context.Context) error{}, timeout: DefaultCheckTimeout}
	if db != nil {
		s.checks["database"] = db.Ping
	}
	if llm != nil {
		s.checks["llm"] = llm.HealthCheck
	}
	if collection != nil {
		s.checks["collection"] = collection.HealthCheck
	}
	return s
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.checks))
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, check := range s.checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			result := CheckOK
			if err := check(cctx); err != nil {
				result = CheckError
				logger.FromContext(ctx).Warn("health check failed", zap.String("component", name), zap.Error(err))
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
			// Failures stay per component; siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}
