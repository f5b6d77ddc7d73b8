package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.fetcher == nil {
		status.Status = "degraded"
		status.Components["fetcher"] = "missing"
	} else {
		status.Components["fetcher"] = "ok"
	}

	if s.app.store != nil {
		if err := s.app.store.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Components["cache"] = "unavailable: " + err.Error()
		} else {
			status.Components["cache"] = "ok"
		}
	} else if s.app.Config.Cache.IsEnabled() {
		status.Status = "degraded"
		status.Components["cache"] = "missing but enabled in config"
	}

	last := s.app.LastResult()
	switch {
	case last == nil:
		status.Components["last_run"] = "pending"
	case !last.Emitted:
		status.Status = "degraded"
		status.Components["last_run"] = fmt.Sprintf("failed (%s)", last.RunID)
	default:
		status.Components["last_run"] = fmt.Sprintf("ok (%d documents, %d errors, %d warnings)",
			len(last.Documents), last.ErrorCount(), last.WarningCount())
	}

	return status
}
