package app

import (
	"context"
	"fmt"
	"hookdeps/internal/shared/observability"
	"hookdeps/internal/shared/util"
	"strings"
	"time"
)

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) observability.HealthStatus {
	status := observability.HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app == nil {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
		return status
	}

	langs := s.app.enabledLanguages()
	if len(langs) == 0 {
		status.Status = "degraded"
		status.Components["parser"] = "no languages enabled"
	} else {
		status.Components["parser"] = "ok (" + strings.Join(langs, ", ") + ")"
	}
	status.Components["cache"] = fmt.Sprintf("ok (%d entries)", s.app.cache.len())
	rt := util.ReadRuntimeStats()
	status.Components["runtime"] = fmt.Sprintf("heap %d MB, %d goroutines", rt.HeapMB, rt.Goroutines)
	return status
}

func (a *App) enabledLanguages() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loader.EnabledLanguages()
}
