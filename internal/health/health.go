package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
	StatusDisabled  = "disabled"

	checkTimeout = 2 * time.Second
	cpuSample    = 200 * time.Millisecond
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheProbe is satisfied by the redis store.
type CacheProbe interface {
	Enabled() bool
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db    Pinger
	cache CacheProbe
}

type HealthStatus struct {
	Status   string           `json:"status"`
	Database ComponentHealth  `json:"database"`
	Cache    *ComponentHealth `json:"cache,omitempty"`
	System   *SystemHealth    `json:"system,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(db Pinger, cache CacheProbe) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// CheckBasic reports readiness: the database must answer a ping.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := StatusHealthy
	if dbHealth.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed adds the cache and host resource usage. A down cache only
// degrades the service since every cached path has a fallback.
func (h *HealthChecker) CheckDetailed(ctx context.Context) HealthStatus {
	status := h.CheckBasic(ctx)

	cacheHealth := h.checkCache(ctx)
	status.Cache = &cacheHealth
	if status.Status == StatusHealthy && cacheHealth.Status == StatusUnhealthy {
		status.Status = StatusDegraded
	}

	status.System = checkSystem(ctx)
	return status
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	if h.db == nil {
		return ComponentHealth{Status: StatusUnhealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentHealth {
	if h.cache == nil || !h.cache.Enabled() {
		return ComponentHealth{Status: StatusDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	ok := h.cache.IsHealthy(ctx)
	responseTime := time.Since(start).Milliseconds()

	if !ok {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

// checkSystem samples host usage. Values that cannot be read stay zero.
func checkSystem(ctx context.Context) *SystemHealth {
	s := &SystemHealth{}

	if percents, err := cpu.PercentWithContext(ctx, cpuSample, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemoryPercent = vm.UsedPercent
		s.MemoryUsedMB = vm.Used / 1024 / 1024
		s.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		s.DiskPercent = du.UsedPercent
	}
	return s
}
