package system

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger probes a remote API.
type Pinger interface {
	Ping(ctx context.Context, api config.ApiName) error
}

type UpstreamStatus struct {
	Api       config.ApiName `json:"api"`
	URL       string         `json:"url"`
	Up        bool           `json:"up"`
	Error     string         `json:"error,omitempty"`
	Latency   string         `json:"latency"`
	CheckedAt time.Time      `json:"checkedAt"`
}

type HealthService interface {
	Start(ctx context.Context) error
	Stop() error
	CheckNow(ctx context.Context) []UpstreamStatus
	Statuses() []UpstreamStatus
}

// HealthServiceImpl pings every configured remote API on the configured
// schedule and keeps the latest result per API.
type HealthServiceImpl struct {
	pinger  Pinger
	config  *config.Config
	logger  *zap.Logger
	timeout time.Duration
	up      *prometheus.GaugeVec
	now     func() time.Time

	scheduler *cron.Cron
	entry     cron.EntryID
	mu        sync.RWMutex
	statuses  map[config.ApiName]UpstreamStatus
}

func NewHealthService(client apiclient.Client, cfg *config.Config, metrics *apiclient.Metrics, logger *zap.Logger) HealthService {
	return newHealthService(client, cfg, metrics, logger)
}

func newHealthService(pinger Pinger, cfg *config.Config, metrics *apiclient.Metrics, logger *zap.Logger) *HealthServiceImpl {
	up := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "chums_admin",
		Name:      "upstream_up",
		Help:      "Whether the last health probe of a remote API succeeded.",
	}, []string{"api"})
	if metrics != nil && metrics.Registry != nil {
		metrics.Registry.MustRegister(up)
	}

	return &HealthServiceImpl{
		pinger:   pinger,
		config:   cfg,
		logger:   logger,
		timeout:  10 * time.Second,
		up:       up,
		now:      time.Now,
		statuses: make(map[config.ApiName]UpstreamStatus),
	}
}

// Start runs one probe round immediately and then schedules the rest.
func (s *HealthServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("health scheduler already started")
	}

	scheduler := cron.New()
	entry, err := scheduler.AddFunc(s.config.HealthSchedule, func() {
		s.CheckNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid health check schedule %q: %w", s.config.HealthSchedule, err)
	}
	s.scheduler = scheduler
	s.entry = entry

	go s.CheckNow(context.WithoutCancel(ctx))
	scheduler.Start()
	s.logger.Info("health scheduler started", zap.String("schedule", s.config.HealthSchedule))
	return nil
}

func (s *HealthServiceImpl) Stop() error {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	return nil
}

// CheckNow probes every API that has a base URL, concurrently.
func (s *HealthServiceImpl) CheckNow(ctx context.Context) []UpstreamStatus {
	var wg sync.WaitGroup
	for api, url := range s.config.APIURLs() {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(api config.ApiName, url string) {
			defer wg.Done()
			s.record(s.probe(ctx, api, url))
		}(api, url)
	}
	wg.Wait()
	return s.Statuses()
}

func (s *HealthServiceImpl) probe(ctx context.Context, api config.ApiName, url string) UpstreamStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	err := s.pinger.Ping(ctx, api)
	status := UpstreamStatus{
		Api:       api,
		URL:       url,
		Up:        err == nil,
		Latency:   s.now().Sub(start).String(),
		CheckedAt: start,
	}
	if err != nil {
		status.Error = err.Error()
		s.logger.Warn("upstream unhealthy", zap.String("api", string(api)), zap.Error(err))
	}
	return status
}

func (s *HealthServiceImpl) record(status UpstreamStatus) {
	s.mu.Lock()
	s.statuses[status.Api] = status
	s.mu.Unlock()

	value := 0.0
	if status.Up {
		value = 1
	}
	s.up.WithLabelValues(string(status.Api)).Set(value)
}

// Statuses returns the latest probe per API, ordered by API name.
func (s *HealthServiceImpl) Statuses() []UpstreamStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]UpstreamStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Api < out[j].Api })
	return out
}
