package system

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"chums-admin/internal/apiclient"
	"chums-admin/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct {
	mu    sync.Mutex
	down  map[config.ApiName]bool
	calls []config.ApiName
}

func (p *stubPinger) Ping(ctx context.Context, api config.ApiName) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, api)
	if p.down[api] {
		return errors.New("connection refused")
	}
	return nil
}

func devConfig(env map[string]string) *config.Config {
	return config.FromEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

func TestCheckNowProbesConfiguredApis(t *testing.T) {
	cfg := devConfig(map[string]string{
		"GIVING_API":     "http://giving",
		"MEMBERSHIP_API": "http://membership",
	})
	pinger := &stubPinger{down: map[config.ApiName]bool{config.GivingApi: true}}
	svc := newHealthService(pinger, cfg, apiclient.NewMetrics(), zap.NewNop())

	statuses := svc.CheckNow(context.Background())

	require.Len(t, statuses, 2)
	assert.ElementsMatch(t, []config.ApiName{config.GivingApi, config.MembershipApi}, pinger.calls)
	assert.Equal(t, config.GivingApi, statuses[0].Api)
	assert.False(t, statuses[0].Up)
	assert.Equal(t, "connection refused", statuses[0].Error)
	assert.Equal(t, config.MembershipApi, statuses[1].Api)
	assert.True(t, statuses[1].Up)
	assert.Equal(t, statuses, svc.Statuses())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := devConfig(map[string]string{"HEALTH_CHECK_SCHEDULE": "whenever"})
	svc := newHealthService(&stubPinger{}, cfg, nil, zap.NewNop())

	assert.Error(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Stop())
}

func TestStartTwiceFails(t *testing.T) {
	svc := newHealthService(&stubPinger{}, devConfig(nil), nil, zap.NewNop())

	require.NoError(t, svc.Start(context.Background()))
	assert.Error(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Stop())
}

func newApp(pinger Pinger, cfg *config.Config) *fiber.App {
	metrics := apiclient.NewMetrics()
	svc := newHealthService(pinger, cfg, metrics, zap.NewNop())
	app := fiber.New()
	NewSystemApi(NewSystemController(svc, cfg), metrics).Setup(app)
	return app
}

func TestRoutes(t *testing.T) {
	cfg := devConfig(map[string]string{"GIVING_API": "http://giving", "GOOGLE_ANALYTICS": "UA-1"})

	tests := []struct {
		name     string
		pinger   *stubPinger
		target   string
		wantCode int
		wantBody string
	}{
		{"liveness", &stubPinger{}, "/health", 200, `"status":"ok"`},
		{"no probe yet", &stubPinger{}, "/health/upstreams", 200, "[]"},
		{"probe up", &stubPinger{}, "/health/upstreams?refresh=true", 200, `"up":true`},
		{"probe down", &stubPinger{down: map[config.ApiName]bool{config.GivingApi: true}}, "/health/upstreams?refresh=true", 503, `"up":false`},
		{"metrics", &stubPinger{}, "/metrics", 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(tt.pinger, cfg).Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.True(t, strings.Contains(string(body), tt.wantBody), string(body))
		})
	}
}

func TestGetConfig(t *testing.T) {
	cfg := devConfig(map[string]string{"STAGE": "prod"})

	resp, err := newApp(&stubPinger{}, cfg).Test(httptest.NewRequest("GET", "/api/config", nil))
	require.NoError(t, err)

	var got ClientConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, config.StageProd, got.Stage)
	assert.Equal(t, config.MembershipApi, got.DefaultApi)
	assert.Equal(t, "https://givingapi.churchapps.org", got.Apis[config.GivingApi])
	assert.Equal(t, "UA-164774603-4", got.GoogleAnalyticsTag)
}
