package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_DevReadsApiURLsFromEnvironment(t *testing.T) {
	cfg := FromEnv(lookupFrom(map[string]string{
		"GIVING_API":       "http://localhost:8101",
		"MEMBERSHIP_API":   "http://localhost:8102",
		"GOOGLE_ANALYTICS": "UA-test",
	}))

	assert.Equal(t, StageDev, cfg.Stage)
	u, ok := cfg.APIURL(GivingApi)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8101", u)
	u, _ = cfg.APIURL(AttendanceApi)
	assert.Empty(t, u)
	assert.Equal(t, "UA-test", cfg.GoogleAnalyticsTag)
	assert.Equal(t, MembershipApi, cfg.DefaultApi)
}

func TestFromEnv_Stages(t *testing.T) {
	tests := []struct {
		stage  string
		want   Stage
		giving string
		gaTag  string
	}{
		{"staging", StageStaging, "https://givingapi.staging.churchapps.org", ""},
		{"prod", StageProd, "https://givingapi.churchapps.org", "UA-164774603-4"},
		{"PROD", StageProd, "https://givingapi.churchapps.org", "UA-164774603-4"},
	}
	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			cfg := FromEnv(lookupFrom(map[string]string{"STAGE": tt.stage, "GIVING_API": "ignored"}))
			assert.Equal(t, tt.want, cfg.Stage)
			u, _ := cfg.APIURL(GivingApi)
			assert.Equal(t, tt.giving, u)
			assert.Equal(t, tt.gaTag, cfg.GoogleAnalyticsTag)
		})
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv(lookupFrom(nil))

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.SkipAuth)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, "@every 1m", cfg.HealthSchedule)
}

func TestFromEnv_InvalidTimeoutFallsBack(t *testing.T) {
	cfg := FromEnv(lookupFrom(map[string]string{"API_TIMEOUT": "soon"}))
	assert.Equal(t, 30*time.Second, cfg.APITimeout)

	cfg = FromEnv(lookupFrom(map[string]string{"API_TIMEOUT": "5s"}))
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
}

func TestAPIURLs_ReturnsCopy(t *testing.T) {
	cfg := FromEnv(lookupFrom(map[string]string{"STAGE": "prod"}))

	urls := cfg.APIURLs()
	urls[GivingApi] = "http://tampered"

	u, _ := cfg.APIURL(GivingApi)
	assert.Equal(t, "https://givingapi.churchapps.org", u)
}
