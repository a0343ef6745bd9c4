package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := parse("cropmart", nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", conf.HTTP.HostString)
	assert.Equal(t, "", conf.Database.DSN)
	assert.Equal(t, AppModeDevelop, conf.App.Mode)
	assert.Equal(t, 64, conf.Realtime.OutboundQueueSize)
	assert.Equal(t, 250*time.Millisecond, conf.Realtime.OutboundSendTimeout)
	assert.Equal(t, 10*time.Minute, conf.Realtime.ReplayWindow)
	assert.Equal(t, 500, conf.Realtime.ReplayLimit)
	assert.Equal(t, time.Duration(0), conf.Prices.ReseedInterval)
	assert.Equal(t, 4, conf.Notify.RetryAttempts)
	assert.Equal(t, "cropmart.events", conf.Redis.Channel)
	assert.Equal(t, "", conf.Feed.URL)
	assert.Equal(t, 5*time.Minute, conf.Feed.Interval)
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9000")
	t.Setenv("DATABASE_URI", "postgres://localhost/cropmart")
	t.Setenv("OUTBOUND_QUEUE_SIZE", "8")
	t.Setenv("REPLAY_WINDOW", "30s")
	t.Setenv("AGGREGATE_RESEED_INTERVAL", "24h")
	t.Setenv("ALLOWED_ORIGINS", "app.example.com,*.example.org")

	conf, err := parse("cropmart", []string{"-a", ":7000", "-m", "PROD"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", conf.HTTP.HostString)
	assert.Equal(t, "postgres://localhost/cropmart", conf.Database.DSN)
	assert.Equal(t, AppModeProduction, conf.App.Mode)
	assert.Equal(t, 8, conf.Realtime.OutboundQueueSize)
	assert.Equal(t, 30*time.Second, conf.Realtime.ReplayWindow)
	assert.Equal(t, 24*time.Hour, conf.Prices.ReseedInterval)
	assert.Equal(t, []string{"app.example.com", "*.example.org"}, conf.HTTP.AllowedOrigins)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "zero queue", env: map[string]string{"OUTBOUND_QUEUE_SIZE": "0"}},
		{name: "negative reseed", env: map[string]string{"AGGREGATE_RESEED_INTERVAL": "-1m"}},
		{name: "bad duration", env: map[string]string{"REPLAY_WINDOW": "soon"}},
		{name: "unknown mode", args: []string{"-m", "TEST"}},
		{name: "feed without crops", env: map[string]string{"PRICE_FEED_URL": "http://feed.local"}},
		{name: "unknown flag", args: []string{"-x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := parse("cropmart", tt.args)
			assert.Error(t, err)
		})
	}
}
