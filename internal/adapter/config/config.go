package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	App      *App
	Database *Database
	HTTP     *HTTP
	Redis    *Redis
	Auth     *Auth
	Realtime *Realtime
	Prices   *Prices
	Notify   *Notify
	Feed     *Feed
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel   string `env:"LOG_LEVEL"`
	Mode       string `env:"APP_MODE"`
	InstanceID string `env:"INSTANCE_ID"`
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString     string   `env:"RUN_ADDRESS"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Redis is optional; without a URL events stay inside the process.
type Redis struct {
	URL     string `env:"REDIS_URL"`
	Channel string `env:"REDIS_CHANNEL" envDefault:"cropmart.events"`
}

type Auth struct {
	TokenKey string        `env:"TOKEN_KEY"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Realtime struct {
	OutboundQueueSize   int           `env:"OUTBOUND_QUEUE_SIZE" envDefault:"64"`
	OutboundSendTimeout time.Duration `env:"OUTBOUND_SEND_TIMEOUT" envDefault:"250ms"`
	ReplayWindow        time.Duration `env:"REPLAY_WINDOW" envDefault:"10m"`
	ReplayLimit         int           `env:"REPLAY_LIMIT" envDefault:"500"`
	AuthTimeout         time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

type Prices struct {
	// zero disables periodic reseeding
	ReseedInterval time.Duration `env:"AGGREGATE_RESEED_INTERVAL" envDefault:"0s"`
}

// Feed polls an external market price service; disabled without a URL.
type Feed struct {
	URL      string        `env:"PRICE_FEED_URL"`
	Crops    []string      `env:"PRICE_FEED_CROPS" envSeparator:","`
	Interval time.Duration `env:"PRICE_FEED_INTERVAL" envDefault:"5m"`
	Workers  int           `env:"PRICE_FEED_WORKERS" envDefault:"2"`
	RPS      float64       `env:"PRICE_FEED_RPS" envDefault:"5"`
}

type Notify struct {
	BusQueueSize  int           `env:"BUS_QUEUE_SIZE" envDefault:"256"`
	RetryAttempts int           `env:"NOTIFY_RETRY_ATTEMPTS" envDefault:"4"`
	RetryBackoff  time.Duration `env:"NOTIFY_RETRY_BACKOFF" envDefault:"50ms"`
}

func NewConfig() (*Config, error) {
	return parse(os.Args[0], os.Args[1:])
}

func parse(name string, args []string) (*Config, error) {
	var db Database
	var http HTTP
	var redis Redis
	var auth Auth
	var app App
	realtime := Realtime{}
	prices := Prices{}
	notify := Notify{}
	feed := Feed{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&db.DSN, "d", "", "Database string, in-memory storage when empty")
	fs.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	fs.StringVar(&redis.URL, "redis", "", "Redis URL for sharing events between instances")
	fs.StringVar(&app.LogLevel, "l", `error`, "Log level")
	fs.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&redis)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis config: %w", err)
	}
	err = env.Parse(&auth)
	if err != nil {
		return nil, fmt.Errorf("error parsing auth config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&realtime)
	if err != nil {
		return nil, fmt.Errorf("error parsing realtime config: %w", err)
	}
	err = env.Parse(&prices)
	if err != nil {
		return nil, fmt.Errorf("error parsing prices config: %w", err)
	}
	err = env.Parse(&notify)
	if err != nil {
		return nil, fmt.Errorf("error parsing notify config: %w", err)
	}
	err = env.Parse(&feed)
	if err != nil {
		return nil, fmt.Errorf("error parsing price feed config: %w", err)
	}

	config := Config{
		App:      &app,
		Database: &db,
		HTTP:     &http,
		Redis:    &redis,
		Auth:     &auth,
		Realtime: &realtime,
		Prices:   &prices,
		Notify:   &notify,
		Feed:     &feed,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Realtime.OutboundQueueSize <= 0 {
		errs = append(errs, errors.New("OUTBOUND_QUEUE_SIZE must be positive"))
	}
	if c.Realtime.OutboundSendTimeout <= 0 {
		errs = append(errs, errors.New("OUTBOUND_SEND_TIMEOUT must be positive"))
	}
	if c.Realtime.ReplayWindow < 0 {
		errs = append(errs, errors.New("REPLAY_WINDOW must not be negative"))
	}
	if c.Realtime.ReplayLimit <= 0 {
		errs = append(errs, errors.New("REPLAY_LIMIT must be positive"))
	}
	if c.Prices.ReseedInterval < 0 {
		errs = append(errs, errors.New("AGGREGATE_RESEED_INTERVAL must not be negative"))
	}
	if c.Notify.BusQueueSize <= 0 {
		errs = append(errs, errors.New("BUS_QUEUE_SIZE must be positive"))
	}
	if c.Notify.RetryAttempts <= 0 {
		errs = append(errs, errors.New("NOTIFY_RETRY_ATTEMPTS must be positive"))
	}
	if c.Feed.URL != "" {
		if len(c.Feed.Crops) == 0 {
			errs = append(errs, errors.New("PRICE_FEED_CROPS is required with PRICE_FEED_URL"))
		}
		if c.Feed.Interval <= 0 || c.Feed.Workers <= 0 || c.Feed.RPS <= 0 {
			errs = append(errs, errors.New("price feed interval, workers and rate must be positive"))
		}
	}
	if c.App.Mode != AppModeDevelop && c.App.Mode != AppModeProduction {
		errs = append(errs, fmt.Errorf("unknown app mode %q", c.App.Mode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
