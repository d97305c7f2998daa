package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/snow-day-forecast-service/internal/domain"
)

// defaultUserAgent identifies the service to the NWS API, which rejects
// anonymous clients.
const defaultUserAgent = "snow-day-forecast-service/1.0 (github.com/couchcryptid/snow-day-forecast-service)"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration

	// NWS forecast API.
	NWSBaseURL   string `validate:"url"`
	NWSUserAgent string `validate:"required"`
	NWSTimeout   time.Duration

	// ZIP geocoding provider.
	GeocoderBaseURL   string `validate:"url"`
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// District calibration: the preset named by DISTRICT_PROFILE with any
	// per-knob overrides already folded in.
	ProfileName string
	Profile     domain.Profile

	// Background refresh + Kafka publishing.
	HomeZip         string `validate:"omitempty,len=5,numeric"`
	RefreshInterval time.Duration
	KafkaBrokers    []string
	KafkaSinkTopic  string
	PublishEnabled  bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is folded in first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parsePositiveDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}

	profileName := sharedcfg.EnvOrDefault("DISTRICT_PROFILE", domain.DefaultProfileName)
	profile, ok := domain.ProfileByName(profileName)
	if !ok {
		return nil, fmt.Errorf("unknown DISTRICT_PROFILE %q", profileName)
	}
	if err := applyProfileOverrides(&profile); err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	homeZip := os.Getenv("HOME_ZIP")

	publishEnabled := len(brokers) > 0 && homeZip != ""
	if v := os.Getenv("PUBLISH_ENABLED"); v != "" {
		publishEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NWSBaseURL:   sharedcfg.EnvOrDefault("NWS_BASE_URL", "https://api.weather.gov"),
		NWSUserAgent: sharedcfg.EnvOrDefault("NWS_USER_AGENT", defaultUserAgent),
		NWSTimeout:   nwsTimeout,

		GeocoderBaseURL:   sharedcfg.EnvOrDefault("GEOCODER_BASE_URL", "https://api.zippopotam.us"),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: parseGeocoderCacheSize(),

		ProfileName: profileName,
		Profile:     profile,

		HomeZip:         homeZip,
		RefreshInterval: refreshInterval,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "snow-day-forecasts"),
		PublishEnabled: publishEnabled,
	}

	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when publishing is enabled")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when publishing is enabled")
		}
		if cfg.HomeZip == "" {
			return nil, errors.New("HOME_ZIP is required when publishing is enabled")
		}
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyProfileOverrides folds optional per-district tuning knobs over the
// selected preset. The cold threshold may legitimately be negative.
func applyProfileOverrides(p *domain.Profile) error {
	if s := os.Getenv("ACCUMULATION_THRESHOLD"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return errors.New("invalid ACCUMULATION_THRESHOLD")
		}
		p.AccumulationThreshold = v
	}
	if s := os.Getenv("TIMING_WEIGHT"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return errors.New("invalid TIMING_WEIGHT")
		}
		p.TimingWeight = v
	}
	if s := os.Getenv("COLD_THRESHOLD"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("invalid COLD_THRESHOLD")
		}
		p.ColdThresholdF = v
	}
	return nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseGeocoderCacheSize() int {
	if s := os.Getenv("GEOCODER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
