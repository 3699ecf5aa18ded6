// Package config provides configuration management for the Goal Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	FootballAPI  FootballAPIConfig  `mapstructure:"football_api" validate:"required"`
	OddsProvider OddsProviderConfig `mapstructure:"odds_provider"`
	Oracle       OracleConfig       `mapstructure:"oracle"`
	Scoring      ScoringConfig      `mapstructure:"scoring" validate:"required"`
	Staking      StakingConfig      `mapstructure:"staking" validate:"required"`
	Ledger       LedgerConfig       `mapstructure:"ledger" validate:"required"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// FootballAPIConfig represents the fixture/result data provider configuration
type FootballAPIConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key" validate:"required"`
	PreferredBookmaker string  `mapstructure:"preferred_bookmaker"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// OddsProviderConfig represents the optional secondary odds provider.
// When BaseURL is empty the provider is skipped and the primary source
// supplies the quote.
type OddsProviderConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
}

// OracleConfig represents the language-model prediction oracle configuration.
// When disabled, the local deterministic scorer is used exclusively.
type OracleConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string `mapstructure:"api_key"`
	Model           string `mapstructure:"model"`
	FallbackModel   string `mapstructure:"fallback_model"`
	MaxTokens       int    `mapstructure:"max_tokens" validate:"omitempty,gt=0"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"omitempty,gt=0"`
}

// SignalWeights are the relative weights of the five scoring sub-signals
type SignalWeights struct {
	Tempo      float64 `mapstructure:"tempo" validate:"gte=0"`
	FormRate   float64 `mapstructure:"form_rate" validate:"gte=0"`
	SeasonBase float64 `mapstructure:"season_base" validate:"gte=0"`
	Injuries   float64 `mapstructure:"injuries" validate:"gte=0"`
	HeadToHead float64 `mapstructure:"h2h" validate:"gte=0"`
}

// Total returns the weight mass, floored at 1 to keep division safe
func (w SignalWeights) Total() float64 {
	total := w.Tempo + w.FormRate + w.SeasonBase + w.Injuries + w.HeadToHead
	if total < 1.0 {
		return 1.0
	}
	return total
}

// ScoringConfig carries every scorer tunable. Several defaults (the 0.94
// one-sided de-vig factor, the clip bounds) are empirically chosen and kept
// configurable so they can be revisited by backtesting.
type ScoringConfig struct {
	Weights          SignalWeights `mapstructure:"weights"`
	KFactor          float64       `mapstructure:"k_factor" validate:"gte=0,lte=1"`
	PartialDevig     float64       `mapstructure:"partial_devig" validate:"gt=0,lte=1"`
	DeltaCap         float64       `mapstructure:"delta_cap" validate:"gt=0,lte=0.5"`
	EdgeCap          float64       `mapstructure:"edge_cap" validate:"gt=0"`
	OddsMin          float64       `mapstructure:"odds_min" validate:"gt=1"`
	OddsMax          float64       `mapstructure:"odds_max" validate:"gtfield=OddsMin"`
	MinEdge          float64       `mapstructure:"min_edge" validate:"gte=0"`
	MinConfidence    float64       `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	TempoCenter      float64       `mapstructure:"tempo_center"`
	TempoScale       float64       `mapstructure:"tempo_scale" validate:"gt=0"`
	TempoClip        float64       `mapstructure:"tempo_clip" validate:"gt=0"`
	FormRateClip     float64       `mapstructure:"form_rate_clip" validate:"gt=0"`
	SeasonBaseCenter float64       `mapstructure:"season_base_center"`
	SeasonBaseScale  float64       `mapstructure:"season_base_scale" validate:"gt=0"`
	SeasonBaseClip   float64       `mapstructure:"season_base_clip" validate:"gt=0"`
	InjuryPerPlayer  float64       `mapstructure:"injury_per_player" validate:"gte=0"`
	InjuryCap        float64       `mapstructure:"injury_cap" validate:"gte=0"`
	H2HClip          float64       `mapstructure:"h2h_clip" validate:"gt=0"`
	H2HWindow        int           `mapstructure:"h2h_window" validate:"gt=0"`
}

// StakingConfig carries the risk-adjusted Kelly sizer tunables
type StakingConfig struct {
	KellyScaler          float64 `mapstructure:"kelly_scaler" validate:"gt=0,lte=1"`
	MaxStakePct          float64 `mapstructure:"max_stake_pct" validate:"gt=0,lte=1"`
	EdgeFloor            float64 `mapstructure:"edge_floor" validate:"gt=0"`
	SourceQualityTrusted float64 `mapstructure:"source_quality_trusted" validate:"gt=0,lte=1"`
	SourceQualityDefault float64 `mapstructure:"source_quality_default" validate:"gt=0,lte=1"`
}

// LedgerConfig carries the bankroll replay gates and seed
type LedgerConfig struct {
	DefaultBankroll  float64 `mapstructure:"default_bankroll" validate:"gt=0"`
	OddsMin          float64 `mapstructure:"odds_min" validate:"gt=1"`
	OddsMax          float64 `mapstructure:"odds_max" validate:"gtfield=OddsMin"`
	MinConfidencePct float64 `mapstructure:"min_confidence_pct" validate:"gte=0,lte=100"`
}

// PipelineConfig represents batch orchestration configuration
type PipelineConfig struct {
	WindowHours        int     `mapstructure:"window_hours" validate:"required,gt=0"`
	InsertOddsMin      float64 `mapstructure:"insert_odds_min" validate:"gt=1"`
	InsertOddsMax      float64 `mapstructure:"insert_odds_max" validate:"gtfield=InsertOddsMin"`
	InvertPicks        bool    `mapstructure:"invert_picks"`
	TopPicksCount      int     `mapstructure:"top_picks_count" validate:"gt=0"`
	TopPicksStake      float64 `mapstructure:"top_picks_stake" validate:"gt=0"`
	PredictionSchedule string  `mapstructure:"prediction_schedule"`
	SettlementSchedule string  `mapstructure:"settlement_schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DefaultScoringConfig returns the scorer defaults
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: SignalWeights{
			Tempo:      30,
			FormRate:   20,
			SeasonBase: 20,
			Injuries:   20,
			HeadToHead: 10,
		},
		KFactor:          0.20,
		PartialDevig:     0.94,
		DeltaCap:         0.25,
		EdgeCap:          0.20,
		OddsMin:          1.35,
		OddsMax:          3.60,
		MinEdge:          0.0,
		MinConfidence:    0.0,
		TempoCenter:      1.45,
		TempoScale:       1.4,
		TempoClip:        0.35,
		FormRateClip:     0.25,
		SeasonBaseCenter: 2.6,
		SeasonBaseScale:  2.0,
		SeasonBaseClip:   0.20,
		InjuryPerPlayer:  0.02,
		InjuryCap:        0.20,
		H2HClip:          0.10,
		H2HWindow:        3,
	}
}

// DefaultStakingConfig returns the stake sizer defaults
func DefaultStakingConfig() StakingConfig {
	return StakingConfig{
		KellyScaler:          0.5,
		MaxStakePct:          0.02,
		EdgeFloor:            0.01,
		SourceQualityTrusted: 1.0,
		SourceQualityDefault: 0.90,
	}
}

// DefaultLedgerConfig returns the bankroll replay defaults
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		DefaultBankroll:  100.00,
		OddsMin:          1.6,
		OddsMax:          2.3,
		MinConfidencePct: 70.0,
	}
}

// DefaultPipelineConfig returns the batch orchestration defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		WindowHours:        24,
		InsertOddsMin:      1.6,
		InsertOddsMax:      2.3,
		TopPicksCount:      10,
		TopPicksStake:      5.0,
		PredictionSchedule: "0 6 * * *",
		SettlementSchedule: "@every 1h",
	}
}
