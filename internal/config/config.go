package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Modos de resolucion del usuario actual por request.
const (
	AuthModeLazy  = "lazy"
	AuthModeEager = "eager"
	AuthModeNone  = "none"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`

	// EraseDatabase fuerza drop + reseed del esquema. Solo aplica en desarrollo.
	EraseDatabase bool `env:"ERASE_DATABASE" envDefault:"false"`

	// Pool ajustado para un Postgres administrado con pocas conexiones libres.
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"5"`
	DBMinConns       int32         `env:"DB_MIN_CONNS" envDefault:"0"`
	DBAcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT" envDefault:"30s"`
	DBConnIdleTime   time.Duration `env:"DB_CONN_IDLE_TIME" envDefault:"10s"`
	DBConnLifetime   time.Duration `env:"DB_CONN_LIFETIME" envDefault:"30m"`

	AuthMode   string `env:"AUTH_MODE" envDefault:"lazy"`
	AuthUserID int64  `env:"AUTH_USER_ID" envDefault:"1"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitRPS  int    `env:"RATE_LIMIT_RPS" envDefault:"20"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment indica si el servicio corre en modo desarrollo.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsServerless indica si el servicio corre en un entorno de invocaciones efimeras.
func (c *Config) IsServerless() bool {
	return c.AppEnv == "serverless"
}
