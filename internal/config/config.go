package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	Postgres    Postgres    `yaml:"postgres"`
	Server      Server      `yaml:"server"`
	Circulation Circulation `yaml:"circulation"`
	Auth        Auth        `yaml:"auth"`
}

type Postgres struct {
	Driver          string        `yaml:"driver" env:"POSTGRES_DRIVER" env-default:"postgres"`
	Username        string        `yaml:"user" env:"POSTGRES_USER" env-required:"true"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Database        string        `yaml:"database" env:"POSTGRES_DB" env-required:"true"`
	SSLMode         string        `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"50"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

// DSN builds a postgres:// connection URL understood by both lib/pq and pgx.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + p.SSLMode,
	}

	return u.String()
}

type Server struct {
	Host        string        `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`

	// AllowedOrigins lists cross-site origins allowed to open the notification websocket.
	AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" env-separator:","`
}

// Circulation holds the lending policy. DailyPenaltyRate is kept as a string
// so the yaml value is parsed exactly into a decimal.
type Circulation struct {
	LoanPeriod         time.Duration `yaml:"loan_period" env:"LOAN_PERIOD" env-default:"336h"`
	MaxOpenLoans       int           `yaml:"max_open_loans" env:"MAX_OPEN_LOANS" env-default:"3"`
	DailyPenaltyRate   string        `yaml:"daily_penalty_rate" env:"DAILY_PENALTY_RATE" env-default:"5.00"`
	SevereOverdueAfter time.Duration `yaml:"severe_overdue_after" env:"SEVERE_OVERDUE_AFTER" env-default:"1440h"`
}

func (c Circulation) PenaltyRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.DailyPenaltyRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid daily_penalty_rate %q: %w", c.DailyPenaltyRate, err)
	}

	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("daily_penalty_rate must not be negative, got %s", rate)
	}

	return rate, nil
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER" env-default:"library-service"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.Postgres.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported postgres driver %q", c.Postgres.Driver)
	}

	if c.Circulation.LoanPeriod <= 0 {
		return errors.New("circulation.loan_period must be positive")
	}

	if c.Circulation.MaxOpenLoans <= 0 {
		return errors.New("circulation.max_open_loans must be positive")
	}

	if _, err := c.Circulation.PenaltyRate(); err != nil {
		return err
	}

	return nil
}
