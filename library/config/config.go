package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/gateway"
	"github.com/Astemirdum/library-borrowing/library/internal/notify"
	"github.com/Astemirdum/library-borrowing/library/internal/service"
	"github.com/Astemirdum/library-borrowing/pkg/auth"
	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/Astemirdum/library-borrowing/pkg/logger"
	"github.com/Astemirdum/library-borrowing/pkg/postgres"
	"github.com/Astemirdum/library-borrowing/pkg/telegram"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Jobs struct {
	// Zero disables the job.
	OverdueCheckInterval time.Duration `envconfig:"OVERDUE_CHECK_INTERVAL" default:"24h"`
	ExpiredCheckInterval time.Duration `envconfig:"EXPIRED_CHECK_INTERVAL" default:"1h"`
}

type Config struct {
	Server   HTTPServer      `yaml:"server"`
	Database postgres.DB     `yaml:"db"`
	Kafka    kafka.Config    `yaml:"kafka"`
	Auth     auth.Config     `yaml:"auth"`
	Gateway  gateway.Config  `yaml:"gateway"`
	Telegram telegram.Config `yaml:"telegram"`
	Jobs     Jobs            `yaml:"jobs"`
	Log      logger.Log      `yaml:"log"`

	PublicURL      string          `envconfig:"PUBLIC_URL" default:"http://localhost:8060"`
	FineMultiplier decimal.Decimal `envconfig:"FINE_MULTIPLIER" default:"2"`
	FailurePolicy  string          `envconfig:"PAYMENT_FAILURE_POLICY" default:"rollback"`
	NotifySink     string          `envconfig:"NOTIFY_SINK" default:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if err = config.validate(); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func (c *Config) validate() error {
	switch c.NotifySink {
	case notify.SinkKafka, notify.SinkTelegram, notify.SinkLog:
	default:
		return fmt.Errorf("NOTIFY_SINK: unknown sink %q", c.NotifySink)
	}
	switch c.FailurePolicy {
	case service.FailurePolicyRollback, service.FailurePolicyKeep:
	default:
		return fmt.Errorf("PAYMENT_FAILURE_POLICY: unknown policy %q", c.FailurePolicy)
	}
	if c.FineMultiplier.IsNegative() {
		return fmt.Errorf("FINE_MULTIPLIER: must not be negative")
	}
	return nil
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
