package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "SHOPSPHERE_CONFIG_FILE"
	envPrefix         = "SHOPSPHERE"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type catalog struct {
	PriceMin        float64 `mapstructure:"price_min"`
	PriceMax        float64 `mapstructure:"price_max"`
	PageSizes       []int   `mapstructure:"page_sizes"`
	DefaultPageSize int     `mapstructure:"default_page_size"`
	ComparisonCap   int     `mapstructure:"comparison_cap"`
}

type notifications struct {
	DefaultDuration time.Duration `mapstructure:"default_duration"`
}

type checkout struct {
	RedirectDelay time.Duration `mapstructure:"redirect_delay"`
}

type sessions struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type storage struct {
	Driver        string        `mapstructure:"driver"`
	SQLDB         string        `mapstructure:"sql_db"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type topics struct {
	AnalyticsEvents string `mapstructure:"analytics_events"`
}

type consumers struct {
	EventCounterGroup string `mapstructure:"event_counter_group"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type analytics struct {
	LocalCapacity int `mapstructure:"local_capacity"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	Catalog        catalog       `mapstructure:"catalog"`
	Notifications  notifications `mapstructure:"notifications"`
	Checkout       checkout      `mapstructure:"checkout"`
	Sessions       sessions      `mapstructure:"sessions"`
	Storage        storage       `mapstructure:"storage"`
	Broker         broker        `mapstructure:"broker"`
	Analytics      analytics     `mapstructure:"analytics"`
}

// BrokerEnabled reports whether analytics events go to Kafka.
func (c Config) BrokerEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

// BrokerTLSEnabled reports whether every TLS file is set.
func (c Config) BrokerTLSEnabled() bool {
	t := c.Broker.TLS
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the YAML file at path. SHOPSPHERE_* environment
// variables override file values, e.g. SHOPSPHERE_STORAGE_DRIVER.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key, which also lets AutomaticEnv see it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8000")
	v.SetDefault("catalog.price_min", 0)
	v.SetDefault("catalog.price_max", 300)
	v.SetDefault("catalog.page_sizes", []int{12, 24, 36})
	v.SetDefault("catalog.default_page_size", 12)
	v.SetDefault("catalog.comparison_cap", 4)
	v.SetDefault("notifications.default_duration", "3s")
	v.SetDefault("checkout.redirect_delay", "3s")
	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.sql_db", "")
	v.SetDefault("storage.redis_addr", "")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.key_prefix", "shopsphere")
	v.SetDefault("storage.ttl", "720h")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("broker.topics.analytics_events", "analytics-events")
	v.SetDefault("broker.consumers.event_counter_group", "analytics-event-counter")
	v.SetDefault("analytics.local_capacity", 100)
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.SQLDB == "" {
			return fmt.Errorf("storage.sql_db is required for driver %q", c.Storage.Driver)
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Catalog.PriceMin < 0 {
		return fmt.Errorf("catalog.price_min %v must not be negative", c.Catalog.PriceMin)
	}
	if c.Catalog.PriceMax <= c.Catalog.PriceMin {
		return fmt.Errorf(
			"catalog.price_max %v must exceed catalog.price_min %v",
			c.Catalog.PriceMax, c.Catalog.PriceMin,
		)
	}
	if len(c.Catalog.PageSizes) == 0 {
		return fmt.Errorf("catalog.page_sizes must not be empty")
	}
	for _, size := range c.Catalog.PageSizes {
		if size <= 0 {
			return fmt.Errorf("catalog.page_sizes %v must be positive", c.Catalog.PageSizes)
		}
	}
	if !slices.Contains(c.Catalog.PageSizes, c.Catalog.DefaultPageSize) {
		return fmt.Errorf(
			"catalog.default_page_size %d must be one of catalog.page_sizes %v",
			c.Catalog.DefaultPageSize, c.Catalog.PageSizes,
		)
	}
	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("sessions.idle_ttl must be positive")
	}
	if c.BrokerEnabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		return fmt.Errorf("broker.schema_registry_urls is required with seed brokers")
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Catalog:
	PriceRange=[%v, %v]
	PageSizes=%v
	DefaultPageSize=%d
	ComparisonCap=%d
	NotificationDuration=%q
	RedirectDelay=%q

	Sessions:
	IdleTTL=%q

	Storage:
	Driver=%q
	SQLDB=%q
	RedisAddr=%q
	RedisDB=%d
	KeyPrefix=%q
	TTL=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		AnalyticsEvents=%q
	Consumers:
		EventCounterGroup=%q

	Analytics:
	LocalCapacity=%d

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Catalog.PriceMin,
		c.Catalog.PriceMax,
		c.Catalog.PageSizes,
		c.Catalog.DefaultPageSize,
		c.Catalog.ComparisonCap,
		c.Notifications.DefaultDuration,
		c.Checkout.RedirectDelay,
		c.Sessions.IdleTTL,
		c.Storage.Driver,
		redact(c.Storage.SQLDB),
		c.Storage.RedisAddr,
		c.Storage.RedisDB,
		c.Storage.KeyPrefix,
		c.Storage.TTL,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.BrokerTLSEnabled(),
		c.Broker.Topics.AnalyticsEvents,
		c.Broker.Consumers.EventCounterGroup,
		c.Analytics.LocalCapacity,
	)
}

// redact hides the password of a postgres URL.
func redact(dsn string) string {
	if dsn == "" {
		return ""
	}
	i := strings.Index(dsn, "://")
	at := strings.LastIndex(dsn, "@")
	if i < 0 || at < i {
		return dsn
	}
	creds := dsn[i+3 : at]
	if user, _, ok := strings.Cut(creds, ":"); ok {
		return dsn[:i+3] + user + ":***" + dsn[at:]
	}
	return dsn
}
