package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "KVSHOP_CONFIG_FILE"
	envPrefix         = "KVSHOP"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverLevelDB  = "leveldb"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type storage struct {
	Driver        string `mapstructure:"driver"`
	Namespace     string `mapstructure:"namespace"`
	QuotaBytes    int64  `mapstructure:"quota_bytes"`
	LevelDBPath   string `mapstructure:"leveldb_path"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type topics struct {
	Orders      string `mapstructure:"orders"`
	OrderStatus string `mapstructure:"order_status"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t tlsFiles) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type seed struct {
	Catalog    bool   `mapstructure:"catalog"`
	AdminName  string `mapstructure:"admin_name"`
	AdminEmail string `mapstructure:"admin_email"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Storage        storage    `mapstructure:"storage"`
	Broker         broker     `mapstructure:"broker"`
	Seed           seed       `mapstructure:"seed"`
}

// Load reads the config file named by the --config flag or
// KVSHOP_CONFIG_FILE. A missing file leaves the defaults.
// Any value is overridable by KVSHOP_<SECTION>_<KEY> env.
func Load() Config {
	cfg, err := load(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

func load(args []string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := getConfigFilepath(args)
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	err = v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("storage.driver", DriverLevelDB)
	v.SetDefault("storage.namespace", "kvshop/")
	v.SetDefault("storage.quota_bytes", 5*1024*1024)
	v.SetDefault("storage.leveldb_path", "data/kvshop")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.orders", "orders")
	v.SetDefault("broker.topics.order_status", "order-status")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("seed.catalog", true)
	v.SetDefault("seed.admin_name", "Admin")
	v.SetDefault("seed.admin_email", "admin@kvshop.local")
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverLevelDB, DriverRedis:
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn: required for postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	return nil
}

func getConfigFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("kvshop", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "config.yaml", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env, nil
	}
	return *arg, nil
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Storage:
	Driver=%q
	Namespace=%q
	QuotaBytes=%d
	LevelDBPath=%q
	RedisAddr=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		Orders=%q
		OrderStatus=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Storage.Driver,
		c.Storage.Namespace,
		c.Storage.QuotaBytes,
		c.Storage.LevelDBPath,
		c.Storage.RedisAddr,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.Orders,
		c.Broker.Topics.OrderStatus,
		c.Broker.TLS.Enabled(),
	)
}
