package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type StorefrontConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	StoreDB        `yaml:"store_db"`
	CartRedis      `yaml:"cart_redis"`
	KafkaService   `yaml:"kafka-service"`
	PaymentGateway `yaml:"payment_gateway"`
	LogConfig      `yaml:"log_config"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type StoreDB struct {
	// Driver is "memory" (default, volatile) or "postgres".
	Driver         string `yaml:"driver" env-default:"memory"`
	Dsn            string `yaml:"dsn" env:"STORE_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type CartRedis struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password" env:"CART_REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	CartTTL  time.Duration `yaml:"cart_ttl" env-default:"72h"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Topic   string `yaml:"topic" env-default:"settlement-events"`
}

type PaymentGateway struct {
	MerchantID      string        `yaml:"merchant_id" env:"GATEWAY_MERCHANT_ID"`
	MerchantKey     string        `yaml:"merchant_key" env:"GATEWAY_MERCHANT_KEY"`
	Passphrase      string        `yaml:"passphrase" env:"GATEWAY_PASSPHRASE"`
	CallbackBaseURL string        `yaml:"callback_base_url"`
	Sandbox         bool          `yaml:"sandbox" env-default:"true"`
	ValidateTimeout time.Duration `yaml:"validate_timeout" env-default:"10s"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

func MustLoad() *StorefrontConfig {

	// Processing env config variable and file
	configPath := os.Getenv("STOREFRONT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("STOREFRONT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg StorefrontConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
