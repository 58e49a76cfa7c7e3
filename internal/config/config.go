// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AssetBaseURL            string `yaml:"asset_base_url" env:"ASSET_BASE_URL"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Gateway                 `yaml:"gateway"`
	Cloudinary              `yaml:"cloudinary"`
	Rabbit                  `yaml:"rabbit"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"address"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeout"`
}

// JWTToken структура для выпуска пары access/refresh токенов.
type JWTToken struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

// Gateway настройки платёжного шлюза. Сумма и валюта заказа задаются
// только на сервере, клиент их не передаёт.
type Gateway struct {
	KeyID         string `yaml:"key_id" env:"GATEWAY_KEY_ID"`
	KeySecret     string `yaml:"key_secret" env:"GATEWAY_KEY_SECRET"`
	APIURL        string `yaml:"api_url" env-default:"https://api.razorpay.com/v1"`
	CheckoutURL   string `yaml:"checkout_url" env-default:"https://checkout.razorpay.com/v1/checkout.js"`
	MembershipFee int    `yaml:"membership_fee" env-default:"36900"` // в минимальных единицах валюты
	Currency      string `yaml:"currency" env-default:"INR"`
	WebhookSecret string `yaml:"webhook_secret" env:"GATEWAY_WEBHOOK_SECRET"`
}

// Cloudinary настройки подписанных загрузок изображений профиля.
type Cloudinary struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
	Folder    string `yaml:"folder" env-default:"club369/profiles"`
}

// Rabbit настройки подключения к RabbitMQ.
type Rabbit struct {
	RabbitURL     string        `yaml:"url" env:"RABBIT_URL"`
	RabbitRetries int           `yaml:"retries" env-default:"5"`
	RabbitDelay   time.Duration `yaml:"delay" env-default:"3s"`
}

// SMTP настройки почтового транспорта для уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH. При любой ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
