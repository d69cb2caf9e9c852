package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	WSServer    WSServer    `yaml:"ws_server"`
	Database    Database    `yaml:"database"`
	DataService DataService `yaml:"data_service"`
	Share       Share       `yaml:"share"`
	Pusher      Pusher      `yaml:"pusher"`
	Snapshot    Snapshot    `yaml:"snapshot"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type WSServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Database struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-required:"true"`
}

type DataService struct {
	BaseURL string        `yaml:"base_url" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Share struct {
	Brand          string `yaml:"brand" env-default:"Rand Lottery"`
	SiteURL        string `yaml:"site_url" env-default:"https://wisdo23.github.io/azure-work-site/"`
	DefaultHashtag string `yaml:"default_hashtag" env-default:"RandLottery"`
}

type Pusher struct {
	AppID   string `yaml:"app_id" env:"PUSHER_APP_ID"`
	Key     string `yaml:"key" env:"PUSHER_KEY"`
	Secret  string `yaml:"secret" env:"PUSHER_SECRET"`
	Cluster string `yaml:"cluster" env-default:"eu"`
}

type Snapshot struct {
	BrowserBin  string        `yaml:"browser_bin" env:"SNAPSHOT_BROWSER_BIN"`
	CardBaseURL string        `yaml:"card_base_url" env-default:"http://localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}
