package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env           string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN           string            `yaml:"dsn" env:"DSN" env-required:"true"`
	MigrationsDir string            `yaml:"migrations_dir" env:"MIGRATIONS_DIR" env-default:"migrations"`
	CacheTTL      time.Duration     `yaml:"cache_ttl" env:"CACHE_TTL" env-default:"5m"`
	HTTP          HTTPConfig        `yaml:"http"`
	FileStorage   FileStorageConfig `yaml:"file_storage"`
	Redis         RedisConf         `yaml:"redis"`
	Contact       ContactConfig     `yaml:"contact"`
	SMTP          SMTPConfig        `yaml:"smtp"`
	Admin         AdminConfig       `yaml:"admin"`
}

type HTTPConfig struct {
	Host          string        `yaml:"host" env:"HTTP_HOST"`
	Port          string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env-default:"30s"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	SessionMaxAge time.Duration `yaml:"session_max_age" env-default:"24h"`
	TokenSecret   string        `yaml:"token_secret" env:"TOKEN_SECRET" env-required:"true"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"1h"`
	CORSOrigins   []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:","`
}

type FileStorageConfig struct {
	// Driver is "local" or "s3".
	Driver        string   `yaml:"driver" env:"FILE_STORAGE_DRIVER" env-default:"local"`
	BaseDir       string   `yaml:"base_dir" env-default:"uploads"`
	BaseURL       string   `yaml:"base_url" env-default:"/uploads"`
	MaxSize       int64    `yaml:"max_size" env-default:"5242880"`
	MaxImageWidth int      `yaml:"max_image_width" env-default:"1920"`
	S3            S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" env:"S3_USE_SSL"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type ContactConfig struct {
	PageSlug  string        `yaml:"page_slug" env-default:"contact"`
	Recipient string        `yaml:"recipient" env:"CONTACT_EMAIL"`
	Limit     int           `yaml:"limit" env-default:"5"`
	Window    time.Duration `yaml:"window" env-default:"1h"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
	FromName string `yaml:"from_name" env:"SMTP_FROM_NAME"`
}

// AdminConfig seeds the first administrator when the users table is empty.
type AdminConfig struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// Load reads the YAML file at configPath. Environment variables, including
// those from a .env file in the working directory, override file values.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &LoadError{Path: configPath, Reason: "config file does not exist"}
	}

	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &LoadError{Path: configPath, Reason: "cannot read config: " + err.Error()}
	}

	return &cfg, nil
}

type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return e.Reason + ": " + e.Path
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
