package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// 支持的存储驱动
const (
	DriverMongo    = "mongo"
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应，任何键都可以被环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 选择文档存储的后端
type DatabaseConfig struct {
	Driver string      `mapstructure:"driver"`
	Mongo  MongoConfig `mapstructure:"mongo"`
	SQL    SQLConfig   `mapstructure:"sql"`
}

// MongoConfig 定义了MongoDB连接参数
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

// SQLConfig 用于 sqlite/postgres 后端
type SQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置。Address 为空时禁用缓存。
type RedisConfig struct {
	Address       string        `mapstructure:"address"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	CategoriesTTL time.Duration `mapstructure:"categoriesTTL"`
	CheckInterval time.Duration `mapstructure:"checkInterval"`
}

// StatsConfig 定义了npm/GitHub统计接口的访问参数
type StatsConfig struct {
	NpmBaseURL     string        `mapstructure:"npmBaseURL"`
	GitHubBaseURL  string        `mapstructure:"githubBaseURL"`
	GitHubToken    string        `mapstructure:"githubToken"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"maxRetries"`
	InitialBackoff time.Duration `mapstructure:"initialBackoff"`
	StaleAfter     time.Duration `mapstructure:"staleAfter"`
	Concurrency    int           `mapstructure:"concurrency"`
}

// UploadConfig 定义了上传签名与ImageKit密钥
type UploadConfig struct {
	SigningSecret string         `mapstructure:"signingSecret"`
	TokenTTL      time.Duration  `mapstructure:"tokenTTL"`
	ImageKit      ImageKitConfig `mapstructure:"imageKit"`
}

// ImageKitConfig 对应 ImageKit 控制台中的三项密钥配置
type ImageKitConfig struct {
	PublicKey   string `mapstructure:"publicKey"`
	PrivateKey  string `mapstructure:"privateKey"`
	URLEndpoint string `mapstructure:"urlEndpoint"`
}

// LogConfig 定义了日志输出
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"filePath"`
	MaxSize    int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	Compress   bool   `mapstructure:"compress"`
}

// legacyEnv 兼容旧版 Node 服务使用的环境变量名
var legacyEnv = map[string]string{
	"database.mongo.user":         "DB_USER",
	"database.mongo.password":     "DB_PASS",
	"stats.githubToken":           "GITHUB_TOKEN",
	"upload.signingSecret":        "SIGNING_SECRET",
	"upload.imageKit.publicKey":   "IMAGEKIT_PUBLIC_KEY",
	"upload.imageKit.privateKey":  "IMAGEKIT_PRIVATE_KEY",
	"upload.imageKit.urlEndpoint": "IMAGEKIT_URL_ENDPOINT",
}

// LoadConfig 函数负责查找、加载和解析配置文件
// path 为空时会在 ./config 与 . 中查找 config.yaml；文件不存在时只使用默认值与环境变量
func LoadConfig(path string) (*Config, error) {
	// .env 只是可选的本地开发便利
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyLegacyPort(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.database", "projectsdb")
	v.SetDefault("database.mongo.user", "")
	v.SetDefault("database.mongo.password", "")
	v.SetDefault("database.mongo.connectTimeout", "10s")
	v.SetDefault("database.sql.dsn", "portfolio.db")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.categoriesTTL", "10m")
	v.SetDefault("redis.checkInterval", "5s")

	v.SetDefault("stats.npmBaseURL", "https://api.npmjs.org")
	v.SetDefault("stats.githubBaseURL", "https://api.github.com")
	v.SetDefault("stats.githubToken", "")
	v.SetDefault("stats.timeout", "10s")
	v.SetDefault("stats.maxRetries", 2)
	v.SetDefault("stats.initialBackoff", "200ms")
	v.SetDefault("stats.staleAfter", "24h")
	v.SetDefault("stats.concurrency", 8)

	v.SetDefault("upload.signingSecret", "")
	v.SetDefault("upload.tokenTTL", "30m")
	v.SetDefault("upload.imageKit.publicKey", "")
	v.SetDefault("upload.imageKit.privateKey", "")
	v.SetDefault("upload.imageKit.urlEndpoint", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.filePath", "")
	v.SetDefault("log.maxSize", 100)
	v.SetDefault("log.maxBackups", 10)
	v.SetDefault("log.compress", true)
}

// applyLegacyPort 让 PORT=5000 这种旧写法继续生效，SERVER_ADDRESS 优先
func applyLegacyPort(cfg *Config) {
	if os.Getenv("SERVER_ADDRESS") != "" {
		return
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Address = ":" + port
	}
}
