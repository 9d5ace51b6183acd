package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FieldError 提供字段路径与错误原因，便于启动时定位配置问题。
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if strings.TrimSpace(c.Server.Address) == "" {
		return newFieldError("server.address", "不能为空")
	}
	if len(c.Server.Cors.AllowedOrigins) == 0 {
		return newFieldError("server.cors.allowedOrigins", "至少需要一个来源")
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.Mongo.URI == "" {
			return newFieldError("database.mongo.uri", "不能为空")
		}
		if c.Database.Mongo.Database == "" {
			return newFieldError("database.mongo.database", "不能为空")
		}
	case DriverSqlite, DriverPostgres:
		if c.Database.SQL.DSN == "" {
			return newFieldError("database.sql.dsn", "不能为空")
		}
	default:
		return newFieldError("database.driver", "仅支持 mongo|sqlite|postgres")
	}

	for field, raw := range map[string]string{
		"stats.npmBaseURL":    c.Stats.NpmBaseURL,
		"stats.githubBaseURL": c.Stats.GitHubBaseURL,
	} {
		if err := validateBaseURL(raw); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if c.Stats.Timeout <= 0 {
		return newFieldError("stats.timeout", "必须大于 0")
	}
	if c.Stats.MaxRetries < 0 {
		return newFieldError("stats.maxRetries", "不能为负数")
	}
	if c.Stats.InitialBackoff <= 0 {
		return newFieldError("stats.initialBackoff", "必须大于 0")
	}
	if c.Stats.StaleAfter <= 0 {
		return newFieldError("stats.staleAfter", "必须大于 0")
	}
	if c.Stats.Concurrency <= 0 {
		return newFieldError("stats.concurrency", "必须大于 0")
	}

	if c.Upload.TokenTTL <= 0 {
		return newFieldError("upload.tokenTTL", "必须大于 0")
	}
	if c.Redis.Address != "" && c.Redis.CategoriesTTL <= 0 {
		return newFieldError("redis.categoriesTTL", "必须大于 0")
	}
	if c.Redis.Address != "" && c.Redis.CheckInterval <= 0 {
		return newFieldError("redis.checkInterval", "必须大于 0")
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("仅支持 http/https")
	}
	if u.Host == "" {
		return errors.New("缺少主机名")
	}
	return nil
}
