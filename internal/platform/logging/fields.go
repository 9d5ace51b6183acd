package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 模块字段，便于不同入口复用。
func BaseFields(action, module string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"module": module,
	}
}

// RefreshFields 描述一次统计缓存刷新。
func RefreshFields(packageName, source string, stale bool) logrus.Fields {
	return logrus.Fields{
		"action":       "stats_refresh",
		"package_name": packageName,
		"source":       source,
		"stale":        stale,
	}
}

// UpstreamFields 描述一次外部 HTTP 调用。
func UpstreamFields(upstream, url string, status int, attempt int) logrus.Fields {
	return logrus.Fields{
		"action":   "upstream_fetch",
		"upstream": upstream,
		"url":      url,
		"status":   status,
		"attempt":  attempt,
	}
}
