package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// PageFields 提供路径/设备/命中状态字段，供页面请求日志复用。
func PageFields(requestID, method, path string, mobile, cacheHit bool) logrus.Fields {
	device := "desktop"
	if mobile {
		device = "mobile"
	}
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"device":     device,
		"cache_hit":  cacheHit,
	}
}
