package cache

import "strings"

// DeriveKey 将请求身份映射为文件系统安全的缓存键。返回 false 表示该请求
// 不可缓存：登录会话的输出绝不能落盘或复用（避免把个性化内容发给其他用户），
// 非 GET 请求同理。键不做加密哈希，路径 `/`→`_` 替换加一位设备前缀即可区分
// 常规请求；路径本身含下划线导致的碰撞是已接受的残余风险。
func DeriveKey(method, path string, loggedIn, mobile bool) (string, bool) {
	if loggedIn {
		return "", false
	}
	if !strings.EqualFold(method, "GET") {
		return "", false
	}

	key := strings.ReplaceAll(path, "/", "_")
	if mobile {
		key = "m" + key
	}
	return key, true
}
