package cache

import "time"

// DefaultTTL 是生成页面的过期窗口，读命中与写抑制共用同一阈值。
const DefaultTTL = 6 * time.Hour

// Stale 判断条目是否过期：now-modTime >= ttl 即为过期。
// 读路径把过期条目当作 miss；写路径只在旧条目过期后才允许覆盖，
// 避免对还在新鲜服务的内容做冗余磁盘写。
func Stale(modTime, now time.Time, ttl time.Duration) bool {
	return now.Sub(modTime) >= ttl
}
