package cache

import (
	"errors"
	"time"
)

// Store 负责管理磁盘缓存的读写。磁盘布局为单层目录：
//
//	<StoragePath>/<key>    # gzip 压缩后的整页字节
//
// 条目没有独立的元数据文件，新鲜度完全由文件 ModTime 提供。
// Store 只做持久化，新鲜度与可缓存性判断在 PageCache 层。
type Store interface {
	// Get 返回缓存条目的原始字节与最后写入时间。不存在时返回 ErrNotFound。
	Get(key string) (*Entry, error)

	// Stat 只返回条目的最后写入时间，供写抑制判断使用，避免整块读出。
	Stat(key string) (time.Time, error)

	// Put 将页面字节写入缓存。实现需通过临时文件 + rename 保证写入原子性，
	// 并在失败时清理临时文件。
	Put(key string, data []byte) error

	// Clear 无条件删除目录下全部缓存条目。
	Clear() error
}

// Entry 表示一次缓存读取结果。ModTime 是判断新鲜度的唯一依据。
type Entry struct {
	Key     string
	Data    []byte
	ModTime time.Time
}

// ErrNotFound 表示缓存不存在。
var ErrNotFound = errors.New("cache entry not found")
