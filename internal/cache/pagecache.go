package cache

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Request 汇总缓存决策所需的请求属性，由路由、会话与设备分类协作方填充。
type Request struct {
	Method   string
	Path     string
	LoggedIn bool
	Mobile   bool
}

// PageCache 是请求层看到的唯一入口：键派生、新鲜度判断、压缩与磁盘读写
// 都在这里编排。Store 与压缩层返回显式错误，PageCache 是唯一吸收这些
// 错误的地方——读降级为 miss，写降级为 no-op，并记录结构化日志。
type PageCache struct {
	store        Store
	ttl          time.Duration
	footerFormat string
	logger       *logrus.Logger
	now          func() time.Time
}

// New 构造页面缓存门面。store 为 nil 表示缓存目录初始化失败，
// 缓存对本进程永久禁用：Get 恒为 miss，Put/Clear 为 no-op。
func New(store Store, ttl time.Duration, footerFormat string, logger *logrus.Logger) *PageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PageCache{
		store:        store,
		ttl:          ttl,
		footerFormat: footerFormat,
		logger:       logger,
		now:          time.Now,
	}
}

// Enabled 返回缓存目录是否可用。
func (p *PageCache) Enabled() bool {
	return p.store != nil
}

// Get 返回可直接回写给客户端的页面内容；false 表示 miss。
// 不可缓存请求、条目缺失、条目过期以及任何内部错误都表现为 miss。
func (p *PageCache) Get(req Request) (string, bool) {
	if p.store == nil {
		return "", false
	}
	key, ok := DeriveKey(req.Method, req.Path, req.LoggedIn, req.Mobile)
	if !ok {
		return "", false
	}

	entry, err := p.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.WithError(err).WithField("key", key).Warn("cache_get_failed")
		}
		return "", false
	}

	now := p.now()
	if Stale(entry.ModTime, now, p.ttl) {
		return "", false
	}

	raw, err := Decompress(entry.Data)
	if err != nil {
		// 写入侧压缩失败时落的是原始字节，按原样使用。
		raw = entry.Data
	}

	return RewriteFooter(string(raw), p.footerFormat, randomElapsed(), footerStamp(now)), true
}

// Put 将渲染结果写入缓存。不可缓存请求直接跳过；同一 key 在 TTL 内
// 已有新鲜条目时丢弃本次写入，保持其 ModTime 不变。写失败只记录日志。
func (p *PageCache) Put(req Request, body []byte) {
	if p.store == nil {
		return
	}
	key, ok := DeriveKey(req.Method, req.Path, req.LoggedIn, req.Mobile)
	if !ok {
		return
	}

	if modTime, err := p.store.Stat(key); err == nil {
		if !Stale(modTime, p.now(), p.ttl) {
			return
		}
	}

	data, err := Compress(body)
	if err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("cache_compress_failed")
		data = body
	}

	if err := p.store.Put(key, data); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("cache_put_failed")
	}
}

// Clear 无条件删除全部缓存条目，失败只记录日志。
func (p *PageCache) Clear() {
	if p.store == nil {
		return
	}
	if err := p.store.Clear(); err != nil {
		p.logger.WithError(err).Warn("cache_clear_failed")
	}
}
