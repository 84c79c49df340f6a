package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/logging"
	"github.com/static-hub/static-hub/internal/render"
)

// AppOptions controls how the Fiber application is assembled.
type AppOptions struct {
	Logger     *logrus.Logger
	Cache      *cache.PageCache
	Renderer   *render.Renderer
	ListenPort int
}

const (
	contextKeyRequestID = "_statichub_request_id"

	// sessionCookie 由认证子系统签发；这里只消费“是否存在”这一布尔信号。
	sessionCookie = "session"
)

// NewApp builds a Fiber application with request-ID middleware, the
// cache-or-render page handler and the admin cache-clear route.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("page cache is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())

	app.Post("/admin/cache/clear", clearHandler(opts))
	app.All("/*", pageHandler(opts))

	return app, nil
}

// requestContextMiddleware 负责为每个请求生成 ID 并写回响应头。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// pageHandler 先查缓存，命中直接回写；miss 时走渲染管线并把结果写入缓存。
// 缓存层对不可缓存请求自行做 no-op，handler 无需重复判断。
func pageHandler(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		req := cacheRequest(c)
		requestID := RequestID(c)

		if content, ok := opts.Cache.Get(req); ok {
			opts.Logger.WithFields(logging.PageFields(requestID, req.Method, req.Path, req.Mobile, true)).
				Info("page_served")
			c.Set("X-Static-Hub-Cache-Hit", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.SendString(content)
		}

		body := opts.Renderer.Render(req.Path, req.Mobile)
		opts.Cache.Put(req, body)

		opts.Logger.WithFields(logging.PageFields(requestID, req.Method, req.Path, req.Mobile, false)).
			Info("page_served")
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(body)
	}
}

// clearHandler 仅允许登录会话触发全量清空，对应后台的内容变更入口。
func clearHandler(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !isLoggedIn(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "login_required",
			})
		}

		opts.Cache.Clear()
		opts.Logger.WithFields(logrus.Fields{
			"action":     "cache_clear",
			"request_id": RequestID(c),
		}).Info("static cache cleared")

		return c.JSON(fiber.Map{"result": "ok"})
	}
}

// cacheRequest 把协作方信号（方法、路径、会话、设备）折叠为缓存请求。
func cacheRequest(c fiber.Ctx) cache.Request {
	return cache.Request{
		Method:   c.Method(),
		Path:     string(c.Request().URI().Path()),
		LoggedIn: isLoggedIn(c),
		Mobile:   isMobile(c),
	}
}

// isLoggedIn 以会话 cookie 是否存在近似登录态，签发与校验属于认证子系统。
func isLoggedIn(c fiber.Ctx) bool {
	return c.Cookies(sessionCookie) != ""
}

// isMobile 依据 User-Agent 做粗粒度设备分类。
func isMobile(c fiber.Ctx) bool {
	ua := strings.ToLower(c.Get(fiber.HeaderUserAgent))
	return strings.Contains(ua, "mobile") || strings.Contains(ua, "android")
}

// RequestID returns the ID assigned by the request middleware, if any.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
