package render

import (
	"fmt"
	"strings"
	"time"
)

// FooterFormat 是整页输出末行诊断注释的格式，参数为生成耗时（毫秒）
// 与 yyyy/MM/dd HH:mm:ss 时间戳。格式由渲染层持有，缓存命中时按同一
// 格式重写末行，使缓存输出与现场渲染不可区分。
const FooterFormat = "<!-- generated by static-hub in %dms, %s -->"

const footerTimeLayout = "2006/01/02 15:04:05"

// Renderer 代表页面渲染管线。真实部署中这里是模板引擎与数据查询，
// 缓存层只依赖两点：返回整页字节，且最后一行符合 FooterFormat。
type Renderer struct {
	siteName string
	now      func() time.Time
}

// New 构造渲染器，siteName 出现在页面标题里。
func New(siteName string) *Renderer {
	return &Renderer{siteName: siteName, now: time.Now}
}

// Render 生成指定路径的整页 HTML，按设备类型输出不同变体。
func (r *Renderer) Render(path string, mobile bool) []byte {
	started := r.now()

	variant := "desktop"
	if mobile {
		variant = "mobile"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n")
	fmt.Fprintf(&b, "<head><title>%s</title><meta name=\"variant\" content=\"%s\"></head>\n", r.siteName, variant)
	b.WriteString("<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", r.siteName)
	fmt.Fprintf(&b, "<main data-path=%q>%s</main>\n", path, pageBody(path))
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	elapsed := r.now().Sub(started).Milliseconds()
	stamp := r.now().Format(footerTimeLayout)
	fmt.Fprintf(&b, FooterFormat, elapsed, stamp)

	return []byte(b.String())
}

func pageBody(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "index"
	}
	return strings.ReplaceAll(trimmed, "/", " / ")
}
