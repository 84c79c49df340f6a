package cache

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// 命中时伪装的生成耗时范围，毫秒，上界不含。
const (
	elapsedMin = 64
	elapsedMax = 128
)

// footerTimeLayout 对应脚注中的时间格式 yyyy/MM/dd HH:mm:ss。
const footerTimeLayout = "2006/01/02 15:04:05"

// RewriteFooter 把内容按换行拆分后，将最后一行替换为重新生成的诊断行，
// 使缓存命中输出与现场渲染在脚注上不可区分。该重写只发生在读取时，
// 落盘内容保持原脚注不变。format 由渲染层持有，这里只消费。
func RewriteFooter(content, format string, elapsedMs int64, stamp string) string {
	lines := strings.Split(content, "\n")
	lines[len(lines)-1] = fmt.Sprintf(format, elapsedMs, stamp)
	return strings.Join(lines, "\n")
}

// randomElapsed 返回 [64,128) 内的伪耗时，保证命中脚注非常量。
func randomElapsed() int64 {
	return elapsedMin + rand.Int64N(elapsedMax-elapsedMin)
}

func footerStamp(now time.Time) string {
	return now.Format(footerTimeLayout)
}
