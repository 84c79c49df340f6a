package cache

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compress 将页面字节 gzip 压缩。失败时由调用方退回原始字节，
// 存储格式不自描述：读取侧按对称的回退策略处理。
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress 还原 gzip 字节。对非 gzip 内容返回错误，
// 调用方据此把存储字节当作未压缩内容使用。
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
