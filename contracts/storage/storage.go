package storage

import (
	"context"
	"io"
)

// FileStorage 导出产物持久化存储
type FileStorage interface {
	// PutStream 流式写入文件
	PutStream(ctx context.Context, file string, rs io.Reader) error
	// GetStream 流式读取文件
	GetStream(ctx context.Context, file string) (io.ReadCloser, error)
	// Exists 文件是否存在
	Exists(ctx context.Context, file string) bool
	// Delete 删除文件
	Delete(ctx context.Context, file ...string) error
	// Size 文件大小
	Size(ctx context.Context, file string) (int64, error)
	// Path 文件完整路径
	Path(file string) string
	// Url 文件访问地址
	Url(file string) string
}
