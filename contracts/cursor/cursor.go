package cursor

import "context"

// Row 一行数据，列值为混合基础类型（文本、数值、日期、nil）
type Row []any

// Cursor 只进游标，按批次拉取数据
type Cursor interface {
	// FetchBatch 拉取下一批数据，最多n条；返回空批次表示数据已取完
	FetchBatch(ctx context.Context, n int) ([]Row, error)
}
