package cursor

import (
	"context"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
)

var _ cursor.Cursor = (*SliceCursor)(nil)

// SliceCursor 数组数据游标，适合测试和小数据集
type SliceCursor struct {
	index int
	data  []cursor.Row
}

func NewSliceCursor(data []cursor.Row) *SliceCursor {
	return &SliceCursor{data: data}
}

func (c *SliceCursor) FetchBatch(ctx context.Context, n int) ([]cursor.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.index >= len(c.data) || n <= 0 {
		return nil, nil
	}
	end := c.index + n
	if end > len(c.data) {
		end = len(c.data)
	}
	batch := c.data[c.index:end]
	c.index = end
	return batch, nil
}
