package cursor

import (
	"context"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
)

// FlowQueryFn 瀑布流查询函数，按上一条记录续查，结果必须按主键有序
type FlowQueryFn[T any] func(ctx context.Context, last T, limit int) ([]T, error)

var _ cursor.Cursor = (*FlowCursor[any])(nil)

// FlowCursor 瀑布流式游标，深分页时比offset/limit稳定
type FlowCursor[T any] struct {
	queryFn FlowQueryFn[T]
	mapper  RowMapper[T]
	last    T
	done    bool
}

func NewFlowCursor[T any](queryFn FlowQueryFn[T], mapper RowMapper[T]) *FlowCursor[T] {
	return &FlowCursor[T]{
		queryFn: queryFn,
		mapper:  mapper,
	}
}

func (c *FlowCursor[T]) FetchBatch(ctx context.Context, n int) ([]cursor.Row, error) {
	if c.done || n <= 0 {
		return nil, nil
	}
	list, err := c.queryFn(ctx, c.last, n)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		c.done = true
		return nil, nil
	}
	c.last = list[len(list)-1]
	rows := make([]cursor.Row, len(list))
	for i := range list {
		rows[i] = c.mapper(list[i])
	}
	return rows, nil
}
