package cursor

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
)

// RowMapper 把查询结果模型转成有序行
type RowMapper[T any] func(v T) cursor.Row

var _ cursor.Cursor = (*GormCursor[any])(nil)

type GormCursorOption[T any] func(c *GormCursor[T])

// WithGormCursorQueryTimeout 单次查询超时控制
func WithGormCursorQueryTimeout[T any](t time.Duration) GormCursorOption[T] {
	return func(c *GormCursor[T]) {
		if t > 0 {
			c.queryTimeout = t
		}
	}
}

// WithGormCursorFindMode 使用Find查询，默认Scan
func WithGormCursorFindMode[T any](findMode bool) GormCursorOption[T] {
	return func(c *GormCursor[T]) {
		c.findMode = findMode
	}
}

// GormCursor offset/limit分页的gorm游标，注意 T 不能是指针
// 查询出错会向上抛，不会吞成数据取完
type GormCursor[T any] struct {
	tx           *gorm.DB
	mapper       RowMapper[T]
	offset       int
	findMode     bool
	queryTimeout time.Duration
	done         bool
}

func NewGormCursor[T any](tx *gorm.DB, mapper RowMapper[T], opts ...GormCursorOption[T]) *GormCursor[T] {
	c := &GormCursor[T]{
		tx:           tx,
		mapper:       mapper,
		queryTimeout: time.Second * 30,
	}
	for i := range opts {
		opts[i](c)
	}
	return c
}

func (c *GormCursor[T]) FetchBatch(ctx context.Context, n int) ([]cursor.Row, error) {
	if c.done || n <= 0 {
		return nil, nil
	}
	qctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()
	res := make([]T, 0, n)
	var err error
	if c.findMode {
		err = c.tx.WithContext(qctx).Offset(c.offset).Limit(n).Find(&res).Error
	} else {
		err = c.tx.WithContext(qctx).Offset(c.offset).Limit(n).Scan(&res).Error
	}
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		c.done = true
		return nil, nil
	}
	//短批次说明已到结尾，省一次空查询
	if len(res) < n {
		c.done = true
	}
	c.offset += len(res)
	rows := make([]cursor.Row, len(res))
	for i := range res {
		rows[i] = c.mapper(res[i])
	}
	return rows, nil
}

var _ cursor.Cursor = (*SQLCursor)(nil)

// SQLCursor 原生SELECT语句的只进游标，首次取数打开结果集后逐批扫描
// 原生SQL上gorm不处理Offset/Limit，持有*sql.Rows才能保证每批最多n行且只扫一遍
// fields决定输出列顺序，对不上SELECT列名的字段取nil
type SQLCursor struct {
	tx     *gorm.DB
	query  string
	args   []any
	fields []string
	rows   *sql.Rows
	idx    []int
	ncols  int
	done   bool
}

// NewSQLCursor 原生SELECT语句游标，args为SQL占位符参数
func NewSQLCursor(db *gorm.DB, selectSQL string, fields []string, args ...any) *SQLCursor {
	return &SQLCursor{
		tx:     db,
		query:  selectSQL,
		args:   args,
		fields: fields,
	}
}

func (c *SQLCursor) FetchBatch(ctx context.Context, n int) ([]cursor.Row, error) {
	if c.done || n <= 0 {
		return nil, nil
	}
	if c.rows == nil {
		if err := c.open(ctx); err != nil {
			return nil, err
		}
	}
	out := make([]cursor.Row, 0, n)
	for len(out) < n && c.rows.Next() {
		vals := make([]any, c.ncols)
		ptrs := make([]any, c.ncols)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := c.rows.Scan(ptrs...); err != nil {
			_ = c.Close()
			return nil, err
		}
		row := make(cursor.Row, len(c.fields))
		for i, j := range c.idx {
			if j >= 0 {
				row[i] = vals[j]
			}
		}
		out = append(out, row)
	}
	//短批次说明结果集已取完，顺手释放
	if len(out) < n {
		err := c.rows.Err()
		if cerr := c.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Close 释放底层结果集，中途放弃消费时调用，取完会自动释放
func (c *SQLCursor) Close() error {
	c.done = true
	if c.rows == nil {
		return nil
	}
	rows := c.rows
	c.rows = nil
	return rows.Close()
}

func (c *SQLCursor) open(ctx context.Context) error {
	rows, err := c.tx.WithContext(ctx).Raw(c.query, c.args...).Rows()
	if err != nil {
		return err
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return err
	}
	pos := make(map[string]int, len(cols))
	for i, col := range cols {
		pos[col] = i
	}
	c.idx = make([]int, len(c.fields))
	for i, f := range c.fields {
		if j, ok := pos[f]; ok {
			c.idx[i] = j
		} else {
			c.idx[i] = -1
		}
	}
	c.ncols = len(cols)
	c.rows = rows
	return nil
}

// MapFields 按字段顺序把map结果转成有序行
func MapFields(fields []string) RowMapper[map[string]any] {
	return func(m map[string]any) cursor.Row {
		row := make(cursor.Row, len(fields))
		for i, f := range fields {
			row[i] = m[f]
		}
		return row
	}
}
