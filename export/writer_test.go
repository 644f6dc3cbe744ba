package export

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
	cursors "github.com/yhassan-git-real/DBExportHub/cursor"
	"github.com/yhassan-git-real/DBExportHub/tracker"
)

type cellKey struct {
	row, col int
}

type cellRec struct {
	value any
	style sink.Style
}

// fakeSink 记录所有写入，便于断言
type fakeSink struct {
	styles    []*sink.StyleSpec
	cells     map[cellKey]cellRec
	heights   map[int]float64
	dataRows  int //已写完整行数（不含表头）
	maxRow    int
	writeErr  error
	failAtRow int //该行写入时报错，0表示不报错
	finalized bool
	closed    bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		cells:   make(map[cellKey]cellRec),
		heights: make(map[int]float64),
	}
}

func (f *fakeSink) NewStyle(spec *sink.StyleSpec) (sink.Style, error) {
	f.styles = append(f.styles, spec)
	return sink.Style(len(f.styles) - 1), nil
}

func (f *fakeSink) WriteCell(row, col int, value any, style sink.Style) error {
	if f.failAtRow > 0 && row >= f.failAtRow {
		if f.writeErr == nil {
			f.writeErr = errors.New("disk full")
		}
		return f.writeErr
	}
	if row > f.maxRow {
		f.maxRow = row
		f.dataRows = row //行号单调前进，行n开写说明前n-1个数据行已写完
	}
	f.cells[cellKey{row, col}] = cellRec{value: value, style: style}
	return nil
}

func (f *fakeSink) SetRowHeight(row int, height float64) error {
	f.heights[row] = height
	return nil
}

func (f *fakeSink) Finalize() error {
	f.finalized = true
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

// isDateStyle 样式句柄是否是带日期格式的样式
func (f *fakeSink) isDateStyle(s sink.Style) bool {
	return f.styles[int(s)].NumFormat != ""
}

func makeRows(n int) []cursor.Row {
	rows := make([]cursor.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = cursor.Row{fmt.Sprintf("85011%d", i%10), float64(i), time.Date(2023, 1, 1+i%28, 0, 0, 0, 0, time.UTC)}
	}
	return rows
}

var testColumns = []string{"HS_Code", "FOB_USD", "SB_Date"}

func TestWriterRun(t *testing.T) {
	snk := newFakeSink()
	cur := cursors.NewSliceCursor(makeRows(25))
	w := NewWriter(nil, WithBatchSize(10))

	total, err := w.Run(context.Background(), cur, snk, testColumns, "op-1", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	//表头在第0行且只写一次
	for i, name := range testColumns {
		rec, ok := snk.cells[cellKey{0, i}]
		require.True(t, ok)
		assert.Equal(t, name, rec.value)
	}
	assert.Equal(t, DefaultHeaderHeight, snk.heights[0])

	//数据行从第1行开始
	rec, ok := snk.cells[cellKey{1, 0}]
	require.True(t, ok)
	assert.Equal(t, "850110", rec.value)
	assert.Equal(t, 25, snk.maxRow)
}

func TestWriterRunEmptyCursor(t *testing.T) {
	snk := newFakeSink()
	cur := cursors.NewSliceCursor(nil)
	w := NewWriter(nil)

	total, err := w.Run(context.Background(), cur, snk, testColumns, "op-1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	//空结果集仍要有表头
	_, ok := snk.cells[cellKey{0, 0}]
	assert.True(t, ok)
}

func TestWriterRunEmptyColumns(t *testing.T) {
	w := NewWriter(nil)
	_, err := w.Run(context.Background(), cursors.NewSliceCursor(nil), newFakeSink(), nil, "op-1", 0)
	require.Error(t, err)
	assert.True(t, ErrInvalidArgument.Has(err))
}

func TestWriterDateColumnStyles(t *testing.T) {
	snk := newFakeSink()
	rows := []cursor.Row{
		{"850110", 12.5, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"850120", 7.25, nil}, //日期列空值按普通数据写
	}
	w := NewWriter(nil)
	_, err := w.Run(context.Background(), cursors.NewSliceCursor(rows), snk, testColumns, "op-1", 2)
	require.NoError(t, err)

	//日期列用日期样式，其余列绝不用日期样式
	assert.True(t, snk.isDateStyle(snk.cells[cellKey{1, 2}].style))
	assert.False(t, snk.isDateStyle(snk.cells[cellKey{1, 0}].style))
	assert.False(t, snk.isDateStyle(snk.cells[cellKey{1, 1}].style))
	assert.False(t, snk.isDateStyle(snk.cells[cellKey{2, 2}].style))
}

func TestWriterRowHeightStride(t *testing.T) {
	snk := newFakeSink()
	w := NewWriter(nil, WithBatchSize(50))
	_, err := w.Run(context.Background(), cursors.NewSliceCursor(makeRows(25)), snk, testColumns, "op-1", 25)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataRowHeight, snk.heights[10])
	assert.Equal(t, DefaultDataRowHeight, snk.heights[20])
	_, ok := snk.heights[15]
	assert.False(t, ok)
}

func TestWriterCancelledBeforeFirstBatch(t *testing.T) {
	tr := tracker.NewMemory()
	ctx := context.Background()
	require.NoError(t, tr.Start(ctx, "op-1"))
	require.NoError(t, tr.Cancel(ctx, "op-1"))

	snk := newFakeSink()
	w := NewWriter(tr)
	total, err := w.Run(ctx, cursors.NewSliceCursor(makeRows(10)), snk, testColumns, "op-1", 10)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int64(0), total)
}

// progressTracker 写满cancelAt个数据行后报告取消，模拟外部并发取消
type progressTracker struct {
	snk      *fakeSink
	cancelAt int
}

func (p *progressTracker) Start(ctx context.Context, id string) error  { return nil }
func (p *progressTracker) Cancel(ctx context.Context, id string) error { return nil }
func (p *progressTracker) Finish(ctx context.Context, id string) error { return nil }
func (p *progressTracker) IsCancelled(ctx context.Context, id string) bool {
	return p.snk.dataRows >= p.cancelAt
}

func TestWriterCancelledMidStream(t *testing.T) {
	snk := newFakeSink()
	tr := &progressTracker{snk: snk, cancelAt: 12000}
	cur := cursors.NewSliceCursor(makeRows(25000))
	w := NewWriter(tr, WithBatchSize(5000), WithCancelCheckRows(1000))

	total, err := w.Run(context.Background(), cur, snk, testColumns, "op-1", 25000)
	require.ErrorIs(t, err, ErrCancelled)
	//轮询间隔1000行，取消生效点在12000到12999之间
	assert.GreaterOrEqual(t, total, int64(12000))
	assert.LessOrEqual(t, total, int64(12999))
	//返回的进度不能多于实际写入
	assert.LessOrEqual(t, total, int64(snk.maxRow))
}

func TestWriterContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(nil)
	total, err := w.Run(ctx, cursors.NewSliceCursor(makeRows(10)), newFakeSink(), testColumns, "op-1", 10)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int64(0), total)
}

type failingCursor struct{}

func (failingCursor) FetchBatch(ctx context.Context, n int) ([]cursor.Row, error) {
	return nil, errors.New("connection reset")
}

func TestWriterSourceReadError(t *testing.T) {
	w := NewWriter(nil)
	total, err := w.Run(context.Background(), failingCursor{}, newFakeSink(), testColumns, "op-1", -1)
	require.Error(t, err)
	assert.True(t, ErrSourceRead.Has(err))
	assert.False(t, ErrSinkWrite.Has(err))
	assert.NotErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int64(0), total)
}

func TestWriterSinkWriteError(t *testing.T) {
	snk := newFakeSink()
	snk.failAtRow = 6
	w := NewWriter(nil, WithBatchSize(10))
	total, err := w.Run(context.Background(), cursors.NewSliceCursor(makeRows(10)), snk, testColumns, "op-1", 10)
	require.Error(t, err)
	assert.True(t, ErrSinkWrite.Has(err))
	assert.False(t, ErrSourceRead.Has(err))
	assert.Equal(t, int64(5), total)
}

func TestWriterMaxRows(t *testing.T) {
	w := NewWriter(nil, WithBatchSize(10), WithMaxRows(15))
	_, err := w.Run(context.Background(), cursors.NewSliceCursor(makeRows(100)), newFakeSink(), testColumns, "op-1", 100)
	require.ErrorIs(t, err, ErrMaximumLimit)
}
