package export

import (
	"context"

	"go.uber.org/zap"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
	"github.com/yhassan-git-real/DBExportHub/contracts/tracker"
)

// Writer 流式批量写入器
// 按批次拉取游标数据写入sink，内存占用与批次大小同阶，与总行数无关
type Writer struct {
	opts    *options
	tracker tracker.Tracker
	logger  *zap.Logger
}

// NewWriter 构造写入器，tracker可为nil，此时只响应ctx取消
func NewWriter(t tracker.Tracker, opts ...Option) *Writer {
	o := newOptions(opts...)
	if t == nil {
		t = o.tracker
	}
	return &Writer{
		opts:    o,
		tracker: t,
		logger:  o.logger,
	}
}

// Run 执行一次导出，返回已写入的数据行数
// 取消返回 ErrCancelled，读失败 ErrSourceRead，写失败 ErrSinkWrite，三者可区分
// 无论哪种结果，返回的行数都是实际已写入的数量
func (w *Writer) Run(ctx context.Context, cur cursor.Cursor, snk sink.Sink, columns []string, operationID string, expectedTotal int64) (int64, error) {
	if len(columns) == 0 {
		return 0, ErrInvalidArgument.New("columns is empty")
	}
	policy, err := NewFormatPolicy(snk, w.opts.dateFormat, w.opts.dateColumns...)
	if err != nil {
		return 0, ErrSinkWrite.Wrap(err)
	}

	//表头只写一次，行高独立于数据行
	for i, name := range columns {
		if err = snk.WriteCell(0, i, name, policy.HeaderStyle()); err != nil {
			return 0, ErrSinkWrite.Wrap(err)
		}
	}
	if err = snk.SetRowHeight(0, w.opts.headerHeight); err != nil {
		return 0, ErrSinkWrite.Wrap(err)
	}

	var total int64
	rowIdx := 1
	sinceCheck := 0
	for {
		//批次可能远大于轮询间隔，每批开始前必查一次
		if w.cancelled(ctx, operationID) {
			w.logCancelled(operationID, total, expectedTotal)
			return total, ErrCancelled
		}
		batch, err := cur.FetchBatch(ctx, w.opts.batchSize)
		if err != nil {
			return total, ErrSourceRead.Wrap(err)
		}
		if len(batch) == 0 {
			break
		}
		for _, row := range batch {
			//按行数而非时间轮询，兼顾吞吐与取消响应
			sinceCheck++
			if sinceCheck >= w.opts.cancelCheckRows {
				if w.cancelled(ctx, operationID) {
					w.logCancelled(operationID, total, expectedTotal)
					return total, ErrCancelled
				}
				sinceCheck = 0
			}
			//行高只周期性设置，sink每次显式行高都有记账开销
			if rowIdx%w.opts.heightStride == 0 {
				if err = snk.SetRowHeight(rowIdx, w.opts.dataRowHeight); err != nil {
					return total, ErrSinkWrite.Wrap(err)
				}
			}
			for col, v := range row {
				style, _ := policy.StyleFor(col, v)
				if err = snk.WriteCell(rowIdx, col, v, style); err != nil {
					return total, ErrSinkWrite.Wrap(err)
				}
			}
			rowIdx++
			total++
			if w.opts.maxRows > 0 && total > w.opts.maxRows {
				return total, ErrMaximumLimit
			}
		}
	}
	return total, nil
}

func (w *Writer) cancelled(ctx context.Context, operationID string) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	if w.tracker == nil {
		return false
	}
	return w.tracker.IsCancelled(ctx, operationID)
}

func (w *Writer) logCancelled(operationID string, written, expected int64) {
	w.logger.Info("export cancelled while writing",
		zap.String("operation_id", operationID),
		zap.Int64("rows_written", written),
		zap.Int64("expected_total", expected))
}
