package export

import (
	"os"

	"go.uber.org/zap"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
	"github.com/yhassan-git-real/DBExportHub/contracts/tracker"
)

// DefaultBatchSize 单批次拉取数据量
const DefaultBatchSize = 5000

// DefaultCancelCheckRows 每写入多少行轮询一次取消状态
const DefaultCancelCheckRows = 1000

// DefaultRowHeightStride 每多少行显式设置一次行高
const DefaultRowHeightStride = 10

// DefaultHeaderHeight DefaultDataRowHeight 表头与数据行高
const DefaultHeaderHeight = 20.0
const DefaultDataRowHeight = 15.0

type Option func(opt *options)

// WithBatchSize 设置单批次拉取数据量
func WithBatchSize(n int) Option {
	return func(opt *options) {
		if n > 0 {
			opt.batchSize = n
		}
	}
}

// WithCancelCheckRows 设置取消状态轮询的行数间隔
func WithCancelCheckRows(n int) Option {
	return func(opt *options) {
		if n > 0 {
			opt.cancelCheckRows = n
		}
	}
}

// WithRowHeightStride 设置显式行高的行数间隔
func WithRowHeightStride(n int) Option {
	return func(opt *options) {
		if n > 0 {
			opt.heightStride = n
		}
	}
}

// WithHeaderHeight 设置表头行高
func WithHeaderHeight(h float64) Option {
	return func(opt *options) {
		if h > 0 {
			opt.headerHeight = h
		}
	}
}

// WithDataRowHeight 设置数据行高
func WithDataRowHeight(h float64) Option {
	return func(opt *options) {
		if h > 0 {
			opt.dataRowHeight = h
		}
	}
}

// WithMaxRows 最大导出行数，超过会报 ErrMaximumLimit，0为不限制
func WithMaxRows(n int64) Option {
	return func(opt *options) {
		if n >= 0 {
			opt.maxRows = n
		}
	}
}

// WithFilename 直接指定导出文件名，不再根据查询条件生成
func WithFilename(filename string) Option {
	return func(opt *options) {
		opt.filename = filename
	}
}

// WithTempDir 设置导出临时目录
func WithTempDir(dir string) Option {
	return func(opt *options) {
		if dir != "" {
			opt.tmpDir = dir
		}
	}
}

// WithDateFormat 设置日期列呈现格式
func WithDateFormat(format string) Option {
	return func(opt *options) {
		if format != "" {
			opt.dateFormat = format
		}
	}
}

// WithDateColumns 设置日期列下标，默认只有下标2
func WithDateColumns(cols ...int) Option {
	return func(opt *options) {
		opt.dateColumns = cols
	}
}

// WithFilters 设置查询条件，用于生成文件名
func WithFilters(f FilterSet) Option {
	return func(opt *options) {
		opt.filters = f
	}
}

// WithFallbackRow 设置结果集首行，条件全为空时用其首列命名
func WithFallbackRow(row cursor.Row) Option {
	return func(opt *options) {
		opt.fallbackRow = row
	}
}

// WithTracker 设置取消状态存储及本次导出的操作id
func WithTracker(t tracker.Tracker, operationID string) Option {
	return func(opt *options) {
		opt.tracker = t
		opt.operationID = operationID
	}
}

// WithExpectedTotal 设置预期总行数，仅用于日志观测
func WithExpectedTotal(n int64) Option {
	return func(opt *options) {
		if n >= 0 {
			opt.expectedTotal = n
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		if logger != nil {
			opt.logger = logger
		}
	}
}

type options struct {
	batchSize       int
	cancelCheckRows int
	heightStride    int
	headerHeight    float64
	dataRowHeight   float64
	maxRows         int64
	filename        string
	tmpDir          string
	dateFormat      string
	dateColumns     []int
	filters         FilterSet
	fallbackRow     cursor.Row
	tracker         tracker.Tracker
	operationID     string
	expectedTotal   int64
	logger          *zap.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		batchSize:       DefaultBatchSize,
		cancelCheckRows: DefaultCancelCheckRows,
		heightStride:    DefaultRowHeightStride,
		headerHeight:    DefaultHeaderHeight,
		dataRowHeight:   DefaultDataRowHeight,
		maxRows:         0,
		tmpDir:          os.TempDir(),
		dateFormat:      DefaultDateFormat,
		expectedTotal:   -1,
		logger:          zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}
