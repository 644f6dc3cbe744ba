package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
	sinkc "github.com/yhassan-git-real/DBExportHub/contracts/sink"
	"github.com/yhassan-git-real/DBExportHub/contracts/storage"
	"github.com/yhassan-git-real/DBExportHub/sink"
)

// ExcelSuffix CsvSuffix 导出文件后缀
const ExcelSuffix = "xlsx"
const CsvSuffix = "csv"

// Exporter 一次导出的编排：生成文件名、构建sink、驱动写入器、落盘或外发
// 一个Exporter只能执行一次导出，游标为只进消费
type Exporter struct {
	columns []string
	cur     cursor.Cursor
	writer  *Writer
	opts    *options
	newSink func(path string) (sinkc.Sink, error)
	suffix  string
}

// NewExcelExporter 导出为excel
func NewExcelExporter(columns []string, cur cursor.Cursor, opts ...Option) *Exporter {
	e := newExporter(columns, cur, opts...)
	e.suffix = ExcelSuffix
	e.newSink = func(path string) (sinkc.Sink, error) {
		return sink.NewExcel(path)
	}
	return e
}

// NewCsvExporter 导出为csv
func NewCsvExporter(columns []string, cur cursor.Cursor, opts ...Option) *Exporter {
	e := newExporter(columns, cur, opts...)
	e.suffix = CsvSuffix
	e.newSink = func(path string) (sinkc.Sink, error) {
		return sink.NewCsv(path)
	}
	return e
}

func newExporter(columns []string, cur cursor.Cursor, opts ...Option) *Exporter {
	o := newOptions(opts...)
	return &Exporter{
		columns: columns,
		cur:     cur,
		opts:    o,
		writer: &Writer{
			opts:    o,
			tracker: o.tracker,
			logger:  o.logger,
		},
	}
}

// Filename 本次导出的文件名，未显式指定时根据查询条件生成
func (e *Exporter) Filename() (string, error) {
	name := e.opts.filename
	if name == "" {
		var err error
		name, err = ComposeFilename(e.opts.filters, e.opts.fallbackRow)
		if err != nil {
			return "", err
		}
	}
	if e.suffix == CsvSuffix {
		name = strings.TrimSuffix(name, ".xlsx")
	}
	if filepath.Ext(name) == "" {
		name += "." + e.suffix
	}
	return name, nil
}

// Save 导出到临时目录，返回本地文件路径和数据行数
func (e *Exporter) Save(ctx context.Context) (string, int64, error) {
	name, err := e.Filename()
	if err != nil {
		return "", 0, err
	}
	path := filepath.Join(e.opts.tmpDir, name)
	rows, err := e.exportToFile(ctx, path)
	if err != nil {
		return "", rows, err
	}
	return path, rows, nil
}

// ExportTo 导出到io.Writer，返回数据行数
func (e *Exporter) ExportTo(ctx context.Context, w io.Writer) (int64, error) {
	name, err := e.Filename()
	if err != nil {
		return 0, err
	}
	path := tempPath(e.opts.tmpDir, name)
	rows, err := e.exportToFile(ctx, path)
	if err != nil {
		return rows, err
	}
	defer func() {
		_ = os.Remove(path)
	}()
	f, err := os.Open(path)
	if err != nil {
		return rows, ErrSinkWrite.Wrap(err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err = io.Copy(w, f); err != nil {
		return rows, ErrSinkWrite.Wrap(err)
	}
	return rows, nil
}

// ExportToStorage 导出到文件存储，返回下载地址和数据行数
func (e *Exporter) ExportToStorage(ctx context.Context, fs storage.FileStorage) (string, int64, error) {
	name, err := e.Filename()
	if err != nil {
		return "", 0, err
	}
	path := tempPath(e.opts.tmpDir, name)
	rows, err := e.exportToFile(ctx, path)
	if err != nil {
		return "", rows, err
	}
	defer func() {
		_ = os.Remove(path)
	}()
	f, err := os.Open(path)
	if err != nil {
		return "", rows, ErrSinkWrite.Wrap(err)
	}
	defer func() {
		_ = f.Close()
	}()
	if err = fs.PutStream(ctx, name, f); err != nil {
		return "", rows, ErrSinkWrite.Wrap(err)
	}
	return fs.Url(name), rows, nil
}

// exportToFile 执行导出，任何非正常结束都不保留部分产物
func (e *Exporter) exportToFile(ctx context.Context, path string) (int64, error) {
	snk, err := e.newSink(path)
	if err != nil {
		return 0, ErrSinkWrite.Wrap(err)
	}
	rows, err := e.writer.Run(ctx, e.cur, snk, e.columns, e.opts.operationID, e.opts.expectedTotal)
	if err != nil {
		_ = snk.Close()
		_ = os.Remove(path)
		return rows, err
	}
	if err = snk.Finalize(); err != nil {
		_ = snk.Close()
		_ = os.Remove(path)
		return rows, ErrSinkWrite.Wrap(err)
	}
	if err = snk.Close(); err != nil {
		return rows, ErrSinkWrite.Wrap(err)
	}
	e.opts.logger.Info("export completed",
		zap.String("operation_id", e.opts.operationID),
		zap.Int64("rows_written", rows),
		zap.String("file", path))
	return rows, nil
}

// ToExcelFile 导出excel到本地文件的快捷方法
func ToExcelFile(ctx context.Context, columns []string, cur cursor.Cursor, opts ...Option) (string, int64, error) {
	return NewExcelExporter(columns, cur, opts...).Save(ctx)
}

// ToExcelStream 导出excel到io.Writer的快捷方法
func ToExcelStream(ctx context.Context, columns []string, cur cursor.Cursor, w io.Writer, opts ...Option) (int64, error) {
	return NewExcelExporter(columns, cur, opts...).ExportTo(ctx, w)
}

// ToExcelStorage 导出excel到文件存储的快捷方法
func ToExcelStorage(ctx context.Context, columns []string, cur cursor.Cursor, fs storage.FileStorage, opts ...Option) (string, int64, error) {
	return NewExcelExporter(columns, cur, opts...).ExportToStorage(ctx, fs)
}

// ToCsvFile 导出csv到本地文件的快捷方法
func ToCsvFile(ctx context.Context, columns []string, cur cursor.Cursor, opts ...Option) (string, int64, error) {
	return NewCsvExporter(columns, cur, opts...).Save(ctx)
}

// ToCsvStream 导出csv到io.Writer的快捷方法
func ToCsvStream(ctx context.Context, columns []string, cur cursor.Cursor, w io.Writer, opts ...Option) (int64, error) {
	return NewCsvExporter(columns, cur, opts...).ExportTo(ctx, w)
}

// tempPath 生成带时间和随机数的临时文件路径，避免并发导出互相覆盖
func tempPath(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d_%s",
		time.Now().Format("20060102_150405"),
		randInt(1000, 9999),
		name))
}

func randInt(min, max int) int {
	return rand.Intn(max-min) + min
}
