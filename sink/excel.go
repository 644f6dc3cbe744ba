package sink

import (
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"

	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
)

// DefaultSheetName 默认操作表
const DefaultSheetName = "Sheet1"

var _ sink.Sink = (*Excel)(nil)

type ExcelOption func(e *Excel)

// WithSheetName 设置操作表名
func WithSheetName(name string) ExcelOption {
	return func(e *Excel) {
		if name != "" {
			e.sheet = name
		}
	}
}

// Excel 基于excelize流式写入器的sink
// 流式写入按行提交，这里缓冲当前行的单元格，行号前进时整行冲刷
// 数据会分片落到临时文件，内存占用与总行数无关，产物支持超过4GB
type Excel struct {
	path      string
	sheet     string
	fp        *excelize.File
	sw        *excelize.StreamWriter
	cur       int             //当前缓冲行，-1表示尚未写入
	cells     []excelize.Cell //当前行缓冲
	heights   map[int]float64 //待应用的显式行高
	finalized bool
}

// NewExcel 创建excel sink，path为最终落盘路径，Finalize前不产生文件
func NewExcel(path string, opts ...ExcelOption) (*Excel, error) {
	e := &Excel{
		path:    path,
		sheet:   DefaultSheetName,
		cur:     -1,
		heights: make(map[int]float64),
	}
	for i := range opts {
		opts[i](e)
	}
	e.fp = excelize.NewFile()
	if e.sheet != DefaultSheetName {
		if _, err := e.fp.NewSheet(e.sheet); err != nil {
			_ = e.fp.Close()
			return nil, err
		}
	}
	sw, err := e.fp.NewStreamWriter(e.sheet)
	if err != nil {
		_ = e.fp.Close()
		return nil, err
	}
	e.sw = sw
	return e, nil
}

// Path 最终落盘路径
func (e *Excel) Path() string {
	return e.path
}

func (e *Excel) NewStyle(spec *sink.StyleSpec) (sink.Style, error) {
	st := &excelize.Style{
		Font: &excelize.Font{
			Family: spec.FontName,
			Size:   spec.FontSize,
			Bold:   spec.Bold,
			Color:  strings.TrimPrefix(spec.FontColor, "#"),
		},
	}
	if spec.Border {
		st.Border = []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		}
	}
	if spec.FillColor != "" {
		st.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(spec.FillColor, "#")},
		}
	}
	if spec.HAlign != "" || spec.VAlign != "" || spec.WrapText {
		st.Alignment = &excelize.Alignment{
			Horizontal: spec.HAlign,
			Vertical:   spec.VAlign,
			WrapText:   spec.WrapText,
		}
	}
	if spec.NumFormat != "" {
		st.CustomNumFmt = &spec.NumFormat
	}
	id, err := e.fp.NewStyle(st)
	if err != nil {
		return sink.StyleNone, err
	}
	return sink.Style(id), nil
}

func (e *Excel) WriteCell(row, col int, value any, style sink.Style) error {
	if e.finalized {
		return errs.New("sink already finalized")
	}
	if row < e.cur {
		return errs.New("row %d already flushed, rows must be written in non-decreasing order", row)
	}
	if row > e.cur {
		if err := e.flushRow(); err != nil {
			return err
		}
		e.cur = row
	}
	for len(e.cells) <= col {
		e.cells = append(e.cells, excelize.Cell{})
	}
	cell := excelize.Cell{Value: scrub(value)}
	if style != sink.StyleNone {
		cell.StyleID = int(style)
	}
	e.cells[col] = cell
	return nil
}

func (e *Excel) SetRowHeight(row int, height float64) error {
	if e.finalized {
		return errs.New("sink already finalized")
	}
	if row < e.cur {
		return errs.New("row %d already flushed", row)
	}
	e.heights[row] = height
	return nil
}

func (e *Excel) Finalize() error {
	if e.finalized {
		return nil
	}
	if err := e.flushRow(); err != nil {
		return err
	}
	if err := e.sw.Flush(); err != nil {
		return err
	}
	if err := e.fp.SaveAs(e.path); err != nil {
		return err
	}
	e.finalized = true
	return nil
}

func (e *Excel) Close() error {
	return e.fp.Close()
}

func (e *Excel) flushRow() error {
	if e.cur < 0 || len(e.cells) == 0 {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(1, e.cur+1)
	if err != nil {
		return err
	}
	row := make([]any, len(e.cells))
	for i := range e.cells {
		row[i] = e.cells[i]
	}
	var opts []excelize.RowOpts
	if h, ok := e.heights[e.cur]; ok {
		opts = append(opts, excelize.RowOpts{Height: h})
		delete(e.heights, e.cur)
	}
	if err = e.sw.SetRow(ref, row, opts...); err != nil {
		return err
	}
	e.cells = e.cells[:0]
	return nil
}

// scrub NaN/Inf写成空单元格而不是报错
func scrub(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}
