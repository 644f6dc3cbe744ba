package sink

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/spf13/cast"
	"github.com/zeebo/errs"

	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
)

// csvDateLayout 日期列的csv呈现，对应excel的 dd-mmm-yy
const csvDateLayout = "02-Jan-06"

var _ sink.Sink = (*Csv)(nil)

// Csv csv形态的sink，样式只保留日期呈现语义，行高为空操作
type Csv struct {
	path      string
	f         *os.File
	w         *csv.Writer
	dateStyle map[sink.Style]bool
	nextStyle int
	cur       int
	record    []string
	finalized bool
}

func NewCsv(path string) (*Csv, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Csv{
		path:      path,
		f:         f,
		w:         csv.NewWriter(f),
		dateStyle: make(map[sink.Style]bool),
		cur:       -1,
	}, nil
}

// Path 落盘路径
func (c *Csv) Path() string {
	return c.path
}

// NewStyle csv没有样式，只记住哪些句柄代表日期呈现
func (c *Csv) NewStyle(spec *sink.StyleSpec) (sink.Style, error) {
	id := sink.Style(c.nextStyle)
	c.nextStyle++
	if spec.NumFormat != "" {
		c.dateStyle[id] = true
	}
	return id, nil
}

func (c *Csv) WriteCell(row, col int, value any, style sink.Style) error {
	if c.finalized {
		return errs.New("sink already finalized")
	}
	if row < c.cur {
		return errs.New("row %d already flushed, rows must be written in non-decreasing order", row)
	}
	if row > c.cur {
		if err := c.flushRecord(); err != nil {
			return err
		}
		c.cur = row
	}
	for len(c.record) <= col {
		c.record = append(c.record, "")
	}
	c.record[col] = c.render(value, style)
	return nil
}

// SetRowHeight csv没有行高概念
func (c *Csv) SetRowHeight(row int, height float64) error {
	return nil
}

func (c *Csv) Finalize() error {
	if c.finalized {
		return nil
	}
	if err := c.flushRecord(); err != nil {
		return err
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	c.finalized = true
	return nil
}

func (c *Csv) Close() error {
	return c.f.Close()
}

func (c *Csv) render(v any, style sink.Style) string {
	if c.dateStyle[style] {
		switch t := v.(type) {
		case time.Time:
			return t.Format(csvDateLayout)
		case *time.Time:
			if t != nil {
				return t.Format(csvDateLayout)
			}
			return ""
		}
	}
	return cast.ToString(v)
}

func (c *Csv) flushRecord() error {
	if c.cur < 0 {
		return nil
	}
	if err := c.w.Write(c.record); err != nil {
		return err
	}
	c.record = c.record[:0]
	return nil
}
