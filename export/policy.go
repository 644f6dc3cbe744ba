package export

import (
	"time"

	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
)

// ColumnKind 列的呈现类别
type ColumnKind int

const (
	// KindData 普通数据列
	KindData ColumnKind = iota
	// KindDate 日期列
	KindDate
)

// DefaultDateColumn 旧版导出布局中第三列（下标2）固定为日期列
const DefaultDateColumn = 2

// DefaultDateFormat 默认日期呈现格式
const DefaultDateFormat = "dd-mmm-yy"

const fontName = "Times New Roman"
const fontSize = 10

// FormatPolicy 列下标到呈现规则的映射
// 三种样式在构造时向sink注册一次，之后每个单元格复用句柄
type FormatPolicy struct {
	kinds  map[int]ColumnKind
	header sink.Style
	data   sink.Style
	date   sink.Style
}

// NewFormatPolicy 构造格式策略，dateColumns为空时使用默认日期列
func NewFormatPolicy(s sink.Sink, dateFormat string, dateColumns ...int) (*FormatPolicy, error) {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	if len(dateColumns) == 0 {
		dateColumns = []int{DefaultDateColumn}
	}
	p := &FormatPolicy{kinds: make(map[int]ColumnKind, len(dateColumns))}
	for _, col := range dateColumns {
		p.kinds[col] = KindDate
	}
	var err error
	p.header, err = s.NewStyle(&sink.StyleSpec{
		FontName:  fontName,
		FontSize:  fontSize,
		Bold:      true,
		Border:    true,
		FillColor: "#4F81BD",
		FontColor: "#000000",
		HAlign:    "center",
		VAlign:    "center",
	})
	if err != nil {
		return nil, err
	}
	p.data, err = s.NewStyle(&sink.StyleSpec{
		FontName: fontName,
		FontSize: fontSize,
		Border:   true,
		VAlign:   "center",
	})
	if err != nil {
		return nil, err
	}
	p.date, err = s.NewStyle(&sink.StyleSpec{
		FontName:  fontName,
		FontSize:  fontSize,
		Border:    true,
		VAlign:    "center",
		NumFormat: dateFormat,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Kind 列的呈现类别
func (p *FormatPolicy) Kind(col int) ColumnKind {
	return p.kinds[col]
}

// HeaderStyle 表头样式
func (p *FormatPolicy) HeaderStyle() sink.Style {
	return p.header
}

// StyleFor 返回单元格应使用的样式及是否按日期呈现
// 日期列的空值按普通数据写入
func (p *FormatPolicy) StyleFor(col int, value any) (sink.Style, bool) {
	if p.kinds[col] == KindDate && !emptyValue(value) {
		return p.date, true
	}
	return p.data, false
}

func emptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case time.Time:
		return x.IsZero()
	case *time.Time:
		return x == nil || x.IsZero()
	}
	return false
}
