package sink

// Style 样式句柄，由具体sink创建，每次导出创建一次后复用
type Style int

// StyleNone 不应用样式
const StyleNone Style = -1

// StyleSpec 单元格表现形式描述，由sink转换为自己的样式对象
type StyleSpec struct {
	FontName  string  //字体
	FontSize  float64 //字号
	Bold      bool    //加粗
	Border    bool    //细边框
	FillColor string  //背景色，如 #4F81BD
	FontColor string  //字体颜色
	HAlign    string  //水平对齐 left|center|right
	VAlign    string  //垂直对齐 top|center|bottom
	NumFormat string  //数字/日期格式串，如 dd-mmm-yy
	WrapText  bool    //自动换行
}

// Sink 类表格写入目标
// 行号列号从0开始；调用方保证行号单调不减地写入
type Sink interface {
	// NewStyle 注册样式，返回句柄
	NewStyle(spec *StyleSpec) (Style, error)
	// WriteCell 写入单元格
	WriteCell(row, col int, value any, style Style) error
	// SetRowHeight 显式设置行高，须在该行写完前调用
	SetRowHeight(row int, height float64) error
	// Finalize 正常完成时落盘，未调用则产物视为不完整
	Finalize() error
	// Close 释放资源，任何退出路径都必须调用
	Close() error
}
