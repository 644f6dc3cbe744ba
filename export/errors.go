package export

import (
	"errors"

	"github.com/zeebo/errs"
)

// ErrCancelled 导出被协作取消，属正常中止，调用方不应按系统错误上报
var ErrCancelled = errors.New("export cancelled")

// ErrMaximumLimit 超过最大导出限制，防止游标出错无限导出
var ErrMaximumLimit = errors.New("export quantity exceeds maximum limit")

var (
	// ErrInvalidArgument 入参非法，未发生任何IO
	ErrInvalidArgument = errs.Class("invalid argument")
	// ErrSourceRead 游标读取失败
	ErrSourceRead = errs.Class("source read")
	// ErrSinkWrite 落盘写入失败
	ErrSinkWrite = errs.Class("sink write")
)
