package tracker

import "context"

// Tracker 导出操作取消状态存储，按操作id区分
// 实现必须支持并发读写，IsCancelled会被高频轮询
type Tracker interface {
	// Start 登记一个操作
	Start(ctx context.Context, operationID string) error
	// Cancel 请求取消操作
	Cancel(ctx context.Context, operationID string) error
	// IsCancelled 查询操作是否已请求取消
	IsCancelled(ctx context.Context, operationID string) bool
	// Finish 操作结束后清理状态
	Finish(ctx context.Context, operationID string) error
}
