package tracker

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yhassan-git-real/DBExportHub/contracts/tracker"
)

// NewOperationID 生成操作id
func NewOperationID() string {
	return uuid.New().String()
}

var _ tracker.Tracker = (*Memory)(nil)

// Memory 进程内取消状态存储，多个导出共享一个实例
type Memory struct {
	mu  sync.RWMutex
	ops map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		ops: make(map[string]bool),
	}
}

func (m *Memory) Start(ctx context.Context, operationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[operationID] = false
	return nil
}

func (m *Memory) Cancel(ctx context.Context, operationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[operationID] = true
	return nil
}

func (m *Memory) IsCancelled(ctx context.Context, operationID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ops[operationID]
}

func (m *Memory) Finish(ctx context.Context, operationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ops, operationID)
	return nil
}
