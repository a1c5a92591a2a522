package worker

import (
	"context"
)

// Worker - фоновая задача процесса, управляемая WorkerManager.
// Start блокирует до Stop или отмены ctx; Stop должен быть безопасен при повторном вызове.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
