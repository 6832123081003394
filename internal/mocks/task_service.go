package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskCall records the arguments of one MockTaskService call.
type TaskCall struct {
	Method string
	UserID string
	TaskID uuid.UUID
	Draft  domain.TaskDraft
	Patch  domain.TaskPatch
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Custom behavior functions
	ListTasksFn  func(ctx context.Context, userID string) ([]*domain.Task, error)
	CreateTaskFn func(ctx context.Context, userID string, draft domain.TaskDraft) (*domain.Task, error)
	GetTaskFn    func(ctx context.Context, taskID uuid.UUID, userID string) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, taskID uuid.UUID, userID string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, taskID uuid.UUID, userID string) error

	// Default response values
	Tasks []*domain.Task
	Task  *domain.Task
	Err   error

	mu    sync.Mutex
	calls []TaskCall
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) track(call TaskCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the recorded calls in order.
func (m *MockTaskService) Calls() []TaskCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TaskCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	m.track(TaskCall{Method: "ListTasks", UserID: userID})
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID)
	}
	return m.Tasks, m.Err
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID string,
	draft domain.TaskDraft,
) (*domain.Task, error) {
	m.track(TaskCall{Method: "CreateTask", UserID: userID, Draft: draft})
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, draft)
	}
	return m.Task, m.Err
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, taskID uuid.UUID, userID string) (*domain.Task, error) {
	m.track(TaskCall{Method: "GetTask", UserID: userID, TaskID: taskID})
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, taskID, userID)
	}
	return m.Task, m.Err
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	userID string,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	m.track(TaskCall{Method: "UpdateTask", UserID: userID, TaskID: taskID, Patch: patch})
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, taskID, userID, patch)
	}
	return m.Task, m.Err
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, taskID uuid.UUID, userID string) error {
	m.track(TaskCall{Method: "DeleteTask", UserID: userID, TaskID: taskID})
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, taskID, userID)
	}
	return m.Err
}
