package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsTaskService records call counts, errors by kind and durations for
// every TaskService operation.
type metricsTaskService struct {
	// RED metrics
	reqs *prometheus.CounterVec
	errs *prometheus.CounterVec
	durs *prometheus.HistogramVec

	next TaskService
}

var _ TaskService = (*metricsTaskService)(nil)

// NewMetricsTaskService wraps next with Prometheus instrumentation registered on reg.
func NewMetricsTaskService(reg prometheus.Registerer, next TaskService) (TaskService, error) {
	const namespace = "tasks_api"
	const subsystem = "task_service"

	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "call_total",
		Help:      "Number of calls to the task service",
	}, []string{"method"})

	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "error_total",
		Help:      "Number of errors returned by the task service",
	}, []string{"method", "kind"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "duration_seconds",
		Help:      "Duration of task service calls",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	for _, c := range []prometheus.Collector{reqs, errs, durs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &metricsTaskService{reqs: reqs, errs: errs, durs: durs, next: next}, nil
}

func (mw *metricsTaskService) ListTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	done := mw.record("list_tasks")
	tasks, err := mw.next.ListTasks(ctx, userID)
	return tasks, done(err)
}

func (mw *metricsTaskService) CreateTask(
	ctx context.Context,
	userID string,
	draft domain.TaskDraft,
) (*domain.Task, error) {
	done := mw.record("create_task")
	task, err := mw.next.CreateTask(ctx, userID, draft)
	return task, done(err)
}

func (mw *metricsTaskService) GetTask(ctx context.Context, taskID uuid.UUID, userID string) (*domain.Task, error) {
	done := mw.record("get_task")
	task, err := mw.next.GetTask(ctx, taskID, userID)
	return task, done(err)
}

func (mw *metricsTaskService) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	userID string,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	done := mw.record("update_task")
	task, err := mw.next.UpdateTask(ctx, taskID, userID, patch)
	return task, done(err)
}

func (mw *metricsTaskService) DeleteTask(ctx context.Context, taskID uuid.UUID, userID string) error {
	return mw.record("delete_task")(mw.next.DeleteTask(ctx, taskID, userID))
}

func (mw *metricsTaskService) record(method string) func(error) error {
	start := time.Now()
	mw.reqs.WithLabelValues(method).Inc()
	return func(err error) error {
		if err != nil {
			mw.errs.WithLabelValues(method, domain.KindOf(err).String()).Inc()
		}
		mw.durs.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}
