// Package task is the in-memory upload/analysis shell around the pipeline:
// novels, task lifecycle, progress and cancellation.
package task

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/inkweave/inkgraph/internal/analysis"
	"github.com/inkweave/inkgraph/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Task is one analysis run. Error is the flattened pipeline error when the
// run failed.
type Task struct {
	ID       string              `json:"id"`
	NovelID  string              `json:"novel_id"`
	Status   Status              `json:"status"`
	Progress int                 `json:"progress"`
	Message  string              `json:"message,omitempty"`
	Error    *analysis.ErrorBody `json:"error,omitempty"`

	cancel context.CancelFunc
}

// Manager keeps novels, tasks and completed bundles. All methods are safe
// for concurrent use; analyses of distinct novels may run in parallel.
type Manager struct {
	mu      sync.RWMutex
	novels  map[string]*model.Novel
	tasks   map[string]*Task
	bundles map[string]*model.Bundle
}

func NewManager() *Manager {
	return &Manager{
		novels:  make(map[string]*model.Novel),
		tasks:   make(map[string]*Task),
		bundles: make(map[string]*model.Bundle),
	}
}

// AddNovel registers a parsed novel and returns its id.
func (m *Manager) AddNovel(novel *model.Novel) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if novel.ID == "" {
		novel.ID = uuid.New().String()
	}
	m.novels[novel.ID] = novel
	return novel.ID
}

func (m *Manager) Novel(id string) (*model.Novel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.novels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

func (m *Manager) Novels() []*model.Novel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Novel, 0, len(m.novels))
	for _, n := range m.novels {
		out = append(out, n)
	}
	return out
}

// StartTask creates a running task bound to the returned context; cancelling
// the task cancels the context.
func (m *Manager) StartTask(novelID string) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		ID:      uuid.New().String(),
		NovelID: novelID,
		Status:  StatusRunning,
		cancel:  cancel,
	}
	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()
	return t, ctx
}

func (m *Manager) Task(id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := *t
	return &snapshot, nil
}

func (m *Manager) SetProgress(id string, percent int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok && t.Status == StatusRunning {
		t.Progress = percent
		t.Message = message
	}
}

// Complete stores the bundle under the task's novel and marks success.
func (m *Manager) Complete(id string, bundle *model.Bundle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return
	}
	t.Status = StatusCompleted
	t.Progress = 100
	t.Message = "done"
	m.bundles[t.NovelID] = bundle
}

func (m *Manager) Fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return
	}
	body := analysis.Describe(err)
	if errors.Is(err, analysis.ErrCancelled) {
		t.Status = StatusCancelled
	} else {
		t.Status = StatusFailed
	}
	t.Error = &body
	t.Message = body.Message
}

// Cancel signals the task's context; the pipeline stops at its next
// checkpoint and Fail records the cancelled status.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}

// Bundle returns the completed analysis for a novel.
func (m *Manager) Bundle(novelID string) (*model.Bundle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bundles[novelID]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}
