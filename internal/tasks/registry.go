package tasks

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/storage"
)

const StorageKey = "tasks"

type AllCompleted struct {
	Total int
}

// Registry owns the task list. It is not safe for concurrent use; drive it
// from a single goroutine.
type Registry struct {
	store    storage.Store
	items    []model.Task
	activeID string
	allDone  bool
	newID    func() string

	onAllCompleted  []func(AllCompleted)
	onTaskCompleted []func(model.Task)
}

type Option func(*Registry)

func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRegistry restores the persisted task list from store. Absent or
// malformed data yields an empty registry.
func NewRegistry(ctx context.Context, store storage.Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		items: make([]model.Task, 0),
		newID: newTaskID,
	}
	for _, opt := range opts {
		opt(r)
	}

	var saved []model.Task
	if storage.GetJSON(ctx, store, StorageKey, &saved) {
		seen := make(map[string]bool, len(saved))
		for _, t := range saved {
			t.Project = model.NormalizeProject(t.Project)
			if t.Priority == "" {
				t.Priority = model.PriorityMedium
			}
			if t.Validate() != nil || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			r.items = append(r.items, t)
		}
	}
	r.allDone = r.computeAllDone()
	return r
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (r *Registry) OnAllCompleted(fn func(AllCompleted)) {
	r.onAllCompleted = append(r.onAllCompleted, fn)
}

// OnTaskCompleted fires when a task moves from incomplete to complete.
func (r *Registry) OnTaskCompleted(fn func(model.Task)) {
	r.onTaskCompleted = append(r.onTaskCompleted, fn)
}

func (r *Registry) Tasks() []model.Task {
	return slices.Clone(r.items)
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) Get(id string) (model.Task, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return r.items[idx], true
}

// Ordered returns the tasks grouped by project, the order in which they are
// listed and numbered.
func (r *Registry) Ordered() []model.Task {
	out := make([]model.Task, 0, len(r.items))
	for _, group := range r.GroupByProject() {
		out = append(out, group...)
	}
	return out
}

// Resolve finds a task by 1-based position in Ordered, full id or unique id
// prefix.
func (r *Registry) Resolve(ref string) (model.Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(r.items) {
		return r.Ordered()[n-1], true
	}
	if t, ok := r.Get(ref); ok {
		return t, true
	}
	var match model.Task
	found := 0
	for _, t := range r.items {
		if strings.HasPrefix(t.ID, ref) {
			match = t
			found++
		}
	}
	return match, found == 1
}

func (r *Registry) Add(ctx context.Context, title string, priority model.Priority, note, project string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: task title is required", model.ErrValidation)
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidPriority, priority)
	}

	id := r.newID()
	for r.indexOf(id) >= 0 {
		id = r.newID()
	}
	task := model.Task{
		ID:       id,
		Title:    title,
		Priority: priority,
		Note:     strings.TrimSpace(note),
		Project:  model.NormalizeProject(project),
	}
	r.items = slices.Insert(r.items, 0, task)
	r.allDone = r.computeAllDone()
	return task, r.persist(ctx)
}

func (r *Registry) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	r.items = slices.Delete(r.items, idx, idx+1)
	if r.activeID == id {
		r.activeID = ""
	}
	r.allDone = r.computeAllDone()
	return r.persist(ctx)
}

// SetActive makes id the single prioritised task. An unknown id clears the
// activation; a completed task is rejected.
func (r *Registry) SetActive(id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		r.activeID = ""
		return nil
	}
	if r.items[idx].Completed {
		return fmt.Errorf("%w: cannot prioritize a completed task", model.ErrInvalidState)
	}
	r.activeID = id
	return nil
}

func (r *Registry) ClearActive() {
	r.activeID = ""
}

func (r *Registry) Active() (model.Task, bool) {
	if r.activeID == "" {
		return model.Task{}, false
	}
	return r.Get(r.activeID)
}

// ToggleComplete is the only path that changes a task's completion flag.
func (r *Registry) ToggleComplete(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	r.items[idx].Completed = !r.items[idx].Completed
	task := r.items[idx]
	if task.Completed && r.activeID == id {
		r.activeID = ""
	}
	err := r.persist(ctx)

	if task.Completed {
		for _, fn := range r.onTaskCompleted {
			fn(task)
		}
	}
	wasDone := r.allDone
	r.allDone = r.computeAllDone()
	if r.allDone && !wasDone {
		ev := AllCompleted{Total: len(r.items)}
		for _, fn := range r.onAllCompleted {
			fn(ev)
		}
	}
	return err
}

func (r *Registry) AllCompleted() bool {
	return r.allDone
}

// GroupByProject yields project groups in first-appearance order. Each group
// is evaluated when iterated and holds copies, so callers cannot mutate the
// registry through it.
func (r *Registry) GroupByProject() iter.Seq2[string, []model.Task] {
	return func(yield func(string, []model.Task) bool) {
		order := make([]string, 0)
		groups := make(map[string][]model.Task)
		for _, t := range r.items {
			if _, ok := groups[t.Project]; !ok {
				order = append(order, t.Project)
			}
			groups[t.Project] = append(groups[t.Project], t)
		}
		for _, project := range order {
			if !yield(project, groups[project]) {
				return
			}
		}
	}
}

func (r *Registry) Projects() []string {
	out := make([]string, 0)
	for project := range r.GroupByProject() {
		out = append(out, project)
	}
	return out
}

func (r *Registry) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(r.items, func(t model.Task) bool { return t.ID == id })
}

func (r *Registry) computeAllDone() bool {
	if len(r.items) == 0 {
		return false
	}
	for _, t := range r.items {
		if !t.Completed {
			return false
		}
	}
	return true
}

func (r *Registry) persist(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	if err := storage.SetJSON(ctx, r.store, StorageKey, r.items); err != nil {
		return fmt.Errorf("tasks: persist: %w", err)
	}
	return nil
}
