package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"todo-back/domain/models"
)

// DefaultDebounce coalesces bursts of Over calls while the pointer moves.
const DefaultDebounce = 10 * time.Millisecond

var ErrNotDragging = errors.New("no drag in progress")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseDropped
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseDropped:
		return "dropped"
	}
	return "idle"
}

// Move is the outcome of a drop: the dragged task as it now stands locally
// and, when it landed on another task, the full reorder batch.
type Move struct {
	Task          models.Task
	StatusChanged bool
	Ordering      []models.TaskOrdering
}

// Drag runs one drag gesture at a time against a Store.
type Drag struct {
	store    *Store
	debounce time.Duration

	// apply serializes the debounced status write with Drop
	apply sync.Mutex

	mu         sync.Mutex
	phase      Phase
	taskID     uint
	fromStatus models.TaskStatus
	timer      *time.Timer
	pending    *models.TaskStatus
}

func NewDrag(store *Store, debounce time.Duration) *Drag {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Drag{store: store, debounce: debounce}
}

func (d *Drag) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Start begins dragging a task. An unknown id leaves the gesture idle.
func (d *Drag) Start(id uint) bool {
	task, ok := d.store.State().Find(id)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopTimerLocked()
	if !ok {
		d.phase = PhaseIdle
		return false
	}
	d.phase = PhaseDragging
	d.taskID = id
	d.fromStatus = task.Status
	return true
}

// Over records the column under the pointer. The status change is applied
// to the store once the pointer has rested for the debounce interval.
func (d *Drag) Over(status models.TaskStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase != PhaseDragging {
		return
	}
	d.stopTimerLocked()
	target := status
	d.pending = &target
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

// Drop ends the gesture. overID is the task under the pointer, or 0 when the
// task was released over an empty column.
func (d *Drag) Drop(overID uint) (Move, error) {
	d.apply.Lock()
	defer d.apply.Unlock()

	d.mu.Lock()
	if d.phase != PhaseDragging {
		d.mu.Unlock()
		return Move{}, ErrNotDragging
	}
	d.stopTimerLocked()
	pending := d.pending
	d.pending = nil
	id, from := d.taskID, d.fromStatus
	d.phase = PhaseDropped
	d.mu.Unlock()

	if pending != nil {
		d.applyStatus(id, *pending)
	}

	state := d.store.State()
	task, ok := state.Find(id)
	if !ok {
		return Move{}, fmt.Errorf("task %d left the board during drag", id)
	}

	move := Move{Task: task, StatusChanged: task.Status != from}
	if overID != 0 && overID != id {
		if _, ok := state.Find(overID); ok {
			d.store.Dispatch(TasksSwapped{A: id, B: overID})
			move.Ordering = d.store.State().Ordering()
		}
	}
	return move, nil
}

func (d *Drag) flush() {
	d.apply.Lock()
	defer d.apply.Unlock()

	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	id, dragging := d.taskID, d.phase == PhaseDragging
	d.mu.Unlock()

	if pending != nil && dragging {
		d.applyStatus(id, *pending)
	}
}

func (d *Drag) applyStatus(id uint, status models.TaskStatus) {
	task, ok := d.store.State().Find(id)
	if !ok || task.Status == status {
		return
	}
	task.Status = status
	if status != models.TaskStatusCompleted {
		task.CompletedAt = nil
	}
	d.store.Dispatch(TaskUpdated{Task: task})
}

func (d *Drag) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// TaskWriter is the part of the REST client a drop needs.
type TaskWriter interface {
	Update(ctx context.Context, id uint, task *models.Task) (*models.Task, error)
	SaveOrdering(ctx context.Context, items []models.TaskOrdering) error
}

// Persist sends the two writes of a drop: the task update, then the reorder
// batch when there is one. They are independent: a failure in one does not
// undo the other, so local and server state can diverge until the next load.
func Persist(ctx context.Context, api TaskWriter, move Move) error {
	var errs []error

	task := move.Task
	if _, err := api.Update(ctx, task.ID, &task); err != nil {
		errs = append(errs, fmt.Errorf("update task %d: %w", task.ID, err))
	}
	if len(move.Ordering) > 0 {
		if err := api.SaveOrdering(ctx, move.Ordering); err != nil {
			errs = append(errs, fmt.Errorf("save ordering: %w", err))
		}
	}

	return errors.Join(errs...)
}
