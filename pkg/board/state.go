package board

import (
	"sort"

	"todo-back/domain/models"
)

// State is the client-side copy of the task list. Tasks keeps list position;
// columns are derived from it.
type State struct {
	Tasks        []models.Task
	StatusFilter *models.TaskStatus
}

type Column struct {
	Status models.TaskStatus
	Tasks  []models.Task
}

type Counts struct {
	All        int
	Pending    int
	InProgress int
	Completed  int
}

// Columns groups tasks by status in column order. With a status filter only
// that column is returned.
func (s State) Columns() []Column {
	columns := make([]Column, 0, 3)
	for _, status := range models.AllStatuses() {
		if s.StatusFilter != nil && *s.StatusFilter != status {
			continue
		}
		col := Column{Status: status, Tasks: []models.Task{}}
		for _, t := range s.Tasks {
			if t.Status == status {
				col.Tasks = append(col.Tasks, t)
			}
		}
		columns = append(columns, col)
	}
	return columns
}

// Counts ignores the status filter.
func (s State) Counts() Counts {
	c := Counts{All: len(s.Tasks)}
	for _, t := range s.Tasks {
		switch t.Status {
		case models.TaskStatusPending:
			c.Pending++
		case models.TaskStatusInProgress:
			c.InProgress++
		case models.TaskStatusCompleted:
			c.Completed++
		}
	}
	return c
}

func (s State) Find(id uint) (models.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.Tasks[i], true
	}
	return models.Task{}, false
}

// Ordering is the zero-based position of every task in the list.
func (s State) Ordering() []models.TaskOrdering {
	items := make([]models.TaskOrdering, 0, len(s.Tasks))
	for i, t := range s.Tasks {
		items = append(items, models.TaskOrdering{ID: t.ID, Order: i})
	}
	return items
}

func (s State) index(id uint) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Action is a state change applied by Reduce.
type Action interface {
	isAction()
}

// Loaded replaces the list; tasks are placed by ordenacao.
type Loaded struct{ Tasks []models.Task }

type TaskCreated struct{ Task models.Task }

// TaskUpdated replaces the task with the same id in place.
type TaskUpdated struct{ Task models.Task }

type TaskDeleted struct{ ID uint }

// StatusFilterChanged sets or clears (nil) the visible column.
type StatusFilterChanged struct{ Status *models.TaskStatus }

// TasksSwapped exchanges the list positions of two tasks.
type TasksSwapped struct{ A, B uint }

// OrderingSaved applies a reorder batch and re-sorts the list by ordenacao.
type OrderingSaved struct{ Items []models.TaskOrdering }

func (Loaded) isAction()              {}
func (OrderingSaved) isAction()       {}
func (TaskCreated) isAction()         {}
func (TaskUpdated) isAction()         {}
func (TaskDeleted) isAction()         {}
func (StatusFilterChanged) isAction() {}
func (TasksSwapped) isAction()        {}

// Reduce returns the next state. The input state is never modified.
func Reduce(s State, a Action) State {
	next := State{StatusFilter: s.StatusFilter}

	switch a := a.(type) {
	case Loaded:
		next.Tasks = append([]models.Task(nil), a.Tasks...)
		sort.SliceStable(next.Tasks, func(i, j int) bool {
			return next.Tasks[i].Order < next.Tasks[j].Order
		})
	case TaskCreated:
		next.Tasks = append(append(make([]models.Task, 0, len(s.Tasks)+1), s.Tasks...), a.Task)
	case TaskUpdated:
		next.Tasks = append([]models.Task(nil), s.Tasks...)
		if i := s.index(a.Task.ID); i >= 0 {
			next.Tasks[i] = a.Task
		}
	case TaskDeleted:
		next.Tasks = make([]models.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				next.Tasks = append(next.Tasks, t)
			}
		}
	case StatusFilterChanged:
		next.Tasks = s.Tasks
		next.StatusFilter = a.Status
	case TasksSwapped:
		next.Tasks = append([]models.Task(nil), s.Tasks...)
		i, j := s.index(a.A), s.index(a.B)
		if i >= 0 && j >= 0 {
			next.Tasks[i], next.Tasks[j] = next.Tasks[j], next.Tasks[i]
		}
	case OrderingSaved:
		order := make(map[uint]int, len(a.Items))
		for _, item := range a.Items {
			order[item.ID] = item.Order
		}
		next.Tasks = append([]models.Task(nil), s.Tasks...)
		for i := range next.Tasks {
			if o, ok := order[next.Tasks[i].ID]; ok {
				next.Tasks[i].Order = o
			}
		}
		sort.SliceStable(next.Tasks, func(i, j int) bool {
			return next.Tasks[i].Order < next.Tasks[j].Order
		})
	default:
		next.Tasks = s.Tasks
	}

	return next
}
