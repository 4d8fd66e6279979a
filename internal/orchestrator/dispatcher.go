package orchestrator

import (
	"adforge/internal/providers"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type TaskState string

const (
	TaskRunning   TaskState = "running"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// TaskStatus is the last known outcome of a slot.
type TaskStatus struct {
	Slot       SlotKey    `json:"slot"`
	State      TaskState  `json:"state"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Dispatcher runs actions on their own goroutines, one per slot at a time,
// and keeps the outcome of each slot for polling.
type Dispatcher struct {
	slots  *Slots
	logger providers.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lifeMu orders wg.Add in Go against Stop.
	lifeMu  sync.Mutex
	stopped bool

	mu    sync.Mutex
	tasks map[SlotKey]TaskStatus
}

func NewDispatcher(logger providers.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		slots:  NewSlots(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[SlotKey]TaskStatus),
	}
}

// Go acquires the slot and runs fn in the background. It fails with
// ErrSlotBusy while a previous action on the same slot is running.
func (d *Dispatcher) Go(key SlotKey, fn func(ctx context.Context) error) error {
	d.lifeMu.Lock()
	if d.stopped {
		d.lifeMu.Unlock()
		return fmt.Errorf("dispatcher stopped: %w", context.Canceled)
	}
	release, err := d.slots.Acquire(key)
	if err != nil {
		d.lifeMu.Unlock()
		return err
	}
	d.setStatus(TaskStatus{Slot: key, State: TaskRunning, StartedAt: time.Now()})
	d.wg.Add(1)
	d.lifeMu.Unlock()

	go func() {
		defer d.wg.Done()
		defer release()

		err := d.run(key, fn)
		d.finish(key, err)
	}()
	return nil
}

func (d *Dispatcher) run(key SlotKey, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf(providers.TypeApp, "action %s panicked: %v", key, r)
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return fn(d.ctx)
}

func (d *Dispatcher) finish(key SlotKey, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.tasks[key]
	now := time.Now()
	st.FinishedAt = &now
	st.State = TaskSucceeded
	if err != nil {
		st.State = TaskFailed
		st.Error = err.Error()
	}
	d.tasks[key] = st
}

func (d *Dispatcher) setStatus(st TaskStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks[st.Slot] = st
}

func (d *Dispatcher) Busy(key SlotKey) bool {
	return d.slots.Busy(key)
}

// Status lists every slot that ever ran, most recent first.
func (d *Dispatcher) Status() []TaskStatus {
	d.mu.Lock()
	out := make([]TaskStatus, 0, len(d.tasks))
	for _, st := range d.tasks {
		out = append(out, st)
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].Slot.String() < out[j].Slot.String()
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Wait blocks until every running action returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop cancels running actions and waits for them, or for ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.lifeMu.Lock()
	d.stopped = true
	d.cancel()
	d.lifeMu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
