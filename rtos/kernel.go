package rtos

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"boardcode-go/errcode"
)

// TaskFunc is a task body. It should return when ctx is cancelled.
type TaskFunc func(ctx context.Context) error

type task struct {
	name string
	fn   TaskFunc
}

// Kernel runs a fixed set of tasks. Tasks are registered with Spawn before
// Start; the first task to fail cancels the others.
type Kernel struct {
	clock *Clock
	log   *zap.Logger

	mu      sync.Mutex
	tasks   []task
	started bool
}

type Option func(*Kernel)

func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.log = l
		}
	}
}

func WithClock(c *Clock) Option {
	return func(k *Kernel) {
		if c != nil {
			k.clock = c
		}
	}
}

func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{clock: NewClock(), log: zap.NewNop()}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Spawn registers a task. It fails once the kernel has started.
func (k *Kernel) Spawn(name string, fn TaskFunc) error {
	if name == "" || fn == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "rtos_spawn", Msg: "task needs a name and a body"}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		return &errcode.E{C: errcode.InitFailed, Op: "rtos_spawn", Msg: "kernel already started: " + name}
	}
	k.tasks = append(k.tasks, task{name: name, fn: fn})
	return nil
}

// Start runs every spawned task and blocks until all have returned. The
// result is the first task error, or nil.
func (k *Kernel) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return &errcode.E{C: errcode.InitFailed, Op: "rtos_start", Msg: "kernel already started"}
	}
	k.started = true
	tasks := append([]task(nil), k.tasks...)
	k.mu.Unlock()

	grp, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		grp.Go(func() error {
			k.log.Info("task started", zap.String("task", t.name))
			err := t.fn(gctx)
			if err != nil && gctx.Err() == nil {
				k.log.Error("task failed", zap.String("task", t.name), zap.Error(err))
				return err
			}
			k.log.Info("task stopped", zap.String("task", t.name))
			return nil
		})
	}
	return grp.Wait()
}

// Delay blocks the calling task for ms milliseconds or until ctx is done.
func (k *Kernel) Delay(ctx context.Context, ms uint32) error {
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (k *Kernel) Tick() uint32    { return k.clock.Tick() }
func (k *Kernel) Sleep(ms uint32) { k.clock.Sleep(ms) }
func (k *Kernel) Clock() *Clock   { return k.clock }
