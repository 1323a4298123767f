// Copyright (C) 2025, MaidSafe.net Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dispatcher implements the single-threaded cooperative command
// queue every node runs its state machines through (§4.10, §5): handlers
// are synchronous, return their own follow-up commands instead of
// calling back into the queue, and a small integer priority lets DKG and
// consensus traffic jump ahead of backlogged low-priority validation
// work.
package dispatcher

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Priority orders commands within the queue; lower values run first.
type Priority int

const (
	PriorityDkgConsensus Priority = 0
	PriorityMembership   Priority = 1
	PriorityReplication  Priority = 2
	PriorityValidation   Priority = 3
)

// Handler processes a command's payload and returns any follow-up
// commands it wants enqueued. Handlers never call back into the
// Dispatcher directly — their return value is how new work is
// scheduled, preserving the single total order over command application
// (§4.10).
type Handler func(ctx context.Context, payload interface{}) ([]Command, error)

// Command is one unit of work: a priority, a payload and the handler
// that processes it.
type Command struct {
	Priority Priority
	Payload  interface{}
	Handler  Handler
}

type queuedCommand struct {
	cmd Command
	seq uint64 // insertion order, breaks ties within the same priority
}

// commandHeap is a min-heap ordered by (Priority, seq), so equal-priority
// commands stay FIFO.
type commandHeap []*queuedCommand

func (h commandHeap) Len() int { return len(h) }
func (h commandHeap) Less(i, j int) bool {
	if h[i].cmd.Priority != h[j].cmd.Priority {
		return h[i].cmd.Priority < h[j].cmd.Priority
	}
	return h[i].seq < h[j].seq
}
func (h commandHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *commandHeap) Push(x interface{}) {
	*h = append(*h, x.(*queuedCommand))
}
func (h *commandHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Dispatcher is the node's single command queue. It is not itself safe
// to Run from more than one goroutine — "single-threaded cooperative"
// means exactly one goroutine ever calls Run.
type Dispatcher struct {
	mu      sync.Mutex
	notify  chan struct{}
	heap    commandHeap
	nextSeq uint64
	closed  bool
}

// New builds an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{notify: make(chan struct{}, 1)}
}

// Enqueue adds cmd to the queue. Safe to call from the network receive
// loop, from background probes, or from inside a running Handler.
func (d *Dispatcher) Enqueue(cmd Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	heap.Push(&d.heap, &queuedCommand{cmd: cmd, seq: d.nextSeq})
	d.nextSeq++
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled, applying one command at a
// time: every follow-up command a handler returns is enqueued before the
// next command is dequeued. Follow-ups then take their place in the
// (Priority, seq) order like any other command, so commands already
// queued at equal or higher priority can run between a command and its
// follow-ups; commands from one originating message are not grouped.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		cmd, ok, done := d.dequeue()
		if done {
			return nil
		}
		if ok {
			followUps, err := cmd.Handler(ctx, cmd.Payload)
			if err != nil {
				continue // a failed handler does not stop the queue; it's logged by the caller's handler
			}
			for _, f := range followUps {
				d.Enqueue(f)
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.notify:
		}
	}
}

// dequeue pops the next command. done is true once the queue has been
// closed and fully drained, signalling Run to return.
func (d *Dispatcher) dequeue() (cmd Command, ok bool, done bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.heap.Len() == 0 {
		return Command{}, false, d.closed
	}
	item := heap.Pop(&d.heap).(*queuedCommand)
	return item.cmd, true, false
}

// Close stops accepting new commands; Run observes this the next time it
// would otherwise block.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// SchedulePeriodic builds a self-rescheduling Command: each time it runs,
// it invokes tick and then, unless ctx has been cancelled, arranges for an
// identical Command to be enqueued again after interval. This is how the
// node keeps its periodic loops (liveness-check, replication-batch,
// AE-probe; original_source/.../periodic_checks.rs) alive as ordinary
// low-priority queue traffic instead of free-running goroutines: the
// rescheduling happens via time.AfterFunc, on a timer goroutine, so it
// never calls back into the queue from within the Handler's own call
// frame (§4.10's "handlers never call back into the queue" invariant
// still holds — Enqueue is called after Handler has already returned).
// The caller enqueues the returned Command once to start the loop.
func (d *Dispatcher) SchedulePeriodic(interval time.Duration, priority Priority, tick Handler) Command {
	var self Command
	self = Command{
		Priority: priority,
		Handler: func(ctx context.Context, payload interface{}) ([]Command, error) {
			followUps, err := tick(ctx, payload)
			if ctx.Err() == nil {
				time.AfterFunc(interval, func() { d.Enqueue(self) })
			}
			return followUps, err
		},
	}
	return self
}

// Len reports how many commands are currently queued.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heap.Len()
}
