package event

import (
	"sync/atomic"

	"github.com/lixenwraith/timeloop/parameter"
)

// EventQueue carries loop events (moment fired, branch, portal jump, seek, reset,
// sound requests) from the tick to the router as a lock-free MPSC ring buffer
// Push is safe from any goroutine; Consume runs on the tick thread only
// Published flags keep the consumer from reading half-written slots
// Overflow: oldest events are overwritten when full and counted as dropped,
// so a burst of moments in one long step shows up in telemetry instead of vanishing
type EventQueue struct {
	events    [parameter.EventQueueSize]GameEvent
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
	dropped   atomic.Uint64
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds an event, O(1) amortized
// EventTick names the FSM trigger and is never queued
func (eq *EventQueue) Push(event GameEvent) {
	if event.Type == EventTick {
		return
	}
	for {
		currentTail := eq.tail.Load()
		nextTail := currentTail + 1

		if eq.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EventBufferMask

			eq.events[idx] = event
			eq.published[idx].Store(true) // After the write

			currentHead := eq.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				newHead := nextTail - parameter.EventQueueSize
				if eq.head.CompareAndSwap(currentHead, newHead) {
					eq.dropped.Add(newHead - currentHead)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
func (eq *EventQueue) Consume() []GameEvent {
	for {
		currentHead := eq.head.Load()
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > parameter.EventQueueSize {
			available = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		result := make([]GameEvent, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask
			if !eq.published[idx].Load() {
				break // Writer incomplete
			}
			result = append(result, eq.events[idx])
			eq.published[idx].Store(false)
		}

		if eq.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Dropped returns how many events were overwritten before being consumed
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}

// Len returns the approximate pending count
func (eq *EventQueue) Len() int {
	head := eq.head.Load()
	tail := eq.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}
