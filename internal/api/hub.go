package api

import (
	"fmt"
	"sync"
)

// ProgressEvent is one batch progress update pushed to watchers.
type ProgressEvent struct {
	BatchID   string `json:"batch_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
	Done      bool   `json:"done"`
}

// progressHub tracks in-flight batches and fans progress events out to
// websocket watchers. Slow watchers are skipped, never blocked on: the
// worker goroutines publishing events must not stall on delivery.
type progressHub struct {
	mu      sync.Mutex
	running map[string]*batchProgress
}

type batchProgress struct {
	last ProgressEvent
	subs map[chan ProgressEvent]struct{}
}

func newProgressHub() *progressHub {
	return &progressHub{
		running: make(map[string]*batchProgress),
	}
}

// start registers a batch as in flight. A batch id can only run once at a
// time.
func (h *progressHub) start(batchID string, total int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.running[batchID]; exists {
		return fmt.Errorf("batch %s is already running", batchID)
	}
	h.running[batchID] = &batchProgress{
		last: ProgressEvent{BatchID: batchID, Total: total},
		subs: make(map[chan ProgressEvent]struct{}),
	}
	return nil
}

// publish records progress and notifies watchers.
func (h *progressHub) publish(batchID string, completed, total, failed int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bp, ok := h.running[batchID]
	if !ok {
		return
	}
	bp.last = ProgressEvent{BatchID: batchID, Completed: completed, Total: total, Failed: failed}
	bp.notify()
}

// finish marks a batch done, delivers the final event, and releases all
// watcher channels.
func (h *progressHub) finish(batchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bp, ok := h.running[batchID]
	if !ok {
		return
	}
	bp.last.Done = true
	bp.notify()
	for ch := range bp.subs {
		close(ch)
	}
	delete(h.running, batchID)
}

// subscribe attaches a watcher to a running batch. The returned cancel
// function must be called when the watcher goes away.
func (h *progressHub) subscribe(batchID string) (<-chan ProgressEvent, func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bp, ok := h.running[batchID]
	if !ok {
		return nil, nil, false
	}

	ch := make(chan ProgressEvent, 16)
	bp.subs[ch] = struct{}{}
	ch <- bp.last

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if bp, ok := h.running[batchID]; ok {
			if _, subscribed := bp.subs[ch]; subscribed {
				delete(bp.subs, ch)
				close(ch)
			}
		}
	}
	return ch, cancel, true
}

// snapshot returns the latest progress for a running batch.
func (h *progressHub) snapshot(batchID string) (ProgressEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	bp, ok := h.running[batchID]
	if !ok {
		return ProgressEvent{}, false
	}
	return bp.last, true
}

// notify delivers the latest event to every watcher without blocking.
// Caller must hold the hub lock.
func (bp *batchProgress) notify() {
	for ch := range bp.subs {
		select {
		case ch <- bp.last:
		default:
		}
	}
}
