package api

import "testing"

func TestHubLifecycle(t *testing.T) {
	hub := newProgressHub()

	if err := hub.start("b-1", 5); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := hub.start("b-1", 5); err == nil {
		t.Error("expected duplicate start to fail")
	}

	hub.publish("b-1", 2, 5, 1)
	event, ok := hub.snapshot("b-1")
	if !ok {
		t.Fatal("expected snapshot for running batch")
	}
	if event.Completed != 2 || event.Total != 5 || event.Failed != 1 || event.Done {
		t.Errorf("unexpected snapshot %+v", event)
	}

	hub.finish("b-1")
	if _, ok := hub.snapshot("b-1"); ok {
		t.Error("expected no snapshot after finish")
	}
	if err := hub.start("b-1", 3); err != nil {
		t.Errorf("expected id reusable after finish, got %v", err)
	}
}

func TestHubSubscribe(t *testing.T) {
	hub := newProgressHub()

	if _, _, ok := hub.subscribe("missing"); ok {
		t.Error("expected subscribe to fail for unknown batch")
	}

	if err := hub.start("b-1", 2); err != nil {
		t.Fatalf("start: %v", err)
	}

	events, cancel, ok := hub.subscribe("b-1")
	if !ok {
		t.Fatal("expected subscribe to succeed")
	}
	defer cancel()

	// Initial state is delivered immediately.
	first := <-events
	if first.Total != 2 || first.Completed != 0 {
		t.Errorf("unexpected initial event %+v", first)
	}

	hub.publish("b-1", 1, 2, 0)
	next := <-events
	if next.Completed != 1 {
		t.Errorf("expected completed 1, got %+v", next)
	}

	hub.finish("b-1")
	final := <-events
	if !final.Done {
		t.Errorf("expected done event, got %+v", final)
	}

	// Channel is closed after the final event.
	if _, open := <-events; open {
		t.Error("expected channel closed after finish")
	}
}
