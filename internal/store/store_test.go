package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/feedlift/feedlift/internal/models"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	run := &models.BatchRun{BatchID: "b-1", TotalProducts: 2}

	if err := s.Put("b-1", run); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := s.Get("b-1")
	if !ok {
		t.Fatalf("Get() did not find stored run")
	}
	if got.TotalProducts != 2 {
		t.Errorf("TotalProducts = %d, want 2", got.TotalProducts)
	}

	if _, ok := s.Get("missing"); ok {
		t.Errorf("Get() found a run that was never stored")
	}
}

func TestMemoryStoreRejectsDuplicate(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Put("b-1", &models.BatchRun{BatchID: "b-1"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	err := s.Put("b-1", &models.BatchRun{BatchID: "b-1"})
	if !errors.Is(err, ErrDuplicateBatch) {
		t.Errorf("second Put() error = %v, want ErrDuplicateBatch", err)
	}
}

func TestMemoryStoreListOrdersByRecency(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("b-%d", i)
		_ = s.Put(id, &models.BatchRun{BatchID: id, SubmittedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	runs := s.List()
	if len(runs) != 3 {
		t.Fatalf("List() len = %d, want 3", len(runs))
	}
	if runs[0].BatchID != "b-2" || runs[2].BatchID != "b-0" {
		t.Errorf("List() order = %s,%s,%s, want most recent first", runs[0].BatchID, runs[1].BatchID, runs[2].BatchID)
	}
}

func TestMemoryStoreConcurrentDistinctIDs(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("b-%d", n)
			if err := s.Put(id, &models.BatchRun{BatchID: id}); err != nil {
				t.Errorf("Put(%s) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.List()); got != 32 {
		t.Errorf("stored runs = %d, want 32", got)
	}
}
