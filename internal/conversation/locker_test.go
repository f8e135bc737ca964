package conversation

import (
	"sync"
	"testing"
)

func TestLockerSerializesSameKey(t *testing.T) {
	locker := NewLocker()
	key := Key{OperatorID: 1, ChatID: 1}

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(key)
			defer unlock()
			current := counter
			counter = current + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if locker.Active() != 0 {
		t.Fatalf("expected lock table to drain, got %d", locker.Active())
	}
}

func TestLockerIndependentKeys(t *testing.T) {
	locker := NewLocker()
	unlockA := locker.Lock(Key{OperatorID: 1, ChatID: 1})
	done := make(chan struct{})
	go func() {
		unlock := locker.Lock(Key{OperatorID: 2, ChatID: 2})
		unlock()
		close(done)
	}()
	<-done
	unlockA()
}
