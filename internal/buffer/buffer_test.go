package buffer

import (
	"sync"
	"testing"
	"time"
)

func TestGrowable_FIFO(t *testing.T) {
	buf := New[int](10)

	for i := 0; i < 5; i++ {
		if !buf.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}
	if buf.Len() != 5 {
		t.Errorf("Len() = %d, want 5", buf.Len())
	}

	for i := 0; i < 5; i++ {
		val, ok := buf.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}

	if got := buf.DrainTo(0); got != nil {
		t.Errorf("DrainTo(0) on empty buffer = %v, want nil", got)
	}
}

func TestGrowable_GrowAt70Percent(t *testing.T) {
	buf := New[int](10)

	for i := 0; i < 7; i++ {
		buf.Send(i)
	}

	stats := buf.Stats()
	if stats.Capacity <= 10 {
		t.Errorf("Capacity = %d, expected growth after 70%% fill", stats.Capacity)
	}
	if stats.ResizeCount != 1 {
		t.Errorf("ResizeCount = %d, want 1", stats.ResizeCount)
	}
}

func TestGrowable_GrowPreservesOrderAfterWrap(t *testing.T) {
	buf := New[int](4)

	// Advance head so the ring wraps before growing.
	buf.Send(-1)
	buf.Receive()

	for i := 0; i < 100; i++ {
		buf.Send(i)
	}

	got := buf.DrainTo(0)
	if len(got) != 100 {
		t.Fatalf("drained %d items, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d = %d, want %d", i, v, i)
		}
	}
}

func TestGrowable_DrainToMax(t *testing.T) {
	buf := New[string](4)
	for _, s := range []string{"a", "b", "c"} {
		buf.Send(s)
	}

	got := buf.DrainTo(2)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("DrainTo(2) = %v, want [a b]", got)
	}
	if buf.Len() != 1 {
		t.Errorf("Len() = %d, want 1", buf.Len())
	}
	if buf.DrainTo(0)[0] != "c" {
		t.Error("remaining item should be c")
	}
	if buf.DrainTo(0) != nil {
		t.Error("DrainTo on empty buffer should return nil")
	}
}

func TestGrowable_CloseDrainsThenStops(t *testing.T) {
	buf := New[int](4)
	buf.Send(1)
	buf.Close()

	if buf.Send(2) {
		t.Error("Send after Close returned true")
	}

	v, ok := buf.Receive()
	if !ok || v != 1 {
		t.Errorf("Receive() = %d, %v, want 1, true", v, ok)
	}
	if _, ok := buf.Receive(); ok {
		t.Error("Receive() on closed empty buffer returned true")
	}
}

func TestGrowable_ReceiveBlocksUntilSend(t *testing.T) {
	buf := New[int](4)

	var wg sync.WaitGroup
	wg.Add(1)
	var got int
	go func() {
		defer wg.Done()
		got, _ = buf.Receive()
	}()

	time.Sleep(20 * time.Millisecond)
	buf.Send(42)
	wg.Wait()

	if got != 42 {
		t.Errorf("Receive() = %d, want 42", got)
	}

	stats := buf.Stats()
	if stats.Enqueued != 1 || stats.Dequeued != 1 {
		t.Errorf("stats = %+v, want 1 enqueued and 1 dequeued", stats)
	}
}
