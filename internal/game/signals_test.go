package game

import (
	"sync"
	"testing"
)

func TestSignalQueueFIFO(t *testing.T) {
	q := NewSignalQueue()
	q.Push(Resize{Width: 1})
	q.Push(VisibilityChanged{Visible: false})
	q.Push(PhaseChanged{From: "designer", To: "gamer"})

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(got))
	}
	if _, ok := got[0].(Resize); !ok {
		t.Errorf("expected Resize first, got %T", got[0])
	}
	if pc, ok := got[2].(PhaseChanged); !ok || pc.To != "gamer" {
		t.Errorf("expected PhaseChanged to gamer last, got %#v", got[2])
	}
	if q.Drain() != nil {
		t.Error("expected empty drain")
	}
}

func TestSignalQueueConcurrentPush(t *testing.T) {
	q := NewSignalQueue()

	const producers = 50
	const perProducer = 100

	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(VisibilityChanged{Visible: j%2 == 0})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Drain()); got != producers*perProducer {
		t.Errorf("expected %d signals, got %d", producers*perProducer, got)
	}
}
