package pubsub

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisher(t *testing.T) {
	p := New[int](slog.New(slog.DiscardHandler))

	const clients = 10
	var chs []<-chan int
	for range clients {
		chs = append(chs, p.Subscribe())
	}
	assert.Equal(t, clients, p.Subscribers())

	go p.Publish(123)

	var wg sync.WaitGroup
	wg.Add(len(chs))

	for _, ch := range chs {
		go func(ch <-chan int) {
			defer wg.Done()
			assert.Equal(t, 123, <-ch)

			p.Unsubscribe(ch)
		}(ch)
	}

	wg.Wait()
	assert.Zero(t, p.Subscribers())
}

func TestPublisher_LatestValueWins(t *testing.T) {
	p := New[int](slog.New(slog.DiscardHandler))
	ch := p.Subscribe()

	// nobody is reading: Publish must not block
	for i := range 5 {
		p.Publish(i)
	}

	assert.Equal(t, 4, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected value: %d", v)
	default:
	}
}
