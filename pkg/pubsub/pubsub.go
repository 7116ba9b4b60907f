// Package pubsub provides a basic Publish/Subscribe implementation.
//
// Subscribers only ever see the latest value: Publish never blocks and replaces any value
// a slow subscriber has not received yet.
package pubsub

import (
	"log/slog"
	"sync"
)

// Publisher allows clients to subscribe and sends them the information provided by Publish.
type Publisher[T any] struct {
	clients map[<-chan T]chan T
	logger  *slog.Logger
	lock    sync.Mutex
}

// New returns a new Publisher
func New[T any](logger *slog.Logger) *Publisher[T] {
	return &Publisher[T]{
		clients: make(map[<-chan T]chan T),
		logger:  logger,
	}
}

// Subscribe registers the caller and returns a new channel on which it will publish updates.
func (p *Publisher[T]) Subscribe() <-chan T {
	p.lock.Lock()
	defer p.lock.Unlock()
	ch := make(chan T, 1)
	p.clients[ch] = ch
	p.logger.Debug("subscriber added", slog.Int("subscribers", len(p.clients)))
	return ch
}

// Unsubscribe removes the registered client/channel.
func (p *Publisher[T]) Unsubscribe(ch <-chan T) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.clients, ch)
	p.logger.Debug("subscriber removed", slog.Int("subscribers", len(p.clients)))
}

// Publish sends info to all registered clients.
func (p *Publisher[T]) Publish(info T) {
	p.lock.Lock()
	defer p.lock.Unlock()
	for _, ch := range p.clients {
		// drop the pending value, if the client hasn't read it yet
		select {
		case <-ch:
		default:
		}
		ch <- info
	}
}

// Subscribers returns the current number of subscribers
func (p *Publisher[T]) Subscribers() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.clients)
}
