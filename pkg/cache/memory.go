package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry struct {
	key      string
	value    []byte
	expireAt time.Time
}

// MemoryStore implements Store in process memory with LRU eviction.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front is most recently used
	max     int
	now     func() time.Time
	ticker  *time.Ticker
	done    chan struct{}
	closing sync.Once
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &MemoryStore{
		items:  make(map[string]*list.Element),
		order:  list.New(),
		max:    cfg.MaxEntries,
		now:    cfg.Now,
		ticker: time.NewTicker(cfg.Sweep),
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, ErrMiss
	}
	e := el.Value.(*entry)
	if s.expired(e) {
		s.remove(el)
		return nil, ErrMiss
	}
	s.order.MoveToFront(el)
	return e.value, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{key: key, value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expireAt = s.now().Add(ttl)
	}

	if el, ok := s.items[key]; ok {
		el.Value = e
		s.order.MoveToFront(el)
		return nil
	}
	if s.max > 0 && s.order.Len() >= s.max {
		s.remove(s.order.Back())
	}
	s.items[key] = s.order.PushFront(e)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if el, ok := s.items[k]; ok {
			s.remove(el)
		}
	}
	return nil
}

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closing.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
	return nil
}

func (s *MemoryStore) expired(e *entry) bool {
	return !e.expireAt.IsZero() && !s.now().Before(e.expireAt)
}

func (s *MemoryStore) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*entry).key)
}

func (s *MemoryStore) sweep() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.mu.Lock()
			for el := s.order.Front(); el != nil; {
				next := el.Next()
				if s.expired(el.Value.(*entry)) {
					s.remove(el)
				}
				el = next
			}
			s.mu.Unlock()
		}
	}
}
