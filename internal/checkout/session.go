package checkout

import (
	"strings"
	"sync"
)

// SessionStore holds one cart per terminal. Carts live only in memory;
// abandoning a session has no durable side effects.
type SessionStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{carts: make(map[string]*Cart)}
}

// Cart returns the cart for the terminal, creating it on first use.
func (s *SessionStore) Cart(terminalID string) *Cart {
	key := strings.TrimSpace(terminalID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[key]
	if !ok {
		cart = NewCart()
		s.carts[key] = cart
	}
	return cart
}

// Drop discards the terminal's cart entirely.
func (s *SessionStore) Drop(terminalID string) {
	key := strings.TrimSpace(terminalID)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
}

// WithCart runs fn while holding the store lock, serializing all cart
// mutations for the terminal against concurrent requests.
func (s *SessionStore) WithCart(terminalID string, fn func(cart *Cart) error) error {
	key := strings.TrimSpace(terminalID)
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[key]
	if !ok {
		cart = NewCart()
		s.carts[key] = cart
	}
	return fn(cart)
}
