package loans

import (
	"fmt"
	"sync"
)

// entityLocks serializes lifecycle operations per entity. Without it,
// two concurrent borrows of the last copy could both read
// availableCopies == 1 and drive the counter negative.
type entityLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{m: make(map[string]*sync.Mutex)}
}

func (e *entityLocks) get(key string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.m[key]
	if !ok {
		l = &sync.Mutex{}
		e.m[key] = l
	}
	return l
}

// LockPair acquires the user's lock, then the book's. Every operation
// takes them in this order, so no pair of operations can deadlock.
// The returned func releases both.
func (e *entityLocks) LockPair(userID, bookID uint) func() {
	userLock := e.get(fmt.Sprintf("user:%d", userID))
	bookLock := e.get(fmt.Sprintf("book:%d", bookID))
	userLock.Lock()
	bookLock.Lock()
	return func() {
		bookLock.Unlock()
		userLock.Unlock()
	}
}
