package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	assert.True(t, ValidateID("abc123"))
	assert.True(t, ValidateID("0"))
	assert.True(t, ValidateID(NewID()))

	assert.False(t, ValidateID(""))
	assert.False(t, ValidateID("ABC123"))
	assert.False(t, ValidateID("../etc/passwd"))
	assert.False(t, ValidateID("abc-123"))
	assert.False(t, ValidateID("g1"))
	assert.False(t, ValidateID("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef0"))
}

func TestNewIDShape(t *testing.T) {
	a := NewID()
	b := NewID()
	require.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidateID(a))
}

func TestLocksSerializePerID(t *testing.T) {
	locks := NewLocks()

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("same")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
}

func TestLocksIndependentIDs(t *testing.T) {
	locks := NewLocks()
	unlockA := locks.Lock("a")
	// A held lock on one id must not block another id.
	unlockB := locks.Lock("b")
	unlockB()
	unlockA()
}

func TestLocksReleaseDropsEntry(t *testing.T) {
	locks := NewLocks()

	for i := 0; i < 1000; i++ {
		unlock := locks.Lock(NewID())
		unlock()
	}

	locks.mu.Lock()
	n := len(locks.m)
	locks.mu.Unlock()
	assert.Zero(t, n)
}

func TestLocksEntrySurvivesWaiters(t *testing.T) {
	locks := NewLocks()
	unlockA := locks.Lock("same")

	released := make(chan struct{})
	go func() {
		unlock := locks.Lock("same")
		unlock()
		close(released)
	}()

	// Give the waiter time to register before the holder releases; the
	// entry must stay in the map until both are done.
	time.Sleep(20 * time.Millisecond)
	unlockA()
	<-released

	locks.mu.Lock()
	n := len(locks.m)
	locks.mu.Unlock()
	assert.Zero(t, n)
}
