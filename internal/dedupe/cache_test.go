// ABOUTME: Tests for the mention dedupe cache
// ABOUTME: Covers duplicate detection, TTL expiry, and concurrent marking

package dedupe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_FirstSightIsNotDuplicate(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	key := MentionKey{Channel: "C1", EventTS: "1700000000.000100"}
	assert.False(t, c.CheckAndMark(key))
	assert.True(t, c.CheckAndMark(key), "second delivery of the same event is a duplicate")
}

func TestCache_DistinctKeysAreIndependent(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	assert.False(t, c.CheckAndMark(MentionKey{Channel: "C1", EventTS: "1.0"}))
	assert.False(t, c.CheckAndMark(MentionKey{Channel: "C2", EventTS: "1.0"}))
	assert.False(t, c.CheckAndMark(MentionKey{Channel: "C1", EventTS: "2.0"}))
}

func TestCache_ExpiredKeyIsFreshAgain(t *testing.T) {
	c := New(20 * time.Millisecond)
	defer c.Close()

	key := MentionKey{Channel: "C1", EventTS: "1.0"}
	assert.False(t, c.CheckAndMark(key))
	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.CheckAndMark(key), "entry past TTL is treated as new")
}

func TestCache_ConcurrentMarkingAdmitsExactlyOne(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	key := MentionKey{Channel: "C1", EventTS: "1.0"}
	const workers = 32

	var wg sync.WaitGroup
	admitted := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.CheckAndMark(key) {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	assert.Len(t, admitted, 1, "exactly one delivery may pass the dedupe gate")
}
