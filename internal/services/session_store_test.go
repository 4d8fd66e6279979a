package services

import (
	"adforge/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession(id string) models.Session {
	ad := models.Ad{ID: id + "-ad", Timestamp: 1, UserRequest: "Initial Generation"}
	adSet := models.AdSet{ID: id + "-set", Ads: []models.Ad{ad}}
	return models.Session{ID: id, Title: id, AdSets: []models.AdSet{adSet}}
}

func TestSessionStore_StartsEmpty(t *testing.T) {
	s := NewSessionStore()
	assert.NotNil(t, s.Snapshot())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(0), s.Revision())
}

func TestSessionStore_ApplyPublishesAndNotifies(t *testing.T) {
	s := NewSessionStore()

	var got []uint64
	s.Subscribe(func(rev uint64, sessions []models.Session) {
		got = append(got, rev)
		assert.Len(t, sessions, int(rev))
	})

	changed := s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("a"))
	})
	require.True(t, changed)
	changed = s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("b"))
	})
	require.True(t, changed)

	assert.Equal(t, []uint64{1, 2}, got)
	assert.Equal(t, "b", s.Snapshot()[0].ID)
	assert.Equal(t, 2, s.Len())
}

func TestSessionStore_NoOpDoesNotNotify(t *testing.T) {
	s := NewSessionStore()
	s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("a"))
	})

	calls := 0
	s.Subscribe(func(uint64, []models.Session) { calls++ })

	changed := s.Apply(func(in []models.Session) []models.Session {
		return models.DeleteSession(in, "missing")
	})
	assert.False(t, changed)
	changed = s.Apply(func(in []models.Session) []models.Session {
		return models.AppendAdVersion(in, "a", "missing", models.Ad{ID: "x"}, 2)
	})
	assert.False(t, changed)

	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(1), s.Revision())
}

func TestSessionStore_SnapshotIsStable(t *testing.T) {
	s := NewSessionStore()
	s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("a"))
	})
	before := s.Snapshot()

	s.Apply(func(in []models.Session) []models.Session {
		return models.AppendAdVersion(in, "a", "a-set", models.Ad{ID: "v2", Timestamp: 2}, 2)
	})

	assert.Len(t, before[0].AdSets[0].Ads, 1)
	assert.Len(t, s.Snapshot()[0].AdSets[0].Ads, 2)
}

func TestSessionStore_DeleteLastSession(t *testing.T) {
	s := NewSessionStore()
	s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("a"))
	})
	changed := s.Apply(func(in []models.Session) []models.Session {
		return models.DeleteSession(in, "a")
	})
	assert.True(t, changed)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Snapshot())
}

func TestSessionStore_ReplaceDoesNotNotify(t *testing.T) {
	s := NewSessionStore()
	calls := 0
	s.Subscribe(func(uint64, []models.Session) { calls++ })

	s.Replace([]models.Session{sampleSession("a"), sampleSession("b")})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 2, s.Len())

	s.Replace(nil)
	assert.NotNil(t, s.Snapshot())
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_ConcurrentAppliesAreSerialized(t *testing.T) {
	s := NewSessionStore()
	s.Apply(func(in []models.Session) []models.Session {
		return models.CreateSession(in, sampleSession("a"))
	})

	var mu sync.Mutex
	var revs []uint64
	s.Subscribe(func(rev uint64, _ []models.Session) {
		mu.Lock()
		revs = append(revs, rev)
		mu.Unlock()
	})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Apply(func(in []models.Session) []models.Session {
				return models.AppendAdVersion(in, "a", "a-set", models.Ad{ID: "v", Timestamp: int64(i)}, int64(i))
			})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Snapshot()[0].AdSets[0].Ads, n+1)
	require.Len(t, revs, n)
	for i := 1; i < len(revs); i++ {
		assert.Less(t, revs[i-1], revs[i])
	}
}

func TestSessionStore_ReadersNotBlockedBySlowListener(t *testing.T) {
	s := NewSessionStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	s.Subscribe(func(rev uint64, _ []models.Session) {
		if rev == 1 {
			close(entered)
			<-release
		}
	})

	add := func(id string) Op {
		return func(in []models.Session) []models.Session {
			return models.CreateSession(in, sampleSession(id))
		}
	}

	go s.Apply(add("a"))
	<-entered

	secondDone := make(chan struct{})
	go func() {
		s.Apply(add("b"))
		close(secondDone)
	}()
	time.Sleep(20 * time.Millisecond)

	read := make(chan int, 1)
	go func() { read <- s.Len() }()
	select {
	case n := <-read:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("reader blocked behind a queued writer")
	}

	close(release)
	<-secondDone
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(2), s.Revision())
}
