package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateSessionDefaults(t *testing.T) {
	store := NewStore()

	sess := store.GetOrCreateSession(42)
	assert.Equal(t, int64(42), sess.UserID)
	assert.Equal(t, StateIdle, sess.CurrentState)
	assert.Equal(t, 0, sess.InteractionCount)
	assert.False(t, sess.StartedAt.IsZero())

	again := store.GetOrCreateSession(42)
	assert.Equal(t, sess.StartedAt, again.StartedAt, "get-or-create must be idempotent")
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreateProfileDefaults(t *testing.T) {
	store := NewStore()

	prof := store.GetOrCreateProfile(7)
	assert.Equal(t, int64(7), prof.UserID)
	assert.Equal(t, RiskUnknown, prof.RiskLevel)
	assert.Zero(t, prof.Age)
	assert.Empty(t, prof.Gender)
}

func TestUpdateIncrementsInteractionCountExactlyOnce(t *testing.T) {
	store := NewStore()

	// A mutator that does nothing still counts as one processed event.
	store.Update(1, func(sess *Session, prof *UserProfile) {})
	assert.Equal(t, 1, store.GetOrCreateSession(1).InteractionCount)

	// A mutator that touches several fields still counts once.
	store.Update(1, func(sess *Session, prof *UserProfile) {
		sess.CurrentState = StateAskingAge
		prof.Age = 30
	})
	sess := store.GetOrCreateSession(1)
	assert.Equal(t, 2, sess.InteractionCount)
	assert.Equal(t, StateAskingAge, sess.CurrentState)
}

func TestUpdateMonotonicUnderConcurrency(t *testing.T) {
	store := NewStore()
	const users = 8
	const perUser = 100

	var wg sync.WaitGroup
	for u := int64(0); u < users; u++ {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				store.Update(userID, func(sess *Session, prof *UserProfile) {
					prof.RecordSymptoms("x")
				})
			}(u)
		}
	}
	wg.Wait()

	for u := int64(0); u < users; u++ {
		sess := store.GetOrCreateSession(u)
		require.Equal(t, perUser, sess.InteractionCount, "user %d", u)
	}
}

func TestCopiesDoNotAliasStoreState(t *testing.T) {
	store := NewStore()
	store.Update(5, func(sess *Session, prof *UserProfile) {
		sess.SetPending("appointment_type", "general")
		prof.RecordSymptoms("dolor")
	})

	sess := store.GetOrCreateSession(5)
	prof := store.GetOrCreateProfile(5)
	sess.PendingContext["appointment_type"] = "hacked"
	prof.LastSymptoms[0] = "hacked"

	fresh := store.GetOrCreateSession(5)
	v, _ := fresh.Pending("appointment_type")
	assert.Equal(t, "general", v)
	assert.Equal(t, []string{"dolor"}, store.GetOrCreateProfile(5).LastSymptoms)
}

func TestRecordSymptomsBoundsHistory(t *testing.T) {
	var prof UserProfile
	for i := 0; i < SymptomHistoryLimit+4; i++ {
		prof.RecordSymptoms("s")
	}
	prof.RecordSymptoms("latest")
	assert.Len(t, prof.LastSymptoms, SymptomHistoryLimit)
	assert.Equal(t, "latest", prof.LastSymptoms[len(prof.LastSymptoms)-1])
}

func TestForEachVisitsEveryUser(t *testing.T) {
	store := NewStore()
	for u := int64(1); u <= 50; u++ {
		store.Update(u, func(sess *Session, prof *UserProfile) {})
	}

	seen := make(map[int64]bool)
	store.ForEach(func(userID int64, sess Session, prof UserProfile) {
		seen[userID] = true
	})
	assert.Len(t, seen, 50)
}
