package session

import (
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

const shardCount = 32

type shard struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	profiles map[int64]*UserProfile
}

// Store owns every Session and UserProfile for the process lifetime. All
// mutation goes through Update so that events for the same user are applied
// in order, one at a time, while different users proceed independently on
// their own shards. Nothing is persisted; a restart starts empty.
type Store struct {
	shards [shardCount]*shard
	now    func() time.Time
}

func NewStore() *Store {
	s := &Store{now: time.Now}
	for i := range s.shards {
		s.shards[i] = &shard{
			sessions: make(map[int64]*Session),
			profiles: make(map[int64]*UserProfile),
		}
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	return s.shards[h.Sum32()%shardCount]
}

// locked accessors; callers must hold sh.mu.
func (sh *shard) session(userID int64, now time.Time) *Session {
	sess, ok := sh.sessions[userID]
	if !ok {
		sess = &Session{
			UserID:       userID,
			StartedAt:    now,
			CurrentState: StateIdle,
		}
		sh.sessions[userID] = sess
	}
	return sess
}

func (sh *shard) profile(userID int64) *UserProfile {
	prof, ok := sh.profiles[userID]
	if !ok {
		prof = &UserProfile{UserID: userID, RiskLevel: RiskUnknown}
		sh.profiles[userID] = prof
	}
	return prof
}

// GetOrCreateSession returns a copy of the user's session, creating it with
// defaults on first contact.
func (s *Store) GetOrCreateSession(userID int64) Session {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return copySession(sh.session(userID, s.now()))
}

// GetOrCreateProfile returns a copy of the user's profile, creating it with
// defaults on first contact.
func (s *Store) GetOrCreateProfile(userID int64) UserProfile {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return copyProfile(sh.profile(userID))
}

// Update applies fn to the user's session/profile pair under the shard lock
// and increments InteractionCount exactly once, whatever fn does. This is the
// only sanctioned mutation path.
func (s *Store) Update(userID int64, fn func(*Session, *UserProfile)) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess := sh.session(userID, s.now())
	prof := sh.profile(userID)
	fn(sess, prof)
	sess.InteractionCount++
}

// ForEach visits a consistent copy of every session/profile pair, one shard
// at a time. Used by the snapshot collaborator.
func (s *Store) ForEach(fn func(userID int64, sess Session, prof UserProfile)) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, sess := range sh.sessions {
			fn(id, copySession(sess), copyProfile(sh.profile(id)))
		}
		sh.mu.Unlock()
	}
}

// Len returns the number of known sessions.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}

func copySession(sess *Session) Session {
	out := *sess
	if sess.PendingContext != nil {
		out.PendingContext = make(map[string]string, len(sess.PendingContext))
		for k, v := range sess.PendingContext {
			out.PendingContext[k] = v
		}
	}
	return out
}

func copyProfile(prof *UserProfile) UserProfile {
	out := *prof
	if prof.LastSymptoms != nil {
		out.LastSymptoms = append([]string(nil), prof.LastSymptoms...)
	}
	return out
}
