package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mayra0000/ETSChatbot/internal/session"
	"github.com/mayra0000/ETSChatbot/pkg/logger"
)

// Snapshotter periodically dumps every session/profile pair into the
// snapshot store. Failures are logged and retried on the next tick; the
// conversation engine is never blocked by persistence.
type Snapshotter struct {
	store    *session.Store
	db       *SnapshotStore
	interval time.Duration
	log      *logger.Logger
}

func NewSnapshotter(store *session.Store, db *SnapshotStore, interval time.Duration, log *logger.Logger) *Snapshotter {
	return &Snapshotter{store: store, db: db, interval: interval, log: log}
}

// Run blocks until ctx is done, snapshotting once per interval.
func (s *Snapshotter) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.snapshotAll(ctx)
		}
	}
}

func (s *Snapshotter) snapshotAll(ctx context.Context) {
	start := time.Now()
	saved := 0
	s.store.ForEach(func(userID int64, sess session.Session, prof session.UserProfile) {
		sessJSON, err := json.Marshal(sess)
		if err != nil {
			s.log.Errorw("marshal session", "user_id", userID, "error", err)
			return
		}
		profJSON, err := json.Marshal(prof)
		if err != nil {
			s.log.Errorw("marshal profile", "user_id", userID, "error", err)
			return
		}
		if err := s.db.SaveSnapshot(ctx, userID, sessJSON, profJSON); err != nil {
			s.log.Errorw("save snapshot", "user_id", userID, "error", err)
			return
		}
		saved++
	})
	if saved > 0 {
		s.log.Debugw("session snapshot complete", "sessions", saved, "elapsed", time.Since(start))
	}
}
