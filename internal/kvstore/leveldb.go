package kvstore

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/creatorspace/memberkit/internal/logging"
)

// LevelDB is the production Store: one LevelDB database holding JSON blobs
// keyed by string. Faults are logged and reported as misses so a broken
// database directory degrades the app instead of crashing it.
type LevelDB struct {
	db  *leveldb.DB
	log logging.Logger
}

// OpenLevelDB opens (or creates) the database at path and probes it with a
// sentinel write. If the mechanism is unusable the returned Store is a
// Disabled stub: every read misses and every write reports failure.
func OpenLevelDB(path string, log logging.Logger) Store {
	ctx := context.Background()

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		log.Error(ctx, "storage unavailable, running degraded", "path", path, "error", err)
		return Disabled{}
	}

	s := &LevelDB{db: db, log: log}
	if !probe(s) {
		log.Error(ctx, "storage probe failed, running degraded", "path", path)
		_ = db.Close()
		return Disabled{}
	}
	return s
}

func (s *LevelDB) GetRaw(key string) (string, bool) {
	v, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			s.log.Error(context.Background(), "storage read failed", "key", key, "error", err)
		}
		return "", false
	}
	return string(v), true
}

func (s *LevelDB) SetRaw(key, value string) bool {
	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		s.log.Error(context.Background(), "storage write failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *LevelDB) Remove(key string) {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		s.log.Error(context.Background(), "storage delete failed", "key", key, "error", err)
	}
}

func (s *LevelDB) Close() error {
	return s.db.Close()
}

// Disabled is the failure-mode Store handed out when the probe fails.
type Disabled struct{}

func (Disabled) GetRaw(string) (string, bool) { return "", false }
func (Disabled) SetRaw(string, string) bool   { return false }
func (Disabled) Remove(string)                {}
func (Disabled) Close() error                 { return nil }
