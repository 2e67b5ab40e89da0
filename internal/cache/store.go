package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"examtopics-viewer/internal/assert"
	"examtopics-viewer/internal/chrono"
	"examtopics-viewer/internal/db"
)

// Store persists opaque blobs by key. Load never fails, anything that cannot
// be read is treated as absent.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool)
	Save(ctx context.Context, key string, blob []byte) error
}

// SQLStore keeps blobs in a sqlite or libsql database created with db.Schema.
type SQLStore struct {
	qry  *db.Queries
	time chrono.TimeAPI
}

func NewSQLStore(database *sql.DB, time chrono.TimeAPI) SQLStore {
	assert.NotNil(database, "database")
	assert.NotNil(time, "time")
	return SQLStore{qry: db.New(database), time: time}
}

func (s SQLStore) Load(ctx context.Context, key string) ([]byte, bool) {
	value, err := s.qry.GetBlob(ctx, key)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (s SQLStore) Save(ctx context.Context, key string, blob []byte) error {
	err := s.qry.PutBlob(ctx, db.PutBlobParams{
		Key:       key,
		Value:     blob,
		UpdatedAt: s.time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}
	return nil
}

// FileStore keeps one <key>.json file per blob in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (FileStore, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FileStore{}, err
	}
	return FileStore{dir: dir}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func (s FileStore) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s FileStore) Load(_ context.Context, key string) ([]byte, bool) {
	contents, err := os.ReadFile(s.path(key))
	if err != nil || len(contents) == 0 {
		return nil, false
	}
	return contents, true
}

// Save writes to a temporary file first so a crash never leaves a truncated blob.
func (s FileStore) Save(_ context.Context, key string, blob []byte) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	_, err = tmp.Write(blob)
	closeErr := tmp.Close()
	if err = errors.Join(err, closeErr); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// MemoryStore keeps blobs in memory, it is used when caching is disabled.
type MemoryStore struct {
	mutex sync.Mutex
	blobs map[string][]byte
	saves map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: map[string][]byte{}, saves: map[string]int{}}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), blob...), true
}

func (s *MemoryStore) Save(_ context.Context, key string, blob []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.blobs[key] = append([]byte(nil), blob...)
	s.saves[key]++
	return nil
}

// Saves returns how many times `key` was saved.
func (s *MemoryStore) Saves(key string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.saves[key]
}
