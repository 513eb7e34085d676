package contrib

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/mergepilot/mergepilot-go/internal/plan"
)

var cacheBucket = []byte("contributors")

// Cache persists per-path contributor statistics between planning runs.
// Entries are keyed by path plus its last commit hash, so a path with
// new commits misses naturally. Any cache failure degrades to a direct
// git query; the cache is never a correctness dependency.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
	log *logrus.Logger
	now func() time.Time
}

type cacheEntry struct {
	CreatedAt time.Time                        `json:"created_at"`
	Stats     map[string]plan.ContributorStats `json:"stats"`
}

// OpenCache opens (creating if needed) the bolt database at path.
func OpenCache(path string, ttl time.Duration, log *logrus.Logger) (*Cache, error) {
	if log == nil {
		log = logrus.New()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open contributor cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init contributor cache: %w", err)
	}
	return &Cache{db: db, ttl: ttl, log: log, now: time.Now}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns cached stats for the key if present and fresh.
func (c *Cache) Get(key string) (map[string]plan.ContributorStats, bool) {
	var entry cacheEntry
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cacheBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("contributor cache read failed")
		return nil, false
	}
	if !found || c.now().Sub(entry.CreatedAt) > c.ttl {
		return nil, false
	}
	return entry.Stats, true
}

// Put stores stats for the key. Write failures are logged, not returned;
// a cold cache only costs time.
func (c *Cache) Put(key string, stats map[string]plan.ContributorStats) {
	data, err := json.Marshal(cacheEntry{CreatedAt: c.now(), Stats: stats})
	if err != nil {
		c.log.WithError(err).Warn("contributor cache encode failed")
		return
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(key), data)
	})
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("contributor cache write failed")
	}
}
