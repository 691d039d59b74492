package recording

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var hashesBucket = []byte("audio_hashes")

// hashEntry is what gets persisted per recording. Size and mtime let a
// rescan detect a rewritten audio file and rehash it.
type hashEntry struct {
	Hash    string `json:"hash"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
}

// HashCache persists audio hashes between scans so only new or changed
// recordings get rehashed.
type HashCache struct {
	db *bolt.DB
}

func OpenHashCache(dbPath string) (*HashCache, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening hash cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(hashesBucket)
		return createErr
	})
	if err != nil {
		return nil, fmt.Errorf("creating hash bucket: %w", err)
	}

	return &HashCache{db: db}, nil
}

func (c *HashCache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached hash for a recording when the audio file still
// has the recorded size and mtime.
func (c *HashCache) Lookup(recordingID string, size, modTime int64) (string, bool) {
	var entry hashEntry
	found := false
	c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(hashesBucket).Get([]byte(recordingID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil
		}
		found = entry.Size == size && entry.ModTime == modTime
		return nil
	})
	if !found {
		return "", false
	}
	return entry.Hash, true
}

func (c *HashCache) Save(recordingID, hash string, size, modTime int64) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(hashEntry{Hash: hash, Size: size, ModTime: modTime})
		if err != nil {
			return err
		}
		return tx.Bucket(hashesBucket).Put([]byte(recordingID), data)
	})
}
