package queue

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	amdapi "github.com/amdapi/amdapi-go"
)

const (
	bucketName  = "uploads"
	dbFileName  = "retry.db"
	maxAttempts = 10
)

// Backoff schedule per attempt; the last entry repeats.
var backoffSchedule = []time.Duration{
	5 * time.Minute,
	15 * time.Minute,
	1 * time.Hour,
	6 * time.Hour,
	24 * time.Hour,
}

// RetryItem is a recording whose upload failed, together with the analyze
// parameters to replay it with.
type RetryItem struct {
	Path      string               `json:"path"`
	Params    amdapi.AnalyzeParams `json:"params"`
	Attempts  int                  `json:"attempts"`
	NextRetry time.Time            `json:"next_retry"`
	CreatedAt time.Time            `json:"created_at"`
}

// RetryQueue persists failed uploads in a bbolt file so they survive
// restarts of watch mode.
type RetryQueue struct {
	db *bolt.DB
}

// Open opens (or creates) the retry database inside dir.
func Open(dir string) (*RetryQueue, error) {
	dbPath := filepath.Join(dir, dbFileName)

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening retry db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &RetryQueue{db: db}, nil
}

func (q *RetryQueue) Close() error {
	return q.db.Close()
}

func (q *RetryQueue) Add(path string, params amdapi.AnalyzeParams) error {
	item := RetryItem{
		Path:      path,
		Params:    params,
		Attempts:  0,
		NextRetry: time.Now().Add(backoffSchedule[0]),
		CreatedAt: time.Now(),
	}

	return q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return b.Put([]byte(path), data)
	})
}

func (q *RetryQueue) Count() int {
	count := 0
	q.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		count = b.Stats().KeyN
		return nil
	})
	return count
}

// ProcessLoop replays due items once a minute until stop is closed.
// uploadFn returning nil removes the item; an error reschedules it, giving
// up after maxAttempts.
func (q *RetryQueue) ProcessLoop(stop <-chan struct{}, uploadFn func(RetryItem) error) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			q.ProcessOnce(uploadFn)
		case <-stop:
			return
		}
	}
}

// ProcessOnce replays every item whose NextRetry has passed.
func (q *RetryQueue) ProcessOnce(uploadFn func(RetryItem) error) {
	var due []RetryItem

	q.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, v []byte) error {
			var item RetryItem
			if err := json.Unmarshal(v, &item); err != nil {
				return nil
			}
			if time.Now().After(item.NextRetry) {
				due = append(due, item)
			}
			return nil
		})
	})

	for _, item := range due {
		if err := uploadFn(item); err != nil {
			item.Attempts++
			if item.Attempts >= maxAttempts {
				q.remove(item.Path)
				continue
			}

			idx := item.Attempts
			if idx >= len(backoffSchedule) {
				idx = len(backoffSchedule) - 1
			}
			item.NextRetry = time.Now().Add(backoffSchedule[idx])

			q.db.Update(func(tx *bolt.Tx) error {
				b := tx.Bucket([]byte(bucketName))
				data, _ := json.Marshal(item)
				return b.Put([]byte(item.Path), data)
			})
		} else {
			q.remove(item.Path)
		}
	}
}

func (q *RetryQueue) remove(path string) {
	q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Delete([]byte(path))
	})
}
