package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/studyshare/docview/internal/artifact"
	"github.com/studyshare/docview/internal/filekind"
)

const (
	artifactsBucket = "artifacts"
	metadataBucket  = "metadata"
	schemaVersion   = 1
)

// ErrRecordNotFound is returned when a history record cannot be found.
var ErrRecordNotFound = errors.New("record not found")

// Record is one completed download. The origin locator is deliberately not
// persisted; history exposes only what the user already saw.
type Record struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Kind        filekind.Kind `json:"kind"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
	CompletedAt time.Time     `json:"completed_at"`
}

// NewRecord builds a Record from a completed artifact.
func NewRecord(art *artifact.Artifact) Record {
	return Record{
		ID:          uuid.New(),
		Name:        art.Name,
		Kind:        filekind.Classify(art.Name),
		ContentType: art.ContentType,
		Size:        art.Size,
		CompletedAt: time.Now(),
	}
}

// Store persists completed-download records in bbolt.
type Store struct {
	db *bbolt.DB
}

// NewStore opens (or creates) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initialize() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(artifactsBucket)); err != nil {
			return fmt.Errorf("failed to create artifacts bucket: %w", err)
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Save persists a record.
func (s *Store) Save(record Record) error {
	if record.ID == uuid.Nil {
		return errors.New("cannot save record without an ID")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(artifactsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", artifactsBucket)
		}

		return bucket.Put([]byte(record.ID.String()), data)
	})
}

// Find retrieves one record by ID.
func (s *Store) Find(id uuid.UUID) (Record, error) {
	var record Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(artifactsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", artifactsBucket)
		}

		data := bucket.Get([]byte(id.String()))
		if data == nil {
			return ErrRecordNotFound
		}

		return json.Unmarshal(data, &record)
	})

	return record, err
}

// FindAll returns every record, most recent first.
func (s *Store) FindAll() ([]Record, error) {
	var records []Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(artifactsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", artifactsBucket)
		}

		return bucket.ForEach(func(_, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to deserialize record: %w", err)
			}

			records = append(records, record)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})

	return records, nil
}

// Delete removes a record by ID.
func (s *Store) Delete(id uuid.UUID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(artifactsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", artifactsBucket)
		}

		if bucket.Get([]byte(id.String())) == nil {
			return ErrRecordNotFound
		}

		return bucket.Delete([]byte(id.String()))
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
