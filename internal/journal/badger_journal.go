package journal

import (
	"bitkub-grid-bot-go/internal/models"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

var keyPrefix = []byte("cycle:")

// badgerJournal is the BadgerDB implementation of the Journal.
type badgerJournal struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerJournal opens (or creates) the journal database at the given path.
func NewBadgerJournal(dbPath string) (Journal, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging would drown out the bot's logs; DB errors are
	// still surfaced through the returned error values.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte("cycle_seq"), 16)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &badgerJournal{db: db, seq: seq}, nil
}

// Append marshals the record to JSON and stores it under the next sequence
// number. Keys are zero padded so lexicographic iteration equals insertion
// order.
func (j *badgerJournal) Append(rec *models.CycleRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	n, err := j.seq.Next()
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%s%016d", keyPrefix, n))

	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// List iterates all cycle records in key order.
func (j *badgerJournal) List() ([]models.CycleRecord, error) {
	var records []models.CycleRecord

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec models.CycleRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the sequence and closes the database.
func (j *badgerJournal) Close() error {
	if err := j.seq.Release(); err != nil {
		j.db.Close()
		return err
	}
	return j.db.Close()
}
