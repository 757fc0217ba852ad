package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"linkaudit/pkg/log"
	"linkaudit/pkg/models"
	"linkaudit/pkg/utils"
)

const (
	runKeyPrefix = "run:"       // Prefix for run record keys in DB
	historyDBDir = "history_db" // Subdirectory name within stateDir for Badger DB files
)

// BadgerStore implements the HistoryStore interface using BadgerDB
type BadgerStore struct {
	db  *badger.DB
	log *logrus.Entry
}

// NewBadgerStore initializes and returns a new BadgerStore rooted under
// stateDir.
func NewBadgerStore(stateDir string, logger *logrus.Entry) (*BadgerStore, error) {
	dbPath := filepath.Join(stateDir, historyDBDir)
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("cannot create state directory %s: %w", dbPath, err)
	}

	logger.Infof("Opening run history database at: %s", dbPath)

	// Use the logrus adapter so badger's own output lands in our log
	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions(dbPath).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", dbPath, err)
	}

	return &BadgerStore{db: db, log: logger}, nil
}

// SaveRun implements the HistoryStore interface
func (s *BadgerStore) SaveRun(record *models.RunRecord) error {
	if record.RunID == "" {
		return fmt.Errorf("%w: run record has no run ID", utils.ErrDatabase)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: marshaling run %q: %w", utils.ErrDatabase, record.RunID, err)
	}

	key := []byte(runKeyPrefix + record.RunID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, payload)
	})
	if err != nil {
		return fmt.Errorf("%w: storing run %q: %w", utils.ErrDatabase, record.RunID, err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id": record.RunID,
		"pages":  len(record.Results),
	}).Info("Saved run to history")
	return nil
}

// GetRun implements the HistoryStore interface
func (s *BadgerStore) GetRun(runID string) (*models.RunRecord, error) {
	var record *models.RunRecord
	key := []byte(runKeyPrefix + runID)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Unknown run: (nil, nil)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record = &models.RunRecord{}
			return json.Unmarshal(val, record)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading run %q: %w", utils.ErrDatabase, runID, err)
	}
	return record, nil
}

// ListRuns implements the HistoryStore interface
func (s *BadgerStore) ListRuns() ([]RunSummary, error) {
	var summaries []RunSummary

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record models.RunRecord
				if err := json.Unmarshal(val, &record); err != nil {
					// A corrupt record shouldn't hide the rest of the history
					s.log.Warnf("Skipping unreadable run record %q: %v", it.Item().Key(), err)
					return nil
				}
				summaries = append(summaries, summarize(&record))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing runs: %w", utils.ErrDatabase, err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt > summaries[j].StartedAt // Newest first
	})
	return summaries, nil
}

// Close implements the HistoryStore interface
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.log.Debug("Closing run history database")
	return s.db.Close()
}

func summarize(record *models.RunRecord) RunSummary {
	failCount := 0
	for _, result := range record.Results {
		if result.FetchError != "" {
			failCount++
		}
	}
	return RunSummary{
		RunID:     record.RunID,
		StartedAt: record.StartedAt.Format(time.RFC3339),
		Source:    record.Source,
		PageCount: len(record.Results),
		FailCount: failCount,
	}
}
