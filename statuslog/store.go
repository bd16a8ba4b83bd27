// Package statuslog persists client status checks as an append-only log on
// top of a go-datastore backend. It has no dependency on the reputation
// lookup engine and exists solely for service health bookkeeping.
package statuslog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("statuslog")

// StatusCheck is one log entry.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store is an append-only status-check log. Entry keys embed a zero-padded
// unix-nano timestamp so that datastore key order is insertion-time order.
type Store struct {
	ds datastore.Datastore
}

// New creates a Store on top of ds. The caller owns the datastore lifecycle.
func New(ds datastore.Datastore) *Store {
	return &Store{ds: ds}
}

// Append records a new status check for clientName and returns the stored
// entry with its generated id and UTC timestamp.
func (s *Store) Append(ctx context.Context, clientName string) (StatusCheck, error) {
	entry := StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	val, err := json.Marshal(entry)
	if err != nil {
		return StatusCheck{}, fmt.Errorf("encoding status check: %w", err)
	}

	key := entryKey(entry)
	if err := s.ds.Put(ctx, key, val); err != nil {
		return StatusCheck{}, fmt.Errorf("storing status check: %w", err)
	}
	return entry, nil
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]StatusCheck, error) {
	res, err := s.ds.Query(ctx, query.Query{
		Orders: []query.Order{query.OrderByKeyDescending{}},
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("querying status checks: %w", err)
	}
	defer res.Close()

	entries := make([]StatusCheck, 0, limit)
	for r := range res.Next() {
		if r.Error != nil {
			return nil, fmt.Errorf("reading status checks: %w", r.Error)
		}
		var entry StatusCheck
		if err := json.Unmarshal(r.Value, &entry); err != nil {
			log.Warnf("skipping undecodable status entry %s: %v", r.Key, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryKey(entry StatusCheck) datastore.Key {
	// The uuid suffix keeps keys unique for entries within the same nanosecond.
	return datastore.NewKey(fmt.Sprintf("%020d-%s", entry.Timestamp.UnixNano(), entry.ID))
}
