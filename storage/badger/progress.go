// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// ProgressStore implements storage.ProgressStore for BadgerDB using
// TTL-bound entries.
type ProgressStore struct {
	backend *Backend
}

var _ storage.ProgressStore = (*ProgressStore)(nil)

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(backend *Backend) (*ProgressStore, error) {
	return &ProgressStore{
		backend: backend,
	}, nil
}

// Close releases resources. ProgressStore has no resources to release.
func (s *ProgressStore) Close() error {
	return nil
}

// SetProgress records the current progress snapshot for a document.
// The entry expires after ttl.
func (s *ProgressStore) SetProgress(ctx context.Context, documentID string, progress core.Progress, ttl time.Duration) error {
	if err := core.ValidateProgress(progress); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeProgressKey(documentID), storage.MarshalProgress(progress)).WithTTL(ttl)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetProgress retrieves the progress snapshot for a document. Expired or
// missing entries yield core.UnknownProgress().
func (s *ProgressStore) GetProgress(ctx context.Context, documentID string) (core.Progress, error) {
	result := core.UnknownProgress()
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeProgressKey(documentID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalProgress(val)
			return err
		})
	}, false)
	return result, err
}
