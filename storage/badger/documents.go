package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocument stores a document record, creating or replacing it.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.ID)

		// Preserve CreatedAt across replacements
		old, err := readDocument(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			doc.CreatedAt = old.CreatedAt
		} else {
			doc.CreatedAt = now
		}
		doc.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		// Tenant index maps back to the primary key
		tenantKey := makeTenantKey(doc.TenantID, doc.ID)
		if err := tx.Set(tenantKey, []byte(doc.ID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return doc, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentsByTenant retrieves all documents belonging to a tenant.
func (r *DocumentRepository) GetDocumentsByTenant(ctx context.Context, tenantID string) ([]*core.Document, error) {
	results := []*core.Document{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := makePartialTenantKey(tenantID)
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var docID string
			err := iter.Item().Value(func(val []byte) error {
				docID = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			doc, err := readDocument(tx, makeDocumentKey(docID))
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, err
}

// AcquireProcessing atomically transitions a document from pending or failed
// to processing. The tenant check, the transition and the read happen in one
// write transaction so two concurrent workers cannot both acquire the same
// document and a caller from the wrong tenant never mutates the record.
func (r *DocumentRepository) AcquireProcessing(ctx context.Context, tenantID, id string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		// A tenant mismatch reads as not found so callers cannot learn
		// which documents other tenants hold.
		if doc == nil || doc.TenantID != tenantID {
			return storage.ErrNotFound
		}

		if doc.Status != core.StatusPending && doc.Status != core.StatusFailed {
			return storage.ErrNotAcquirable
		}

		doc.Status = core.StatusProcessing
		doc.ErrorMessage = ""
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		result = doc
		return tx.Commit()
	}, true)
	return result, err
}

// SetStatus updates a document's processing status.
func (r *DocumentRepository) SetStatus(ctx context.Context, id string, status core.ProcessingStatus) error {
	if err := core.ValidateStatus(status); err != nil {
		return err
	}
	return r.mutate(id, func(doc *core.Document) {
		doc.Status = status
	})
}

// SetCompleted marks a document completed and records its chunk count.
func (r *DocumentRepository) SetCompleted(ctx context.Context, id string, totalChunks int) error {
	return r.mutate(id, func(doc *core.Document) {
		doc.Status = core.StatusCompleted
		doc.TotalChunks = totalChunks
		doc.ErrorMessage = ""
	})
}

// SetFailed marks a document failed and records the error message.
func (r *DocumentRepository) SetFailed(ctx context.Context, id string, errMsg string) error {
	return r.mutate(id, func(doc *core.Document) {
		doc.Status = core.StatusFailed
		doc.ErrorMessage = errMsg
	})
}

// DeleteDocument removes a document record and its tenant index entry.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeTenantKey(doc.TenantID, doc.ID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// mutate applies fn to a stored document inside a write transaction and
// bumps UpdatedAt.
func (r *DocumentRepository) mutate(id string, fn func(doc *core.Document)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		fn(doc)
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document from the transaction.
// Returns nil without error if the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
