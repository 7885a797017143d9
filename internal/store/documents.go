package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Document is one record from a collection snapshot. Data is the JSON
// body; ID is always authoritative, whatever the body claims.
type Document struct {
	ID   string
	Data json.RawMessage
}

// DocRef names a single document for batch operations.
type DocRef struct {
	Collection string
	ID         string
}

// Create inserts a new document and returns the store-assigned id.
// Callers must not rely on seeing the new record in local state before
// the next snapshot notification.
func (s *Store) Create(collection string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s document: %w", collection, err)
	}
	id := uuid.New().String()
	_, err = s.DB.Exec(
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		collection, id, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}
	s.notifyCollection(collection)
	return id, nil
}

// Update overwrites the whole body of an existing document. A missing id
// is not an error; zero rows change and the snapshot stays as it was.
func (s *Store) Update(collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", collection, err)
	}
	res, err := s.DB.Exec(
		`UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`,
		string(data), collection, id,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		slog.Warn("update targeted a missing document", "collection", collection, "id", id)
		return nil
	}
	s.notifyCollection(collection)
	return nil
}

// Delete removes a document. Deleting an id that does not exist is a
// no-op, not an error.
func (s *Store) Delete(collection, id string) error {
	res, err := s.DB.Exec(
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notifyCollection(collection)
	}
	return nil
}

// Merge overlays the given top-level fields onto the document, creating
// it when absent. Fields not named in the patch keep their stored value.
func (s *Store) Merge(collection, id string, fields map[string]any) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current := make(map[string]any)
	var raw string
	err = tx.QueryRow(
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// First save creates the document.
	case err != nil:
		return fmt.Errorf("read %s/%s for merge: %w", collection, id, err)
	default:
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return fmt.Errorf("decode %s/%s for merge: %w", collection, id, err)
		}
	}

	for k, v := range fields {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal merged %s/%s: %w", collection, id, err)
	}

	_, err = tx.Exec(
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(merged),
	)
	if err != nil {
		return fmt.Errorf("write merged %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notifyDoc(collection, id)
	s.notifyCollection(collection)
	return nil
}

// BatchDelete removes every referenced document, best effort: a failure
// on one document is logged and the batch continues.
func (s *Store) BatchDelete(refs []DocRef) error {
	var firstErr error
	touched := make(map[string]bool)
	for _, ref := range refs {
		_, err := s.DB.Exec(
			`DELETE FROM documents WHERE collection = ? AND id = ?`,
			ref.Collection, ref.ID,
		)
		if err != nil {
			slog.Error("batch delete failed for document", "collection", ref.Collection, "id", ref.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		touched[ref.Collection] = true
	}
	for collection := range touched {
		s.notifyCollection(collection)
	}
	return firstErr
}

// List reads the full current snapshot of a collection, oldest first.
func (s *Store) List(collection string) ([]Document, error) {
	rows, err := s.DB.Query(
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY updated_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var data string
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetDoc reads one document. The second return reports existence.
func (s *Store) GetDoc(collection, id string) (json.RawMessage, bool, error) {
	var data string
	err := s.DB.QueryRow(
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(data), true, nil
}
