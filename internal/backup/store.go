// Package backup implements the write-ahead store for pending submissions.
// Each reference owns a {ref}.pdf / {ref}.json pair under the pending
// uploads directory; a sqlite table indexes the pending references.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/formkiosk/internal/common"
	"github.com/dmitrijs2005/formkiosk/internal/dbx"
)

// Store persists pending artifact pairs. Safe for concurrent use; the
// sqlite index serializes writers and file names never collide because
// reference numbers are unique.
type Store struct {
	dir       string
	exportDir string
	db        dbx.DBTX
}

// NewStore creates the pending-uploads directory if needed and returns a
// Store writing artifacts under dir and export batches under exportDir.
func NewStore(dir, exportDir string, db dbx.DBTX) (*Store, error) {
	for _, d := range []string{dir, exportDir} {
		if err := os.MkdirAll(d, 0o770); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", d, err)
		}
	}
	return &Store{dir: dir, exportDir: exportDir, db: db}, nil
}

func (s *Store) pdfPath(reference string) string {
	return filepath.Join(s.dir, reference+".pdf")
}

func (s *Store) jsonPath(reference string) string {
	return filepath.Join(s.dir, reference+".json")
}

// Save writes both artifacts durably, then records the reference in the
// pending index. Saving the same reference twice overwrites the artifacts
// and leaves a single index entry.
func (s *Store) Save(ctx context.Context, reference string, pdfData, jsonData []byte) error {
	if err := writeFileAtomic(s.pdfPath(reference), pdfData); err != nil {
		return fmt.Errorf("saving pdf artifact: %w", err)
	}
	if err := writeFileAtomic(s.jsonPath(reference), jsonData); err != nil {
		return fmt.Errorf("saving json artifact: %w", err)
	}

	query := `INSERT INTO pending_uploads (reference) VALUES (?)
			ON CONFLICT(reference) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, reference); err != nil {
		return fmt.Errorf("indexing pending upload: %w", err)
	}
	return nil
}

// ListPending returns the references with artifacts awaiting upload,
// oldest first.
func (s *Store) ListPending(ctx context.Context) ([]string, error) {
	query := `SELECT reference FROM pending_uploads ORDER BY created_at, reference`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending uploads: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Load returns the artifact pair for a pending reference, or
// common.ErrNotFound if the reference is not in the index.
func (s *Store) Load(ctx context.Context, reference string) (pdfData, jsonData []byte, err error) {
	query := `SELECT 1 FROM pending_uploads WHERE reference = ?`
	var one int
	err = s.db.QueryRowContext(ctx, query, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, common.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("looking up pending upload: %w", err)
	}

	pdfData, err = os.ReadFile(s.pdfPath(reference))
	if err != nil {
		return nil, nil, fmt.Errorf("reading pdf artifact: %w", err)
	}
	jsonData, err = os.ReadFile(s.jsonPath(reference))
	if err != nil {
		return nil, nil, fmt.Errorf("reading json artifact: %w", err)
	}
	return pdfData, jsonData, nil
}

// Remove deletes both artifacts and the index entry. Removing a reference
// that does not exist is a no-op.
func (s *Store) Remove(ctx context.Context, reference string) error {
	for _, path := range []string{s.pdfPath(reference), s.jsonPath(reference)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing artifact %s: %w", path, err)
		}
	}

	query := `DELETE FROM pending_uploads WHERE reference = ?`
	if _, err := s.db.ExecContext(ctx, query, reference); err != nil {
		return fmt.Errorf("unindexing pending upload: %w", err)
	}
	return nil
}

// ExportAll copies every pending artifact pair into a fresh batch
// directory under the export root and returns its path. Returns
// common.ErrNothingToExport when no uploads are pending.
func (s *Store) ExportAll(ctx context.Context) (string, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "", common.ErrNothingToExport
	}

	batch := filepath.Join(s.exportDir, "export-"+uuid.NewString())
	if err := os.MkdirAll(batch, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", batch, err)
	}

	for _, ref := range pending {
		for _, src := range []string{s.pdfPath(ref), s.jsonPath(ref)} {
			data, err := os.ReadFile(src)
			if err != nil {
				return "", fmt.Errorf("reading %s: %w", src, err)
			}
			dst := filepath.Join(batch, filepath.Base(src))
			if err := os.WriteFile(dst, data, 0o660); err != nil {
				return "", fmt.Errorf("writing %s: %w", dst, err)
			}
		}
	}
	return batch, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so a crash mid-write cannot leave a truncated
// artifact under the final name.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
