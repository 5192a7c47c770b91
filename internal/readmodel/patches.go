package readmodel

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/masmgr/cobwalk-go/internal/cob/patch"
)

// PatchRow is one cached patch document.
type PatchRow struct {
	ID    string
	Patch patch.Patch
}

// PatchFilter narrows ListPatches. An empty Status matches every patch.
type PatchFilter struct {
	Status patch.Status
	Window
}

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// listPatchesQuery returns one row per patch of the page, each carrying the
// number of patches matching the filter. The total is joined onto the page so
// that a page without patches still reports it, as a single row of NULLs.
const listPatchesQuery = `
WITH filtered AS (
  SELECT
    p.id,
    p.patch,
    (
      SELECT MIN(json_extract(revision.value, '$.timestamp'))
      FROM json_each(json_extract(p.patch, '$.revisions')) AS revision
    ) AS first_revision_timestamp
  FROM patches AS p
  WHERE p.repo = ?1
    AND (?2 = '' OR p.patch ->> '$.state.status' = ?2)
),
page AS (
  SELECT id, patch, first_revision_timestamp
  FROM filtered
  ORDER BY first_revision_timestamp DESC, id ASC
  LIMIT ?3 OFFSET ?4
)
SELECT total.n, page.id, page.patch
FROM (SELECT COUNT(*) AS n FROM filtered) AS total
LEFT JOIN page ON 1
ORDER BY page.first_revision_timestamp DESC, page.id ASC`

// ListPatches returns one page of the patches of rid, newest first by the
// timestamp of their earliest revision.
func (s *Store) ListPatches(ctx context.Context, rid string, filter PatchFilter) (Page[PatchRow], error) {
	limit, offset := filter.Limit()
	rows, err := s.query(ctx, "list patches", listPatchesQuery, rid, string(filter.Status), limit, offset)
	if err != nil {
		return Page[PatchRow]{}, err
	}
	defer rows.Close()

	var (
		content []PatchRow
		total   int
	)
	for rows.Next() {
		var id, doc sql.NullString
		if err := rows.Scan(&total, &id, &doc); err != nil {
			return Page[PatchRow]{}, storageError("scan patch", err)
		}
		if !id.Valid {
			continue
		}
		row, err := decodePatch(id.String, doc.String)
		if err != nil {
			return Page[PatchRow]{}, err
		}
		content = append(content, row)
	}
	if err := rows.Err(); err != nil {
		return Page[PatchRow]{}, storageError("iterate patches", err)
	}

	return NewPage(filter.Window, content, total), nil
}

// GetPatch returns a single cached patch.
func (s *Store) GetPatch(ctx context.Context, rid, id string) (PatchRow, error) {
	rows, err := s.query(ctx, "get patch",
		`SELECT patch FROM patches WHERE repo = ?1 AND id = ?2 LIMIT 1`, rid, id)
	if err != nil {
		return PatchRow{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return PatchRow{}, storageError("get patch", err)
		}
		return PatchRow{}, fmt.Errorf("patch %s: %w", id, ErrNotFound)
	}
	var doc string
	if err := rows.Scan(&doc); err != nil {
		return PatchRow{}, storageError("scan patch", err)
	}
	return decodePatch(id, doc)
}

// PatchCounts returns the number of patches of rid per status. Statuses with
// no patches are absent from the map.
func (s *Store) PatchCounts(ctx context.Context, rid string) (map[patch.Status]int, error) {
	rows, err := s.query(ctx, "count patches", `
SELECT patch ->> '$.state.status' AS status, COUNT(*)
FROM patches
WHERE repo = ?1
GROUP BY status`, rid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[patch.Status]int)
	for rows.Next() {
		var (
			status sql.NullString
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storageError("scan patch count", err)
		}
		if !status.Valid {
			s.log.Warn("patch without status")
			continue
		}
		counts[patch.Status(status.String)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate patch counts", err)
	}
	return counts, nil
}

func decodePatch(id, doc string) (PatchRow, error) {
	var p patch.Patch
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return PatchRow{}, storageError("decode patch "+id, err)
	}
	return PatchRow{ID: id, Patch: p}, nil
}
