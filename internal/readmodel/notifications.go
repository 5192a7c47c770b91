package readmodel

import (
	"context"
	"encoding/json"
	"sort"
)

// NotificationRow is one observed ref movement. Old is nil for a created ref
// and New is nil for a deleted one.
type NotificationRow struct {
	RowID     int64   `json:"row_id"`
	Timestamp int64   `json:"timestamp"`
	Remote    string  `json:"remote"`
	Old       *string `json:"old"`
	New       *string `json:"new"`
}

// RefGroup holds the rows of one ref, namespace stripped, newest first.
type RefGroup struct {
	Repo string
	Ref  string
	Rows []NotificationRow
}

// Latest returns the timestamp of the newest row in the group.
func (g RefGroup) Latest() int64 {
	if len(g.Rows) == 0 {
		return 0
	}
	return g.Rows[0].Timestamp
}

// RepoGroup is the ordered set of ref groups of one repository.
type RepoGroup struct {
	Repo string
	Refs []RefGroup
}

// RepoGroupParams narrows RepoGroups. An empty Repos slice selects every
// repository.
type RepoGroupParams struct {
	Repos []string
}

// Ref names look like refs/namespaces/<remote>/refs/...; remotes are
// 48-character keys, so the qualified ref starts at byte 66.
const (
	strippedRefExpr = `CASE WHEN ref LIKE 'refs/namespaces/%' THEN substr(ref, 66) ELSE ref END`
	remoteExpr      = `CASE WHEN ref LIKE 'refs/namespaces/%' THEN substr(ref, 17, 48) ELSE '' END`
)

// RepoGroups groups notification rows by repository and stripped ref. Groups
// are ordered by their most recent row, newest first; repositories are
// ordered by their newest group.
func (s *Store) RepoGroups(ctx context.Context, params RepoGroupParams) ([]RepoGroup, error) {
	query := `
SELECT
  repo,
  ` + strippedRefExpr + ` AS ref_without_namespace,
  MAX(timestamp) AS latest,
  json_group_array(json_object(
    'row_id', rowid,
    'timestamp', timestamp,
    'remote', ` + remoteExpr + `,
    'old', old,
    'new', new
  )) AS rows
FROM (SELECT rowid, repo, ref, old, new, timestamp FROM "repository-notifications" ORDER BY timestamp DESC, rowid DESC)`
	args := make([]any, 0, len(params.Repos))
	if len(params.Repos) > 0 {
		query += "\nWHERE repo IN (" + placeholders(len(params.Repos)) + ")"
		for _, repo := range params.Repos {
			args = append(args, repo)
		}
	}
	query += `
GROUP BY repo, ref_without_namespace
ORDER BY latest DESC, repo ASC, ref_without_namespace ASC`

	rows, err := s.query(ctx, "group notifications", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		groups []RepoGroup
		index  = make(map[string]int)
	)
	for rows.Next() {
		var (
			repo, ref, raw string
			latest         int64
		)
		if err := rows.Scan(&repo, &ref, &latest, &raw); err != nil {
			return nil, storageError("scan notification group", err)
		}
		var items []NotificationRow
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, storageError("decode notification group "+ref, err)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Timestamp != items[j].Timestamp {
				return items[i].Timestamp > items[j].Timestamp
			}
			return items[i].RowID > items[j].RowID
		})

		i, ok := index[repo]
		if !ok {
			i = len(groups)
			index[repo] = i
			groups = append(groups, RepoGroup{Repo: repo})
		}
		groups[i].Refs = append(groups[i].Refs, RefGroup{Repo: repo, Ref: ref, Rows: items})
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate notification groups", err)
	}
	return groups, nil
}

// CountsByRepo returns the number of COB notifications per repository.
func (s *Store) CountsByRepo(ctx context.Context) (map[string]int, error) {
	rows, err := s.query(ctx, "count notifications by repo", `
SELECT repo, COUNT(*)
FROM "repository-notifications"
WHERE ref LIKE '%/cobs/%'
GROUP BY repo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			repo string
			n    int
		)
		if err := rows.Scan(&repo, &n); err != nil {
			return nil, storageError("scan notification count", err)
		}
		counts[repo] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate notification counts", err)
	}
	return counts, nil
}

// CountTotal returns the number of notification rows.
func (s *Store) CountTotal(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, "count notifications", `SELECT COUNT(*) FROM "repository-notifications"`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, storageError("scan notification total", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, storageError("count notifications", err)
	}
	return n, nil
}
