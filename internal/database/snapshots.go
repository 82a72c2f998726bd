package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// SaveSnapshot stores a copy of g. cycles is the cycle count already
// computed by the caller, as counting is expensive on large graphs.
func (cdb *CrawlDB) SaveSnapshot(ctx context.Context, g *graph.Graph, cycles int) (*model.Snapshot, error) {
	var buf bytes.Buffer
	if err := g.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize graph: %w", err)
	}

	snap := &model.Snapshot{
		RootNode:        g.RootNode(),
		RootCategoryURL: g.RootCategoryURL(),
		Nodes:           g.NumNodes(),
		Edges:           g.NumEdges(),
		Pages:           g.NumPages(),
		Cycles:          cycles,
		CreatedAt:       time.Now().UTC(),
	}

	query := `
	INSERT INTO graph_snapshots (root_node, root_category_url, nodes, edges, pages, cycles, created_at, graph_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := cdb.db.ExecContext(ctx, query,
		snap.RootNode,
		snap.RootCategoryURL,
		snap.Nodes,
		snap.Edges,
		snap.Pages,
		snap.Cycles,
		formatTimestamp(snap.CreatedAt),
		buf.Bytes(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	if snap.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first, without the graph
// documents. An empty rootNode lists every snapshot.
func (cdb *CrawlDB) ListSnapshots(ctx context.Context, rootNode string) ([]model.Snapshot, error) {
	query := `
	SELECT id, root_node, root_category_url, nodes, edges, pages, cycles, created_at
	FROM graph_snapshots
	`
	args := make([]any, 0, 1)
	if rootNode != "" {
		query += " WHERE root_node = ?"
		args = append(args, rootNode)
	}
	query += " ORDER BY id DESC"

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var (
			s         model.Snapshot
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.RootNode, &s.RootCategoryURL, &s.Nodes, &s.Edges, &s.Pages, &s.Cycles, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.CreatedAt = parseTimestamp(createdAt)
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// GetSnapshot returns the snapshot with the given id, including its graph
// document. It returns ErrSnapshotNotFound for an unknown id.
func (cdb *CrawlDB) GetSnapshot(ctx context.Context, id int64) (*model.Snapshot, error) {
	query := `
	SELECT id, root_node, root_category_url, nodes, edges, pages, cycles, created_at, graph_json
	FROM graph_snapshots
	WHERE id = ?
	`

	var (
		s         model.Snapshot
		createdAt string
	)
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.RootNode, &s.RootCategoryURL, &s.Nodes, &s.Edges, &s.Pages, &s.Cycles, &createdAt, &s.Graph,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	s.CreatedAt = parseTimestamp(createdAt)
	return &s, nil
}

// LoadSnapshotGraph returns the graph stored in snapshot id.
func (cdb *CrawlDB) LoadSnapshotGraph(ctx context.Context, id int64) (*graph.Graph, error) {
	s, err := cdb.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return graph.Load(bytes.NewReader(s.Graph))
}
