package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
)

const (
	selectAllNodesQuery = `SELECT root, doc FROM store_nodes ORDER BY root`
	selectNodeQuery     = `SELECT doc FROM store_nodes WHERE root = $1`
	lockNodeQuery       = `SELECT doc FROM store_nodes WHERE root = $1 FOR UPDATE`
	upsertNodeQuery     = `INSERT INTO store_nodes (root, doc, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (root) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`
	deleteNodeQuery = `DELETE FROM store_nodes WHERE root = $1`
)

// ErrRootWrite is returned when a write targets the store root itself.
var ErrRootWrite = errors.New("writes to the store root are not supported")

// PostgresStore keeps one JSONB document per top-level segment in the
// store_nodes table. Writes lock the affected rows and rewrite the documents
// inside a single transaction.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type nodeRow struct {
	Root string `db:"root"`
	Doc  string `db:"doc"`
}

// Get implements Store.
func (p *PostgresStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	segs, err := Split(path)
	if err != nil {
		return nil, err
	}

	if len(segs) == 0 {
		var rows []nodeRow
		if err := p.db.SelectContext(ctx, &rows, selectAllNodesQuery); err != nil {
			return nil, fmt.Errorf("load store: %w", err)
		}
		tree := make(map[string]interface{}, len(rows))
		for _, row := range rows {
			node, err := decodeNode([]byte(row.Doc))
			if err != nil {
				return nil, err
			}
			if node != nil {
				tree[row.Root] = node
			}
		}
		if len(tree) == 0 {
			return nil, nil
		}
		return encodeNode(tree)
	}

	var doc string
	if err := p.db.GetContext(ctx, &doc, selectNodeQuery, segs[0]); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", segs[0], err)
	}

	node, err := decodeNode([]byte(doc))
	if err != nil {
		return nil, err
	}
	value, ok := lookup(node, segs[1:])
	if !ok {
		return nil, nil
	}
	return encodeNode(value)
}

// Set implements Store.
func (p *PostgresStore) Set(ctx context.Context, path string, value interface{}) error {
	return p.Update(ctx, map[string]interface{}{path: value})
}

// Delete implements Store.
func (p *PostgresStore) Delete(ctx context.Context, path string) error {
	return p.Set(ctx, path, nil)
}

// Push implements Store.
func (p *PostgresStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key, err := NewPushKey()
	if err != nil {
		return "", err
	}
	if err := p.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

type pendingWrite struct {
	path string
	segs []string
	node interface{}
}

// Update implements Store. Roots are locked in sorted order.
func (p *PostgresStore) Update(ctx context.Context, values map[string]interface{}) (err error) {
	groups := make(map[string][]pendingWrite)
	for path, value := range values {
		segs, splitErr := Split(path)
		if splitErr != nil {
			return splitErr
		}
		if len(segs) == 0 {
			return ErrRootWrite
		}
		node, convErr := toNode(value)
		if convErr != nil {
			return convErr
		}
		groups[segs[0]] = append(groups[segs[0]], pendingWrite{path: path, segs: segs[1:], node: node})
	}
	if len(groups) == 0 {
		return nil
	}

	roots := make([]string, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, root := range roots {
		if err = p.writeRoot(ctx, tx, root, groups[root]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit store write: %w", err)
	}
	return nil
}

func (p *PostgresStore) writeRoot(ctx context.Context, tx *sqlx.Tx, root string, writes []pendingWrite) error {
	var node interface{}

	var doc string
	switch err := tx.GetContext(ctx, &doc, lockNodeQuery, root); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("lock %s: %w", root, err)
	default:
		decoded, decodeErr := decodeNode([]byte(doc))
		if decodeErr != nil {
			return decodeErr
		}
		node = decoded
	}

	sort.Slice(writes, func(i, j int) bool { return writes[i].path < writes[j].path })
	for _, w := range writes {
		node = assign(node, w.segs, w.node)
	}

	if node == nil {
		if _, err := tx.ExecContext(ctx, deleteNodeQuery, root); err != nil {
			return fmt.Errorf("delete %s: %w", root, err)
		}
		return nil
	}

	encoded, err := encodeNode(node)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsertNodeQuery, root, string(encoded)); err != nil {
		return fmt.Errorf("write %s: %w", root, err)
	}
	return nil
}
