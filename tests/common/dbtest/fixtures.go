//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestTitle inserts a catalog title with the given number of copies.
func CreateTestTitle(t *testing.T, db DBLike, totalCopies int) uuid.UUID {
	t.Helper()

	titleID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO titles (id, name, total_copies) VALUES ($1, $2, $3)",
		titleID, "Title "+titleID.String()[:8], totalCopies)
	require.NoError(t, err)

	return titleID
}

// SetTotalCopies overwrites the catalog count, e.g. to simulate a shrinking collection.
func SetTotalCopies(t *testing.T, db DBLike, titleID uuid.UUID, totalCopies int) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE titles SET total_copies = $2 WHERE id = $1", titleID, totalCopies)
	require.NoError(t, err)
}

// BackdateRequest moves a request's creation time, e.g. to make it eligible for expiry.
func BackdateRequest(t *testing.T, db DBLike, requestID uuid.UUID, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE borrow_requests SET created_at = $2 WHERE id = $1", requestID, createdAt)
	require.NoError(t, err)
}

func CountEvents(t *testing.T, db DBLike, requestID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM circulation_events WHERE request_id = $1", requestID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
