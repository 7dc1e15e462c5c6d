package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// GetTodoStats aggregates counts over non-archived todos: totals, status
// buckets, due-date windows and per-priority/project/assignee
// distributions. The independent queries fan out on an errgroup; the
// connection pool serializes them underneath.
func (s *SQLiteStore) GetTodoStats(ctx context.Context) (*TodoStats, error) {
	today := time.Now().UTC().Format("2006-01-02")
	weekEnd := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	stats := &TodoStats{
		ByPriority: make(map[string]int64),
		ByProject:  make(map[string]int64),
		ByAssignee: make(map[string]int64),
	}

	g, gctx := errgroup.WithContext(ctx)

	count := func(dest *int64, query string, args ...any) func() error {
		return func() error {
			if err := sqlx.GetContext(gctx, s.db, dest, query, args...); err != nil {
				return fmt.Errorf("failed to count todos: %w", err)
			}
			return nil
		}
	}

	g.Go(count(&stats.Total,
		"SELECT COUNT(*) FROM todos WHERE archived = FALSE"))
	g.Go(count(&stats.Completed,
		"SELECT COUNT(*) FROM todos WHERE completed = TRUE AND archived = FALSE"))
	g.Go(count(&stats.InProgress,
		"SELECT COUNT(*) FROM todos WHERE status = 'in_progress' AND archived = FALSE"))
	g.Go(count(&stats.Blocked,
		"SELECT COUNT(*) FROM todos WHERE status = 'blocked' AND archived = FALSE"))
	g.Go(count(&stats.Overdue,
		"SELECT COUNT(*) FROM todos WHERE due_date < ? AND completed = FALSE AND archived = FALSE", today))
	g.Go(count(&stats.DueToday,
		"SELECT COUNT(*) FROM todos WHERE due_date = ? AND completed = FALSE AND archived = FALSE", today))
	g.Go(count(&stats.DueThisWeek,
		"SELECT COUNT(*) FROM todos WHERE due_date BETWEEN ? AND ? AND completed = FALSE AND archived = FALSE", today, weekEnd))

	g.Go(func() error {
		return groupCount(gctx, s.db, stats.ByPriority,
			"SELECT COALESCE(priority, 'none') AS k, COUNT(*) AS n FROM todos WHERE archived = FALSE GROUP BY priority")
	})
	g.Go(func() error {
		return groupCount(gctx, s.db, stats.ByProject,
			"SELECT COALESCE(project_id, 'none') AS k, COUNT(*) AS n FROM todos WHERE archived = FALSE GROUP BY project_id")
	})
	g.Go(func() error {
		return groupCount(gctx, s.db, stats.ByAssignee,
			"SELECT COALESCE(assignee, 'unassigned') AS k, COUNT(*) AS n FROM todos WHERE archived = FALSE GROUP BY assignee")
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func groupCount(ctx context.Context, q querier, dest map[string]int64, query string) error {
	rows := make([]struct {
		K string `db:"k"`
		N int64  `db:"n"`
	}, 0)
	if err := sqlx.SelectContext(ctx, q, &rows, query); err != nil {
		return fmt.Errorf("failed to group todos: %w", err)
	}
	for _, r := range rows {
		dest[r.K] = r.N
	}
	return nil
}
