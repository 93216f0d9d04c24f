// Package ioseed implements Populator interface for filling tables of a
// catalog with fake rows. This is an impure I/O package that drives
// seeders over gorm stores.
package ioseed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnseed/internal/iostore"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/db"
	"github.com/gnames/gnseed/pkg/gnseed"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/gnames/gnseed/pkg/seeder"
	"golang.org/x/sync/errgroup"
)

// maxJobs keeps concurrent transactions below the size of the
// PostgreSQL connection pool.
const maxJobs = 8

// populator implements the Populator interface.
type populator struct {
	cfg      *config.Config
	operator db.Operator
	catalog  *schema.Catalog
}

// New creates a new Populator.
func New(
	cfg *config.Config,
	op db.Operator,
	cat *schema.Catalog,
) gnseed.Populator {
	return &populator{cfg: cfg, operator: op, catalog: cat}
}

// result is the outcome of seeding one table.
type result struct {
	table    string
	rows     int
	duration time.Duration
	err      error
}

// Populate seeds tables level by level. Tables of one level do not
// reference each other and are seeded concurrently on PostgreSQL.
func (p *populator) Populate(
	ctx context.Context,
	amount int,
	names ...string,
) error {
	if p.operator.DB() == nil {
		return NotConnectedError()
	}
	if amount < 0 {
		return seeder.InvalidAmountError(amount)
	}

	levels, err := p.levels(names)
	if err != nil {
		return err
	}

	startTime := time.Now()
	slog.Info("Starting seeding", "rows", amount, "levels", len(levels))

	var results []result
	var idx int
	for i, level := range levels {
		select {
		case <-ctx.Done():
			return CancelledError(ctx.Err())
		default:
		}

		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Level %d/%d: <em>%s</em>",
			i+1, len(levels), strings.Join(level, ", "))

		res, err := p.seedLevel(ctx, level, idx, amount)
		if err != nil {
			return err
		}
		results = append(results, res...)
		idx += len(level)
	}

	return p.summary(results, startTime)
}

// levels groups the requested tables by dependency depth.
func (p *populator) levels(names []string) ([][]string, error) {
	all, err := p.catalog.Levels(names...)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return all, nil
	}

	var res [][]string
	for _, level := range all {
		var tables []string
		for _, name := range level {
			if slices.Contains(names, name) {
				tables = append(tables, name)
			}
		}
		if len(tables) > 0 {
			res = append(res, tables)
		}
	}
	return res, nil
}

func (p *populator) seedLevel(
	ctx context.Context,
	level []string,
	offset, amount int,
) ([]result, error) {
	bar := pb.Full.Start(amount * len(level))
	bar.Set("prefix", "Seeding rows: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs())

	var mu sync.Mutex
	res := make([]result, 0, len(level))
	for i, name := range level {
		tbl, _ := p.catalog.Table(name)
		cfg := p.tableConfig(offset + i)
		g.Go(func() error {
			r := p.seedTable(gCtx, cfg, tbl, amount, bar)
			mu.Lock()
			res = append(res, r)
			mu.Unlock()
			if gCtx.Err() != nil {
				return CancelledError(gCtx.Err())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(res, func(a, b result) int {
		return strings.Compare(a.table, b.table)
	})
	return res, nil
}

// seedTable inserts rows of one table in batches over its own store.
func (p *populator) seedTable(
	ctx context.Context,
	cfg *config.Config,
	tbl *schema.Table,
	amount int,
	bar *pb.ProgressBar,
) result {
	start := time.Now()
	res := result{table: tbl.Name}
	s := seeder.New(cfg, iostore.New(p.operator), p.catalog, tbl)

	bulk := max(cfg.Faker.BulkSize, 1)
	for res.rows < amount {
		n := min(bulk, amount-res.rows)
		if res.err = s.Create(ctx, n); res.err != nil {
			slog.Error("Failed to seed table",
				"table", tbl.Name, "rows", res.rows, "error", res.err)
			break
		}
		res.rows += n
		bar.Add(n)
	}

	res.duration = time.Since(start)
	if res.err == nil {
		slog.Info("Table seeded",
			"table", tbl.Name,
			"rows", res.rows,
			"duration", gnfmt.TimeString(res.duration.Seconds()),
		)
	}
	return res
}

// tableConfig gives every table its own reproducible random stream.
func (p *populator) tableConfig(idx int) *config.Config {
	res := *p.cfg
	if res.Faker.Seed != nil && res.Faker.Source == nil {
		seed := *res.Faker.Seed + int64(idx)
		res.Faker.Seed = &seed
	}
	return &res
}

// jobs is the number of tables seeded at once. SQLite has a single
// writer.
func (p *populator) jobs() int {
	if p.operator.Dialect() == schema.SQLite {
		return 1
	}
	return min(max(p.cfg.JobsNumber, 1), maxJobs)
}

func (p *populator) summary(results []result, startTime time.Time) error {
	var success, failed, rows int
	for _, r := range results {
		if r.err != nil {
			failed++
			gn.Warn("<em>%s</em>: %s rows, failed: %v",
				r.table, humanize.Comma(int64(r.rows)), r.err)
			continue
		}
		success++
		rows += r.rows
		gn.Message("<em>%s</em>: %s rows in %s",
			r.table, humanize.Comma(int64(r.rows)),
			gnfmt.TimeString(r.duration.Seconds()))
	}

	totalDuration := time.Since(startTime)
	slog.Info("Seeding complete",
		"success", success,
		"errors", failed,
		"total", len(results),
		"rows", rows,
		"duration", gnfmt.TimeString(totalDuration.Seconds()),
	)
	gn.Info(`Seeding complete
Tables succeeded: %d, failed %d, total %d.
Rows inserted: <em>%s</em>
Elapsed time: <em>%s</em>
`,
		success,
		failed,
		len(results),
		humanize.Comma(int64(rows)),
		gnfmt.TimeString(totalDuration.Seconds()),
	)

	if failed > 0 && success == 0 {
		return AllTablesFailedError(failed)
	}
	if failed > 0 {
		slog.Warn("Some tables failed to seed",
			"failed", failed,
			"succeeded", success)
	}
	return nil
}

// Reset deletes rows of the named tables, dependent tables first.
func (p *populator) Reset(
	ctx context.Context,
	confirm bool,
	names ...string,
) (int64, error) {
	if p.operator.DB() == nil {
		return 0, NotConnectedError()
	}

	order, err := p.catalog.Order(names...)
	if err != nil {
		return 0, err
	}
	slices.Reverse(order)

	var res int64
	for _, name := range order {
		if len(names) > 0 && !slices.Contains(names, name) {
			continue
		}
		tbl, _ := p.catalog.Table(name)
		s := seeder.New(p.cfg, iostore.New(p.operator), p.catalog, tbl)
		n, err := s.Reset(ctx, confirm)
		if err != nil {
			return res, err
		}
		res += n
		gn.Message("<em>%s</em>: deleted %s rows",
			name, humanize.Comma(n))
	}
	return res, nil
}
