package routedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"elcmap/internal/elc"
	"elcmap/internal/logging"
)

// ImportMetadata describes the last successful ReplaceRoutes.
type ImportMetadata struct {
	ImportedAt time.Time
	Source     string
	RouteCount int
}

// ReplaceRoutes swaps the stored route list for routes in one transaction.
func (c *Client) ReplaceRoutes(ctx context.Context, routes elc.RouteList, source string) (err error) {
	start := time.Now()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "replace_routes")

	if _, err = tx.ExecContext(ctx, `DELETE FROM routes`); err != nil {
		return fmt.Errorf("error clearing routes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO routes (lrs_year, route_id, lrs_types) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing route insert: %w", err)
	}
	defer logging.HandleDeferredError(&err, stmt.Close, c.logger, "close_route_insert")

	count := 0
	for year, list := range routes {
		for _, r := range list {
			if _, err = stmt.ExecContext(ctx, year, r.Name, int(r.LrsTypes)); err != nil {
				return fmt.Errorf("error inserting route %s/%s: %w", year, r.Name, err)
			}
			count++
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_metadata (id, imported_at, source, route_count) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET imported_at = excluded.imported_at,
			source = excluded.source, route_count = excluded.route_count`,
		time.Now().UnixMilli(), source, count)
	if err != nil {
		return fmt.Errorf("error updating import metadata: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "routes_replaced",
		slog.Int("route_count", count),
		slog.Int("lrs_years", len(routes)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Routes returns the stored routes of one LRS year, sorted by route ID.
func (c *Client) Routes(ctx context.Context, lrsYear string) (routes []elc.Route, err error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT route_id, lrs_types FROM routes WHERE lrs_year = ? ORDER BY route_id`, lrsYear)
	if err != nil {
		return nil, fmt.Errorf("error querying routes: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_routes_rows")

	for rows.Next() {
		var r elc.Route
		var types int
		if err := rows.Scan(&r.Name, &types); err != nil {
			return nil, fmt.Errorf("error scanning route: %w", err)
		}
		r.LrsTypes = elc.LrsType(types)
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// Years returns the stored LRS years in sorted order.
func (c *Client) Years(ctx context.Context) (years []string, err error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT DISTINCT lrs_year FROM routes ORDER BY lrs_year`)
	if err != nil {
		return nil, fmt.Errorf("error querying lrs years: %w", err)
	}
	defer logging.HandleDeferredError(&err, rows.Close, c.logger, "close_years_rows")

	for rows.Next() {
		var year string
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("error scanning lrs year: %w", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// RouteList loads every stored year.
func (c *Client) RouteList(ctx context.Context) (elc.RouteList, error) {
	years, err := c.Years(ctx)
	if err != nil {
		return nil, err
	}
	list := make(elc.RouteList, len(years))
	for _, year := range years {
		routes, err := c.Routes(ctx, year)
		if err != nil {
			return nil, err
		}
		list[year] = routes
	}
	return list, nil
}

func (c *Client) HasRoute(ctx context.Context, lrsYear, routeID string) (bool, error) {
	var one int
	err := c.DB.QueryRowContext(ctx,
		`SELECT 1 FROM routes WHERE lrs_year = ? AND route_id = ?`, lrsYear, routeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error looking up route: %w", err)
	}
	return true, nil
}

// GetImportMetadata returns sql.ErrNoRows when nothing has been imported.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var md ImportMetadata
	var importedAt int64
	err := c.DB.QueryRowContext(ctx,
		`SELECT imported_at, source, route_count FROM import_metadata WHERE id = 1`).
		Scan(&importedAt, &md.Source, &md.RouteCount)
	if err != nil {
		return ImportMetadata{}, err
	}
	md.ImportedAt = time.UnixMilli(importedAt)
	return md, nil
}
