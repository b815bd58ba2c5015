// Package catalog persists call-point definitions in a sqlite database so a
// server can bind call points that no manifest declares.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	_ "modernc.org/sqlite"

	"github.com/funvibe/switchcase/internal/callpoint"
	"github.com/funvibe/switchcase/internal/resolver"
)

// ErrNotFound is returned for a call point the catalog does not hold.
var ErrNotFound = errors.New("call point not found")

const schema = `
CREATE TABLE IF NOT EXISTS call_points (
	id        TEXT PRIMARY KEY,
	domain    TEXT NOT NULL,
	arg       TEXT NOT NULL,
	enum_type TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS labels (
	call_point TEXT NOT NULL,
	pos        INTEGER NOT NULL,
	text       TEXT,
	PRIMARY KEY (call_point, pos)
);
`

// Catalog is a sqlite-backed store of definitions.
type Catalog struct {
	db     *sql.DB
	logger *log.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger for catalog diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open opens (creating if needed) the catalog at path. ":memory:" gives a
// private in-memory catalog.
func Open(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	// One connection: sqlite serializes writers anyway, and ":memory:" is
	// per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema in %s: %w", path, err)
	}
	c := &Catalog{db: db, logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Save stores d, replacing any definition with the same id.
func (c *Catalog) Save(ctx context.Context, d callpoint.Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving %s: %w", d.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO call_points (id, domain, arg, enum_type) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			domain = excluded.domain,
			arg = excluded.arg,
			enum_type = excluded.enum_type`,
		d.ID, d.Domain.String(), d.Param.String(), d.EnumType)
	if err != nil {
		return fmt.Errorf("saving %s: %w", d.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE call_point = ?`, d.ID); err != nil {
		return fmt.Errorf("saving %s: %w", d.ID, err)
	}
	for i, l := range d.Labels {
		text := sql.NullString{String: l.Text, Valid: !l.Null}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO labels (call_point, pos, text) VALUES (?, ?, ?)`, d.ID, i, text); err != nil {
			return fmt.Errorf("saving %s: label %d: %w", d.ID, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving %s: %w", d.ID, err)
	}
	c.logger.Printf("[catalog] saved %s (%s, %d labels)", d.ID, d.Domain, len(d.Labels))
	return nil
}

// Load returns the definition stored under id.
func (c *Catalog) Load(ctx context.Context, id string) (callpoint.Definition, error) {
	var domain, arg, enumType string
	err := c.db.QueryRowContext(ctx,
		`SELECT domain, arg, enum_type FROM call_points WHERE id = ?`, id).Scan(&domain, &arg, &enumType)
	if errors.Is(err, sql.ErrNoRows) {
		return callpoint.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return callpoint.Definition{}, fmt.Errorf("loading %s: %w", id, err)
	}
	d, err := decode(id, domain, arg, enumType)
	if err != nil {
		return callpoint.Definition{}, err
	}
	if d.Labels, err = c.labels(ctx, id); err != nil {
		return callpoint.Definition{}, err
	}
	return d, nil
}

// List returns every stored definition ordered by id.
func (c *Catalog) List(ctx context.Context) ([]callpoint.Definition, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, domain, arg, enum_type FROM call_points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing call points: %w", err)
	}
	var defs []callpoint.Definition
	for rows.Next() {
		var id, domain, arg, enumType string
		if err := rows.Scan(&id, &domain, &arg, &enumType); err != nil {
			rows.Close()
			return nil, fmt.Errorf("listing call points: %w", err)
		}
		d, err := decode(id, domain, arg, enumType)
		if err != nil {
			rows.Close()
			return nil, err
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing call points: %w", err)
	}
	rows.Close()

	for i := range defs {
		if defs[i].Labels, err = c.labels(ctx, defs[i].ID); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// Delete removes the definition stored under id.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM call_points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE call_point = ?`, id); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	c.logger.Printf("[catalog] deleted %s", id)
	return nil
}

func (c *Catalog) labels(ctx context.Context, id string) ([]callpoint.Label, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT text FROM labels WHERE call_point = ? ORDER BY pos`, id)
	if err != nil {
		return nil, fmt.Errorf("loading labels of %s: %w", id, err)
	}
	defer rows.Close()

	labels := []callpoint.Label{}
	for rows.Next() {
		var text sql.NullString
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("loading labels of %s: %w", id, err)
		}
		labels = append(labels, callpoint.Label{Text: text.String, Null: !text.Valid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading labels of %s: %w", id, err)
	}
	return labels, nil
}

func decode(id, domain, arg, enumType string) (callpoint.Definition, error) {
	d, err := resolver.ParseDomain(domain)
	if err != nil {
		return callpoint.Definition{}, fmt.Errorf("call point %s: %w", id, err)
	}
	param, err := resolver.ParseType(arg)
	if err != nil {
		return callpoint.Definition{}, fmt.Errorf("call point %s: %w", id, err)
	}
	return callpoint.Definition{ID: id, Domain: d, Param: param, EnumType: enumType}, nil
}
