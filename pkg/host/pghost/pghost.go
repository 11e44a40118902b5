// Package pghost reads taxonomies, terms and assignments from Postgres through
// database/sql and the pgx stdlib driver.
package pghost

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/host/memhost"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

const defaultNonceSecret = "taxradio-pghost"

// Store implements host.Host on top of a *sql.DB.
type Store struct {
	db     *sql.DB
	nonces *memhost.Nonces

	schemaMu    sync.Mutex
	schemaReady bool
}

var (
	_ host.Host             = (*Store)(nil)
	_ host.AssignmentWriter = (*Store)(nil)
	_ host.NonceVerifier    = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithNonceSecret sets the key used to sign nonces.
func WithNonceSecret(secret string) Option {
	return func(s *Store) {
		if strings.TrimSpace(secret) != "" {
			s.nonces = memhost.NewNonces([]byte(secret))
		}
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, options ...Option) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("pghost: dsn is required")
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("pghost: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pghost: ping: %w", err)
	}
	return New(db, options...), nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, options ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.nonces == nil {
		s.nonces = memhost.NewNonces([]byte(defaultNonceSecret))
	}
	return s
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the tables once. A failed attempt is retried on the
// next call.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("pghost: database is not configured")
	}
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("pghost: ensure schema: %w", err)
	}
	s.schemaReady = true
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS taxradio_taxonomies (
  slug TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  singular_name TEXT NOT NULL DEFAULT '',
  hierarchical BOOLEAN NOT NULL DEFAULT FALSE,
  object_types TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS taxradio_terms (
  id BIGSERIAL PRIMARY KEY,
  taxonomy TEXT NOT NULL REFERENCES taxradio_taxonomies (slug) ON DELETE CASCADE,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  parent BIGINT NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  UNIQUE (taxonomy, slug)
);
CREATE INDEX IF NOT EXISTS idx_taxradio_terms_taxonomy ON taxradio_terms (taxonomy);

CREATE TABLE IF NOT EXISTS taxradio_term_relationships (
  item_id BIGINT NOT NULL,
  term_id BIGINT NOT NULL REFERENCES taxradio_terms (id) ON DELETE CASCADE,
  PRIMARY KEY (item_id, term_id)
);
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaxonomy(row rowScanner) (taxonomy.Taxonomy, error) {
	var (
		tax   taxonomy.Taxonomy
		types string
	)
	if err := row.Scan(&tax.Slug, &tax.Labels.Name, &tax.Labels.SingularName, &tax.Hierarchical, &types); err != nil {
		return taxonomy.Taxonomy{}, err
	}
	tax.ObjectTypes = splitTypes(types)
	return tax, nil
}

func scanTerm(row rowScanner) (taxonomy.Term, error) {
	var term taxonomy.Term
	err := row.Scan(&term.ID, &term.Slug, &term.Name, &term.Taxonomy, &term.Parent)
	return term, err
}

func (s *Store) Taxonomy(ctx context.Context, slug string) (taxonomy.Taxonomy, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return taxonomy.Taxonomy{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT slug, name, singular_name, hierarchical, object_types
FROM taxradio_taxonomies WHERE slug = $1`, slug)
	tax, err := scanTaxonomy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return taxonomy.Taxonomy{}, taxonomy.NotFound(slug)
	}
	if err != nil {
		return taxonomy.Taxonomy{}, fmt.Errorf("pghost: taxonomy %q: %w", slug, err)
	}
	return tax, nil
}

func (s *Store) Terms(ctx context.Context, slug string) ([]taxonomy.Term, error) {
	if _, err := s.Taxonomy(ctx, slug); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, name, taxonomy, parent
FROM taxradio_terms WHERE taxonomy = $1 ORDER BY position, name, id`, slug)
	if err != nil {
		return nil, fmt.Errorf("pghost: terms of %q: %w", slug, err)
	}
	return collectTerms(rows)
}

func (s *Store) AssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string) ([]taxonomy.Term, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT t.id, t.slug, t.name, t.taxonomy, t.parent
FROM taxradio_terms t
JOIN taxradio_term_relationships r ON r.term_id = t.id
WHERE r.item_id = $1 AND t.taxonomy = $2
ORDER BY t.position, t.name, t.id`, int64(item), slug)
	if err != nil {
		return nil, fmt.Errorf("pghost: assigned terms of %d in %q: %w", item, slug, err)
	}
	return collectTerms(rows)
}

func (s *Store) SetAssignedTerms(ctx context.Context, item taxonomy.ItemID, slug string, termIDs []int64) error {
	if _, err := s.Taxonomy(ctx, slug); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pghost: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM taxradio_term_relationships r
USING taxradio_terms t
WHERE r.term_id = t.id AND r.item_id = $1 AND t.taxonomy = $2`, int64(item), slug); err != nil {
		return fmt.Errorf("pghost: clear assignments: %w", err)
	}
	for _, id := range termIDs {
		res, err := tx.ExecContext(ctx, `INSERT INTO taxradio_term_relationships (item_id, term_id)
SELECT $1, id FROM taxradio_terms WHERE id = $2 AND taxonomy = $3
ON CONFLICT DO NOTHING`, int64(item), id, slug)
		if err != nil {
			return fmt.Errorf("pghost: assign term %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("pghost: term %d does not belong to %q", id, slug)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pghost: commit: %w", err)
	}
	return nil
}

// RegisterTaxonomy inserts or updates a taxonomy row.
func (s *Store) RegisterTaxonomy(ctx context.Context, tax taxonomy.Taxonomy) error {
	slug := strings.TrimSpace(tax.Slug)
	if slug == "" {
		return fmt.Errorf("pghost: taxonomy slug is required")
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO taxradio_taxonomies (slug, name, singular_name, hierarchical, object_types)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (slug)
DO UPDATE SET name=EXCLUDED.name,
  singular_name=EXCLUDED.singular_name,
  hierarchical=EXCLUDED.hierarchical,
  object_types=EXCLUDED.object_types`,
		slug, tax.Labels.Name, tax.Labels.SingularName, tax.Hierarchical, joinTypes(tax.ObjectTypes))
	if err != nil {
		return fmt.Errorf("pghost: register taxonomy %q: %w", slug, err)
	}
	return nil
}

// AddTerm inserts a term and returns it with its assigned identifier. The
// term is appended after the existing terms of its taxonomy.
func (s *Store) AddTerm(ctx context.Context, term taxonomy.Term) (taxonomy.Term, error) {
	if _, err := s.Taxonomy(ctx, term.Taxonomy); err != nil {
		return taxonomy.Term{}, err
	}
	row := s.db.QueryRowContext(ctx, `
INSERT INTO taxradio_terms (taxonomy, slug, name, parent, position)
VALUES ($1,$2,$3,$4,(SELECT COALESCE(MAX(position), 0) + 1 FROM taxradio_terms WHERE taxonomy = $1))
RETURNING id, slug, name, taxonomy, parent`,
		term.Taxonomy, term.Slug, term.Name, term.Parent)
	stored, err := scanTerm(row)
	if err != nil {
		return taxonomy.Term{}, fmt.Errorf("pghost: add term %q: %w", term.Slug, err)
	}
	return stored, nil
}

func (s *Store) Nonce(ctx context.Context, action string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.nonces.Issue(action), nil
}

func (s *Store) VerifyNonce(_ context.Context, action, token string) bool {
	return s.nonces.Verify(action, token)
}

func collectTerms(rows *sql.Rows) ([]taxonomy.Term, error) {
	defer rows.Close()

	var out []taxonomy.Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("pghost: scan term: %w", err)
		}
		out = append(out, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pghost: iterate terms: %w", err)
	}
	return out, nil
}

func splitTypes(raw string) []string {
	return taxonomy.NormalizeTypes(strings.Split(raw, ",")...)
}

func joinTypes(types []string) string {
	return strings.Join(taxonomy.NormalizeTypes(types...), ",")
}
