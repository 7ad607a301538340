package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"trsync/internal/registry/models"
	"trsync/pkg/platform/sentinel"
	txcontext "trsync/pkg/platform/tx"
)

// Postgres keeps registry records as jsonb attribute documents, one row per
// (entity, id). Attribute values are stored in their canonical string form so
// filters compare with ->> text equality.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) conn(ctx context.Context) queryer {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Retrieve(ctx context.Context, entity models.EntityName, id uuid.UUID) (*models.Entity, error) {
	var raw []byte
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT attributes FROM registry_records WHERE entity = $1 AND id = $2`,
		string(entity), id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", entity, id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("retrieve %s: %w", entity, err)
	}
	attrs, err := decodeAttributes(raw)
	if err != nil {
		return nil, err
	}
	return &models.Entity{Name: entity, ID: id, Attributes: attrs}, nil
}

func (s *Postgres) RetrieveMultiple(ctx context.Context, query models.Query) ([]models.Entity, error) {
	args := []any{string(query.Entity)}
	where := buildFilter(query.Criteria, &args)
	stmt := `SELECT id, attributes FROM registry_records WHERE entity = $1 AND ` + where + ` ORDER BY seq`
	if query.Top > 0 {
		args = append(args, query.Top)
		stmt += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.conn(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("retrieve multiple %s: %w", query.Entity, err)
	}
	defer rows.Close()

	var out []models.Entity
	for rows.Next() {
		var id uuid.UUID
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", query.Entity, err)
		}
		attrs, err := decodeAttributes(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Entity{Name: query.Entity, ID: id, Attributes: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", query.Entity, err)
	}
	return out, nil
}

// ExecuteTransaction runs the batch inside one BEGIN..COMMIT. Any failure rolls
// back every request.
func (s *Postgres) ExecuteTransaction(ctx context.Context, requests []models.Request) ([]models.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registry transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txCtx := txcontext.WithTx(ctx, tx)
	responses := make([]models.Response, 0, len(requests))
	for i, req := range requests {
		resp, err := s.apply(txCtx, tx, req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, models.Kind(req), err)
		}
		responses = append(responses, resp)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registry transaction: %w", err)
	}
	return responses, nil
}

func (s *Postgres) apply(ctx context.Context, tx *sql.Tx, req models.Request) (models.Response, error) {
	switch r := req.(type) {
	case models.CreateRequest:
		id := r.Entity.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		doc, err := encodeAttributes(r.Entity.Attributes)
		if err != nil {
			return models.Response{}, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO registry_records (entity, id, attributes) VALUES ($1, $2, $3::jsonb)`,
			string(r.Entity.Name), id, string(doc),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return models.Response{}, fmt.Errorf("create %s %s: %w", r.Entity.Name, id, sentinel.ErrConflict)
			}
			return models.Response{}, fmt.Errorf("create %s: %w", r.Entity.Name, err)
		}
		return models.Response{ID: id}, nil

	case models.UpdateRequest:
		doc, err := encodeAttributes(r.Entity.Attributes)
		if err != nil {
			return models.Response{}, err
		}
		if err := mergeAttributes(ctx, tx, r.Entity.Name, r.Entity.ID, doc); err != nil {
			return models.Response{}, err
		}
		return models.Response{ID: r.Entity.ID}, nil

	case models.RetrieveRequest:
		e, err := s.Retrieve(ctx, r.Entity, r.ID)
		if err != nil {
			return models.Response{}, err
		}
		return models.Response{ID: r.ID, Entity: e}, nil

	case models.AllocateTrnRequest:
		existing, err := s.Retrieve(ctx, models.EntityContact, r.ContactID)
		if err != nil {
			return models.Response{}, err
		}
		if models.AttrString(existing.Attributes, models.AttrTrn) != "" {
			return models.Response{}, fmt.Errorf("contact %s already has a trn: %w", r.ContactID, sentinel.ErrInvalidState)
		}
		var next int64
		if err := tx.QueryRowContext(ctx, `SELECT nextval('trn_seq')`).Scan(&next); err != nil {
			return models.Response{}, fmt.Errorf("allocate trn: %w", err)
		}
		doc, err := json.Marshal(map[string]string{models.AttrTrn: fmt.Sprintf("%07d", next)})
		if err != nil {
			return models.Response{}, fmt.Errorf("encode trn: %w", err)
		}
		if err := mergeAttributes(ctx, tx, models.EntityContact, r.ContactID, doc); err != nil {
			return models.Response{}, err
		}
		return models.Response{ID: r.ContactID}, nil
	}
	return models.Response{}, fmt.Errorf("unsupported request %T: %w", req, sentinel.ErrInvalidInput)
}

func mergeAttributes(ctx context.Context, tx *sql.Tx, entity models.EntityName, id uuid.UUID, doc []byte) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE registry_records SET attributes = attributes || $3::jsonb WHERE entity = $1 AND id = $2`,
		string(entity), id, string(doc),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", entity, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows: %w", entity, err)
	}
	if rows == 0 {
		return fmt.Errorf("update %s %s: %w", entity, id, sentinel.ErrNotFound)
	}
	return nil
}

// buildFilter renders a filter tree as a SQL predicate, appending bind values to args.
func buildFilter(f models.Filter, args *[]any) string {
	if f.IsEmpty() {
		return "TRUE"
	}
	var parts []string
	for _, c := range f.Conditions {
		value, ok := models.Canonical(c.Value)
		if !ok {
			parts = append(parts, "FALSE")
			continue
		}
		*args = append(*args, c.Attribute, value)
		column := fmt.Sprintf("attributes->>($%d::text)", len(*args)-1)
		if c.Attribute == models.AttrStateCode {
			column = fmt.Sprintf("COALESCE(%s, '0')", column)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", column, len(*args)))
	}
	for _, child := range f.Filters {
		if child.IsEmpty() {
			continue
		}
		parts = append(parts, "("+buildFilter(child, args)+")")
	}
	joiner := " AND "
	if f.Operator == models.OperatorOr {
		joiner = " OR "
	}
	return strings.Join(parts, joiner)
}

func encodeAttributes(attrs models.Attributes) ([]byte, error) {
	doc := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if s, ok := models.Canonical(v); ok {
			doc[k] = s
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return raw, nil
}

func decodeAttributes(raw []byte) (models.Attributes, error) {
	attrs := models.Attributes{}
	if len(raw) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return attrs, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
