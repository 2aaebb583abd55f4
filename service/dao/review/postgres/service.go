package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao"
)

// Service persists review items in Postgres. The full item is kept as a
// JSONB payload; filterable fields are mirrored into columns.
type Service struct {
	db    *sql.DB
	table string
	psql  sq.StatementBuilderType
}

var _ dao.Service[string, model.ReviewItem] = (*Service)(nil)

// New wires a sql.DB implementation.
func New(db *sql.DB, table string) *Service {
	if table == "" {
		table = DefaultTable
	}
	return &Service{
		db:    db,
		table: table,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to dsn using the lib/pq driver.
func Open(ctx context.Context, dsn, table string) (*Service, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db, table), nil
}

// EnsureSchema creates the table when missing.
func (s *Service) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema(s.table)); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Service) Close() error {
	return s.db.Close()
}

// Save upserts an item.
func (s *Service) Save(ctx context.Context, item *model.ReviewItem) error {
	query, args, err := s.saveQuery(item)
	if err != nil {
		return err
	}
	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert review item: %w", err)
	}
	return nil
}

func (s *Service) saveQuery(item *model.ReviewItem) (string, []interface{}, error) {
	if item == nil {
		return "", nil, dao.ErrNilEntity
	}
	if item.ContentID == "" {
		return "", nil, dao.ErrInvalidID
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return "", nil, fmt.Errorf("marshal review item: %w", err)
	}
	return s.psql.Insert(s.table).
		Columns("content_id", "id", "batch_job_id", "status", "priority", "created_at", "payload").
		Values(item.ContentID, item.ID, item.BatchJobID, string(item.Status), item.Priority, item.CreatedAt, payload).
		Suffix(`ON CONFLICT (content_id) DO UPDATE SET
    status = EXCLUDED.status,
    priority = EXCLUDED.priority,
    payload = EXCLUDED.payload,
    updated_at = NOW()`).
		ToSql()
}

// Load returns an item, (nil, nil) when absent.
func (s *Service) Load(ctx context.Context, contentID string) (*model.ReviewItem, error) {
	if contentID == "" {
		return nil, dao.ErrInvalidID
	}
	query, args, err := s.psql.Select("payload").From(s.table).Where(sq.Eq{"content_id": contentID}).ToSql()
	if err != nil {
		return nil, err
	}
	var payload []byte
	switch err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err {
	case nil:
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, fmt.Errorf("load review item: %w", err)
	}
	item := &model.ReviewItem{}
	if err = json.Unmarshal(payload, item); err != nil {
		return nil, fmt.Errorf("unmarshal review item: %w", err)
	}
	return item, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, contentID string) error {
	if contentID == "" {
		return dao.ErrInvalidID
	}
	query, args, err := s.psql.Delete(s.table).Where(sq.Eq{"content_id": contentID}).ToSql()
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review item: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns items matching parameters ordered by priority and age.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.ReviewItem, error) {
	query, args, err := s.listQuery(parameters)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}
	var items []*model.ReviewItem
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		item := &model.ReviewItem{}
		if err := json.Unmarshal(payload, item); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("unmarshal review item: %w", err)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return items, nil
}

var parameterColumns = map[string]string{
	dao.ParamID:         "id",
	dao.ParamStatus:     "status",
	dao.ParamBatchJobID: "batch_job_id",
}

func (s *Service) listQuery(parameters []*dao.Parameter) (string, []interface{}, error) {
	builder := s.psql.Select("payload").From(s.table)
	for _, param := range parameters {
		if param == nil {
			continue
		}
		column, ok := parameterColumns[param.Name]
		if !ok {
			continue
		}
		values := param.Values()
		if len(values) == 1 {
			builder = builder.Where(sq.Eq{column: values[0]})
			continue
		}
		builder = builder.Where(column+" = ANY(?)", pq.StringArray(values))
	}
	return builder.OrderBy("priority DESC", "created_at ASC", "id ASC").ToSql()
}
