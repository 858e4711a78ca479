package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/finwise/internal/progress"
)

// sqliteProgress keeps one JSON document per user in progress_records.
type sqliteProgress struct {
	db *sql.DB
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (p *sqliteProgress) Get(ctx context.Context, userID string) (*progress.Record, error) {
	return readRecord(ctx, p.db, userID)
}

func readRecord(ctx context.Context, q queryRower, userID string) (*progress.Record, error) {
	query, args := builder.Select("data").
		From(entsql.Table(tableProgress)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var data string
	err := q.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return decodeRecord([]byte(data))
}

// Update reads, patches and upserts the record in one transaction.
func (p *sqliteProgress) Update(ctx context.Context, userID string, patch progress.Patch) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rec, err := readRecord(ctx, tx, userID)
	if errors.Is(err, progress.ErrRecordNotFound) {
		rec = progress.NewRecord()
	} else if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := patch.Apply(rec, now); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	query, args := builder.Insert(tableProgress).
		Columns("user_id", "data", "updated_at").
		Values(userID, string(data), now).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return tx.Commit()
}

func decodeRecord(data []byte) (*progress.Record, error) {
	rec := progress.NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if rec.LessonsCompleted == nil {
		rec.LessonsCompleted = []string{}
	}
	return rec, nil
}
