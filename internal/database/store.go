package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	TableManufacturers = "manufacturers"
	TablePersonnel     = "maintenance_personnel"
	TableUsers         = "users"
)

// Result keeps the {data, error} value shape of the hosted client this
// store replaced: write failures come back as values, never panics. The
// error strings surface verbatim in user-facing views.
type Result struct {
	Data []map[string]interface{}
	Err  error
}

// Store executes table-level reads and writes against the external
// database. It owns no schema and no transactions; every operation is a
// single statement.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers outside the request
// path: test migrations and the seed command's clear pass.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) query(ctx context.Context, table string, filters []Filter) (*gorm.DB, int) {
	q := s.db.WithContext(ctx).Table(table)
	limit := -1
	for _, f := range filters {
		switch f := f.(type) {
		case EqFilter:
			q = q.Where(map[string]interface{}{f.Field: f.Value})
		case LimitFilter:
			limit = f.N
		}
	}
	return q, limit
}

// Select reads the table into typed rows, ANDing every Eq predicate.
// A Limit filter truncates client-side after the fetch; row order is
// whatever the database returns. Errors come back as values with an
// empty slice.
func Select[T any](ctx context.Context, s *Store, table string, filters ...Filter) ([]T, error) {
	q, limit := s.query(ctx, table, filters)

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return []T{}, err
	}
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// SelectMaps is Select for callers that need raw column maps: the
// diagnostics export and structure check, which report whatever columns
// the live schema actually has.
func (s *Store) SelectMaps(ctx context.Context, table string, filters ...Filter) ([]map[string]interface{}, error) {
	q, limit := s.query(ctx, table, filters)

	var rows []map[string]interface{}
	if err := q.Find(&rows).Error; err != nil {
		return []map[string]interface{}{}, err
	}
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Insert writes one row, stamping created_at. Personnel rows also get
// updated_at stamped and is_active defaulted to true when absent.
// Repeated calls create duplicate rows; only the external schema
// enforces uniqueness.
func (s *Store) Insert(ctx context.Context, table string, row map[string]interface{}) Result {
	now := time.Now()
	row["created_at"] = now
	if table == TablePersonnel {
		row["updated_at"] = now
		if _, ok := row["is_active"]; !ok {
			row["is_active"] = true
		}
	}

	tx := s.db.WithContext(ctx).Table(table).Create(row)
	if tx.Error != nil {
		return Result{Err: tx.Error}
	}
	if tx.RowsAffected == 0 {
		return Result{Err: errors.New("插入失败")}
	}
	return Result{Data: []map[string]interface{}{row}}
}

// Update patches rows scoped by the Eq filters given. Personnel updates
// refresh updated_at. Zero affected rows is an error so callers can
// surface "not found" instead of silently succeeding.
func (s *Store) Update(ctx context.Context, table string, patch map[string]interface{}, filters ...Filter) Result {
	if table == TablePersonnel {
		patch["updated_at"] = time.Now()
	}

	q := s.db.WithContext(ctx).Table(table)
	for _, f := range filters {
		if eq, ok := f.(EqFilter); ok {
			q = q.Where(map[string]interface{}{eq.Field: eq.Value})
		}
	}

	tx := q.Updates(patch)
	if tx.Error != nil {
		return Result{Err: tx.Error}
	}
	if tx.RowsAffected == 0 {
		return Result{Err: errors.New("更新失败，未找到记录")}
	}
	return Result{}
}

// Probe is the cheapest read that proves the connection works, shared
// by the connection manager, health endpoint and keep-alive loop.
func (s *Store) Probe(ctx context.Context) error {
	_, err := s.SelectMaps(ctx, TableUsers, Limit(1))
	return err
}
