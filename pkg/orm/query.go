// Package orm is a small fluent layer over GORM used by the repositories.
// It exists so repository code reads as intent (Model/Where/First) and so
// read paths can opt into Redis caching with one call.
package orm

import (
	"math"
	"time"

	"github.com/shashiranjanraj/genosys/pkg/cache"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query against the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// WithTx starts a query bound to an open transaction.
func WithTx(tx *gorm.DB) *Query {
	return &Query{db: tx}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(cond string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(cond, args...)}
}

func (q *Query) Order(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Preload(assoc string) *Query {
	return &Query{db: q.db.Preload(assoc)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Create(v interface{}) error { return q.db.Create(v).Error }
func (q *Query) Save(v interface{}) error   { return q.db.Save(v).Error }
func (q *Query) Delete(v interface{}) error { return q.db.Delete(v).Error }

// ── Pagination ───────────────────────────────────────────────────────────────

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// GetWithPagination loads page/limit rows into dest and returns the page
// metadata. page and limit are normalised to sane minimums.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := q.Count()
	if err != nil {
		return Pagination{}, err
	}

	err = q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cached serves dest from Redis when possible, otherwise runs the query and
// stores the result for ttl. Analytics reads never use this — dashboard
// aggregates are recomputed from raw rows on every query.
func (q *Query) Cached(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(key, dest, ttl)
	return nil
}
