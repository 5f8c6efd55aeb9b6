package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// HunterRepository хранит hunter records в PostgreSQL.
// Запись целиком лежит в JSONB колонке; version используется для optimistic locking.
type HunterRepository struct {
	pool *pgxpool.Pool
}

// NewHunterRepository создаёт новый HunterRepository.
func NewHunterRepository(pool *pgxpool.Pool) *HunterRepository {
	return &HunterRepository{pool: pool}
}

// Load загружает hunter по ID.
// Возвращает nil, nil если запись не найдена.
func (r *HunterRepository) Load(ctx context.Context, id string) (*model.Hunter, error) {
	var (
		raw     []byte
		version int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT record, version FROM hunters WHERE id = $1`, id,
	).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying hunter %q: %w", id, err)
	}

	h, err := decodeHunter(raw)
	if err != nil {
		return nil, fmt.Errorf("loading hunter %q: %w", id, err)
	}
	h.Version = version
	return h, nil
}

// Save записывает hunter целиком.
// Новая запись (Version == 0) вставляется; существующая обновляется только
// если version в БД совпадает, иначе ErrVersionConflict.
func (r *HunterRepository) Save(ctx context.Context, h *model.Hunter) error {
	next := *h
	next.Version++
	raw, err := encodeHunter(&next)
	if err != nil {
		return err
	}

	var query string
	var args []any
	if h.Version == 0 {
		query = `INSERT INTO hunters (id, name, level, record, version)
		         VALUES ($1, $2, $3, $4, 1)
		         ON CONFLICT (id) DO NOTHING`
		args = []any{h.ID, h.Name, h.Level, raw}
	} else {
		query = `UPDATE hunters
		         SET name = $2, level = $3, record = $4, version = version + 1, updated_at = NOW()
		         WHERE id = $1 AND version = $5`
		args = []any{h.ID, h.Name, h.Level, raw, h.Version}
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("saving hunter %q: %w", h.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving hunter %q at v%d: %w", h.ID, h.Version, ErrVersionConflict)
	}
	h.Version = next.Version
	return nil
}

// Close is a no-op; the pool is owned by DB.
func (r *HunterRepository) Close() error {
	return nil
}
