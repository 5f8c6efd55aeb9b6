package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// ErrVersionConflict is returned by Save when the record changed since it was loaded.
var ErrVersionConflict = errors.New("hunter record was modified concurrently")

// HunterStore persists hunter records.
//
// Save is a full overwrite guarded by the record version: the stored version
// must equal h.Version (0 for a record that does not exist yet). On success
// h.Version is incremented to match the stored record.
type HunterStore interface {
	// Load returns nil, nil when the hunter does not exist.
	Load(ctx context.Context, id string) (*model.Hunter, error)
	Save(ctx context.Context, h *model.Hunter) error
	Close() error
}

// encodeHunter marshals a record for storage.
func encodeHunter(h *model.Hunter) ([]byte, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encoding hunter %q: %w", h.ID, err)
	}
	return raw, nil
}

// decodeHunter unmarshals, validates and normalizes a stored record.
func decodeHunter(raw []byte) (*model.Hunter, error) {
	var h model.Hunter
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decoding hunter: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if fixed := h.Normalize(); len(fixed) > 0 {
		slog.Warn("hunter record defaults applied", "hunter", h.ID, "fields", fixed)
	}
	return &h, nil
}
