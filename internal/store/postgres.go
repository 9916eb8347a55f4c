package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentRow is the single table backing every collection.
type documentRow struct {
	Collection string    `gorm:"primaryKey;size:64"`
	ID         string    `gorm:"primaryKey;size:64"`
	Data       jsonValue `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type jsonValue []byte

func (v jsonValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return []byte(v), nil
}

func (v *jsonValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = nil
	case []byte:
		*v = append((*v)[:0], s...)
	case string:
		*v = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return nil
}

// Postgres stores documents in a jsonb column, one row per document.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the documents table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentRow{})
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	var doc Document
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (p *Postgres) List(ctx context.Context, collection, orderBy string, desc bool) ([]Snapshot, error) {
	q := p.db.WithContext(ctx).Where("collection = ?", collection)

	// Timestamps are stored as RFC3339 UTC strings, so text ordering on the
	// jsonb field is chronological.
	switch orderBy {
	case "":
		q = q.Order("id asc")
	case "createdAt", "updatedAt", "timestamp":
		dir := "asc"
		if desc {
			dir = "desc"
		}
		q = q.Order(fmt.Sprintf("data->>'%s' %s", orderBy, dir))
	default:
		return nil, fmt.Errorf("list %s: unsupported order field %q", collection, orderBy)
	}

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		var doc Document
		if err := json.Unmarshal(row.Data, &doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, row.ID, err)
		}
		out = append(out, Snapshot{ID: row.ID, Data: doc})
	}
	return out, nil
}

func (p *Postgres) Add(ctx context.Context, collection string, doc Document) (string, error) {
	now := time.Now().UTC()
	raw, err := json.Marshal(resolveTimestamps(doc, now))
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}

	row := documentRow{
		Collection: collection,
		ID:         uuid.NewString(),
		Data:       raw,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return row.ID, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, patch Document) error {
	now := time.Now().UTC()
	raw, err := json.Marshal(resolveTimestamps(patch, now))
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	// Field-level merge; last write wins, no version check.
	res := p.db.WithContext(ctx).Model(&documentRow{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(raw)),
			"updated_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	err := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
