package pagestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const storeUnavailableCode = "STORE_UNAVAILABLE"

// StoreUnavailableError reports a transient I/O failure talking to the
// backing document table. It unwraps to ErrStoreUnavailable so callers can
// classify it for retry.
type StoreUnavailableError struct {
	Op    string
	Cause error
}

func (e *StoreUnavailableError) Error() string {
	if e == nil {
		return ErrStoreUnavailable.Error()
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrStoreUnavailable.Error(), e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable.Error(), e.Op, e.Cause)
}

func (e *StoreUnavailableError) Unwrap() error {
	return ErrStoreUnavailable
}

type recordRow struct {
	bun.BaseModel `bun:"table:page_records,alias:pr"`

	PK        string    `bun:"pk,pk"`
	SK        string    `bun:"sk,pk"`
	Data      []byte    `bun:"data,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunRepository persists page records in a (pk, sk) keyed table through bun.
type BunRepository struct {
	db *bun.DB
}

var (
	_ Repository         = (*BunRepository)(nil)
	_ SettingsRepository = (*BunRepository)(nil)
)

// NewBunDB wraps a raw sql.DB with the sqlite dialect used by the record table.
func NewBunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, sqlitedialect.New())
}

// NewBunRepository constructs a Repository backed by bun.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// EnsureSchema creates the record table when missing.
func (r *BunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*recordRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return mapStoreError("ensure schema", err)
	}
	return nil
}

// Get retrieves one (pageID, state) record.
func (r *BunRepository) Get(ctx context.Context, pageID string, state State) (*PageRecord, error) {
	row := new(recordRow)
	err := r.db.NewSelect().
		Model(row).
		Where("pk = ?", PartitionKey(pageID)).
		Where("sk = ?", string(state)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &RecordNotFoundError{PageID: pageID, State: state}
		}
		return nil, mapStoreError("get record", err)
	}
	return decodeRecord(row)
}

// Put stores the record, replacing any prior value for its (pk, sk) key.
func (r *BunRepository) Put(ctx context.Context, record *PageRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("pagestore: encode record %s/%s: %w", record.PageID, record.State, err)
	}

	now := time.Now().UTC()
	row := &recordRow{
		PK:        PartitionKey(record.PageID),
		SK:        string(record.State),
		Data:      payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (pk, sk) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return mapStoreError("put record", err)
	}
	return nil
}

// ScanByPrefix returns every record whose partition key starts with prefix,
// ordered by (pk, sk).
func (r *BunRepository) ScanByPrefix(ctx context.Context, prefix string) ([]*PageRecord, error) {
	rows := make([]recordRow, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where("pk LIKE ?", prefix+"%").
		Order("pk", "sk").
		Scan(ctx)
	if err != nil {
		return nil, mapStoreError("scan records", err)
	}

	out := make([]*PageRecord, 0, len(rows))
	for i := range rows {
		record, err := decodeRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Delete removes both lifecycle records for the page. Idempotent.
func (r *BunRepository) Delete(ctx context.Context, pageID string) error {
	if _, err := r.db.NewDelete().
		Model((*recordRow)(nil)).
		Where("pk = ?", PartitionKey(pageID)).
		Exec(ctx); err != nil {
		return mapStoreError("delete records", err)
	}
	return nil
}

// LoadSettings reads the well-known site settings record.
func (r *BunRepository) LoadSettings(ctx context.Context) (*SiteSettings, error) {
	row := new(recordRow)
	err := r.db.NewSelect().
		Model(row).
		Where("pk = ?", settingsPK).
		Where("sk = ?", settingsSK).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, mapStoreError("load settings", err)
	}

	settings := new(SiteSettings)
	if err := json.Unmarshal(row.Data, settings); err != nil {
		return nil, fmt.Errorf("pagestore: decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the well-known site settings record.
func (r *BunRepository) SaveSettings(ctx context.Context, settings *SiteSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("pagestore: encode settings: %w", err)
	}

	now := time.Now().UTC()
	row := &recordRow{
		PK:        settingsPK,
		SK:        settingsSK,
		Data:      payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (pk, sk) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return mapStoreError("save settings", err)
	}
	return nil
}

func decodeRecord(row *recordRow) (*PageRecord, error) {
	record := new(PageRecord)
	if err := json.Unmarshal(row.Data, record); err != nil {
		return nil, fmt.Errorf("pagestore: decode record %s/%s: %w", row.PK, row.SK, err)
	}
	return record, nil
}

func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := goerrors.Wrap(err, goerrors.CategoryExternal, "page record store i/o failed").
		WithTextCode(storeUnavailableCode)
	return &StoreUnavailableError{Op: op, Cause: wrapped}
}
