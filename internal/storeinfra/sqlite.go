package storeinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-itemstore/item"
)

// rows per INSERT statement, well below the SQLite bound variable limit
const insertBatch = 100

type itemRow struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	Seq      int64     `bun:"seq,pk"`
	RowID    uuid.UUID `bun:"row_id,type:uuid,notnull"`
	ID       int64     `bun:"id,notnull"`
	Name     string    `bun:"name,notnull"`
	Category string    `bun:"category,notnull"`
	Price    float64   `bun:"price,notnull"`
	Extra    string    `bun:"extra,notnull"`
}

func itemRowHandlers() repository.ModelHandlers[*itemRow] {
	return repository.ModelHandlers[*itemRow]{
		NewRecord: func() *itemRow { return &itemRow{} },
		GetID: func(row *itemRow) uuid.UUID {
			if row == nil {
				return uuid.Nil
			}
			return row.RowID
		},
		SetID: func(row *itemRow, id uuid.UUID) {
			row.RowID = id
		},
		GetIdentifier: func() string {
			return "row_id"
		},
	}
}

// SQLiteStore keeps the collection in an items table. Seq preserves insertion
// order; Persist replaces every row in one transaction.
type SQLiteStore struct {
	db   *bun.DB
	rows repository.Repository[*itemRow]
}

// NewSQLiteStore opens dsn with the pure Go SQLite driver and creates the
// items table when missing.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*itemRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		rows: repository.NewRepository[*itemRow](db, itemRowHandlers()),
	}, nil
}

func inInsertionOrder(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("seq ASC")
}

func allRows(q *bun.DeleteQuery) *bun.DeleteQuery {
	return q.Where("1 = 1")
}

// Load returns every row in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]item.Item, error) {
	rows, _, err := s.rows.ListTx(ctx, s.db, inInsertionOrder)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	items := make([]item.Item, 0, len(rows))
	for _, row := range rows {
		it, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Persist replaces the stored collection with items.
func (s *SQLiteStore) Persist(ctx context.Context, items []item.Item) error {
	rows := make([]*itemRow, 0, len(items))
	for i, it := range items {
		row, err := newItemRow(int64(i+1), it)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.rows.DeleteWhereTx(ctx, tx, allRows); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}

		for start := 0; start < len(rows); start += insertBatch {
			end := min(start+insertBatch, len(rows))
			if _, err := s.rows.CreateManyTx(ctx, tx, rows[start:end]); err != nil {
				return fmt.Errorf("insert items: %w", err)
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func newItemRow(seq int64, it item.Item) (*itemRow, error) {
	row := &itemRow{
		Seq:      seq,
		RowID:    uuid.New(),
		ID:       it.ID,
		Name:     it.Name,
		Category: it.Category,
		Price:    it.Price,
	}
	if len(it.Extra) > 0 {
		extra, err := json.Marshal(it.Extra)
		if err != nil {
			return nil, fmt.Errorf("encode extra fields of item %d: %w", it.ID, err)
		}
		row.Extra = string(extra)
	}
	return row, nil
}

func (r *itemRow) toItem() (item.Item, error) {
	it := item.Item{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
	}
	if r.Extra != "" {
		if err := json.Unmarshal([]byte(r.Extra), &it.Extra); err != nil {
			return item.Item{}, fmt.Errorf("decode extra fields of item %d: %w", r.ID, err)
		}
	}
	return it, nil
}
