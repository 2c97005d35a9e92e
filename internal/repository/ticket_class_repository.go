package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// TicketClassRepo provides data access to the ticket_classes table,
// the inventory ledger of the system.  Counter mutations always happen
// inside a transaction through the Tx variants so that reserve/release
// sequences against the same class cannot interleave partially; the
// lock methods take the row lock with SELECT ... FOR UPDATE.
type TicketClassRepo struct {
	db *sql.DB
}

// NewTicketClassRepo returns a new TicketClassRepo bound to the given database.
func NewTicketClassRepo(db *sql.DB) *TicketClassRepo { return &TicketClassRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *TicketClassRepo) DB() *sql.DB { return r.db }

const ticketClassColumns = `id, kind, price, available_quantity, sold_quantity, created_at, updated_at`

func scanTicketClass(row interface{ Scan(...any) error }) (*model.TicketClass, error) {
	var tc model.TicketClass
	var kind, price string
	if err := row.Scan(&tc.ID, &kind, &price, &tc.Available, &tc.Sold, &tc.CreatedAt, &tc.UpdatedAt); err != nil {
		return nil, err
	}
	tc.Kind = model.TicketClassKind(kind)
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	tc.Price = p
	return &tc, nil
}

// List returns all ticket class rows ordered by id.  It runs outside
// any transaction and is used by read-only endpoints; callers that
// intend to mutate counters must use LockAllTx or LockByKindTx instead.
func (r *TicketClassRepo) List(ctx context.Context) ([]model.TicketClass, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketClassColumns+` FROM ticket_classes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	classes := make([]model.TicketClass, 0, 2)
	for rows.Next() {
		tc, err := scanTicketClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

// LockByKindTx loads one ledger row FOR UPDATE inside the given
// transaction.  The row lock is held until the transaction commits or
// rolls back, serializing concurrent reserve/release/restock against
// the same class.
func (r *TicketClassRepo) LockByKindTx(ctx context.Context, tx *sql.Tx, kind model.TicketClassKind) (*model.TicketClass, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+ticketClassColumns+` FROM ticket_classes WHERE kind = ? FOR UPDATE`, string(kind))
	tc, err := scanTicketClass(row)
	if err == sql.ErrNoRows {
		return nil, ErrTicketClassNotFound
	}
	return tc, err
}

// LockAllTx loads every ledger row FOR UPDATE, keyed by kind.  Rows are
// locked in id order so two transactions locking both classes cannot
// deadlock against each other.
func (r *TicketClassRepo) LockAllTx(ctx context.Context, tx *sql.Tx) (map[model.TicketClassKind]*model.TicketClass, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+ticketClassColumns+` FROM ticket_classes ORDER BY id FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	classes := make(map[model.TicketClassKind]*model.TicketClass, 2)
	for rows.Next() {
		tc, err := scanTicketClass(rows)
		if err != nil {
			return nil, err
		}
		classes[tc.Kind] = tc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

// UpdateTx writes back the mutable ledger fields of a previously
// locked row.  The caller must have loaded the row with one of the
// lock methods in the same transaction.
func (r *TicketClassRepo) UpdateTx(ctx context.Context, tx *sql.Tx, tc *model.TicketClass) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE ticket_classes SET price = ?, available_quantity = ?, sold_quantity = ? WHERE id = ?`,
		tc.Price.StringFixed(2), tc.Available, tc.Sold, tc.ID)
	return err
}

// CreateTx inserts a new ledger row within the given transaction and
// populates the generated ID.
func (r *TicketClassRepo) CreateTx(ctx context.Context, tx *sql.Tx, tc *model.TicketClass) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO ticket_classes (kind, price, available_quantity, sold_quantity) VALUES (?, ?, ?, ?)`,
		string(tc.Kind), tc.Price.StringFixed(2), tc.Available, tc.Sold)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tc.ID = uint64(id)
	return nil
}

// ResetTx deletes every ledger row and re-creates the provided
// defaults.  Used by the destructive admin reset operations; order and
// line rows must already be gone so no foreign key references dangle.
func (r *TicketClassRepo) ResetTx(ctx context.Context, tx *sql.Tx, defaults []model.TicketClass) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_classes`); err != nil {
		return err
	}
	for i := range defaults {
		if err := r.CreateTx(ctx, tx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
