package repository

import (
	"context"
	"database/sql"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// WaitlistRepo provides data access to the waitlist_entries table.
// Waitlist entries are simple FIFO records ordered by join time; they
// carry no foreign keys to orders and are never validated against
// current stock.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a new WaitlistRepo bound to the given database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

const waitlistColumns = `id, user_name, user_email, ticket_class, requested_quantity, status, joined_at`

func scanWaitlistEntry(row interface{ Scan(...any) error }) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	var kind, status string
	if err := row.Scan(&e.ID, &e.UserName, &e.UserEmail, &kind, &e.RequestedQuantity, &status, &e.JoinedAt); err != nil {
		return nil, err
	}
	e.Kind = model.TicketClassKind(kind)
	e.Status = model.WaitlistStatus(status)
	return &e, nil
}

// Create appends a new waiting entry and populates its generated ID
// and join timestamp.
func (r *WaitlistRepo) Create(ctx context.Context, e *model.WaitlistEntry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO waitlist_entries (user_name, user_email, ticket_class, requested_quantity, status) VALUES (?, ?, ?, ?, ?)`,
		e.UserName, e.UserEmail, string(e.Kind), e.RequestedQuantity, string(model.WaitlistWaiting))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.Status = model.WaitlistWaiting
	return r.db.QueryRowContext(ctx, `SELECT joined_at FROM waitlist_entries WHERE id = ?`, e.ID).Scan(&e.JoinedAt)
}

// GetByID returns one entry.  sql.ErrNoRows is returned when the entry
// does not exist.
func (r *WaitlistRepo) GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	return scanWaitlistEntry(r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries WHERE id = ?`, id))
}

// ListWaiting returns all waiting entries for one ticket class in FIFO
// order (earliest join first).
func (r *WaitlistRepo) ListWaiting(ctx context.Context, kind model.TicketClassKind) ([]model.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries WHERE ticket_class = ? AND status = 'waiting' ORDER BY joined_at ASC`,
		string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkFulfilled sets the entry's status to fulfilled and returns the
// updated record.  sql.ErrNoRows is returned when the entry does not
// exist.  Fulfilment is advisory bookkeeping: it moves no inventory.
func (r *WaitlistRepo) MarkFulfilled(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE waitlist_entries SET status = 'fulfilled' WHERE id = ?`, id); err != nil {
		return nil, err
	}
	e.Status = model.WaitlistFulfilled
	return e, nil
}

// DeleteAllTx removes every waitlist entry.  Used by the destructive
// admin reset operations.
func (r *WaitlistRepo) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM waitlist_entries`)
	return err
}
