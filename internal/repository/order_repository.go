package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// OrderRepo provides CRUD operations for orders and their lines.
// Orders own their order_lines rows; the repository always returns
// fully materialized Order aggregates with lines attached so that
// transaction boundaries stay explicit in the calling engine.  All
// timestamp fields are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = `o.id, o.user_id, o.user_name, o.user_email, o.status, o.total_amount, o.admin_notes, o.created_at, o.completed_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var status, total string
	var notes sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.UserEmail, &status, &total, &notes, &o.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.TotalAmount = amount
	if notes.Valid {
		o.AdminNotes = notes.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	o.Lines = []model.OrderLine{}
	return &o, nil
}

// CreateTx inserts a new order and its lines within the scope of an
// existing transaction.  It populates the generated IDs and the
// database-assigned creation timestamp on the provided order.  The
// caller must commit or rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (user_id, user_name, user_email, status, total_amount) VALUES (?, ?, ?, ?, ?)`,
		o.UserID, o.UserName, o.UserEmail, string(o.Status), o.TotalAmount.StringFixed(2))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	if len(o.Lines) > 0 {
		query := `INSERT INTO order_lines (order_id, ticket_class_id, quantity, price_at_purchase) VALUES `
		args := make([]interface{}, 0, len(o.Lines)*4)
		for i, l := range o.Lines {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, o.ID, l.TicketClassID, l.Quantity, l.PriceAtPurchase.StringFixed(2))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		for i := range o.Lines {
			o.Lines[i].OrderID = o.ID
		}
	}
	// Query back the row to populate the DB-assigned creation timestamp.
	return tx.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE id = ?`, o.ID).Scan(&o.CreatedAt)
}

// ActiveByUserTx returns the user's most recent order whose status
// still counts as active (pending, approved or completed), locking it
// FOR UPDATE.  It returns nil when the user has no active order.  The
// one-active-order-per-user rule is enforced by calling this inside
// the same transaction that inserts the new order.
func (r *OrderRepo) ActiveByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) (*model.Order, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders o
		 WHERE o.user_id = ? AND o.status IN ('pending', 'approved', 'completed')
		 ORDER BY o.created_at DESC LIMIT 1 FOR UPDATE`, userID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDTx loads one order with its lines inside a transaction.  When
// forUpdate is set the order row is locked until the transaction ends,
// which serializes concurrent lifecycle transitions on the same order.
// sql.ErrNoRows is returned when the order does not exist.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, orderID uint64, forUpdate bool) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ?`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	o, err := scanOrder(tx.QueryRowContext(ctx, q, orderID))
	if err != nil {
		return nil, err
	}
	const lineQ = `SELECT l.id, l.order_id, l.ticket_class_id, tc.kind, l.quantity, l.price_at_purchase
	               FROM order_lines l
	               JOIN ticket_classes tc ON tc.id = l.ticket_class_id
	               WHERE l.order_id = ?
	               ORDER BY l.id`
	rows, err := tx.QueryContext(ctx, lineQ, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID loads one order with its lines outside any transaction.
func (r *OrderRepo) GetByID(ctx context.Context, orderID uint64) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = ?`, orderID))
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, []*model.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrderLine(rows *sql.Rows) (*model.OrderLine, error) {
	var l model.OrderLine
	var kind, price string
	if err := rows.Scan(&l.ID, &l.OrderID, &l.TicketClassID, &kind, &l.Quantity, &price); err != nil {
		return nil, err
	}
	l.Kind = model.TicketClassKind(kind)
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	l.PriceAtPurchase = p
	return &l, nil
}

// attachLines populates the Lines slices of the given orders with a
// single IN query.
func (r *OrderRepo) attachLines(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(orders))
	placeholders := make([]string, 0, len(orders))
	index := make(map[uint64]*model.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		placeholders = append(placeholders, "?")
		index[o.ID] = o
	}
	q := `SELECT l.id, l.order_id, l.ticket_class_id, tc.kind, l.quantity, l.price_at_purchase
	      FROM order_lines l
	      JOIN ticket_classes tc ON tc.id = l.ticket_class_id
	      WHERE l.order_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY l.order_id, l.id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return err
		}
		if o, ok := index[line.OrderID]; ok {
			o.Lines = append(o.Lines, *line)
		}
	}
	return rows.Err()
}

func (r *OrderRepo) queryOrders(ctx context.Context, q string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	refs := make([]*model.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns all orders for the given user with lines attached,
// newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.user_id = ? ORDER BY o.created_at DESC`, userID)
}

// List returns all orders, optionally filtered to one status, newest
// first.  Used by the admin review surface and CSV exports.
func (r *OrderRepo) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil {
		return r.queryOrders(ctx,
			`SELECT `+orderColumns+` FROM orders o WHERE o.status = ? ORDER BY o.created_at DESC`, string(*status))
	}
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o ORDER BY o.created_at DESC`)
}

// ListPending returns all pending orders with lines attached, oldest
// first.  The priority queue assembler re-orders them by tier.
func (r *OrderRepo) ListPending(ctx context.Context) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.status = 'pending' ORDER BY o.created_at ASC`)
}

// ListRecent returns the most recently created orders across all
// statuses, for the admin dashboard's historical view.
func (r *OrderRepo) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders o ORDER BY o.created_at DESC LIMIT ?`, limit)
}

// UpdateStatusTx writes back the lifecycle fields of an order within a
// transaction: status, completion timestamp and admin notes.  The
// caller must have locked the row with GetByIDTx(forUpdate) in the
// same transaction.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	var completedAt interface{}
	if o.CompletedAt != nil {
		completedAt = o.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}
	var notes interface{}
	if o.AdminNotes != "" {
		notes = o.AdminNotes
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, completed_at = ?, admin_notes = ? WHERE id = ?`,
		string(o.Status), completedAt, notes, o.ID)
	return err
}

// RevenueAndFinishedCount returns the summed total_amount and count of
// orders whose inventory has been committed (approved or completed).
// Approved orders count as finished because their stock is already
// decremented.
func (r *OrderRepo) RevenueAndFinishedCount(ctx context.Context) (decimal.Decimal, int, error) {
	var total string
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM orders WHERE status IN ('approved', 'completed')`).
		Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, err
	}
	revenue, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return revenue, count, nil
}

// DeleteAllTx removes every order and line row.  Lines are deleted
// first so the statement order does not depend on cascade rules.
func (r *OrderRepo) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM orders`)
	return err
}
