package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/repository"
)

// UserIdentity carries the identity of the user performing an
// operation. The engine never reads a session or request context for
// the current user; callers pass identity explicitly, which keeps the
// core testable without any HTTP machinery.
type UserIdentity struct {
	ID    uint64
	Name  string
	Email string
}

// Engine owns the order lifecycle and the inventory ledger. Each
// lifecycle transition is a short, bounded read-modify-write executed
// in its own transaction; ticket class rows are locked FOR UPDATE
// before any counter moves, so a check-then-decrement can never race
// with a concurrent approval against the same class.
type Engine struct {
	db       *sql.DB
	classes  *repository.TicketClassRepo
	orders   *repository.OrderRepo
	waitlist *repository.WaitlistRepo
	users    *repository.UserRepo
	tokens   *repository.TokenRepo
}

// New constructs an Engine with the provided repositories. All
// dependencies must be non-nil.
func New(db *sql.DB, classes *repository.TicketClassRepo, orders *repository.OrderRepo, waitlist *repository.WaitlistRepo, users *repository.UserRepo, tokens *repository.TokenRepo) *Engine {
	if db == nil || classes == nil || orders == nil || waitlist == nil || users == nil || tokens == nil {
		panic("nil dependency passed to engine.New")
	}
	return &Engine{db: db, classes: classes, orders: orders, waitlist: waitlist, users: users, tokens: tokens}
}

// ListTicketClasses returns the current inventory ledger rows.
func (e *Engine) ListTicketClasses(ctx context.Context) ([]model.TicketClass, error) {
	return e.classes.List(ctx)
}

// CreateOrder validates and records a new pending order for the given
// user. The user may hold at most one order in a non-terminal status;
// duplicate class requests are aggregated into single lines; current
// prices are frozen into the lines. No stock is reserved here; the
// availability check is point-in-time and approval re-validates.
func (e *Engine) CreateOrder(ctx context.Context, user UserIdentity, requests []LineRequest) (*model.Order, error) {
	classList, err := e.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	classes := make(map[model.TicketClassKind]*model.TicketClass, len(classList))
	for i := range classList {
		classes[classList[i].Kind] = &classList[i]
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Guard against multiple open orders per user; the check-then-insert
	// runs in one transaction with the existing row locked.
	existing, err := e.orders.ActiveByUserTx(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.OrderCompleted {
			return nil, &ConflictError{
				Msg:     "you have already completed an order; each user is limited to one completed purchase",
				OrderID: existing.ID,
				Status:  existing.Status,
			}
		}
		return nil, &ConflictError{
			Msg:     "you already have an active order awaiting processing; please wait for the admin to review it before placing a new one",
			OrderID: existing.ID,
			Status:  existing.Status,
		}
	}

	lines, total, err := aggregateLines(requests, classes)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		Status:      model.OrderPending,
		TotalAmount: total,
		Lines:       lines,
	}
	if err := e.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// ApproveOrder commits a pending order: it re-validates every line
// against current availability under row locks and reserves the stock
// for all lines, or for none. When any line now exceeds availability
// the order is automatically transitioned to rejected with a generated
// note; the rejection is persisted and the shortfall is still
// reported as an InsufficientStockError alongside the mutated order.
func (e *Engine) ApproveOrder(ctx context.Context, orderID uint64, notes string) (*model.Order, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := e.orders.GetByIDTx(ctx, tx, orderID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &ConflictError{
			Msg:     fmt.Sprintf("order is already %s", order.Status),
			OrderID: order.ID,
			Status:  order.Status,
		}
	}

	classes, err := e.classes.LockAllTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if shortfall := findShortfall(order.Lines, classes); shortfall != nil {
		// Sold-out race: resolve it without manual intervention by
		// auto-rejecting the order. This mutation is deliberate and is
		// committed even though an error is returned.
		order.Status = model.OrderRejected
		order.AppendNote(autoRejectNote(shortfall))
		if err := e.orders.UpdateStatusTx(ctx, tx, order); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return order, shortfall
	}

	if err := e.reserveLinesTx(ctx, tx, order.Lines, classes); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	order.Status = model.OrderApproved
	order.CompletedAt = &now
	if notes != "" {
		order.AppendNote(notes)
	}
	if err := e.orders.UpdateStatusTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// RejectOrder manually rejects a pending order. It has no inventory
// effect; the optional note is appended so manual rejection reasons
// stay distinguishable from auto-reject notes.
func (e *Engine) RejectOrder(ctx context.Context, orderID uint64, notes string) (*model.Order, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := e.orders.GetByIDTx(ctx, tx, orderID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, &ConflictError{
			Msg:     fmt.Sprintf("order is already %s", order.Status),
			OrderID: order.ID,
			Status:  order.Status,
		}
	}
	order.Status = model.OrderRejected
	if notes != "" {
		order.AppendNote(notes)
	}
	if err := e.orders.UpdateStatusTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// CompleteOrder is the direct-completion path that bypasses approval.
// It re-validates and reserves inventory exactly like approval unless
// the order was already approved (its stock is then already
// committed). Unlike approval, a stock shortfall here is a pure
// failure: nothing is mutated and no auto-rejection happens.
func (e *Engine) CompleteOrder(ctx context.Context, orderID uint64) (*model.Order, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := e.orders.GetByIDTx(ctx, tx, orderID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	switch order.Status {
	case model.OrderCompleted:
		return nil, &ConflictError{Msg: "order already completed", OrderID: order.ID, Status: order.Status}
	case model.OrderCancelled:
		return nil, &ConflictError{Msg: "order was cancelled", OrderID: order.ID, Status: order.Status}
	}

	if order.Status != model.OrderApproved {
		classes, err := e.classes.LockAllTx(ctx, tx)
		if err != nil {
			return nil, err
		}
		if shortfall := findShortfall(order.Lines, classes); shortfall != nil {
			return nil, shortfall
		}
		if err := e.reserveLinesTx(ctx, tx, order.Lines, classes); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	order.Status = model.OrderCompleted
	order.CompletedAt = &now
	if err := e.orders.UpdateStatusTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// CancelOrder cancels an approved or completed order on behalf of its
// owner and returns the reserved stock to the pool. A timestamped
// cancellation note is appended to any existing notes.
func (e *Engine) CancelOrder(ctx context.Context, orderID, requesterID uint64) (*model.Order, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := e.orders.GetByIDTx(ctx, tx, orderID, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, ErrForbidden
	}
	if order.Status != model.OrderApproved && order.Status != model.OrderCompleted {
		return nil, &ConflictError{
			Msg:     fmt.Sprintf("cannot cancel %s orders; only approved or completed orders can be cancelled for refund", order.Status),
			OrderID: order.ID,
			Status:  order.Status,
		}
	}

	classes, err := e.classes.LockAllTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, line := range order.Lines {
		class, ok := classes[line.Kind]
		if !ok {
			return nil, repository.ErrTicketClassNotFound
		}
		class.Release(line.Quantity)
		if err := e.classes.UpdateTx(ctx, tx, class); err != nil {
			return nil, err
		}
	}
	order.Status = model.OrderCancelled
	order.AppendNote(cancellationNote(time.Now()))
	if err := e.orders.UpdateStatusTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// reserveLinesTx moves stock from available to sold for every line,
// writing each locked ledger row back. The caller has already checked
// for shortfalls; a reserve failure here still rolls the whole
// transaction back, so partial reservation cannot be observed.
func (e *Engine) reserveLinesTx(ctx context.Context, tx *sql.Tx, lines []model.OrderLine, classes map[model.TicketClassKind]*model.TicketClass) error {
	for _, line := range lines {
		class, ok := classes[line.Kind]
		if !ok {
			return repository.ErrTicketClassNotFound
		}
		if err := class.Reserve(line.Quantity); err != nil {
			return err
		}
		if err := e.classes.UpdateTx(ctx, tx, class); err != nil {
			return err
		}
	}
	return nil
}

// GetOrderForUser returns one order, enforcing that the requester owns
// it.
func (e *Engine) GetOrderForUser(ctx context.Context, orderID, requesterID uint64) (*model.Order, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

// GetOrder returns one order without an ownership check, for admin
// callers.
func (e *Engine) GetOrder(ctx context.Context, orderID uint64) (*model.Order, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListOrdersForUser returns all of a user's orders, newest first.
func (e *Engine) ListOrdersForUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return e.orders.ListByUser(ctx, userID)
}

// ListOrders returns all orders for admin review, optionally filtered
// by status.
func (e *Engine) ListOrders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	return e.orders.List(ctx, status)
}

// RestockParams describes an inventory restock request. Price replaces
// the class's unit price when set; AddQuantity applies a signed delta
// to availability; SetQuantity replaces availability outright.
type RestockParams struct {
	TicketClass string
	Price       *decimal.Decimal
	AddQuantity *int
	SetQuantity *int
}

// Restock adjusts one ticket class's ledger row, creating the row if
// the class has never been stocked. Adjustments that would leave
// availability negative are rejected without mutation.
func (e *Engine) Restock(ctx context.Context, params RestockParams) (*model.TicketClass, error) {
	kind, ok := model.ParseTicketClassKind(params.TicketClass)
	if !ok {
		return nil, validationf("invalid ticket type %q: use VIP or REGULAR", params.TicketClass)
	}
	if params.Price != nil && params.Price.IsNegative() {
		return nil, validationf("price cannot be negative")
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	class, err := e.classes.LockByKindTx(ctx, tx, kind)
	if err != nil && !errors.Is(err, repository.ErrTicketClassNotFound) {
		return nil, err
	}
	if class == nil {
		class = &model.TicketClass{Kind: kind, Price: decimal.Zero}
		if params.Price != nil {
			class.Price = *params.Price
		}
		quantity := 0
		if params.SetQuantity != nil {
			quantity = *params.SetQuantity
		} else if params.AddQuantity != nil {
			quantity = *params.AddQuantity
		}
		if err := class.SetAvailable(quantity); err != nil {
			return nil, validationf("%s", err.Error())
		}
		if err := e.classes.CreateTx(ctx, tx, class); err != nil {
			return nil, err
		}
	} else {
		if params.Price != nil {
			class.Price = *params.Price
		}
		if params.AddQuantity != nil {
			if err := class.AdjustAvailable(*params.AddQuantity); err != nil {
				return nil, validationf("%s", err.Error())
			}
		}
		if params.SetQuantity != nil {
			if err := class.SetAvailable(*params.SetQuantity); err != nil {
				return nil, validationf("%s", err.Error())
			}
		}
		if err := e.classes.UpdateTx(ctx, tx, class); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return class, nil
}

// JoinWaitlist appends a waiting entry for a sold-out class.  It is a
// notify-me request, not a reservation, so current stock is not
// checked.
func (e *Engine) JoinWaitlist(ctx context.Context, userName, userEmail, ticketClass string, quantity int) (*model.WaitlistEntry, error) {
	if userName == "" || userEmail == "" {
		return nil, validationf("user_name and user_email are required")
	}
	kind, ok := model.ParseTicketClassKind(ticketClass)
	if !ok {
		return nil, validationf("invalid ticket type %q: use VIP or REGULAR", ticketClass)
	}
	if quantity < 1 {
		return nil, validationf("requested quantity must be at least 1")
	}
	entry := &model.WaitlistEntry{
		UserName:          userName,
		UserEmail:         userEmail,
		Kind:              kind,
		RequestedQuantity: quantity,
	}
	if err := e.waitlist.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// FulfillWaitlistEntry marks an entry fulfilled. This is advisory
// bookkeeping only: it moves no inventory, the admin restocks and
// approves real orders separately.
func (e *Engine) FulfillWaitlistEntry(ctx context.Context, entryID uint64) (*model.WaitlistEntry, error) {
	entry, err := e.waitlist.MarkFulfilled(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// defaultTicketClasses returns the fixed ledger defaults the reset
// operations re-seed: VIP at 100.00 and REGULAR at 85.00. The two
// reset flavors historically differ in the Regular quantity.
func defaultTicketClasses(regularQuantity int) []model.TicketClass {
	return []model.TicketClass{
		{Kind: model.TicketVIP, Price: decimal.NewFromInt(100), Available: 50, Sold: 0},
		{Kind: model.TicketRegular, Price: decimal.NewFromInt(85), Available: regularQuantity, Sold: 0},
	}
}

// ResetTransactionalData deletes all orders, lines and waitlist
// entries and re-seeds the ticket classes to their defaults. User
// accounts are preserved.
func (e *Engine) ResetTransactionalData(ctx context.Context) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := e.orders.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.waitlist.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.classes.ResetTx(ctx, tx, defaultTicketClasses(30)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ResetEverything deletes all transactional data AND all user accounts
// and refresh tokens, then re-seeds the ticket classes. After this
// every client must register again.
func (e *Engine) ResetEverything(ctx context.Context) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := e.orders.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.waitlist.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.tokens.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.users.DeleteAllTx(ctx, tx); err != nil {
		return err
	}
	if err := e.classes.ResetTx(ctx, tx, defaultTicketClasses(100)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
