package model

import "time"

// WaitlistStatus enumerates the states of a waitlist entry.
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistFulfilled WaitlistStatus = "fulfilled"
)

// WaitlistEntry is a notify-me request filed when a ticket class is
// sold out.  It is advisory bookkeeping only: joining performs no stock
// validation and fulfilment moves no inventory.  Entries are
// independent of orders and may be created by unauthenticated users.
//
// Fields:
//  ID                – primary key identifier.
//  UserName          – name supplied by the requester.
//  UserEmail         – email to notify on restock.
//  Kind              – ticket class the requester is waiting for.
//  RequestedQuantity – how many tickets they want.
//  Status            – waiting or fulfilled.
//  JoinedAt          – when the entry was created; orders the queue.
type WaitlistEntry struct {
	ID                uint64          // waitlist_entries.id
	UserName          string          // waitlist_entries.user_name
	UserEmail         string          // waitlist_entries.user_email
	Kind              TicketClassKind // waitlist_entries.ticket_class
	RequestedQuantity int             // waitlist_entries.requested_quantity
	Status            WaitlistStatus  // waitlist_entries.status
	JoinedAt          time.Time       // waitlist_entries.joined_at
}
