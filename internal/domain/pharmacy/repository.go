package pharmacy

import (
	"context"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// StockLedgerRepository appends and reads stock ledger entries
type StockLedgerRepository interface {
	// LockBatch creates the batch row if missing and holds an exclusive lock on it
	// until the surrounding transaction ends
	LockBatch(ctx context.Context, key BatchKey, expiry *time.Time) error
	// Latest returns the most recent entry of a batch, or nil if it has none
	Latest(ctx context.Context, key BatchKey) (*StockLedgerEntry, error)
	// Append inserts a new entry. Entries are never updated.
	Append(ctx context.Context, entry *StockLedgerEntry) error
	// LatestPerBatch returns the latest entry of every batch with its medicine
	LatestPerBatch(ctx context.Context) ([]StockLedgerEntry, error)
	// History returns all entries of a batch in posting order
	History(ctx context.Context, key BatchKey) ([]StockLedgerEntry, error)
}

// GRNRepository persists goods receipt notes
type GRNRepository interface {
	ExistsForPurchaseOrder(ctx context.Context, poID int64) (bool, error)
	Create(ctx context.Context, g *GRN) error
	FindByID(ctx context.Context, id int64) (*GRN, error)
	FindAll(ctx context.Context) ([]GRN, error)
}

// SaleRepository persists sales
type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	FindByID(ctx context.Context, id int64) (*Sale, error)
	FindAll(ctx context.Context) ([]Sale, error)
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, po *PurchaseOrder) error
	// FindByID loads the order with items, distributor and GRN headers
	FindByID(ctx context.Context, id int64) (*PurchaseOrder, error)
	// FindByIDForUpdate loads the order header and locks its row
	FindByIDForUpdate(ctx context.Context, id int64) (*PurchaseOrder, error)
	// Save updates the header fields of an existing order
	Save(ctx context.Context, po *PurchaseOrder) error
	FindPage(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)
	FindByStatuses(ctx context.Context, statuses []PurchaseOrderStatus) ([]PurchaseOrder, error)
}

// IndentRepository persists indents and tracks item consumption
type IndentRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, ind *Indent) error
	// FindByID loads an indent; openItemsOnly restricts items to unconsumed ones
	FindByID(ctx context.Context, id int64, openItemsOnly bool) (*Indent, error)
	FindAll(ctx context.Context) ([]Indent, error)
	FindPage(ctx context.Context, filter shared.Filter) ([]Indent, int64, error)
	// SaveReview updates status, approval stamp and reviewed item quantities
	SaveReview(ctx context.Context, ind *Indent) error
	// ConsumeItems marks unconsumed items of the indent as covered by a purchase
	// order and returns how many rows changed
	ConsumeItems(ctx context.Context, indentID int64, itemIDs []int64) (int64, error)
	CountUnconsumed(ctx context.Context, indentID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status IndentStatus) error
	// Delete removes the indent and its items
	Delete(ctx context.Context, id int64) error
}

// LedgerEntryRepository persists accounts entries
type LedgerEntryRepository interface {
	Create(ctx context.Context, e *LedgerEntry) error
	FindByID(ctx context.Context, id int64) (*LedgerEntry, error)
	FindAll(ctx context.Context) ([]LedgerEntry, error)
}
