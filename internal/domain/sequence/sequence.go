// Package sequence defines counter scopes and the number formats derived from them.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Scope identifies one independent counter. Counters in different scopes never interact.
type Scope string

// String returns the storage key of the scope
func (s Scope) String() string {
	return string(s)
}

// Allocator hands out the next value of a scoped counter.
// Implementations must increment and read back in a single atomic statement and
// must run inside the caller's transaction so a rollback releases the value.
type Allocator interface {
	Allocate(ctx context.Context, scope Scope) (int64, error)
}

// ReceiptPrefix returns the two-digit year and month, e.g. "2503" for March 2025.
func ReceiptPrefix(t time.Time) string {
	return t.Format("0601")
}

// ReceiptScope is the counter scope for receipt numbers in the month of t.
func ReceiptScope(t time.Time) Scope {
	return Scope("receipt:" + ReceiptPrefix(t))
}

// FormatReceiptNo renders a receipt number as the month prefix followed by a
// counter padded to at least four digits.
func FormatReceiptNo(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// TokenDay truncates t to midnight in its own location.
func TokenDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TokenScope is the counter scope for a doctor's tokens on the calendar day of t.
func TokenScope(doctorID int64, t time.Time) Scope {
	return Scope(fmt.Sprintf("token:%d:%s", doctorID, TokenDay(t).Format("2006-01-02")))
}

// FormatPONumber numbers a purchase order from the count of existing orders.
func FormatPONumber(existing int64) string {
	return fmt.Sprintf("PO-%05d", existing+1)
}

// FormatIndentNumber numbers an indent from the count of existing indents.
func FormatIndentNumber(existing int64) string {
	return fmt.Sprintf("IND-%05d", existing+1)
}
