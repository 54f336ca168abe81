package patient

import (
	"context"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultCardPrice is charged for reprints while no price has been configured.
var DefaultCardPrice = decimal.NewFromInt(200)

// CardPrint is one printout of a patient's registration card.
type CardPrint struct {
	ID        int64
	PatientID int64 // row ID of the patient, not the business ID
	PrintedBy int64
	Amount    decimal.Decimal
	PrintedAt time.Time
}

// PrintCharge is the amount due for the next printout. The first card is free.
func PrintCharge(previousPrints int64, price decimal.Decimal) decimal.Decimal {
	if previousPrints == 0 {
		return decimal.Zero
	}
	return price
}

// NewCardPrint records a printout for the patient row p.
func NewCardPrint(p *Patient, printedBy int64, previousPrints int64, price decimal.Decimal, now time.Time) (*CardPrint, error) {
	if printedBy <= 0 {
		return nil, shared.ErrUnauthorized
	}
	return &CardPrint{
		PatientID: p.ID,
		PrintedBy: printedBy,
		Amount:    PrintCharge(previousPrints, price),
		PrintedAt: now,
	}, nil
}

// ValidateCardPrice rejects negative prices.
func ValidateCardPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Invalid price", map[string]string{"price": "Must not be negative"})
	}
	return nil
}

// CardPrintRepository persists card printouts and the single configured reprint price.
type CardPrintRepository interface {
	// CountByPatient counts printouts of the patient row
	CountByPatient(ctx context.Context, patientRowID int64) (int64, error)
	Create(ctx context.Context, p *CardPrint) error
	// Price returns the configured price, or nil while none is set
	Price(ctx context.Context) (*decimal.Decimal, error)
	// SavePrice creates or replaces the configured price
	SavePrice(ctx context.Context, price decimal.Decimal, now time.Time) error
}
