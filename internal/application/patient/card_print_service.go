package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CardPrintService charges for patient card printouts. The first card is free.
type CardPrintService struct {
	patientRepo   patient.Repository
	cardPrintRepo patient.CardPrintRepository
	txScope       TransactionScope
	clock         shared.Clock
	logger        *zap.Logger
	defaultPrice  decimal.Decimal
}

// NewCardPrintService creates a new CardPrintService
func NewCardPrintService(patientRepo patient.Repository, cardPrintRepo patient.CardPrintRepository, txScope TransactionScope, clock shared.Clock, log *zap.Logger) *CardPrintService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CardPrintService{
		patientRepo:   patientRepo,
		cardPrintRepo: cardPrintRepo,
		txScope:       txScope,
		clock:         clock,
		logger:        log,
		defaultPrice:  patient.DefaultCardPrice,
	}
}

// SetDefaultPrice sets the reprint price used while none is saved. Negative values are ignored.
func (s *CardPrintService) SetDefaultPrice(price decimal.Decimal) {
	if !price.IsNegative() {
		s.defaultPrice = price
	}
}

// Print records a card printout by userID and returns what it cost. Counting
// and inserting run serializably so two concurrent first prints cannot both be
// free; the loser of such a race is retried.
func (s *CardPrintService) Print(ctx context.Context, patientID, userID int64) (*CardPrintResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "patient", "print_card")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPatientID, patientID)

	if userID <= 0 {
		telemetry.RecordError(span, shared.ErrUnauthorized)
		return nil, shared.ErrUnauthorized
	}

	now := s.clock.Now()
	var (
		p       *patient.Patient
		printed *patient.CardPrint
	)
	var err error
	for attempt := 1; attempt <= DefaultIDRetryAttempts; attempt++ {
		err = s.txScope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
			var err error
			p, err = repos.PatientRepo().FindByPatientID(ctx, patientID)
			if err != nil {
				return err
			}
			count, err := repos.CardPrintRepo().CountByPatient(ctx, p.ID)
			if err != nil {
				return err
			}
			price, err := s.price(ctx, repos.CardPrintRepo())
			if err != nil {
				return err
			}
			printed, err = patient.NewCardPrint(p, userID, count, price, now)
			if err != nil {
				return err
			}
			return repos.CardPrintRepo().Create(ctx, printed)
		})
		if !errors.Is(err, shared.ErrIDConflict) || attempt == DefaultIDRetryAttempts {
			break
		}
		telemetry.AddEvent(ctx, "card_print_conflict", telemetry.SpanAttrRetryAttempt, attempt)
		if serr := sleepContext(ctx, DefaultIDRetryBackoff*time.Duration(attempt)); serr != nil {
			err = serr
			break
		}
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Patient card printed",
		zap.Int64("patient_id", p.PatientID),
		zap.Int64("printed_by", userID),
		zap.String("amount", printed.Amount.StringFixed(2)),
	)
	message := "First print is free"
	if !printed.Amount.IsZero() {
		message = fmt.Sprintf("Charged Rs. %s", printed.Amount.String())
	}
	return &CardPrintResponse{
		PrintID:   printed.ID,
		PatientID: p.PatientID,
		Name:      p.Name,
		Amount:    printed.Amount,
		Message:   message,
	}, nil
}

// Check reports what the next print would cost without recording one
func (s *CardPrintService) Check(ctx context.Context, patientID int64) (*PrintCheckResponse, error) {
	p, err := s.patientRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	count, err := s.cardPrintRepo.CountByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	price, err := s.price(ctx, s.cardPrintRepo)
	if err != nil {
		return nil, err
	}
	return &PrintCheckResponse{
		PatientID:  p.PatientID,
		Name:       p.Name,
		Amount:     patient.PrintCharge(count, price),
		PrintCount: count,
	}, nil
}

// GetPrice returns the saved reprint price, or the default
func (s *CardPrintService) GetPrice(ctx context.Context) (*CardPriceResponse, error) {
	price, err := s.price(ctx, s.cardPrintRepo)
	if err != nil {
		return nil, err
	}
	return &CardPriceResponse{Price: price}, nil
}

// UpdatePrice saves a new reprint price
func (s *CardPrintService) UpdatePrice(ctx context.Context, req UpdateCardPriceRequest) (*CardPriceResponse, error) {
	if req.Price == nil {
		return nil, shared.NewValidationError("Invalid price", map[string]string{"price": "Price is required"})
	}
	price := *req.Price
	if err := patient.ValidateCardPrice(price); err != nil {
		return nil, err
	}
	if err := s.cardPrintRepo.SavePrice(ctx, price, s.clock.Now()); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Patient card price updated", zap.String("price", price.StringFixed(2)))
	return &CardPriceResponse{Price: price}, nil
}

func (s *CardPrintService) price(ctx context.Context, repo patient.CardPrintRepository) (decimal.Decimal, error) {
	saved, err := repo.Price(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if saved == nil {
		return s.defaultPrice, nil
	}
	return *saved, nil
}
