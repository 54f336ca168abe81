package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/pharmacy"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DocumentStore persists rendered documents and returns the URL they are served from
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// PurchaseOrderDocuments renders purchase orders to PDF and stores them
type PurchaseOrderDocuments struct {
	renderer PDFRenderer
	store    DocumentStore
	facility string
	timeout  time.Duration
	clock    shared.Clock
	logger   *zap.Logger
}

// NewPurchaseOrderDocuments creates a generator. facility is printed in the page header.
func NewPurchaseOrderDocuments(
	renderer PDFRenderer,
	store DocumentStore,
	facility string,
	timeout time.Duration,
	clock shared.Clock,
	log *zap.Logger,
) *PurchaseOrderDocuments {
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseOrderDocuments{
		renderer: renderer,
		store:    store,
		facility: facility,
		timeout:  timeout,
		clock:    clock,
		logger:   log,
	}
}

// GeneratePurchaseOrder renders the order and returns the stored PDF's URL
func (d *PurchaseOrderDocuments) GeneratePurchaseOrder(ctx context.Context, po *pharmacy.PurchaseOrder) (string, error) {
	now := d.clock.Now()
	html, err := renderPurchaseOrderHTML(purchaseOrderView{
		Facility:  d.facility,
		Order:     po,
		PrintedAt: now,
	})
	if err != nil {
		return "", err
	}

	result, err := d.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      po.PONo,
		FooterHTML: purchaseOrderFooter,
		Timeout:    d.timeout,
	})
	if err != nil {
		return "", err
	}

	url, err := d.store.Put(ctx, DocumentKey(po, now), result.PDFData, "application/pdf")
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to store purchase order PDF", err)
	}

	logger.Ctx(ctx, d.logger).Info("Purchase order PDF generated",
		zap.Int64("po_id", po.ID),
		zap.String("po_no", po.PONo),
		zap.Int("bytes", len(result.PDFData)),
		zap.Duration("render_duration", result.RenderDuration),
	)
	return url, nil
}

// DocumentKey is the storage key of a purchase order PDF: purchase-orders/{yyyy}/{mm}/{po_no}.pdf
func DocumentKey(po *pharmacy.PurchaseOrder, now time.Time) string {
	return fmt.Sprintf("purchase-orders/%d/%02d/%s.pdf", now.Year(), now.Month(), po.PONo)
}
