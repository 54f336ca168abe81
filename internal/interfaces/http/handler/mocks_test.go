package handler

import (
	"context"

	recordapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/medicalrecord"
	patientapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	pharmacyapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/pharmacy"
	reportapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/report"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockPatientService struct{ mock.Mock }

func (m *mockPatientService) Create(ctx context.Context, req patientapp.CreatePatientRequest, createdBy *int64) (*patientapp.PatientResponse, error) {
	args := m.Called(ctx, req, createdBy)
	resp, _ := args.Get(0).(*patientapp.PatientResponse)
	return resp, args.Error(1)
}

func (m *mockPatientService) GetByPatientID(ctx context.Context, patientID int64) (*patientapp.PatientResponse, error) {
	args := m.Called(ctx, patientID)
	resp, _ := args.Get(0).(*patientapp.PatientResponse)
	return resp, args.Error(1)
}

func (m *mockPatientService) Update(ctx context.Context, patientID int64, req patientapp.UpdatePatientRequest) (*patientapp.PatientResponse, error) {
	args := m.Called(ctx, patientID, req)
	resp, _ := args.Get(0).(*patientapp.PatientResponse)
	return resp, args.Error(1)
}

func (m *mockPatientService) Delete(ctx context.Context, patientID int64) error {
	return m.Called(ctx, patientID).Error(0)
}

func (m *mockPatientService) Search(ctx context.Context, filter shared.Filter) (*shared.Paginated[patientapp.PatientResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[patientapp.PatientResponse])
	return resp, args.Error(1)
}

func (m *mockPatientService) List(ctx context.Context, search string) ([]patientapp.PatientResponse, error) {
	args := m.Called(ctx, search)
	resp, _ := args.Get(0).([]patientapp.PatientResponse)
	return resp, args.Error(1)
}

type mockRecordService struct{ mock.Mock }

func (m *mockRecordService) CreateMedicalRecord(ctx context.Context, req recordapp.CreateRecordRequest, authorUserID *int64) (*recordapp.MedicalRecordResponse, error) {
	args := m.Called(ctx, req, authorUserID)
	resp, _ := args.Get(0).(*recordapp.MedicalRecordResponse)
	return resp, args.Error(1)
}

func (m *mockRecordService) GetRecordsByPatient(ctx context.Context, patientID int64) (*recordapp.PatientRecordsResponse, error) {
	args := m.Called(ctx, patientID)
	resp, _ := args.Get(0).(*recordapp.PatientRecordsResponse)
	return resp, args.Error(1)
}

func (m *mockRecordService) ListPatientsWithVisits(ctx context.Context, filter shared.Filter) (*shared.Paginated[recordapp.PatientRecordsResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[recordapp.PatientRecordsResponse])
	return resp, args.Error(1)
}

type mockPurchaseOrderService struct{ mock.Mock }

func (m *mockPurchaseOrderService) CreatePO(ctx context.Context, req pharmacyapp.CreatePORequest, createdBy *int64) (*pharmacyapp.POResponse, error) {
	args := m.Called(ctx, req, createdBy)
	resp, _ := args.Get(0).(*pharmacyapp.POResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) ApprovePO(ctx context.Context, id, approverID int64, req pharmacyapp.ApprovePORequest) (*pharmacyapp.POResponse, error) {
	args := m.Called(ctx, id, approverID, req)
	resp, _ := args.Get(0).(*pharmacyapp.POResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) RecordPayment(ctx context.Context, id int64, req pharmacyapp.RecordPaymentRequest) (*pharmacyapp.POResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*pharmacyapp.POResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) UpdatePOStatus(ctx context.Context, id int64, req pharmacyapp.UpdatePOStatusRequest) (*pharmacyapp.POResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*pharmacyapp.POResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) ListPOs(ctx context.Context, filter shared.Filter) (*shared.Paginated[pharmacyapp.POResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[pharmacyapp.POResponse])
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) GetPO(ctx context.Context, id int64) (*pharmacyapp.POResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*pharmacyapp.POResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) ListApprovedPOs(ctx context.Context) (*pharmacyapp.ApprovedPOsResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*pharmacyapp.ApprovedPOsResponse)
	return resp, args.Error(1)
}

func (m *mockPurchaseOrderService) GetPOPdf(ctx context.Context, id int64) (*pharmacyapp.PODocumentResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*pharmacyapp.PODocumentResponse)
	return resp, args.Error(1)
}

type mockGRNService struct{ mock.Mock }

func (m *mockGRNService) ReceiveGoods(ctx context.Context, req pharmacyapp.CreateGRNRequest, receivedBy int64) (*pharmacyapp.GRNResponse, error) {
	args := m.Called(ctx, req, receivedBy)
	resp, _ := args.Get(0).(*pharmacyapp.GRNResponse)
	return resp, args.Error(1)
}

func (m *mockGRNService) ListGRNs(ctx context.Context) ([]pharmacyapp.GRNResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]pharmacyapp.GRNResponse)
	return resp, args.Error(1)
}

func (m *mockGRNService) GetGRN(ctx context.Context, id int64) (*pharmacyapp.GRNResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*pharmacyapp.GRNResponse)
	return resp, args.Error(1)
}

type mockSaleService struct{ mock.Mock }

func (m *mockSaleService) CreateSale(ctx context.Context, req pharmacyapp.CreateSaleRequest, createdBy *int64) (*pharmacyapp.SaleResponse, error) {
	args := m.Called(ctx, req, createdBy)
	resp, _ := args.Get(0).(*pharmacyapp.SaleResponse)
	return resp, args.Error(1)
}

func (m *mockSaleService) ListSales(ctx context.Context) ([]pharmacyapp.SaleResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]pharmacyapp.SaleResponse)
	return resp, args.Error(1)
}

func (m *mockSaleService) GetSale(ctx context.Context, id int64) (*pharmacyapp.SaleResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*pharmacyapp.SaleResponse)
	return resp, args.Error(1)
}

type mockStockService struct{ mock.Mock }

func (m *mockStockService) StockList(ctx context.Context) ([]pharmacyapp.StockEntryResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]pharmacyapp.StockEntryResponse)
	return resp, args.Error(1)
}

func (m *mockStockService) BatchHistory(ctx context.Context, medicineID int64, batchNo string) ([]pharmacyapp.StockEntryResponse, error) {
	args := m.Called(ctx, medicineID, batchNo)
	resp, _ := args.Get(0).([]pharmacyapp.StockEntryResponse)
	return resp, args.Error(1)
}

func (m *mockStockService) AdjustStock(ctx context.Context, req pharmacyapp.AdjustStockRequest) (*pharmacyapp.StockEntryResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*pharmacyapp.StockEntryResponse)
	return resp, args.Error(1)
}

type mockWelfareService struct{ mock.Mock }

func (m *mockWelfareService) Create(ctx context.Context, req patientapp.CreateWelfareRequest) (*patientapp.WelfareResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*patientapp.WelfareResponse)
	return resp, args.Error(1)
}

func (m *mockWelfareService) GetByPatientID(ctx context.Context, patientID int64) (*patientapp.WelfareResponse, error) {
	args := m.Called(ctx, patientID)
	resp, _ := args.Get(0).(*patientapp.WelfareResponse)
	return resp, args.Error(1)
}

func (m *mockWelfareService) List(ctx context.Context) ([]patientapp.WelfareResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]patientapp.WelfareResponse)
	return resp, args.Error(1)
}

func (m *mockWelfareService) Update(ctx context.Context, patientID int64, req patientapp.WelfareRequest) (*patientapp.WelfareResponse, error) {
	args := m.Called(ctx, patientID, req)
	resp, _ := args.Get(0).(*patientapp.WelfareResponse)
	return resp, args.Error(1)
}

func (m *mockWelfareService) Delete(ctx context.Context, patientID int64) error {
	return m.Called(ctx, patientID).Error(0)
}

type mockIndentService struct{ mock.Mock }

func (m *mockIndentService) CreateIndent(ctx context.Context, req pharmacyapp.CreateIndentRequest, createdBy *int64) (*pharmacyapp.IndentResponse, error) {
	args := m.Called(ctx, req, createdBy)
	resp, _ := args.Get(0).(*pharmacyapp.IndentResponse)
	return resp, args.Error(1)
}

func (m *mockIndentService) ListIndents(ctx context.Context, filter shared.Filter) (*shared.Paginated[pharmacyapp.IndentResponse], error) {
	args := m.Called(ctx, filter)
	resp, _ := args.Get(0).(*shared.Paginated[pharmacyapp.IndentResponse])
	return resp, args.Error(1)
}

func (m *mockIndentService) GetIndent(ctx context.Context, id int64) (*pharmacyapp.IndentResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*pharmacyapp.IndentResponse)
	return resp, args.Error(1)
}

func (m *mockIndentService) ApproveIndent(ctx context.Context, id int64, req pharmacyapp.ApproveIndentRequest, approvedBy *int64) (*pharmacyapp.IndentResponse, error) {
	args := m.Called(ctx, id, req, approvedBy)
	resp, _ := args.Get(0).(*pharmacyapp.IndentResponse)
	return resp, args.Error(1)
}

func (m *mockIndentService) DeleteIndent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCardPrintService struct{ mock.Mock }

func (m *mockCardPrintService) Print(ctx context.Context, patientID, userID int64) (*patientapp.CardPrintResponse, error) {
	args := m.Called(ctx, patientID, userID)
	resp, _ := args.Get(0).(*patientapp.CardPrintResponse)
	return resp, args.Error(1)
}

func (m *mockCardPrintService) Check(ctx context.Context, patientID int64) (*patientapp.PrintCheckResponse, error) {
	args := m.Called(ctx, patientID)
	resp, _ := args.Get(0).(*patientapp.PrintCheckResponse)
	return resp, args.Error(1)
}

func (m *mockCardPrintService) GetPrice(ctx context.Context) (*patientapp.CardPriceResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*patientapp.CardPriceResponse)
	return resp, args.Error(1)
}

func (m *mockCardPrintService) UpdatePrice(ctx context.Context, req patientapp.UpdateCardPriceRequest) (*patientapp.CardPriceResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*patientapp.CardPriceResponse)
	return resp, args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) FinancialReportToday(ctx context.Context) (*reportapp.FinancialReportResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*reportapp.FinancialReportResponse)
	return resp, args.Error(1)
}
