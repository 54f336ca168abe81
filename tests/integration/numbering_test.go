package integration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/medicalrecord"
	patientapp "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/application/patient"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/billing"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var karachi = time.FixedZone("PKT", 5*60*60)

func newPatientService(tdb *TestDB, clock shared.Clock) *patientapp.PatientService {
	svc := patientapp.NewPatientService(
		persistence.NewGormPatientRepository(tdb.DB),
		persistence.NewGormPatientTransactionScope(tdb.DB),
		clock, zap.NewNop(),
	)
	svc.SetRetryPolicy(25, 5*time.Millisecond)
	return svc
}

func registerPatient(t *testing.T, svc *patientapp.PatientService, name string) *patientapp.PatientResponse {
	t.Helper()
	age := 30
	resp, err := svc.Create(context.Background(), patientapp.CreatePatientRequest{Name: name, Gender: "Female", Age: &age}, nil)
	require.NoError(t, err)
	return resp
}

// Concurrent registrations in one month never share an ID, and the IDs that
// were handed out form a gapless run from the first of the month.
func TestPatientIDs_ConcurrentRegistration(t *testing.T) {
	tdb := NewTestDB(t)
	clock := shared.FixedClock{T: time.Date(2025, time.March, 14, 10, 0, 0, 0, karachi)}
	svc := newPatientService(tdb, clock)

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ids       []int64
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			age := 25
			resp, err := svc.Create(context.Background(), patientapp.CreatePatientRequest{Name: "Walk-in", Gender: "Male", Age: &age}, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.True(t, errors.Is(err, shared.ErrIDConflict), "unexpected error: %v", err)
				conflicts++
				return
			}
			ids = append(ids, resp.PatientID)
		}()
	}
	wg.Wait()

	require.NotEmpty(t, ids)
	assert.Equal(t, workers, len(ids)+conflicts)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		assert.Equal(t, int64(250300001+i), id)
	}

	// A back-dated registration still draws from the current month.
	age := 50
	backdated := time.Date(2025, time.January, 20, 9, 0, 0, 0, karachi)
	resp, err := svc.Create(context.Background(), patientapp.CreatePatientRequest{
		Name: "Returning", Gender: "Male", Age: &age, CreatedAt: &backdated,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(250300001+len(ids)), resp.PatientID)
	assert.True(t, resp.CreatedAt.Equal(backdated))
}

// Receipt numbers and per-doctor tokens stay unique and contiguous when records
// are billed in parallel.
func TestMedicalRecords_ConcurrentNumbering(t *testing.T) {
	tdb := NewTestDB(t)
	clock := shared.FixedClock{T: time.Date(2025, time.March, 14, 11, 0, 0, 0, karachi)}
	p := registerPatient(t, newPatientService(tdb, clock), "Sana")

	svc := medicalrecord.NewMedicalRecordService(
		persistence.NewGormMedicalRecordRepository(tdb.DB),
		persistence.NewGormPatientRepository(tdb.DB),
		persistence.NewGormMedicalRecordTransactionScope(tdb.DB, clock),
		clock, billing.NegativeFeeAllow, zap.NewNop(),
	)

	const workers = 10
	user := int64(1)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		receipts []string
		tokens   = map[int64][]int64{}
	)
	for i := 0; i < workers; i++ {
		doctor := int64(7)
		if i%2 == 1 {
			doctor = 8
		}
		wg.Add(1)
		go func(doctor int64) {
			defer wg.Done()
			resp, err := svc.CreateMedicalRecord(context.Background(), medicalrecord.CreateRecordRequest{
				PatientID: p.PatientID,
				Items: []medicalrecord.RecordItemRequest{{
					DepartmentID: 1, ProcedureID: 1, DoctorID: &doctor,
					Fee: decimal.NewFromInt(1000), Discount: decimal.NewFromInt(100),
				}},
			}, &user)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			receipts = append(receipts, resp.ReceiptNo)
			if !assert.NotNil(t, resp.TokenNumber) {
				return
			}
			tokens[doctor] = append(tokens[doctor], *resp.TokenNumber)
			assert.True(t, resp.FinalFee.Equal(decimal.NewFromInt(900)))
		}(doctor)
	}
	wg.Wait()

	require.Len(t, receipts, workers)
	sort.Strings(receipts)
	for i, r := range receipts {
		assert.Equal(t, fmt.Sprintf("2503%04d", i+1), r)
	}
	for doctor, got := range tokens {
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		for i, tok := range got {
			assert.Equal(t, int64(i+1), tok, "doctor %d", doctor)
		}
	}

	history, err := svc.GetRecordsByPatient(context.Background(), p.PatientID)
	require.NoError(t, err)
	assert.Len(t, history.Records, workers)
}

// A record naming an unknown procedure rolls back and does not burn a receipt number.
func TestMedicalRecords_FailedBillingKeepsSequence(t *testing.T) {
	tdb := NewTestDB(t)
	clock := shared.FixedClock{T: time.Date(2025, time.March, 14, 11, 0, 0, 0, karachi)}
	p := registerPatient(t, newPatientService(tdb, clock), "Hamza")

	svc := medicalrecord.NewMedicalRecordService(
		persistence.NewGormMedicalRecordRepository(tdb.DB),
		persistence.NewGormPatientRepository(tdb.DB),
		persistence.NewGormMedicalRecordTransactionScope(tdb.DB, clock),
		clock, billing.NegativeFeeAllow, zap.NewNop(),
	)
	user := int64(1)
	item := medicalrecord.RecordItemRequest{DepartmentID: 1, ProcedureID: 1, Fee: decimal.NewFromInt(500)}

	_, err := svc.CreateMedicalRecord(context.Background(), medicalrecord.CreateRecordRequest{
		PatientID: p.PatientID,
		Items:     []medicalrecord.RecordItemRequest{{DepartmentID: 1, ProcedureID: 999, Fee: decimal.NewFromInt(500)}},
	}, &user)
	require.Error(t, err)

	resp, err := svc.CreateMedicalRecord(context.Background(), medicalrecord.CreateRecordRequest{
		PatientID: p.PatientID,
		Items:     []medicalrecord.RecordItemRequest{item},
	}, &user)
	require.NoError(t, err)
	assert.Equal(t, "25030001", resp.ReceiptNo)
	assert.Nil(t, resp.TokenNumber)
}
