package patient

import (
	"strconv"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
)

// monthCapacity is the number of patient IDs available per month.
const monthCapacity = 99999

// IDRange is the inclusive span of patient IDs for one month: YYMM00000..YYMM99999.
// The lower bound itself is never issued.
type IDRange struct {
	Prefix    int64
	PrefixEnd int64
}

// MonthRange returns the patient ID range for the month containing t.
func MonthRange(t time.Time) IDRange {
	yymm, _ := strconv.ParseInt(sequence.ReceiptPrefix(t), 10, 64)
	prefix := yymm * 100000
	return IDRange{Prefix: prefix, PrefixEnd: prefix + monthCapacity}
}

// Contains reports whether id lies within the range.
func (r IDRange) Contains(id int64) bool {
	return id >= r.Prefix && id <= r.PrefixEnd
}

// NextPatientID derives the next ID from the largest one already issued in the range.
// A nil last means the month has no patients yet.
func NextPatientID(last *int64, r IDRange) (int64, error) {
	if last == nil {
		return r.Prefix + 1, nil
	}
	if *last >= r.PrefixEnd {
		return 0, shared.NewCapacityError("Monthly patientId limit reached")
	}
	return *last + 1, nil
}
