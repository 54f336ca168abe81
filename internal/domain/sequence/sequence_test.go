package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceiptPrefixAndScope(t *testing.T) {
	ts := time.Date(2025, time.March, 14, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2503", ReceiptPrefix(ts))
	assert.Equal(t, Scope("receipt:2503"), ReceiptScope(ts))

	dec := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2412", ReceiptPrefix(dec))
}

func TestFormatReceiptNo(t *testing.T) {
	assert.Equal(t, "25030001", FormatReceiptNo("2503", 1))
	assert.Equal(t, "25039999", FormatReceiptNo("2503", 9999))
	assert.Equal(t, "250310000", FormatReceiptNo("2503", 10000))
}

func TestTokenScope(t *testing.T) {
	loc := time.FixedZone("PKT", 5*3600)
	morning := time.Date(2025, time.March, 14, 0, 5, 0, 0, loc)
	evening := time.Date(2025, time.March, 14, 23, 55, 0, 0, loc)
	next := time.Date(2025, time.March, 15, 0, 0, 1, 0, loc)

	assert.Equal(t, TokenScope(9, morning), TokenScope(9, evening))
	assert.NotEqual(t, TokenScope(9, morning), TokenScope(9, next))
	assert.NotEqual(t, TokenScope(9, morning), TokenScope(10, morning))
	assert.Equal(t, Scope("token:9:2025-03-14"), TokenScope(9, evening))

	day := TokenDay(evening)
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, loc, day.Location())
}

func TestDocumentNumbers(t *testing.T) {
	assert.Equal(t, "PO-00001", FormatPONumber(0))
	assert.Equal(t, "PO-00043", FormatPONumber(42))
	assert.Equal(t, "IND-00001", FormatIndentNumber(0))
	assert.Equal(t, "IND-00100", FormatIndentNumber(99))
}
