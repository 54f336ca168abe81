package pharmacy

// Medicine is the catalog row referenced by ledger entries and document lines.
type Medicine struct {
	ID            int64
	Name          string
	GenericNameID *int64
	DosageFormID  *int64
	UnitID        *int64
	Strength      string
}

// Distributor supplies goods against purchase orders.
type Distributor struct {
	ID      int64
	Name    string
	Phone   string
	Email   string
	Address string
}
