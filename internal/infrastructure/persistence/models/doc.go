// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags or infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain / FromDomain convert between the two
// 4. Repositories read and write persistence models only
//
// Structure:
// - base.go: BaseModel shared by every table with an int64 identity
// - reference.go: lookup tables owned by other services (departments, doctors, medicines ...)
// - patient.go: patients and welfare records
// - medical_record.go: medical records and their billed items
// - sequence.go: scoped sequence counters (receipt numbers, daily tokens)
// - stock.go: stock batches and the append-only stock ledger
// - grn.go, sale.go: goods receipt notes and pharmacy sales
// - purchasing.go: indents, purchase orders and accounts ledger entries
package models
