// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel, AggregateModel, TeamAggregateModel and the StringMap JSON column
//   - counter.go: per (team, period) sequence counters
//   - work_item.go: team board cards
//   - report.go: live reports and the archive of removed numbered reports
//   - audit.go: read-only team evaluation records
package models
