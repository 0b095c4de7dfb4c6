package models

import "time"

// CounterModel is one row per (team, period). NextValue is the sequence the
// next allocation will consume.
type CounterModel struct {
	TeamID    string    `gorm:"type:varchar(16);primaryKey"`
	Period    string    `gorm:"type:char(4);primaryKey"`
	NextValue int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CounterModel) TableName() string {
	return "counters"
}

// All returns every persistence model, in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&CounterModel{},
		&WorkItemModel{},
		&ReportModel{},
		&ArchivedReportModel{},
		&AuditRecordModel{},
	}
}
