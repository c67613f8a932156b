package snapshot

import "time"

// ExportRun represents shopify_export_run table
type ExportRun struct {
	RunID      uint      `gorm:"column:run_id;primaryKey;autoIncrement" json:"run_id,omitempty"`
	Store      string    `gorm:"column:store;type:varchar(255);not null;index" json:"store"`
	Products   int       `gorm:"column:products;not null;default:0" json:"products"`
	Pages      int       `gorm:"column:pages;not null;default:0" json:"pages"`
	Stop       string    `gorm:"column:stop;type:varchar(32);not null" json:"stop"`
	Complete   bool      `gorm:"column:complete;not null" json:"complete"`
	StartedAt  time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
}

func (ExportRun) TableName() string {
	return "shopify_export_run"
}
