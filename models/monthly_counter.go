package models

// MonthlyCounter backs the order/item code generators. One row per
// namespace+period ("ORD"/"ITM" + MMYY); Seq only ever grows, so a
// code is never reused even if the row outlives the month.
type MonthlyCounter struct {
	ID        uint   `gorm:"primaryKey"`
	Namespace string `gorm:"type:varchar(10);not null;uniqueIndex:idx_ns_period"`
	Period    string `gorm:"type:varchar(4);not null;uniqueIndex:idx_ns_period"`
	Seq       int    `gorm:"not null;default:0"`
}
