package models

// Counter stores the last value issued for a named sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;type:varchar(64)" bson:"_id"`
	Value int64  `gorm:"not null;default:0" bson:"sequence_value"`
}
