package models

// CarNote is a maintenance entry attached to a car.
type CarNote struct {
	NoteID      int64  `json:"noteId" gorm:"primaryKey;autoIncrement:false" bson:"noteId"`
	CarID       int64  `json:"carId" gorm:"index;not null" bson:"carId"`
	Note        string `json:"note" gorm:"type:text" bson:"note"`
	Type        string `json:"type" gorm:"type:varchar(100)" bson:"type"`
	Miles       int    `json:"miles" bson:"miles"`
	DateCreated string `json:"dateCreated" gorm:"type:varchar(64)" bson:"dateCreated"`
}

// TableName keeps the table aligned with the CarNotes collection.
func (CarNote) TableName() string { return "car_notes" }
