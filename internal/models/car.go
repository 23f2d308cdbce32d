package models

import "time"

// Car is a vehicle tracked by a user. CarID is globally unique.
type Car struct {
	CarID     int64     `json:"carId" gorm:"primaryKey;autoIncrement:false" bson:"carId"`
	UserID    int64     `json:"userId" gorm:"index;not null" bson:"userId"`
	Make      string    `json:"make" gorm:"type:varchar(100)" bson:"make"`
	Model     string    `json:"model" gorm:"type:varchar(100)" bson:"model"`
	Year      int       `json:"year" bson:"year"`
	Odometer  int       `json:"odometer" bson:"odometer"`
	Color     string    `json:"color" gorm:"type:varchar(50)" bson:"color"`
	CreatedAt time.Time `json:"createdAt" gorm:"index;autoCreateTime:false" bson:"createdAt"` // refreshed on every update
}
