package models

// User represents a registered AutoLog account.
//
// Verification and reset tokens are empty when not pending; the reset
// expiration is epoch milliseconds and zero when no reset is outstanding.
type User struct {
	UserID               int64  `json:"id" gorm:"primaryKey;autoIncrement:false" bson:"UserId"`
	FirstName            string `json:"firstName" gorm:"type:varchar(100)" bson:"FirstName"`
	LastName             string `json:"lastName" gorm:"type:varchar(100)" bson:"LastName"`
	Email                string `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"Email"`
	Password             string `json:"-" gorm:"type:varchar(255)" bson:"Password"` // bcrypt hash
	IsVerified           bool   `json:"isVerified" gorm:"not null;default:false" bson:"isVerified"`
	VerificationToken    string `json:"-" gorm:"index;type:varchar(64)" bson:"verificationToken,omitempty"`
	ResetToken           string `json:"-" gorm:"index;type:varchar(64)" bson:"resetToken,omitempty"`
	ResetTokenExpiration int64  `json:"-" bson:"resetTokenExpiration,omitempty"`
}
