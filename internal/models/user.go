package models

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"type:text;uniqueIndex"`
	GoogleID string `json:"googleId" gorm:"column:google_id;type:text;uniqueIndex"`
}
