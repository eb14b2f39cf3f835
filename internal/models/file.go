package models

type File struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"type:text;not null"`
	Content string `json:"content" gorm:"type:text;not null"`
	OwnerID *uint  `json:"ownerId,omitempty" gorm:"index"`

	Owner *User `json:"-" gorm:"foreignKey:OwnerID"`
}
