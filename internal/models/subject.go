package models

type Subject struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Color string `gorm:"size:7;not null;default:'#007bff'" json:"color"`
}
