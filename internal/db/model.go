package db

import (
	"time"

	"gorm.io/gorm"
)

// Model mirrors gorm.Model with JSON names the front ends expect.
type Model struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
