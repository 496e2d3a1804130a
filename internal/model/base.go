package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills a zero primary key before insert. Postgres and SQLite both get
// application-generated ids, so no gen_random_uuid() default is needed.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	newID(&d.ID)
	return nil
}

func (r *InventoryRequest) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}
