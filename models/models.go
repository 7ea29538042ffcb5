package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQ is a customer question/answer record.
type FAQ struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text" json:"answer"`
	TicketType  *string   `gorm:"size:100;index" json:"ticket_type"`  // e.g., "consultation", "complaint"
	IssueModule *string   `gorm:"size:100;index" json:"issue_module"` // e.g., "charging", "infotainment"
	CreateAt    time.Time `gorm:"column:create_at;index" json:"create_at"`
}

func (FAQ) TableName() string {
	return "cheery_exeedcars_faq"
}

// Menu is a system menu entry. Root entries have ParentID 0.
type Menu struct {
	MenuID     int64     `gorm:"column:menu_id;primaryKey;autoIncrement:false" json:"menu_id"`
	MenuName   string    `gorm:"size:100;not null;index" json:"menu_name"`
	ParentID   int64     `gorm:"not null;default:0;index" json:"parent_id"`
	MenuType   string    `gorm:"size:10;index" json:"menu_type"` // "M" directory, "C" menu, "F" button
	Path       *string   `gorm:"size:200" json:"path"`
	Perms      *string   `gorm:"size:100" json:"perms"`
	Sort       int       `gorm:"not null;default:0" json:"sort"`
	IsDisable  string    `gorm:"size:1;not null;default:'0';index" json:"is_disable"` // "0" enabled, "1" disabled
	CreateTime time.Time `gorm:"column:create_time;index" json:"create_time"`
}

func (Menu) TableName() string {
	return "sys_menu"
}
