package migration

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PayRam/go-dbquery/models"
	"github.com/PayRam/go-dbquery/utils"
)

// Seed inserts a small set of demo FAQ and menu rows.
func Seed(db *gorm.DB) error {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	faqs := []models.FAQ{
		{ID: uuid.New(), Question: "How long does the battery take to charge?", Answer: "About 8 hours on a home wallbox, 40 minutes on a DC fast charger to 80%.", TicketType: utils.StringPtr("consultation"), IssueModule: utils.StringPtr("charging"), CreateAt: base},
		{ID: uuid.New(), Question: "Battery warning light is on", Answer: "Stop in a safe place and contact roadside assistance.", TicketType: utils.StringPtr("complaint"), IssueModule: utils.StringPtr("charging"), CreateAt: base.Add(time.Hour)},
		{ID: uuid.New(), Question: "How do I pair my phone?", Answer: "Open Settings > Bluetooth on the head unit and select Add device.", TicketType: utils.StringPtr("consultation"), IssueModule: utils.StringPtr("infotainment"), CreateAt: base.Add(2 * time.Hour)},
	}

	menus := []models.Menu{
		{MenuID: 1, MenuName: "System", ParentID: 0, MenuType: "M", Sort: 1, IsDisable: "0", CreateTime: base},
		{MenuID: 2, MenuName: "Users", ParentID: 1, MenuType: "C", Path: utils.StringPtr("/system/users"), Perms: utils.StringPtr("system:user:list"), Sort: 1, IsDisable: "0", CreateTime: base.Add(time.Hour)},
		{MenuID: 3, MenuName: "Legacy reports", ParentID: 1, MenuType: "C", Path: utils.StringPtr("/system/reports"), Sort: 2, IsDisable: "1", CreateTime: base.Add(2 * time.Hour)},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&faqs).Error; err != nil {
			return err
		}
		return tx.Create(&menus).Error
	})
}
