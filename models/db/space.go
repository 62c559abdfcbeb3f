package dbmodels

import (
	"fmt"
	"time"

	"hiring-flow-backend/models"
)

type Space struct {
	BaseModel
	OrganizationName string `gorm:"type:varchar(255)"`
	IsActive         bool
}

type SpaceUser struct {
	BaseModel
	SpaceID          string `gorm:"type:varchar(36);index"`
	FirstName        string `gorm:"type:varchar(150)"`
	LastName         string `gorm:"type:varchar(150)"`
	Email            string `gorm:"type:varchar(255)"`
	PhoneNumber      string `gorm:"type:varchar(15)"`
	Role             models.UserRole `gorm:"type:varchar(50)"`
	Status           models.UserStatus `gorm:"type:varchar(50)"`
	JobRole          string  `gorm:"type:varchar(100);index"` // роль в орг. справочнике (hiring_manager, hr_director и т.п.)
	ManagementUnitID *string `gorm:"type:varchar(36);index"`
	ManagerID        *string `gorm:"type:varchar(36)"` // непосредственный руководитель
	IsActive         bool
	LastLogin        time.Time
}

func (r SpaceUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
