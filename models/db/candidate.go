package dbmodels

import (
	"time"

	"hiring-flow-backend/models"
)

// Candidate владеет своими откликами, выбор для найма хранится на уровне кандидата:
// не более одного активного выбора на всю организацию
type Candidate struct {
	BaseSpaceModel
	Code       string `gorm:"type:varchar(50);uniqueIndex"`
	FirstName  string `gorm:"type:varchar(255)"`
	LastName   string `gorm:"type:varchar(255)"`
	MiddleName string `gorm:"type:varchar(255)"`
	Phone      string `gorm:"type:varchar(255)"`
	Email      string `gorm:"type:varchar(255)"`
	Comment    string
	SelectionStatus       models.SelectionStatus `gorm:"type:varchar(50)"`
	SelectedApplicationID *string                `gorm:"type:varchar(36)"`
	SelectedAt            *time.Time
	SelectedByID          string        `gorm:"type:varchar(36)"`
	Applications          []Application `gorm:"foreignKey:CandidateID"`
}

func (c Candidate) GetFullName() string {
	return c.LastName + " " + c.FirstName
}

// Application возвращает отклик кандидата по ид, nil если отклик не принадлежит кандидату
func (c Candidate) Application(applicationID string) *Application {
	for idx := range c.Applications {
		if c.Applications[idx].ID == applicationID {
			return &c.Applications[idx]
		}
	}
	return nil
}

// SelectedApplication возвращает текущий выбранный отклик, nil если выбора нет
func (c Candidate) SelectedApplication() *Application {
	if c.SelectionStatus != models.SelectionStatusSelected || c.SelectedApplicationID == nil {
		return nil
	}
	return c.Application(*c.SelectedApplicationID)
}

// Application - отклик кандидата на конкретную заявку.
// Контекст заявки денормализован для отображения и проверки конфликтов без дополнительных чтений.
type Application struct {
	BaseSpaceModel
	CandidateID   string `gorm:"type:varchar(36);index"`
	RequisitionID string `gorm:"type:varchar(36);index"`
	// денормализованный контекст заявки
	RequisitionCode string `gorm:"type:varchar(50)"`
	BrandID         string `gorm:"type:varchar(36)"`
	BrandName       string `gorm:"type:varchar(255)"`
	StoreName       string `gorm:"type:varchar(255)"`
	PositionName    string `gorm:"type:varchar(255)"`
	Status          models.ApplicationStatus `gorm:"type:varchar(50)"`
	// поля подтверждения найма заполняются один раз
	HiredStatus models.HiredStatus `gorm:"type:varchar(50)"`
	HiredAt     *time.Time
	StartDate   *time.Time
	HireComment string
}

// SelectionHistory - история действий по кандидату, только добавление записей
type SelectionHistory struct {
	BaseSpaceModel
	CandidateID   string `gorm:"type:varchar(36);index"`
	ApplicationID string `gorm:"type:varchar(36)"`
	ActorID       string `gorm:"type:varchar(36)"`
	Action        models.SelectionAction `gorm:"type:varchar(50)"`
	Reason        string
	Override      bool
}
