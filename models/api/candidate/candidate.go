package candidateapimodels

import (
	"time"

	"hiring-flow-backend/models"
	apimodels "hiring-flow-backend/models/api"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type CandidateCreateData struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MiddleName    string `json:"middle_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Comment       string `json:"comment"`
	RequisitionID string `json:"requisition_id"` // заявка, на которую подается первый отклик
}

func (v CandidateCreateData) Validate() error {
	if v.LastName == "" || v.FirstName == "" {
		return errs.New(errs.KindValidation, "отсутствует имя или фамилия кандидата")
	}
	if v.Phone == "" && v.Email == "" {
		return errs.New(errs.KindValidation, "необходимо указать телефон или почту кандидата")
	}
	if v.RequisitionID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на заявку")
	}
	return nil
}

type ApplicationData struct {
	RequisitionID string `json:"requisition_id"`
}

func (v ApplicationData) Validate() error {
	if v.RequisitionID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на заявку")
	}
	return nil
}

type RejectData struct {
	Reason string `json:"reason"`
}

type SelectData struct {
	ApplicationID string `json:"application_id"`
}

func (v SelectData) Validate() error {
	if v.ApplicationID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на отклик")
	}
	return nil
}

type ConfirmHireData struct {
	StartDate time.Time `json:"start_date"` // дата выхода на работу
	Comment   string    `json:"comment"`
}

func (v ConfirmHireData) Validate() error {
	if v.StartDate.IsZero() {
		return errs.New(errs.KindValidation, "не указана дата выхода на работу")
	}
	return nil
}

type ConfirmNotHiredData struct {
	Reason string `json:"reason"`
}

func (v ConfirmNotHiredData) Validate() error {
	if v.Reason == "" {
		return errs.New(errs.KindValidation, "необходимо указать причину отказа")
	}
	return nil
}

type CandidateFilter struct {
	apimodels.Pagination
	RequisitionID string `json:"requisition_id"`
	Search        string `json:"search"`
}

// SelectConflictView - дескриптор конфликта выбора, возвращается проверкой перед выбором.
// Подтверждение переноса выбора выполняется отдельным, явно вызываемым запросом.
type SelectConflictView struct {
	Conflict          bool   `json:"conflict"`
	SameBrand         bool   `json:"same_brand"`
	ApplicationID     string `json:"application_id,omitempty"`    // текущий выбранный отклик
	RequisitionCode   string `json:"requisition_code,omitempty"`  // заявка текущего выбора
	BrandName         string `json:"brand_name,omitempty"`        // бренд текущего выбора
	OverrideAvailable bool   `json:"override_available"`
}

type ApplicationView struct {
	ID              string `json:"id"`
	RequisitionID   string `json:"requisition_id"`
	RequisitionCode string `json:"requisition_code"`
	BrandName       string `json:"brand_name"`
	StoreName       string `json:"store_name"`
	PositionName    string `json:"position_name"`
	Status          models.ApplicationStatus `json:"status"`
	StatusName      string                   `json:"status_name"`
	HiredStatus     models.HiredStatus       `json:"hired_status,omitempty"`
	HiredStatusName string                   `json:"hired_status_name"`
	HiredAt         *time.Time               `json:"hired_at,omitempty"`
	StartDate       *time.Time               `json:"start_date,omitempty"`
}

type CandidateView struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MiddleName    string `json:"middle_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Comment       string `json:"comment"`
	SelectionStatus       models.SelectionStatus `json:"selection_status"`
	SelectionStatusName   string                 `json:"selection_status_name"`
	SelectedApplicationID string                 `json:"selected_application_id,omitempty"`
	SelectedAt            *time.Time             `json:"selected_at,omitempty"`
	Applications          []ApplicationView      `json:"applications"`
}

type SelectionHistoryView struct {
	ApplicationID string    `json:"application_id"`
	ActorID       string    `json:"actor_id"`
	Action        string    `json:"action"`
	Reason        string    `json:"reason,omitempty"`
	Override      bool      `json:"override,omitempty"`
	Date          time.Time `json:"date"`
}

func ApplicationConvert(rec dbmodels.Application) ApplicationView {
	return ApplicationView{
		ID:              rec.ID,
		RequisitionID:   rec.RequisitionID,
		RequisitionCode: rec.RequisitionCode,
		BrandName:       rec.BrandName,
		StoreName:       rec.StoreName,
		PositionName:    rec.PositionName,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		HiredStatus:     rec.HiredStatus,
		HiredStatusName: rec.HiredStatus.ToHuman(),
		HiredAt:         rec.HiredAt,
		StartDate:       rec.StartDate,
	}
}

func CandidateConvert(rec dbmodels.Candidate) CandidateView {
	view := CandidateView{
		ID:                  rec.ID,
		Code:                rec.Code,
		FirstName:           rec.FirstName,
		LastName:            rec.LastName,
		MiddleName:          rec.MiddleName,
		Phone:               rec.Phone,
		Email:               rec.Email,
		Comment:             rec.Comment,
		SelectionStatus:     rec.SelectionStatus,
		SelectionStatusName: rec.SelectionStatus.ToHuman(),
		SelectedAt:          rec.SelectedAt,
	}
	if rec.SelectedApplicationID != nil {
		view.SelectedApplicationID = *rec.SelectedApplicationID
	}
	view.Applications = make([]ApplicationView, 0, len(rec.Applications))
	for _, app := range rec.Applications {
		view.Applications = append(view.Applications, ApplicationConvert(app))
	}
	return view
}

func SelectionHistoryConvert(rec dbmodels.SelectionHistory) SelectionHistoryView {
	return SelectionHistoryView{
		ApplicationID: rec.ApplicationID,
		ActorID:       rec.ActorID,
		Action:        string(rec.Action),
		Reason:        rec.Reason,
		Override:      rec.Override,
		Date:          rec.CreatedAt,
	}
}
