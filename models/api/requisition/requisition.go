package requisitionapimodels

import (
	"time"

	"hiring-flow-backend/models"
	apimodels "hiring-flow-backend/models/api"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type RequisitionData struct {
	BrandID          string `json:"brand_id"`           // ид бренда
	StoreID          string `json:"store_id"`           // ид магазина
	JobPositionID    string `json:"job_position_id"`    // ид штатной должности
	ManagementUnitID string `json:"management_unit_id"` // ид подразделения
	Confidential     bool   `json:"confidential"`       // конфиденциальная заявка
}

type RequisitionCreateData struct {
	RequisitionData
	Positions  int    `json:"positions"`   // кол-во открываемых позиций, на каждую создается отдельный экземпляр заявки
	TemplateID string `json:"template_id"` // ид шаблона цепочки согласования
	// FirstApproverID - явно названный согласующий первого этапа,
	// обязателен когда для первого этапа никто не разрешается
	FirstApproverID string `json:"first_approver_id"`
	AsDraft         bool   `json:"as_draft"` // создать черновиком, без запуска согласования
}

func (v RequisitionCreateData) Validate() error {
	if v.BrandID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на бренд")
	}
	if v.JobPositionID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на должность")
	}
	if v.ManagementUnitID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на подразделение")
	}
	if v.Positions <= 0 {
		return errs.New(errs.KindValidation, "не указано количество вакантных позиций")
	}
	if v.TemplateID == "" {
		return errs.New(errs.KindValidation, "отсутствует ссылка на шаблон согласования")
	}
	return nil
}

type ActData struct {
	Decision models.ApprovalDecision `json:"decision"` // approve/reject
	Reason   string                  `json:"reason"`   // комментарий согласующего
}

func (v ActData) Validate() error {
	if err := v.Decision.Validate(); err != nil {
		return err
	}
	if v.Decision == models.DecisionReject && v.Reason == "" {
		return errs.New(errs.KindValidation, "при отклонении необходимо указать причину")
	}
	return nil
}

type CloseData struct {
	Reason string `json:"reason"` // причина закрытия
}

type RqFilter struct {
	apimodels.Pagination
	Status   models.RqStatus `json:"status"`
	AuthorID string          `json:"author_id"`
	BatchID  string          `json:"batch_id"`
}

type ApprovalStepView struct {
	StepOrder     int    `json:"step_order"`
	Name          string `json:"name"`
	ApproverKind  string `json:"approver_kind"`
	ApproverID    string `json:"approver_id"`
	ApproverName  string `json:"approver_name"`
	DelegatedFrom string `json:"delegated_from,omitempty"`
	Skipped       bool   `json:"skipped"`
	Status        models.ApprovalStepStatus `json:"status"`
	StatusName    string                    `json:"status_name"`
	DecidedAt     *time.Time                `json:"decided_at,omitempty"`
	Comment       string                    `json:"comment,omitempty"`
}

type ApprovalHistoryView struct {
	StepOrder int       `json:"step_order"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
	Date      time.Time `json:"date"`
}

type RequisitionView struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	CodeFallback   bool   `json:"code_fallback,omitempty"`
	BatchID        string `json:"batch_id"`
	BatchIndex     int    `json:"batch_index"`
	BatchSize      int    `json:"batch_size"`
	TotalHeadcount int    `json:"total_headcount"`
	Headcount      int    `json:"headcount"`
	RequisitionData
	BrandName          string    `json:"brand_name"`
	StoreName          string    `json:"store_name"`
	PositionName       string    `json:"position_name"`
	ManagementUnitName string    `json:"management_unit_name"`
	AuthorID           string    `json:"author_id"`
	AuthorName         string    `json:"author_name"`
	CreationDate       time.Time `json:"creation_date"`
	Status             models.RqStatus `json:"status"`
	StatusName         string          `json:"status_name"`
	ApprovalStatus     models.RqApprovalStatus `json:"approval_status"`
	ApprovalStatusName string                  `json:"approval_status_name"`
	CurrentStep        int                     `json:"current_step"`
	ClosureReason      models.ClosureReason    `json:"closure_reason,omitempty"`
	Steps              []ApprovalStepView      `json:"steps"`
}

func ApprovalStepConvert(rec dbmodels.ApprovalStep) ApprovalStepView {
	view := ApprovalStepView{
		StepOrder:     rec.StepOrder,
		Name:          rec.Name,
		ApproverKind:  string(rec.ApproverKind),
		ApproverID:    rec.ApproverID,
		DelegatedFrom: rec.DelegatedFromID,
		Skipped:       rec.Skipped,
		Status:        rec.Status,
		StatusName:    rec.Status.ToHuman(),
		DecidedAt:     rec.DecidedAt,
		Comment:       rec.Comment,
	}
	if rec.Approver != nil {
		view.ApproverName = rec.Approver.GetFullName()
	}
	return view
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	view := ApprovalHistoryView{
		StepOrder: rec.StepOrder,
		ActorID:   rec.ActorID,
		Action:    string(rec.Action),
		Reason:    rec.Reason,
		Date:      rec.CreatedAt,
	}
	if rec.Actor != nil {
		view.ActorName = rec.Actor.GetFullName()
	}
	return view
}

func RequisitionConvert(rec dbmodels.Requisition) RequisitionView {
	view := RequisitionView{
		ID:             rec.ID,
		Code:           rec.Code,
		CodeFallback:   rec.CodeFallback,
		BatchID:        rec.BatchID,
		BatchIndex:     rec.BatchIndex,
		BatchSize:      rec.BatchSize,
		TotalHeadcount: rec.TotalHeadcount,
		Headcount:      rec.Headcount,
		RequisitionData: RequisitionData{
			BrandID:          rec.BrandID,
			JobPositionID:    rec.JobPositionID,
			ManagementUnitID: rec.ManagementUnitID,
			Confidential:     rec.Confidential,
		},
		AuthorID:           rec.AuthorID,
		CreationDate:       rec.CreatedAt,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		ApprovalStatus:     rec.ApprovalStatus,
		ApprovalStatusName: rec.ApprovalStatus.ToHuman(),
		CurrentStep:        rec.CurrentStep,
		ClosureReason:      rec.ClosureReason,
	}
	if rec.StoreID != nil {
		view.StoreID = *rec.StoreID
	}
	if rec.Brand != nil {
		view.BrandName = rec.Brand.Name
	}
	if rec.Store != nil {
		view.StoreName = rec.Store.Name
	}
	if rec.JobPosition != nil {
		view.PositionName = rec.JobPosition.Name
	}
	if rec.ManagementUnit != nil {
		view.ManagementUnitName = rec.ManagementUnit.Name
	}
	if rec.Author != nil {
		view.AuthorName = rec.Author.GetFullName()
	}
	steps := rec.SortedSteps()
	view.Steps = make([]ApprovalStepView, 0, len(steps))
	for _, step := range steps {
		view.Steps = append(view.Steps, ApprovalStepConvert(step))
	}
	return view
}
