package dbmodels

import (
	"sort"
	"time"

	"hiring-flow-backend/models"
)

// Requisition - одна позиция (seat) потребности в найме.
// Заявки на N позиций создаются пачкой экземпляров с общим BatchID.
type Requisition struct {
	BaseSpaceModel
	Code             string `gorm:"type:varchar(50);uniqueIndex"`
	CodeFallback     bool   // код выдан резервным путем, уникальность не гарантирована
	BatchID          string `gorm:"type:varchar(36);index"`
	BatchIndex       int
	BatchSize        int
	TotalHeadcount   int // суммарная потребность пачки
	Headcount        int // потребность этого экземпляра, обычно 1
	BrandID          string `gorm:"type:varchar(36)"`
	Brand            *Brand
	StoreID          *string `gorm:"type:varchar(36)"`
	Store            *Store
	JobPositionID    string `gorm:"type:varchar(36)"`
	JobPosition      *JobPosition
	ManagementUnitID string `gorm:"type:varchar(36)"`
	ManagementUnit   *ManagementUnit
	Confidential     bool
	AuthorID         string     `gorm:"type:varchar(36)"`
	Author           *SpaceUser `gorm:"foreignKey:AuthorID"`
	Status           models.RqStatus        `gorm:"type:varchar(50);index"`
	ApprovalStatus   models.RqApprovalStatus `gorm:"type:varchar(50)"`
	// CurrentStep - порядковый номер текущего непропущенного этапа, -1 когда согласование завершено
	CurrentStep   int
	ClosureReason models.ClosureReason `gorm:"type:varchar(50)"`
	Steps         []ApprovalStep       `gorm:"foreignKey:RequisitionID"`
	History       []ApprovalHistory    `gorm:"foreignKey:RequisitionID"`
}

// CurrentStepRec возвращает этап, на который указывает CurrentStep
func (r Requisition) CurrentStepRec() *ApprovalStep {
	if r.CurrentStep < 0 {
		return nil
	}
	for idx := range r.Steps {
		step := r.Steps[idx]
		if step.StepOrder == r.CurrentStep && !step.Skipped {
			return &r.Steps[idx]
		}
	}
	return nil
}

// NextStepOrder возвращает порядковый номер следующего непропущенного этапа, -1 если этапов не осталось
func (r Requisition) NextStepOrder(afterOrder int) int {
	steps := r.SortedSteps()
	for _, step := range steps {
		if step.StepOrder > afterOrder && !step.Skipped {
			return step.StepOrder
		}
	}
	return -1
}

func (r Requisition) SortedSteps() []ApprovalStep {
	steps := make([]ApprovalStep, len(r.Steps))
	copy(steps, r.Steps)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
	return steps
}

// HasContiguousApprovedPrefix проверяет инвариант цепочки: согласованные этапы
// образуют непрерывный упорядоченный префикс непропущенных этапов
func (r Requisition) HasContiguousApprovedPrefix() bool {
	prefixDone := false
	for _, step := range r.SortedSteps() {
		if step.Skipped {
			continue
		}
		switch step.Status {
		case models.AStepApproved:
			if prefixDone {
				return false
			}
		default:
			prefixDone = true
		}
	}
	return true
}

// ApprovalStep - снимок разрешенного этапа согласования, правки шаблона не затрагивают запущенные заявки
type ApprovalStep struct {
	BaseSpaceModel
	RequisitionID   string `gorm:"type:varchar(36);index"`
	StepOrder       int
	Name            string              `gorm:"type:varchar(255)"`
	ApproverKind    models.ApproverKind `gorm:"type:varchar(50)"`
	ApproverID      string              `gorm:"type:varchar(36)"`
	Approver        *SpaceUser          `gorm:"foreignKey:ApproverID"`
	RoleKey         string              `gorm:"type:varchar(100)"` // правило роли, сохраняется для повторного разрешения
	DelegatedFromID string              `gorm:"type:varchar(36)"`  // исходный согласующий при активном делегировании
	Skipped         bool
	Status          models.ApprovalStepStatus `gorm:"type:varchar(50)"`
	DecidedAt       *time.Time
	Comment         string
}

// ApprovalHistory - история согласования, только добавление записей.
// Единственный контракт для подсистемы отчетности.
type ApprovalHistory struct {
	BaseSpaceModel
	RequisitionID string `gorm:"type:varchar(36);index"`
	StepOrder     int
	ActorID       string     `gorm:"type:varchar(36)"`
	Actor         *SpaceUser `gorm:"foreignKey:ActorID"`
	Action        models.HistoryAction `gorm:"type:varchar(50)"`
	Reason        string
}

// ApprovalTemplate - упорядоченный список абстрактных этапов согласования
type ApprovalTemplate struct {
	BaseSpaceModel
	Name  string `gorm:"type:varchar(255)"`
	Steps []TemplateStep `gorm:"foreignKey:TemplateID"`
}

type TemplateStep struct {
	BaseSpaceModel
	TemplateID   string `gorm:"type:varchar(36);index"`
	StepOrder    int
	Name         string              `gorm:"type:varchar(255)"`
	ApproverKind models.ApproverKind `gorm:"type:varchar(50)"`
	// ApproverID заполняется для правила specific_user
	ApproverID string `gorm:"type:varchar(36)"`
	// RoleKey заполняется для правила role_in_unit
	RoleKey string `gorm:"type:varchar(100)"`
}

func (t ApprovalTemplate) SortedSteps() []TemplateStep {
	steps := make([]TemplateStep, len(t.Steps))
	copy(steps, t.Steps)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
	return steps
}
