package requisitionapimodels

import (
	"hiring-flow-backend/models"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type TemplateStepData struct {
	StepOrder    int                 `json:"step_order"`
	Name         string              `json:"name"`
	ApproverKind models.ApproverKind `json:"approver_kind"`
	ApproverID   string              `json:"approver_id,omitempty"` // для правила specific_user
	RoleKey      string              `json:"role_key,omitempty"`    // для правила role_in_unit
}

func (v TemplateStepData) Validate() error {
	if err := v.ApproverKind.Validate(); err != nil {
		return err
	}
	if v.ApproverKind == models.ApproverSpecificUser && v.ApproverID == "" {
		return errs.Newf(errs.KindValidation, "для этапа %v не указан согласующий", v.StepOrder)
	}
	if v.ApproverKind == models.ApproverRoleInUnit && v.RoleKey == "" {
		return errs.Newf(errs.KindValidation, "для этапа %v не указана роль согласующего", v.StepOrder)
	}
	return nil
}

type TemplateData struct {
	Name  string             `json:"name"`
	Steps []TemplateStepData `json:"steps"`
}

func (v TemplateData) Validate() error {
	if v.Name == "" {
		return errs.New(errs.KindValidation, "отсутствует название шаблона")
	}
	orders := map[int]bool{}
	for _, step := range v.Steps {
		if err := step.Validate(); err != nil {
			return err
		}
		if orders[step.StepOrder] {
			return errs.Newf(errs.KindValidation, "этап %v указан дважды", step.StepOrder)
		}
		orders[step.StepOrder] = true
	}
	return nil
}

type TemplateView struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Steps []TemplateStepData `json:"steps"`
}

func TemplateConvert(rec dbmodels.ApprovalTemplate) TemplateView {
	view := TemplateView{
		ID:   rec.ID,
		Name: rec.Name,
	}
	steps := rec.SortedSteps()
	view.Steps = make([]TemplateStepData, 0, len(steps))
	for _, step := range steps {
		view.Steps = append(view.Steps, TemplateStepData{
			StepOrder:    step.StepOrder,
			Name:         step.Name,
			ApproverKind: step.ApproverKind,
			ApproverID:   step.ApproverID,
			RoleKey:      step.RoleKey,
		})
	}
	return view
}
