package approvalresolve

import (
	"sort"

	"hiring-flow-backend/lib/delegation"
	orgdir "hiring-flow-backend/lib/org-dir"
	"hiring-flow-backend/models"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

// Context - контекст заявки, необходимый для привязки согласующих
type Context struct {
	SpaceID          string
	AuthorID         string
	ManagementUnitID string
}

// OrgDirectory - срез орг. справочника, нужный движку разрешения.
// В тестах заменяется фикстурой.
type OrgDirectory interface {
	ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error)
	GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error)
}

// DelegationSource читается только в момент разрешения,
// уже разрешенные этапы задним числом не меняются
type DelegationSource interface {
	ActiveBackup(spaceID, userID string) (backupUserID string, active bool, err error)
}

type Provider interface {
	// Resolve превращает абстрактные этапы шаблона в снимок цепочки согласования.
	// Порядок шаблона сохраняется, этапы без держателя роли помечаются пропущенными.
	// manualFirstApproverID - явно названный согласующий первого этапа, при наличии перекрывает правило этапа.
	Resolve(steps []dbmodels.TemplateStep, rqCtx Context, manualFirstApproverID string) ([]dbmodels.ApprovalStep, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		orgDir:      orgdir.Instance,
		delegations: delegation.Instance,
	}
}

func NewWithProviders(orgDir OrgDirectory, delegations DelegationSource) Provider {
	return impl{
		orgDir:      orgDir,
		delegations: delegations,
	}
}

type impl struct {
	orgDir      OrgDirectory
	delegations DelegationSource
}

func (i impl) Resolve(steps []dbmodels.TemplateStep, rqCtx Context, manualFirstApproverID string) ([]dbmodels.ApprovalStep, error) {
	ordered := make([]dbmodels.TemplateStep, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(a, b int) bool {
		return ordered[a].StepOrder < ordered[b].StepOrder
	})

	result := make([]dbmodels.ApprovalStep, 0, len(ordered))
	effective := 0
	for idx, step := range ordered {
		resolved := dbmodels.ApprovalStep{
			StepOrder:    step.StepOrder,
			Name:         step.Name,
			ApproverKind: step.ApproverKind,
			RoleKey:      step.RoleKey,
			Status:       models.AStepAwaiting,
		}
		if idx == 0 && manualFirstApproverID != "" {
			// согласующий первого этапа, названный автором заявки, перекрывает правило шаблона
			resolved.ApproverID = manualFirstApproverID
		} else {
			approverID, delegatedFrom, skipped, err := i.bind(step, rqCtx)
			if err != nil {
				return nil, err
			}
			resolved.ApproverID = approverID
			resolved.DelegatedFromID = delegatedFrom
			resolved.Skipped = skipped
		}
		if !resolved.Skipped {
			effective++
		}
		result = append(result, resolved)
	}
	if len(ordered) > 0 && effective == 0 {
		return nil, errs.New(errs.KindResolution,
			"не удалось определить ни одного согласующего, необходимо явно указать согласующего первого этапа")
	}
	return result, nil
}

// bind привязывает этап к конкретному сотруднику по правилу этапа
func (i impl) bind(step dbmodels.TemplateStep, rqCtx Context) (approverID, delegatedFrom string, skipped bool, err error) {
	switch step.ApproverKind {
	case models.ApproverSpecificUser:
		return i.applyDelegation(step.ApproverID, rqCtx)
	case models.ApproverRoleInUnit:
		holders, err := i.orgDir.ResolveRole(rqCtx.SpaceID, step.RoleKey, rqCtx.ManagementUnitID)
		if err != nil {
			return "", "", false, err
		}
		if len(holders) == 0 {
			return "", "", true, nil
		}
		return i.applyDelegation(holders[0].ID, rqCtx)
	case models.ApproverAuthorManager:
		manager, err := i.orgDir.GetManager(rqCtx.SpaceID, rqCtx.AuthorID)
		if err != nil {
			return "", "", false, err
		}
		if manager == nil {
			return "", "", true, nil
		}
		return i.applyDelegation(manager.ID, rqCtx)
	}
	return "", "", false, errs.Newf(errs.KindValidation, "неизвестное правило выбора согласующего: %v", step.ApproverKind)
}

func (i impl) applyDelegation(userID string, rqCtx Context) (approverID, delegatedFrom string, skipped bool, err error) {
	backupID, active, err := i.delegations.ActiveBackup(rqCtx.SpaceID, userID)
	if err != nil {
		return "", "", false, err
	}
	if active {
		return backupID, userID, false, nil
	}
	return userID, "", false, nil
}

// FirstEffectiveOrder возвращает порядковый номер первого непропущенного этапа, -1 если цепочка пуста
func FirstEffectiveOrder(steps []dbmodels.ApprovalStep) int {
	order := -1
	for _, step := range steps {
		if step.Skipped {
			continue
		}
		if order < 0 || step.StepOrder < order {
			order = step.StepOrder
		}
	}
	return order
}
