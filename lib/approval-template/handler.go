package approvaltemplate

import (
	log "github.com/sirupsen/logrus"

	"hiring-flow-backend/db"
	approvaltemplatestore "hiring-flow-backend/lib/approval-template/store"
	orgdir "hiring-flow-backend/lib/org-dir"
	"hiring-flow-backend/models"
	requisitionapimodels "hiring-flow-backend/models/api/requisition"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

// Шаблон цепочки согласования неизменяем для запущенных заявок:
// заявка снимает разрешенную цепочку при создании

type Provider interface {
	Create(spaceID string, data requisitionapimodels.TemplateData) (id string, err error)
	GetByID(spaceID, id string) (view requisitionapimodels.TemplateView, err error)
	List(spaceID string) (list []requisitionapimodels.TemplateView, err error)
	Delete(spaceID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:  approvaltemplatestore.NewInstance(db.DB),
		orgDir: orgdir.Instance,
	}
}

type impl struct {
	store  approvaltemplatestore.Provider
	orgDir orgdir.Provider
}

func (i impl) Create(spaceID string, data requisitionapimodels.TemplateData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	for _, step := range data.Steps {
		if step.ApproverKind != models.ApproverSpecificUser {
			continue
		}
		user, err := i.orgDir.GetUser(spaceID, step.ApproverID)
		if err != nil {
			return "", err
		}
		if !user.Status.IsEligibleApprover() {
			return "", errs.Newf(errs.KindValidation, "согласующий этапа %v уволен", step.StepOrder)
		}
	}
	rec := dbmodels.ApprovalTemplate{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name: data.Name,
	}
	for _, step := range data.Steps {
		rec.Steps = append(rec.Steps, dbmodels.TemplateStep{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			StepOrder:    step.StepOrder,
			Name:         step.Name,
			ApproverKind: step.ApproverKind,
			ApproverID:   step.ApproverID,
			RoleKey:      step.RoleKey,
		})
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания шаблона согласования")
		return "", err
	}
	logger.
		WithField("rec_id", id).
		Info("создан шаблон согласования")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (requisitionapimodels.TemplateView, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return requisitionapimodels.TemplateView{}, err
	}
	if rec == nil {
		return requisitionapimodels.TemplateView{}, errs.New(errs.KindNotFound, "шаблон не найден")
	}
	return requisitionapimodels.TemplateConvert(*rec), nil
}

func (i impl) List(spaceID string) ([]requisitionapimodels.TemplateView, error) {
	recList, err := i.store.List(spaceID)
	if err != nil {
		return nil, err
	}
	result := make([]requisitionapimodels.TemplateView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, requisitionapimodels.TemplateConvert(rec))
	}
	return result, nil
}

func (i impl) Delete(spaceID, id string) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
	err := i.store.Delete(spaceID, id)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления шаблона согласования")
		return err
	}
	logger.Info("удален шаблон согласования")
	return nil
}
