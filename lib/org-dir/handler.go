package orgdir

import (
	"hiring-flow-backend/db"
	orgdirstore "hiring-flow-backend/lib/org-dir/store"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

// Provider - граница орг. справочника: разрешение держателей ролей и данных организации.
// В тестах заменяется фикстурой.
type Provider interface {
	// ResolveRole возвращает действующих держателей роли в подразделении, уволенные исключаются
	ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error)
	// GetManager возвращает непосредственного руководителя сотрудника, nil если не назначен
	GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error)
	GetUser(spaceID, userID string) (*dbmodels.SpaceUser, error)
	GetBrand(spaceID, id string) (*dbmodels.Brand, error)
	GetStore(spaceID, id string) (*dbmodels.Store, error)
	GetJobPosition(spaceID, id string) (*dbmodels.JobPosition, error)
	GetUnit(spaceID, id string) (*dbmodels.ManagementUnit, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: orgdirstore.NewInstance(db.DB),
	}
}

type impl struct {
	store orgdirstore.Provider
}

func (i impl) ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error) {
	list, err := i.store.ListByJobRole(spaceID, roleKey, unitID)
	if err != nil {
		return nil, err
	}
	result := make([]dbmodels.SpaceUser, 0, len(list))
	for _, user := range list {
		if !user.Status.IsEligibleApprover() {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (i impl) GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	user, err := i.GetUser(spaceID, userID)
	if err != nil {
		return nil, err
	}
	if user.ManagerID == nil || *user.ManagerID == "" {
		return nil, nil
	}
	manager, err := i.store.GetUserByID(*user.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil || manager.SpaceID != spaceID || !manager.Status.IsEligibleApprover() {
		return nil, nil
	}
	return manager, nil
}

func (i impl) GetUser(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	user, err := i.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.SpaceID != spaceID {
		return nil, errs.New(errs.KindNotFound, "сотрудник не найден в справочнике")
	}
	return user, nil
}

func (i impl) GetBrand(spaceID, id string) (*dbmodels.Brand, error) {
	rec, err := i.store.GetBrand(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "бренд не найден")
	}
	return rec, nil
}

func (i impl) GetStore(spaceID, id string) (*dbmodels.Store, error) {
	rec, err := i.store.GetStore(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "магазин не найден")
	}
	return rec, nil
}

func (i impl) GetJobPosition(spaceID, id string) (*dbmodels.JobPosition, error) {
	rec, err := i.store.GetJobPosition(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "должность не найдена")
	}
	return rec, nil
}

func (i impl) GetUnit(spaceID, id string) (*dbmodels.ManagementUnit, error) {
	rec, err := i.store.GetUnit(spaceID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "подразделение не найдено")
	}
	return rec, nil
}
