package orgdirstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "hiring-flow-backend/models/db"
)

// Справочник организации ведется внешней подсистемой, здесь только чтение

type Provider interface {
	GetUserByID(userID string) (rec *dbmodels.SpaceUser, err error)
	ListByJobRole(spaceID, roleKey, unitID string) (list []dbmodels.SpaceUser, err error)
	GetBrand(spaceID, id string) (rec *dbmodels.Brand, err error)
	GetStore(spaceID, id string) (rec *dbmodels.Store, err error)
	GetJobPosition(spaceID, id string) (rec *dbmodels.JobPosition, err error)
	GetUnit(spaceID, id string) (rec *dbmodels.ManagementUnit, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetUserByID(userID string) (*dbmodels.SpaceUser, error) {
	rec := dbmodels.SpaceUser{}
	err := i.db.
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByJobRole(spaceID, roleKey, unitID string) (list []dbmodels.SpaceUser, err error) {
	list = []dbmodels.SpaceUser{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("job_role = ?", roleKey).
		Where("management_unit_id = ?", unitID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetBrand(spaceID, id string) (*dbmodels.Brand, error) {
	rec := dbmodels.Brand{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetStore(spaceID, id string) (*dbmodels.Store, error) {
	rec := dbmodels.Store{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetJobPosition(spaceID, id string) (*dbmodels.JobPosition, error) {
	rec := dbmodels.JobPosition{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetUnit(spaceID, id string) (*dbmodels.ManagementUnit, error) {
	rec := dbmodels.ManagementUnit{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
