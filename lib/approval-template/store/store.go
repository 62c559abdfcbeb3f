package approvaltemplatestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "hiring-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ApprovalTemplate) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.ApprovalTemplate, err error)
	List(spaceID string) (list []dbmodels.ApprovalTemplate, err error)
	Delete(spaceID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalTemplate) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ApprovalTemplate, error) {
	rec := dbmodels.ApprovalTemplate{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Steps").
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

func (i impl) List(spaceID string) (list []dbmodels.ApprovalTemplate, err error) {
	list = []dbmodels.ApprovalTemplate{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Preload("Steps").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(spaceID, id string) error {
	rec := dbmodels.ApprovalTemplate{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   spaceID,
		},
	}
	err := i.db.
		Select(clause.Associations).
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}
