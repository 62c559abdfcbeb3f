package approvalhistorystore

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "hiring-flow-backend/models/db"
)

// История согласования только пополняется, записи никогда не меняются и не удаляются

type Provider interface {
	WithTx(tx *gorm.DB) Provider
	Create(rec dbmodels.ApprovalHistory) (id string, err error)
	List(spaceID, requisitionID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) WithTx(tx *gorm.DB) Provider {
	return &impl{
		db: tx,
	}
}

func (i impl) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(spaceID, requisitionID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("requisition_id = ?", requisitionID).
		Preload("Actor").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
