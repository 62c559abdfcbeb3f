package selectionhistorystore

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "hiring-flow-backend/models/db"
)

// Provider - хранилище истории действий по кандидату, записи не изменяются и не удаляются
type Provider interface {
	WithTx(tx *gorm.DB) Provider
	Create(rec dbmodels.SelectionHistory) (id string, err error)
	List(spaceID, candidateID string) (list []dbmodels.SelectionHistory, err error)
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

func (i impl) Create(rec dbmodels.SelectionHistory) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(spaceID, candidateID string) (list []dbmodels.SelectionHistory, err error) {
	list = []dbmodels.SelectionHistory{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("candidate_id = ?", candidateID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
