package delegationstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "hiring-flow-backend/models/db"
)

type Provider interface {
	GetByUser(spaceID, userID string) (rec *dbmodels.Delegation, err error)
	// GetActiveByUser возвращает активное замещение пользователя, nil если его нет
	GetActiveByUser(spaceID, userID string) (rec *dbmodels.Delegation, err error)
	Save(rec dbmodels.Delegation) (id string, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByUser(spaceID, userID string) (*dbmodels.Delegation, error) {
	rec := dbmodels.Delegation{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("space_id = ?", spaceID).
		Preload("BackupUser").
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

func (i impl) GetActiveByUser(spaceID, userID string) (*dbmodels.Delegation, error) {
	rec, err := i.GetByUser(spaceID, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Active {
		return nil, nil
	}
	return rec, nil
}

func (i impl) Save(rec dbmodels.Delegation) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Delegation{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}
