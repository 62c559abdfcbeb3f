package sequencestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbmodels "hiring-flow-backend/models/db"
)

type Provider interface {
	// NextValue атомарно увеличивает счетчик области под блокировкой строки
	NextValue(spaceID, scope string) (value int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) NextValue(spaceID, scope string) (value int64, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.SequenceCounter{}
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("space_id = ?", spaceID).
			Where("scope = ?", scope).
			First(&rec).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rec = dbmodels.SequenceCounter{
				SpaceID: spaceID,
				Scope:   scope,
			}
			if err = tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		rec.Value++
		value = rec.Value
		return tx.
			Model(&dbmodels.SequenceCounter{}).
			Where("space_id = ?", spaceID).
			Where("scope = ?", scope).
			Update("value", rec.Value).
			Error
	})
	if err != nil {
		return 0, errors.Wrapf(err, "ошибка инкремента счетчика, scope=%v", scope)
	}
	return value, nil
}
