package candidatestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hiring-flow-backend/models"
	candidateapimodels "hiring-flow-backend/models/api/candidate"
	dbmodels "hiring-flow-backend/models/db"
)

type Provider interface {
	// WithTx возвращает стор, работающий в переданной транзакции
	WithTx(tx *gorm.DB) Provider
	Create(rec dbmodels.Candidate) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Candidate, err error)
	// GetByIDForUpdate блокирует запись кандидата до конца транзакции,
	// сериализует конкурирующие выборы одного кандидата
	GetByIDForUpdate(spaceID, id string) (rec *dbmodels.Candidate, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	CreateApplication(rec dbmodels.Application) (id string, err error)
	GetApplication(spaceID, id string) (rec *dbmodels.Application, err error)
	UpdateApplication(spaceID, id string, updMap map[string]interface{}) error
	// UpdateApplicationIf переводит отклик из ожидаемого статуса, иначе ничего не меняет
	UpdateApplicationIf(spaceID, id string, fromStatus models.ApplicationStatus, updMap map[string]interface{}) (updated bool, err error)
	// CountHired считает подтвержденные наймы по заявкам пачки
	CountHired(spaceID string, requisitionIDs []string) (count int64, err error)
	List(spaceID string, filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error)
	ListCount(spaceID string, filter candidateapimodels.CandidateFilter) (count int64, err error)
	Count(spaceID string) (count int64, err error)
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

func (i impl) Create(rec dbmodels.Candidate) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) getByID(spaceID, id string, lock bool) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	tx := i.db
	if lock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	} else {
		tx = tx.Preload("Applications")
	}
	err := tx.
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
	if lock {
		// отклики подгружаются отдельным чтением, FOR UPDATE с Preload не сочетается
		err = i.db.
			Where("candidate_id = ?", rec.ID).
			Where("space_id = ?", spaceID).
			Find(&rec.Applications).
			Error
		if err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Candidate, error) {
	return i.getByID(spaceID, id, false)
}

func (i impl) GetByIDForUpdate(spaceID, id string) (*dbmodels.Candidate, error) {
	return i.getByID(spaceID, id, true)
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("кандидат не найден")
	}
	return nil
}

func (i impl) CreateApplication(rec dbmodels.Application) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetApplication(spaceID, id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
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

func (i impl) UpdateApplication(spaceID, id string, updMap map[string]interface{}) error {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("отклик не найден")
	}
	return nil
}

func (i impl) UpdateApplicationIf(spaceID, id string, fromStatus models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Where("status = ?", fromStatus).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) CountHired(spaceID string, requisitionIDs []string) (count int64, err error) {
	if len(requisitionIDs) == 0 {
		return 0, nil
	}
	err = i.db.
		Model(&dbmodels.Application{}).
		Where("space_id = ?", spaceID).
		Where("requisition_id in ?", requisitionIDs).
		Where("status = ?", models.ApplicationStatusSelected).
		Where("hired_status = ?", models.HiredStatusHired).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter candidateapimodels.CandidateFilter) *gorm.DB {
	if filter.RequisitionID != "" {
		tx = tx.Where(
			"id in (?)",
			i.db.
				Model(&dbmodels.Application{}).
				Select("candidate_id").
				Where("requisition_id = ?", filter.RequisitionID),
		)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		tx = tx.Where(
			"last_name ilike ? or first_name ilike ? or phone ilike ? or email ilike ?",
			search, search, search, search,
		)
	}
	return tx
}

func (i impl) List(spaceID string, filter candidateapimodels.CandidateFilter) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	page, limit := filter.GetPage()
	tx := i.db.
		Where("space_id = ?", spaceID).
		Preload("Applications")
	tx = i.applyFilter(tx, filter)
	err = tx.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter candidateapimodels.CandidateFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("space_id = ?", spaceID)
	tx = i.applyFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) Count(spaceID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Candidate{}).
		Where("space_id = ?", spaceID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
