package requisitionstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hiring-flow-backend/models"
	requisitionapimodels "hiring-flow-backend/models/api/requisition"
	dbmodels "hiring-flow-backend/models/db"
)

type Provider interface {
	// WithTx возвращает стор, работающий в переданной транзакции
	WithTx(tx *gorm.DB) Provider
	Create(rec dbmodels.Requisition) (id string, err error)
	CreateStep(rec dbmodels.ApprovalStep) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Requisition, err error)
	// ListByBatchForUpdate блокирует экземпляры пачки до конца транзакции
	ListByBatchForUpdate(spaceID, batchID string) (list []dbmodels.Requisition, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	// CasUpdate применяет изменения только если условия совпали с текущим состоянием записи
	CasUpdate(spaceID, id string, cond map[string]interface{}, updMap map[string]interface{}) (updated bool, err error)
	// UpdateStepIf переводит этап из ожидаемого статуса, терминальный этап неизменяем
	UpdateStepIf(spaceID, stepID string, fromStatus models.ApprovalStepStatus, updMap map[string]interface{}) (updated bool, err error)
	UpdateStep(spaceID, stepID string, updMap map[string]interface{}) error
	List(spaceID string, filter requisitionapimodels.RqFilter) (list []dbmodels.Requisition, err error)
	ListCount(spaceID string, filter requisitionapimodels.RqFilter) (count int64, err error)
	CountByBrandScope(spaceID, brandID string, since time.Time) (count int64, err error)
	ListPendingOlderThan(moment time.Time) (list []dbmodels.Requisition, err error)
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

func (i impl) Create(rec dbmodels.Requisition) (id string, err error) {
	err = i.db.
		Omit("Brand", "Store", "JobPosition", "ManagementUnit", "Author").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) CreateStep(rec dbmodels.ApprovalStep) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Requisition, error) {
	rec := dbmodels.Requisition{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload(clause.Associations).
		Preload("Steps.Approver").
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

func (i impl) ListByBatchForUpdate(spaceID, batchID string) (list []dbmodels.Requisition, err error) {
	list = []dbmodels.Requisition{}
	err = i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("space_id = ?", spaceID).
		Where("batch_id = ?", batchID).
		Order("batch_index").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Requisition{}).
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

func (i impl) CasUpdate(spaceID, id string, cond map[string]interface{}, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Requisition{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Where(cond).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) UpdateStepIf(spaceID, stepID string, fromStatus models.ApprovalStepStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("id = ?", stepID).
		Where("space_id = ?", spaceID).
		Where("status = ?", fromStatus).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) UpdateStep(spaceID, stepID string, updMap map[string]interface{}) error {
	tx := i.db.
		Model(&dbmodels.ApprovalStep{}).
		Where("id = ?", stepID).
		Where("space_id = ?", spaceID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("этап не найден")
	}
	return nil
}

func (i impl) applyFilter(tx *gorm.DB, filter requisitionapimodels.RqFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != "" {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	if filter.BatchID != "" {
		tx = tx.Where("batch_id = ?", filter.BatchID)
	}
	return tx
}

func (i impl) List(spaceID string, filter requisitionapimodels.RqFilter) (list []dbmodels.Requisition, err error) {
	list = []dbmodels.Requisition{}
	page, limit := filter.GetPage()
	tx := i.db.
		Where("space_id = ?", spaceID).
		Preload(clause.Associations).
		Preload("Steps.Approver")
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

func (i impl) ListCount(spaceID string, filter requisitionapimodels.RqFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Requisition{}).
		Where("space_id = ?", spaceID)
	tx = i.applyFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) CountByBrandScope(spaceID, brandID string, since time.Time) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Requisition{}).
		Where("space_id = ?", spaceID).
		Where("brand_id = ?", brandID).
		Where("created_at >= ?", since).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) ListPendingOlderThan(moment time.Time) (list []dbmodels.Requisition, err error) {
	list = []dbmodels.Requisition{}
	err = i.db.
		Where("status = ?", models.RqStatusPendingApproval).
		Where("created_at < ?", moment).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
