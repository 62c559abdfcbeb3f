package candidate

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hiring-flow-backend/db"
	selectionhistorystore "hiring-flow-backend/lib/candidate/history-store"
	candidatestore "hiring-flow-backend/lib/candidate/store"
	"hiring-flow-backend/lib/closure"
	"hiring-flow-backend/lib/notify"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	"hiring-flow-backend/lib/sequence"
	"hiring-flow-backend/models"
	candidateapimodels "hiring-flow-backend/models/api/candidate"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

const codeScope = "candidate"
const codePrefix = "CND"

type Provider interface {
	// Create заводит кандидата с первым откликом на опубликованную заявку
	Create(spaceID, userID string, data candidateapimodels.CandidateCreateData) (id string, err error)
	GetByID(spaceID, id string) (item candidateapimodels.CandidateView, err error)
	List(spaceID string, filter candidateapimodels.CandidateFilter) (list []candidateapimodels.CandidateView, rowCount int64, err error)
	History(spaceID, id string) (list []candidateapimodels.SelectionHistoryView, err error)
	AddApplication(spaceID, candidateID, userID string, data candidateapimodels.ApplicationData) (id string, err error)
	CompleteApplication(spaceID, candidateID, applicationID, userID string) error
	ApproveApplication(spaceID, candidateID, applicationID, userID string) error
	RejectApplication(spaceID, candidateID, applicationID, userID string, data candidateapimodels.RejectData) error
	// CheckSelect возвращает дескриптор конфликта выбора без изменения состояния
	CheckSelect(spaceID, candidateID, applicationID string) (item candidateapimodels.SelectConflictView, err error)
	// Select делает отклик активным выбором кандидата; при существующем выборе
	// по другому отклику возвращает ошибку, перенос выполняется только через SelectWithOverride
	Select(spaceID, candidateID, userID string, data candidateapimodels.SelectData) error
	// SelectWithOverride переносит выбор на новый отклик, прежний отклик отклоняется
	SelectWithOverride(spaceID, candidateID, userID string, data candidateapimodels.SelectData) error
	ConfirmHire(spaceID, candidateID, applicationID, userID string, data candidateapimodels.ConfirmHireData) error
	ConfirmNotHired(spaceID, candidateID, applicationID, userID string, data candidateapimodels.ConfirmNotHiredData) error
}

var Instance Provider

type txRunner func(fn func(tx *gorm.DB) error) error

func NewHandler() {
	Instance = impl{
		store:        candidatestore.NewInstance(db.DB),
		historyStore: selectionhistorystore.NewInstance(db.DB),
		rqStore:      requisitionstore.NewInstance(db.DB),
		sequencer:    sequence.Instance,
		closer:       closure.Instance,
		notifier:     notify.Instance,
		tx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
	}
}

type impl struct {
	store        candidatestore.Provider
	historyStore selectionhistorystore.Provider
	rqStore      requisitionstore.Provider
	sequencer    sequence.Provider
	closer       closure.Provider
	notifier     notify.Provider
	tx           txRunner
}

func (i impl) getLogger(spaceID, id string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
}

// getPublishedRq возвращает заявку, открытую для приема откликов
func (i impl) getPublishedRq(spaceID, requisitionID string) (*dbmodels.Requisition, error) {
	rq, err := i.rqStore.GetByID(spaceID, requisitionID)
	if err != nil {
		return nil, err
	}
	if rq == nil {
		return nil, errs.New(errs.KindNotFound, "заявка не найдена")
	}
	if rq.Status != models.RqStatusPublished {
		return nil, errs.Newf(errs.KindValidation, "заявка не принимает отклики в текущем статусе: %v", rq.Status.ToHuman())
	}
	return rq, nil
}

func buildApplication(spaceID, candidateID string, rq dbmodels.Requisition) dbmodels.Application {
	app := dbmodels.Application{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		CandidateID:     candidateID,
		RequisitionID:   rq.ID,
		RequisitionCode: rq.Code,
		BrandID:         rq.BrandID,
		Status:          models.ApplicationStatusInvited,
	}
	if rq.Brand != nil {
		app.BrandName = rq.Brand.Name
	}
	if rq.Store != nil {
		app.StoreName = rq.Store.Name
	}
	if rq.JobPosition != nil {
		app.PositionName = rq.JobPosition.Name
	}
	return app
}

func (i impl) Create(spaceID, userID string, data candidateapimodels.CandidateCreateData) (id string, err error) {
	logger := log.WithField("space_id", spaceID)
	rq, err := i.getPublishedRq(spaceID, data.RequisitionID)
	if err != nil {
		return "", err
	}
	code, fallback, err := i.sequencer.NextCode(spaceID, codeScope, codePrefix, func() (int64, error) {
		return i.store.Count(spaceID)
	})
	if err != nil {
		return "", err
	}
	if fallback {
		logger.WithField("code", code).Warn("код кандидата выдан резервным путем")
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		candidateID, err := store.Create(dbmodels.Candidate{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			Code:            code,
			FirstName:       data.FirstName,
			LastName:        data.LastName,
			MiddleName:      data.MiddleName,
			Phone:           data.Phone,
			Email:           data.Email,
			Comment:         data.Comment,
			SelectionStatus: models.SelectionStatusNone,
		})
		if err != nil {
			logger.WithError(err).Error("Ошибка создания кандидата")
			return err
		}
		appID, err := store.CreateApplication(buildApplication(spaceID, candidateID, *rq))
		if err != nil {
			return err
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: appID,
			ActorID:       userID,
			Action:        models.SActionApplied,
		})
		if err != nil {
			return err
		}
		id = candidateID
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("rec_id", id).
		WithField("code", code).
		Info("Создан кандидат")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (candidateapimodels.CandidateView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	return candidateapimodels.CandidateConvert(*rec), nil
}

func (i impl) List(spaceID string, filter candidateapimodels.CandidateFilter) ([]candidateapimodels.CandidateView, int64, error) {
	logger := log.WithField("space_id", spaceID)
	rowCount, err := i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []candidateapimodels.CandidateView{}, rowCount, nil
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка кандидатов")
		return nil, 0, err
	}
	result := make([]candidateapimodels.CandidateView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, candidateapimodels.CandidateConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) History(spaceID, id string) ([]candidateapimodels.SelectionHistoryView, error) {
	if _, err := i.getRec(spaceID, id); err != nil {
		return nil, err
	}
	list, err := i.historyStore.List(spaceID, id)
	if err != nil {
		return nil, err
	}
	result := make([]candidateapimodels.SelectionHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, candidateapimodels.SelectionHistoryConvert(rec))
	}
	return result, nil
}

func (i impl) AddApplication(spaceID, candidateID, userID string, data candidateapimodels.ApplicationData) (id string, err error) {
	logger := i.getLogger(spaceID, candidateID)
	rec, err := i.getRec(spaceID, candidateID)
	if err != nil {
		return "", err
	}
	for _, app := range rec.Applications {
		// повторный отклик возможен только после отклонения предыдущего
		if app.RequisitionID == data.RequisitionID && app.Status != models.ApplicationStatusRejected {
			return "", errs.New(errs.KindValidation, "отклик на эту заявку уже существует")
		}
	}
	rq, err := i.getPublishedRq(spaceID, data.RequisitionID)
	if err != nil {
		return "", err
	}
	err = i.tx(func(tx *gorm.DB) error {
		appID, err := i.store.WithTx(tx).CreateApplication(buildApplication(spaceID, candidateID, *rq))
		if err != nil {
			return err
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: appID,
			ActorID:       userID,
			Action:        models.SActionApplied,
		})
		if err != nil {
			return err
		}
		id = appID
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("requisition_id", data.RequisitionID).
		Info("добавлен отклик кандидата")
	return id, nil
}

// advanceApplication переводит отклик по воронке с защитой от гонки на статусе
func (i impl) advanceApplication(spaceID, candidateID, applicationID, userID string, to models.ApplicationStatus, action models.SelectionAction, reason string) error {
	logger := i.getLogger(spaceID, candidateID)
	rec, err := i.getRec(spaceID, candidateID)
	if err != nil {
		return err
	}
	app := rec.Application(applicationID)
	if app == nil {
		return errs.New(errs.KindNotFound, "отклик не найден")
	}
	if !app.Status.IsAllowChange(to) {
		return errs.Newf(errs.KindValidation, "переход недоступен из текущего статуса отклика: %v", app.Status.ToHuman())
	}
	err = i.tx(func(tx *gorm.DB) error {
		updated, err := i.store.WithTx(tx).UpdateApplicationIf(spaceID, applicationID, app.Status, map[string]interface{}{
			"status": to,
		})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус отклика уже изменился, обновите данные")
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: applicationID,
			ActorID:       userID,
			Action:        action,
			Reason:        reason,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.
		WithField("application_id", applicationID).
		WithField("status", to).
		Info("статус отклика изменен")
	return nil
}

func (i impl) CompleteApplication(spaceID, candidateID, applicationID, userID string) error {
	return i.advanceApplication(spaceID, candidateID, applicationID, userID,
		models.ApplicationStatusCompleted, models.SActionCompleted, "")
}

func (i impl) ApproveApplication(spaceID, candidateID, applicationID, userID string) error {
	return i.advanceApplication(spaceID, candidateID, applicationID, userID,
		models.ApplicationStatusApproved, models.SActionApproved, "")
}

func (i impl) RejectApplication(spaceID, candidateID, applicationID, userID string, data candidateapimodels.RejectData) error {
	logger := i.getLogger(spaceID, candidateID)
	rec, err := i.getRec(spaceID, candidateID)
	if err != nil {
		return err
	}
	app := rec.Application(applicationID)
	if app == nil {
		return errs.New(errs.KindNotFound, "отклик не найден")
	}
	if !app.Status.IsAllowChange(models.ApplicationStatusRejected) {
		return errs.Newf(errs.KindValidation, "переход недоступен из текущего статуса отклика: %v", app.Status.ToHuman())
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		// при отклонении выбранного отклика кандидат блокируется под замком строки
		if app.Status == models.ApplicationStatusSelected {
			locked, err := store.GetByIDForUpdate(spaceID, candidateID)
			if err != nil {
				return err
			}
			if locked == nil {
				return errs.New(errs.KindNotFound, "кандидат не найден")
			}
		}
		updated, err := store.UpdateApplicationIf(spaceID, applicationID, app.Status, map[string]interface{}{
			"status": models.ApplicationStatusRejected,
		})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус отклика уже изменился, обновите данные")
		}
		if app.Status == models.ApplicationStatusSelected {
			// выбор снимается; кандидат остается доступным для выбора по другим
			// откликам, активным выбором считается только selected_application_id
			err = store.Update(spaceID, candidateID, map[string]interface{}{
				"selection_status":        models.SelectionStatusRejected,
				"selected_application_id": nil,
				"selected_at":             nil,
				"selected_by_id":          "",
			})
			if err != nil {
				return err
			}
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: applicationID,
			ActorID:       userID,
			Action:        models.SActionRejected,
			Reason:        data.Reason,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.
		WithField("application_id", applicationID).
		Info("отклик кандидата отклонен")
	if i.notifier != nil {
		i.notifier.Emit(notify.Event{
			Type:            notify.EventCandidateRejected,
			SpaceID:         spaceID,
			RequisitionID:   app.RequisitionID,
			RequisitionCode: app.RequisitionCode,
			PositionName:    app.PositionName,
			BrandName:       app.BrandName,
			StoreName:       app.StoreName,
			CandidateID:     candidateID,
			CandidateName:   rec.GetFullName(),
			Reason:          data.Reason,
			RecipientEmail:  rec.Email,
			RecipientName:   rec.GetFullName(),
		})
	}
	return nil
}

func (i impl) CheckSelect(spaceID, candidateID, applicationID string) (candidateapimodels.SelectConflictView, error) {
	rec, err := i.getRec(spaceID, candidateID)
	if err != nil {
		return candidateapimodels.SelectConflictView{}, err
	}
	app := rec.Application(applicationID)
	if app == nil {
		return candidateapimodels.SelectConflictView{}, errs.New(errs.KindNotFound, "отклик не найден")
	}
	view := candidateapimodels.SelectConflictView{}
	selected := rec.SelectedApplication()
	if selected == nil || selected.ID == applicationID {
		return view, nil
	}
	view.Conflict = true
	view.SameBrand = selected.BrandID == app.BrandID
	view.ApplicationID = selected.ID
	view.RequisitionCode = selected.RequisitionCode
	view.BrandName = selected.BrandName
	view.OverrideAvailable = true
	return view, nil
}

func (i impl) Select(spaceID, candidateID, userID string, data candidateapimodels.SelectData) error {
	return i.doSelect(spaceID, candidateID, userID, data.ApplicationID, false)
}

func (i impl) SelectWithOverride(spaceID, candidateID, userID string, data candidateapimodels.SelectData) error {
	return i.doSelect(spaceID, candidateID, userID, data.ApplicationID, true)
}

func (i impl) doSelect(spaceID, candidateID, userID, applicationID string, override bool) error {
	logger := i.getLogger(spaceID, candidateID).
		WithField("application_id", applicationID)
	var event *notify.Event
	err := i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		// кандидат блокируется на всю транзакцию, конкурирующие выборы сериализуются
		rec, err := store.GetByIDForUpdate(spaceID, candidateID)
		if err != nil {
			return err
		}
		if rec == nil {
			return errs.New(errs.KindNotFound, "кандидат не найден")
		}
		app := rec.Application(applicationID)
		if app == nil {
			return errs.New(errs.KindNotFound, "отклик не найден")
		}
		selected := rec.SelectedApplication()
		if selected != nil && selected.ID == applicationID {
			// повторный выбор того же отклика - no-op
			return nil
		}
		if selected != nil && !override {
			return errs.Newf(errs.KindInvariant,
				"кандидат уже выбран для найма по заявке %v", selected.RequisitionCode)
		}
		if !app.Status.IsAllowChange(models.ApplicationStatusSelected) {
			return errs.Newf(errs.KindValidation, "выбор недоступен из текущего статуса отклика: %v", app.Status.ToHuman())
		}
		hStore := i.historyStore.WithTx(tx)
		action := models.SActionSelected
		if selected != nil {
			// прежний выбор снимается, вытесненный отклик отклоняется
			action = models.SActionSelectedOverride
			updated, err := store.UpdateApplicationIf(spaceID, selected.ID, models.ApplicationStatusSelected, map[string]interface{}{
				"status": models.ApplicationStatusRejected,
			})
			if err != nil {
				return err
			}
			if !updated {
				return errs.New(errs.KindStaleState, "прежний выбор уже изменился, обновите данные")
			}
			_, err = hStore.Create(dbmodels.SelectionHistory{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					SpaceID: spaceID,
				},
				CandidateID:   candidateID,
				ApplicationID: selected.ID,
				ActorID:       userID,
				Action:        models.SActionRejected,
				Reason:        "выбор перенесен на другую заявку",
				Override:      true,
			})
			if err != nil {
				return err
			}
		}
		updated, err := store.UpdateApplicationIf(spaceID, applicationID, app.Status, map[string]interface{}{
			"status": models.ApplicationStatusSelected,
		})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус отклика уже изменился, обновите данные")
		}
		now := time.Now()
		err = store.Update(spaceID, candidateID, map[string]interface{}{
			"selection_status":        models.SelectionStatusSelected,
			"selected_application_id": applicationID,
			"selected_at":             now,
			"selected_by_id":          userID,
		})
		if err != nil {
			return err
		}
		_, err = hStore.Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: applicationID,
			ActorID:       userID,
			Action:        action,
			Override:      override && selected != nil,
		})
		if err != nil {
			return err
		}
		event = &notify.Event{
			Type:            notify.EventCandidateSelected,
			SpaceID:         spaceID,
			RequisitionID:   app.RequisitionID,
			RequisitionCode: app.RequisitionCode,
			PositionName:    app.PositionName,
			BrandName:       app.BrandName,
			StoreName:       app.StoreName,
			CandidateID:     candidateID,
			CandidateName:   rec.GetFullName(),
			RecipientEmail:  rec.Email,
			RecipientName:   rec.GetFullName(),
		}
		return nil
	})
	if err != nil {
		if errs.KindOf(err) == "" {
			logger.WithError(err).Error("Ошибка выбора кандидата")
		}
		return err
	}
	if event != nil {
		logger.WithField("override", override).Info("кандидат выбран для найма")
		if i.notifier != nil {
			i.notifier.Emit(*event)
		}
	}
	return nil
}

func (i impl) ConfirmHire(spaceID, candidateID, applicationID, userID string, data candidateapimodels.ConfirmHireData) error {
	logger := i.getLogger(spaceID, candidateID).
		WithField("application_id", applicationID)
	var requisitionID string
	err := i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		rec, err := store.GetByIDForUpdate(spaceID, candidateID)
		if err != nil {
			return err
		}
		if rec == nil {
			return errs.New(errs.KindNotFound, "кандидат не найден")
		}
		app := rec.Application(applicationID)
		if app == nil {
			return errs.New(errs.KindNotFound, "отклик не найден")
		}
		selected := rec.SelectedApplication()
		if selected == nil || selected.ID != applicationID {
			return errs.New(errs.KindValidation, "подтвердить найм можно только по выбранному отклику")
		}
		if app.HiredStatus.IsConfirmed() {
			return errs.New(errs.KindAlreadyConfirmed, "решение о найме уже зафиксировано")
		}
		now := time.Now()
		err = store.UpdateApplication(spaceID, applicationID, map[string]interface{}{
			"hired_status": models.HiredStatusHired,
			"hired_at":     now,
			"start_date":   data.StartDate,
			"hire_comment": data.Comment,
		})
		if err != nil {
			return err
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: applicationID,
			ActorID:       userID,
			Action:        models.SActionHired,
			Reason:        data.Comment,
		})
		if err != nil {
			return err
		}
		requisitionID = app.RequisitionID
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("найм кандидата подтвержден")
	// закрытие пачки выполняется вне транзакции найма, его сбой не откатывает подтверждение
	if i.closer != nil {
		if err := i.closer.OnHireConfirmed(spaceID, requisitionID, userID); err != nil {
			logger.WithError(err).Error("Ошибка координатора закрытия пачки")
		}
	}
	return nil
}

func (i impl) ConfirmNotHired(spaceID, candidateID, applicationID, userID string, data candidateapimodels.ConfirmNotHiredData) error {
	logger := i.getLogger(spaceID, candidateID).
		WithField("application_id", applicationID)
	err := i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		rec, err := store.GetByIDForUpdate(spaceID, candidateID)
		if err != nil {
			return err
		}
		if rec == nil {
			return errs.New(errs.KindNotFound, "кандидат не найден")
		}
		app := rec.Application(applicationID)
		if app == nil {
			return errs.New(errs.KindNotFound, "отклик не найден")
		}
		selected := rec.SelectedApplication()
		if selected == nil || selected.ID != applicationID {
			return errs.New(errs.KindValidation, "зафиксировать невыход можно только по выбранному отклику")
		}
		if app.HiredStatus.IsConfirmed() {
			return errs.New(errs.KindAlreadyConfirmed, "решение о найме уже зафиксировано")
		}
		now := time.Now()
		err = store.UpdateApplication(spaceID, applicationID, map[string]interface{}{
			"status":       models.ApplicationStatusRejected,
			"hired_status": models.HiredStatusNotHired,
			"hired_at":     now,
			"hire_comment": data.Reason,
		})
		if err != nil {
			return err
		}
		err = store.Update(spaceID, candidateID, map[string]interface{}{
			"selection_status":        models.SelectionStatusRejected,
			"selected_application_id": nil,
			"selected_at":             nil,
			"selected_by_id":          "",
		})
		if err != nil {
			return err
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.SelectionHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			CandidateID:   candidateID,
			ApplicationID: applicationID,
			ActorID:       userID,
			Action:        models.SActionNotHired,
			Reason:        data.Reason,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("зафиксирован невыход кандидата")
	return nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Candidate, error) {
	logger := i.getLogger(spaceID, id)
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		logger.WithError(err).Error("ошибка получения кандидата")
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "кандидат не найден")
	}
	return rec, nil
}
