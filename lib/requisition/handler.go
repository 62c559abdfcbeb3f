package requisition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hiring-flow-backend/db"
	approvalresolve "hiring-flow-backend/lib/approval-resolve"
	approvaltemplatestore "hiring-flow-backend/lib/approval-template/store"
	"hiring-flow-backend/lib/notify"
	orgdir "hiring-flow-backend/lib/org-dir"
	historystore "hiring-flow-backend/lib/requisition/history-store"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	"hiring-flow-backend/lib/sequence"
	"hiring-flow-backend/models"
	requisitionapimodels "hiring-flow-backend/models/api/requisition"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type Provider interface {
	// Create создает пачку экземпляров заявки, по одному на каждую открываемую позицию
	Create(spaceID, userID string, data requisitionapimodels.RequisitionCreateData) (ids []string, err error)
	// Submit отправляет черновик на согласование
	Submit(spaceID, id, userID string) error
	GetByID(spaceID, id string) (item requisitionapimodels.RequisitionView, err error)
	List(spaceID string, filter requisitionapimodels.RqFilter) (list []requisitionapimodels.RequisitionView, rowCount int64, err error)
	// Act - решение согласующего по текущему этапу заявки
	Act(spaceID, id, userID string, role models.UserRole, data requisitionapimodels.ActData) error
	Publish(spaceID, id, userID string) error
	Close(spaceID, id, userID, reason string, closure models.ClosureReason) error
	Cancel(spaceID, id, userID string) error
	// Reresolve повторно разрешает согласующих для еще не пройденных этапов,
	// подхватывая изменившиеся замещения; терминальные этапы не меняются
	Reresolve(spaceID, id, userID string) error
	History(spaceID, id string) (list []requisitionapimodels.ApprovalHistoryView, err error)
}

var Instance Provider

type txRunner func(fn func(tx *gorm.DB) error) error

func NewHandler() {
	Instance = impl{
		store:         requisitionstore.NewInstance(db.DB),
		historyStore:  historystore.NewInstance(db.DB),
		templateStore: approvaltemplatestore.NewInstance(db.DB),
		orgDir:        orgdir.Instance,
		sequencer:     sequence.Instance,
		resolver:      approvalresolve.Instance,
		notifier:      notify.Instance,
		tx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
	}
}

type impl struct {
	store         requisitionstore.Provider
	historyStore  historystore.Provider
	templateStore approvaltemplatestore.Provider
	orgDir        orgdir.Provider
	sequencer     sequence.Provider
	resolver      approvalresolve.Provider
	notifier      notify.Provider
	tx            txRunner
}

func (i impl) getLogger(spaceID, id string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("rec_id", id)
}

func (i impl) checkDependency(spaceID string, data requisitionapimodels.RequisitionData) (brand *dbmodels.Brand, err error) {
	brand, err = i.orgDir.GetBrand(spaceID, data.BrandID)
	if err != nil {
		return nil, err
	}
	if data.StoreID != "" {
		if _, err = i.orgDir.GetStore(spaceID, data.StoreID); err != nil {
			return nil, err
		}
	}
	if _, err = i.orgDir.GetJobPosition(spaceID, data.JobPositionID); err != nil {
		return nil, err
	}
	if _, err = i.orgDir.GetUnit(spaceID, data.ManagementUnitID); err != nil {
		return nil, err
	}
	return brand, nil
}

func (i impl) Create(spaceID, userID string, data requisitionapimodels.RequisitionCreateData) (ids []string, err error) {
	logger := log.WithField("space_id", spaceID)
	brand, err := i.checkDependency(spaceID, data.RequisitionData)
	if err != nil {
		return nil, err
	}
	template, err := i.templateStore.GetByID(spaceID, data.TemplateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, errs.New(errs.KindNotFound, "шаблон согласования не найден")
	}

	// цепочка снимается один раз и копируется в каждый экземпляр пачки
	chain, err := i.resolver.Resolve(template.SortedSteps(), approvalresolve.Context{
		SpaceID:          spaceID,
		AuthorID:         userID,
		ManagementUnitID: data.ManagementUnitID,
	}, data.FirstApproverID)
	if err != nil {
		return nil, err
	}
	firstStep := approvalresolve.FirstEffectiveOrder(chain)

	now := time.Now()
	year := now.Year()
	scope := fmt.Sprintf("rq:%s:%d", brand.Code, year)
	prefix := fmt.Sprintf("RQ-%s-%02d", brand.Code, year%100)
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	countFn := func() (int64, error) {
		return i.store.CountByBrandScope(spaceID, data.BrandID, yearStart)
	}

	type instance struct {
		code     string
		fallback bool
	}
	instances := make([]instance, 0, data.Positions)
	for n := 0; n < data.Positions; n++ {
		code, fallback, err := i.sequencer.NextCode(spaceID, scope, prefix, countFn)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance{code: code, fallback: fallback})
	}

	batchID := uuid.NewString()
	ids = make([]string, 0, data.Positions)
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		hStore := i.historyStore.WithTx(tx)
		for n, inst := range instances {
			rec := dbmodels.Requisition{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					SpaceID: spaceID,
				},
				Code:             inst.code,
				CodeFallback:     inst.fallback,
				BatchID:          batchID,
				BatchIndex:       n + 1,
				BatchSize:        data.Positions,
				TotalHeadcount:   data.Positions,
				Headcount:        1,
				BrandID:          data.BrandID,
				JobPositionID:    data.JobPositionID,
				ManagementUnitID: data.ManagementUnitID,
				Confidential:     data.Confidential,
				AuthorID:         userID,
				Status:           models.RqStatusPendingApproval,
				ApprovalStatus:   models.RqApprovalPending,
				CurrentStep:      firstStep,
			}
			if data.StoreID != "" {
				rec.StoreID = &data.StoreID
			}
			if data.AsDraft {
				rec.Status = models.RqStatusDraft
			}
			autoApproved := len(chain) == 0
			if autoApproved {
				// согласующие не требуются, заявка проходит явный терминал автосогласования
				rec.ApprovalStatus = models.RqApprovalAutoApproved
				rec.Status = models.RqStatusApproved
				rec.CurrentStep = -1
			}
			id, err := store.Create(rec)
			if err != nil {
				logger.WithError(err).Error("Ошибка создания заявки")
				return err
			}
			for _, step := range chain {
				step.SpaceID = spaceID
				step.RequisitionID = id
				if _, err = store.CreateStep(step); err != nil {
					return err
				}
			}
			if autoApproved {
				_, err = hStore.Create(dbmodels.ApprovalHistory{
					BaseSpaceModel: dbmodels.BaseSpaceModel{
						SpaceID: spaceID,
					},
					RequisitionID: id,
					StepOrder:     -1,
					ActorID:       userID,
					Action:        models.HActionAutoApproved,
				})
				if err != nil {
					return err
				}
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.
		WithField("batch_id", batchID).
		WithField("count", len(ids)).
		Info("Создана заявка")
	i.notifyFirstApprover(spaceID, ids, chain, firstStep)
	return ids, nil
}

func (i impl) notifyFirstApprover(spaceID string, ids []string, chain []dbmodels.ApprovalStep, firstStep int) {
	if i.notifier == nil || firstStep < 0 || len(ids) == 0 {
		return
	}
	rec, err := i.getRec(spaceID, ids[0])
	if err != nil {
		return
	}
	i.emitStepEvent(*rec, firstStep, notify.EventRequisitionStepAdvanced, "")
}

func (i impl) Submit(spaceID, id, userID string) error {
	logger := i.getLogger(spaceID, id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if rec.Status != models.RqStatusDraft {
		return errs.Newf(errs.KindValidation, "отправить на согласование можно только черновик, текущий статус: %v", rec.Status.ToHuman())
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		updated, err := store.CasUpdate(spaceID, id,
			map[string]interface{}{"status": models.RqStatusDraft},
			map[string]interface{}{"status": models.RqStatusPendingApproval})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус заявки уже изменился, обновите данные")
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     -1,
			ActorID:       userID,
			Action:        models.HActionSubmitted,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("заявка отправлена на согласование")
	if i.notifier != nil && rec.CurrentStep >= 0 {
		i.emitStepEvent(*rec, rec.CurrentStep, notify.EventRequisitionStepAdvanced, "")
	}
	return nil
}

func (i impl) GetByID(spaceID, id string) (requisitionapimodels.RequisitionView, error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return requisitionapimodels.RequisitionView{}, err
	}
	return requisitionapimodels.RequisitionConvert(*rec), nil
}

func (i impl) List(spaceID string, filter requisitionapimodels.RqFilter) ([]requisitionapimodels.RequisitionView, int64, error) {
	logger := log.WithField("space_id", spaceID)
	rowCount, err := i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []requisitionapimodels.RequisitionView{}, rowCount, nil
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка заявок")
		return nil, 0, err
	}
	result := make([]requisitionapimodels.RequisitionView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, requisitionapimodels.RequisitionConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Act(spaceID, id, userID string, role models.UserRole, data requisitionapimodels.ActData) error {
	logger := i.getLogger(spaceID, id).
		WithField("user_id", userID)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.AllowAct() {
		return errs.Newf(errs.KindValidation, "решение по заявке недоступно в текущем статусе: %v", rec.Status.ToHuman())
	}
	cur := rec.CurrentStepRec()
	if cur == nil {
		return errs.New(errs.KindStaleState, "согласование заявки уже завершено")
	}
	if cur.Status.IsTerminal() {
		return errs.New(errs.KindStaleState, "текущий этап уже обработан")
	}
	if userID != cur.ApproverID && !role.IsSpaceAdmin() {
		return errs.New(errs.KindAuthorization, "за текущий этап отвечает другой сотрудник")
	}

	now := time.Now()
	stepStatus := models.AStepApproved
	action := models.HActionApproved
	if data.Decision == models.DecisionReject {
		stepStatus = models.AStepRejected
		action = models.HActionRejected
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		hStore := i.historyStore.WithTx(tx)
		// линеаризация решения: этап захватывается переводом из awaiting
		claimed, err := store.UpdateStepIf(spaceID, cur.ID, models.AStepAwaiting, map[string]interface{}{
			"status":     stepStatus,
			"decided_at": now,
			"comment":    data.Reason,
		})
		if err != nil {
			return err
		}
		if !claimed {
			return errs.New(errs.KindStaleState, "этап уже обработан другим согласующим")
		}
		var updated bool
		if data.Decision == models.DecisionApprove {
			next := rec.NextStepOrder(cur.StepOrder)
			if next >= 0 {
				updated, err = store.CasUpdate(spaceID, id,
					map[string]interface{}{"current_step": cur.StepOrder},
					map[string]interface{}{"current_step": next})
			} else {
				updated, err = store.CasUpdate(spaceID, id,
					map[string]interface{}{"current_step": cur.StepOrder, "approval_status": models.RqApprovalPending},
					map[string]interface{}{
						"current_step":    -1,
						"approval_status": models.RqApprovalApproved,
						"status":          models.RqStatusApproved,
					})
			}
		} else {
			updated, err = store.CasUpdate(spaceID, id,
				map[string]interface{}{"current_step": cur.StepOrder},
				map[string]interface{}{
					"current_step":    -1,
					"approval_status": models.RqApprovalRejected,
					"status":          models.RqStatusCancelled,
				})
		}
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "заявка уже продвинулась, обновите данные")
		}
		_, err = hStore.Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     cur.StepOrder,
			ActorID:       userID,
			Action:        action,
			Reason:        data.Reason,
		})
		return err
	})
	if err != nil {
		if errs.KindOf(err) == "" {
			logger.WithError(err).Error("Ошибка обработки решения согласующего")
		}
		return err
	}
	logger.
		WithField("decision", data.Decision).
		WithField("step_order", cur.StepOrder).
		Info("решение согласующего учтено")
	i.notifyAfterAct(*rec, cur.StepOrder, data)
	return nil
}

func (i impl) notifyAfterAct(rec dbmodels.Requisition, decidedOrder int, data requisitionapimodels.ActData) {
	if i.notifier == nil {
		return
	}
	if data.Decision == models.DecisionReject {
		i.emitAuthorEvent(rec, notify.EventRequisitionRejected, data.Reason)
		return
	}
	next := rec.NextStepOrder(decidedOrder)
	if next >= 0 {
		i.emitStepEvent(rec, next, notify.EventRequisitionStepAdvanced, "")
		return
	}
	i.emitAuthorEvent(rec, notify.EventRequisitionApproved, "")
}

func (i impl) baseEvent(rec dbmodels.Requisition, eventType notify.EventType, reason string) notify.Event {
	event := notify.Event{
		Type:            eventType,
		SpaceID:         rec.SpaceID,
		RequisitionID:   rec.ID,
		RequisitionCode: rec.Code,
		Reason:          reason,
	}
	if rec.JobPosition != nil {
		event.PositionName = rec.JobPosition.Name
	}
	if rec.Brand != nil {
		event.BrandName = rec.Brand.Name
	}
	if rec.Store != nil {
		event.StoreName = rec.Store.Name
	}
	return event
}

func (i impl) emitStepEvent(rec dbmodels.Requisition, stepOrder int, eventType notify.EventType, reason string) {
	event := i.baseEvent(rec, eventType, reason)
	for _, step := range rec.Steps {
		if step.StepOrder == stepOrder && step.Approver != nil {
			event.RecipientEmail = step.Approver.Email
			event.RecipientName = step.Approver.GetFullName()
		}
	}
	i.notifier.Emit(event)
}

func (i impl) emitAuthorEvent(rec dbmodels.Requisition, eventType notify.EventType, reason string) {
	event := i.baseEvent(rec, eventType, reason)
	if rec.Author != nil {
		event.RecipientEmail = rec.Author.Email
		event.RecipientName = rec.Author.GetFullName()
	}
	i.notifier.Emit(event)
}

func (i impl) Publish(spaceID, id, userID string) error {
	logger := i.getLogger(spaceID, id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.ApprovalStatus.IsApproved() {
		return errs.New(errs.KindValidation, "необходимо согласовать заявку")
	}
	if rec.Status != models.RqStatusApproved {
		return errs.Newf(errs.KindValidation, "публикация недоступна в текущем статусе: %v", rec.Status.ToHuman())
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		updated, err := store.CasUpdate(spaceID, id,
			map[string]interface{}{"status": models.RqStatusApproved},
			map[string]interface{}{"status": models.RqStatusPublished})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус заявки уже изменился, обновите данные")
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     -1,
			ActorID:       userID,
			Action:        models.HActionPublished,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("заявка опубликована")
	return nil
}

func (i impl) Close(spaceID, id, userID, reason string, closure models.ClosureReason) error {
	logger := i.getLogger(spaceID, id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if rec.Status == models.RqStatusClosed {
		// закрытие уже закрытой заявки - no-op, координатор закрытия может прийти дважды
		return nil
	}
	if rec.Status != models.RqStatusPublished {
		return errs.Newf(errs.KindValidation, "закрытие недоступно в текущем статусе: %v", rec.Status.ToHuman())
	}
	if closure == "" {
		closure = models.ClosureManual
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		updated, err := store.CasUpdate(spaceID, id,
			map[string]interface{}{"status": models.RqStatusPublished},
			map[string]interface{}{
				"status":         models.RqStatusClosed,
				"closure_reason": closure,
			})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус заявки уже изменился, обновите данные")
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     -1,
			ActorID:       userID,
			Action:        models.HActionClosed,
			Reason:        reason,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.
		WithField("closure_reason", closure).
		Info("заявка закрыта")
	if i.notifier != nil {
		i.emitAuthorEvent(*rec, notify.EventRequisitionClosed, reason)
	}
	return nil
}

func (i impl) Cancel(spaceID, id, userID string) error {
	logger := i.getLogger(spaceID, id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.IsAllowChange(models.RqStatusCancelled) {
		return errs.Newf(errs.KindValidation, "отмена недоступна в текущем статусе: %v", rec.Status.ToHuman())
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		updated, err := store.CasUpdate(spaceID, id,
			map[string]interface{}{"status": rec.Status},
			map[string]interface{}{"status": models.RqStatusCancelled})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "статус заявки уже изменился, обновите данные")
		}
		_, err = i.historyStore.WithTx(tx).Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     -1,
			ActorID:       userID,
			Action:        models.HActionCancelled,
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("заявка отменена")
	return nil
}

func (i impl) Reresolve(spaceID, id, userID string) error {
	logger := i.getLogger(spaceID, id)
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.AllowAct() {
		return errs.Newf(errs.KindValidation, "повторное разрешение недоступно в текущем статусе: %v", rec.Status.ToHuman())
	}
	// повторно разрешаются только непройденные этапы, терминальные не трогаем
	pending := make([]dbmodels.TemplateStep, 0)
	pendingByOrder := map[int]dbmodels.ApprovalStep{}
	for _, step := range rec.SortedSteps() {
		if step.Status.IsTerminal() {
			continue
		}
		original := step.ApproverID
		if step.DelegatedFromID != "" {
			original = step.DelegatedFromID
		}
		pending = append(pending, dbmodels.TemplateStep{
			StepOrder:    step.StepOrder,
			Name:         step.Name,
			ApproverKind: step.ApproverKind,
			ApproverID:   original,
			RoleKey:      step.RoleKey,
		})
		pendingByOrder[step.StepOrder] = step
	}
	if len(pending) == 0 {
		return nil
	}
	chain, err := i.resolver.Resolve(pending, approvalresolve.Context{
		SpaceID:          spaceID,
		AuthorID:         rec.AuthorID,
		ManagementUnitID: rec.ManagementUnitID,
	}, "")
	if err != nil {
		return err
	}
	err = i.tx(func(tx *gorm.DB) error {
		store := i.store.WithTx(tx)
		for _, resolved := range chain {
			current, ok := pendingByOrder[resolved.StepOrder]
			if !ok {
				continue
			}
			if current.ApproverID == resolved.ApproverID &&
				current.DelegatedFromID == resolved.DelegatedFromID &&
				current.Skipped == resolved.Skipped {
				continue
			}
			updated, err := store.UpdateStepIf(spaceID, current.ID, models.AStepAwaiting, map[string]interface{}{
				"approver_id":       resolved.ApproverID,
				"delegated_from_id": resolved.DelegatedFromID,
				"skipped":           resolved.Skipped,
			})
			if err != nil {
				return err
			}
			if !updated {
				return errs.New(errs.KindStaleState, "этап уже обработан, обновите данные")
			}
		}
		hStore := i.historyStore.WithTx(tx)
		_, err := hStore.Create(dbmodels.ApprovalHistory{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			RequisitionID: id,
			StepOrder:     rec.CurrentStep,
			ActorID:       userID,
			Action:        models.HActionReresolved,
		})
		if err != nil {
			return err
		}
		// указатель переводится на первый непропущенный этап новой цепочки,
		// иначе заявка застрянет на пропущенном этапе. Resolve гарантирует,
		// что хотя бы один непропущенный этап остался.
		newCurrent := approvalresolve.FirstEffectiveOrder(chain)
		if newCurrent < 0 || newCurrent == rec.CurrentStep {
			return nil
		}
		updated, err := store.CasUpdate(spaceID, id,
			map[string]interface{}{"current_step": rec.CurrentStep},
			map[string]interface{}{"current_step": newCurrent})
		if err != nil {
			return err
		}
		if !updated {
			return errs.New(errs.KindStaleState, "заявка уже продвинулась, обновите данные")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("цепочка согласования разрешена повторно")
	return nil
}

func (i impl) History(spaceID, id string) ([]requisitionapimodels.ApprovalHistoryView, error) {
	list, err := i.historyStore.List(spaceID, id)
	if err != nil {
		return nil, err
	}
	result := make([]requisitionapimodels.ApprovalHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, requisitionapimodels.ApprovalHistoryConvert(rec))
	}
	return result, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Requisition, error) {
	logger := i.getLogger(spaceID, id)
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		logger.WithError(err).Error("ошибка получения заявки")
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.KindNotFound, "заявка не найдена")
	}
	return rec, nil
}
