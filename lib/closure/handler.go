package closure

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hiring-flow-backend/db"
	candidatestore "hiring-flow-backend/lib/candidate/store"
	"hiring-flow-backend/lib/notify"
	orgdir "hiring-flow-backend/lib/org-dir"
	historystore "hiring-flow-backend/lib/requisition/history-store"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	"hiring-flow-backend/models"
	dbmodels "hiring-flow-backend/models/db"
)

// Provider - координатор закрытия пачки заявок: когда подтвержденных наймов
// набирается на всю потребность пачки, все еще опубликованные экземпляры закрываются
type Provider interface {
	OnHireConfirmed(spaceID, requisitionID, actorID string) error
}

var Instance Provider

type txRunner func(fn func(tx *gorm.DB) error) error

func NewHandler() {
	Instance = impl{
		rqStore:        requisitionstore.NewInstance(db.DB),
		candidateStore: candidatestore.NewInstance(db.DB),
		historyStore:   historystore.NewInstance(db.DB),
		orgDir:         orgdir.Instance,
		notifier:       notify.Instance,
		tx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
	}
}

type impl struct {
	rqStore        requisitionstore.Provider
	candidateStore candidatestore.Provider
	historyStore   historystore.Provider
	orgDir         orgdir.Provider
	notifier       notify.Provider
	tx             txRunner
}

func (i impl) OnHireConfirmed(spaceID, requisitionID, actorID string) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("rec_id", requisitionID)
	rec, err := i.rqStore.GetByID(spaceID, requisitionID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения заявки для проверки закрытия пачки")
		return err
	}
	if rec == nil {
		return nil
	}

	closed := []dbmodels.Requisition{}
	err = i.tx(func(tx *gorm.DB) error {
		rqStore := i.rqStore.WithTx(tx)
		hStore := i.historyStore.WithTx(tx)
		// пачка блокируется целиком, конкурирующие подтверждения найма выстраиваются в очередь
		siblings, err := rqStore.ListByBatchForUpdate(spaceID, rec.BatchID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(siblings))
		for _, sib := range siblings {
			ids = append(ids, sib.ID)
		}
		hired, err := i.candidateStore.WithTx(tx).CountHired(spaceID, ids)
		if err != nil {
			return err
		}
		if hired < int64(rec.TotalHeadcount) {
			return nil
		}
		for _, sib := range siblings {
			if sib.Status != models.RqStatusPublished {
				// уже закрытые и отмененные экземпляры не трогаем, повторный вызов безвреден
				continue
			}
			updated, err := rqStore.CasUpdate(spaceID, sib.ID,
				map[string]interface{}{"status": models.RqStatusPublished},
				map[string]interface{}{
					"status":         models.RqStatusClosed,
					"closure_reason": models.ClosureHeadcountFilled,
				})
			if err != nil {
				return err
			}
			if !updated {
				continue
			}
			_, err = hStore.Create(dbmodels.ApprovalHistory{
				BaseSpaceModel: dbmodels.BaseSpaceModel{
					SpaceID: spaceID,
				},
				RequisitionID: sib.ID,
				StepOrder:     -1,
				ActorID:       actorID,
				Action:        models.HActionClosed,
				Reason:        "потребность пачки набрана",
			})
			if err != nil {
				return err
			}
			closed = append(closed, sib)
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка закрытия пачки заявок")
		return err
	}
	if len(closed) == 0 {
		return nil
	}
	logger.
		WithField("batch_id", rec.BatchID).
		WithField("count", len(closed)).
		Info("пачка заявок закрыта по набору потребности")
	i.notifyClosed(spaceID, closed)
	return nil
}

func (i impl) notifyClosed(spaceID string, closed []dbmodels.Requisition) {
	if i.notifier == nil {
		return
	}
	for _, rec := range closed {
		event := notify.Event{
			Type:            notify.EventRequisitionClosed,
			SpaceID:         spaceID,
			RequisitionID:   rec.ID,
			RequisitionCode: rec.Code,
			Reason:          "потребность пачки набрана",
		}
		if author, err := i.orgDir.GetUser(spaceID, rec.AuthorID); err == nil && author != nil {
			event.RecipientEmail = author.Email
			event.RecipientName = author.GetFullName()
		}
		i.notifier.Emit(event)
	}
}
