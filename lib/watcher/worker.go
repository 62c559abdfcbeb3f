package watcher

import (
	"context"
	"time"

	"hiring-flow-backend/config"
	"hiring-flow-backend/db"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	baseworker "hiring-flow-backend/lib/utils/base-worker"
)

// фоновая проверка зависших на согласовании заявок

const workerName = "pending-requisition-watcher"

type worker struct {
	*baseworker.BaseImpl
	store requisitionstore.Provider
}

func StartWorker(ctx context.Context) {
	w := worker{
		BaseImpl: baseworker.NewInstance(
			workerName,
			time.Duration(config.Conf.Watcher.FirstDelaySec)*time.Second,
			time.Duration(config.Conf.Watcher.RunIntervalMin)*time.Minute,
		),
		store: requisitionstore.NewInstance(db.DB),
	}
	w.Run(ctx, w.job)
}

func (w worker) job(_ context.Context) {
	logger := w.GetLogger()
	moment := time.Now().AddDate(0, 0, -config.Conf.Watcher.PendingDays)
	list, err := w.store.ListPendingOlderThan(moment)
	if err != nil {
		logger.WithError(err).Error("Ошибка выборки зависших заявок")
		return
	}
	for _, rec := range list {
		logger.
			WithField("space_id", rec.SpaceID).
			WithField("rec_id", rec.ID).
			WithField("code", rec.Code).
			WithField("current_step", rec.CurrentStep).
			WithField("pending_since", rec.CreatedAt).
			Warn("Заявка слишком долго ожидает согласования")
	}
}
