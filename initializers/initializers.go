package initializers

import (
	"context"

	"hiring-flow-backend/config"
	"hiring-flow-backend/fiberlog"
	approvalresolve "hiring-flow-backend/lib/approval-resolve"
	approvaltemplatehandler "hiring-flow-backend/lib/approval-template"
	candidatehandler "hiring-flow-backend/lib/candidate"
	"hiring-flow-backend/lib/closure"
	delegationhandler "hiring-flow-backend/lib/delegation"
	"hiring-flow-backend/lib/notify"
	orgdir "hiring-flow-backend/lib/org-dir"
	requisitionhandler "hiring-flow-backend/lib/requisition"
	"hiring-flow-backend/lib/sequence"
	"hiring-flow-backend/lib/watcher"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	notify.NewHandler()
	orgdir.NewHandler()
	delegationhandler.NewHandler()
	approvalresolve.NewHandler()
	sequence.NewHandler()
	approvaltemplatehandler.NewHandler()
	requisitionhandler.NewHandler()
	closure.NewHandler()
	candidatehandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача поиска заявок, зависших на согласовании
	watcher.StartWorker(ctx)
}
