package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "hiring-flow-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	for _, m := range []struct {
		name  string
		model interface{}
	}{
		{"Space", &dbmodels.Space{}},
		{"SpaceUser", &dbmodels.SpaceUser{}},
		{"Brand", &dbmodels.Brand{}},
		{"Store", &dbmodels.Store{}},
		{"JobPosition", &dbmodels.JobPosition{}},
		{"ManagementUnit", &dbmodels.ManagementUnit{}},
		{"ApprovalTemplate", &dbmodels.ApprovalTemplate{}},
		{"TemplateStep", &dbmodels.TemplateStep{}},
		{"Requisition", &dbmodels.Requisition{}},
		{"ApprovalStep", &dbmodels.ApprovalStep{}},
		{"ApprovalHistory", &dbmodels.ApprovalHistory{}},
		{"Candidate", &dbmodels.Candidate{}},
		{"Application", &dbmodels.Application{}},
		{"SelectionHistory", &dbmodels.SelectionHistory{}},
		{"Delegation", &dbmodels.Delegation{}},
		{"SequenceCounter", &dbmodels.SequenceCounter{}},
	} {
		if err := DB.AutoMigrate(m.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %s", m.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
