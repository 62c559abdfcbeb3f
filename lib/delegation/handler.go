package delegation

import (
	"time"

	log "github.com/sirupsen/logrus"

	"hiring-flow-backend/db"
	delegationstore "hiring-flow-backend/lib/delegation/store"
	orgdir "hiring-flow-backend/lib/org-dir"
	delegationapimodels "hiring-flow-backend/models/api/delegation"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

// Замещение включается и выключается только самим делегирующим.
// Движок разрешения цепочки читает запись в момент разрешения и никогда не меняет ее.

type Provider interface {
	Activate(spaceID, userID string, data delegationapimodels.DelegationData) error
	Deactivate(spaceID, userID string) error
	Get(spaceID, userID string) (view *delegationapimodels.DelegationView, err error)
	// ActiveBackup возвращает замещающего, если замещение активно в данный момент
	ActiveBackup(spaceID, userID string) (backupUserID string, active bool, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:  delegationstore.NewInstance(db.DB),
		orgDir: orgdir.Instance,
	}
}

type impl struct {
	store  delegationstore.Provider
	orgDir orgdir.Provider
}

func (i impl) Activate(spaceID, userID string, data delegationapimodels.DelegationData) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	if data.BackupUserID == userID {
		return errs.New(errs.KindValidation, "нельзя назначить замещающим самого себя")
	}
	backup, err := i.orgDir.GetUser(spaceID, data.BackupUserID)
	if err != nil {
		return err
	}
	if !backup.Status.IsEligibleApprover() {
		return errs.New(errs.KindValidation, "замещающий сотрудник уволен")
	}
	now := time.Now()
	rec, err := i.store.GetByUser(spaceID, userID)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &dbmodels.Delegation{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				SpaceID: spaceID,
			},
			UserID: userID,
		}
	}
	rec.BackupUserID = data.BackupUserID
	rec.Active = true
	rec.ActivatedAt = &now
	rec.DeactivatedAt = nil
	rec.BackupUser = nil
	_, err = i.store.Save(*rec)
	if err != nil {
		logger.WithError(err).Error("ошибка включения замещения")
		return err
	}
	logger.
		WithField("backup_user_id", data.BackupUserID).
		Info("замещение включено")
	return nil
}

func (i impl) Deactivate(spaceID, userID string) error {
	logger := log.
		WithField("space_id", spaceID).
		WithField("user_id", userID)
	rec, err := i.store.GetByUser(spaceID, userID)
	if err != nil {
		return err
	}
	if rec == nil || !rec.Active {
		return errs.New(errs.KindValidation, "замещение не включено")
	}
	updMap := map[string]interface{}{
		"active":         false,
		"deactivated_at": time.Now(),
	}
	err = i.store.Update(spaceID, rec.ID, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка выключения замещения")
		return err
	}
	logger.Info("замещение выключено")
	return nil
}

func (i impl) Get(spaceID, userID string) (*delegationapimodels.DelegationView, error) {
	rec, err := i.store.GetByUser(spaceID, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view := delegationapimodels.DelegationConvert(*rec)
	return &view, nil
}

func (i impl) ActiveBackup(spaceID, userID string) (string, bool, error) {
	rec, err := i.store.GetActiveByUser(spaceID, userID)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		return "", false, nil
	}
	return rec.BackupUserID, true, nil
}
