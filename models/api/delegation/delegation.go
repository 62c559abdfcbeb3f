package delegationapimodels

import (
	"time"

	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

type DelegationData struct {
	BackupUserID string `json:"backup_user_id"` // сотрудник, замещающий на время отсутствия
}

func (v DelegationData) Validate() error {
	if v.BackupUserID == "" {
		return errs.New(errs.KindValidation, "не указан замещающий сотрудник")
	}
	return nil
}

type DelegationView struct {
	UserID         string     `json:"user_id"`
	BackupUserID   string     `json:"backup_user_id"`
	BackupUserName string     `json:"backup_user_name"`
	Active         bool       `json:"active"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
	DeactivatedAt  *time.Time `json:"deactivated_at,omitempty"`
}

func DelegationConvert(rec dbmodels.Delegation) DelegationView {
	view := DelegationView{
		UserID:        rec.UserID,
		BackupUserID:  rec.BackupUserID,
		Active:        rec.Active,
		ActivatedAt:   rec.ActivatedAt,
		DeactivatedAt: rec.DeactivatedAt,
	}
	if rec.BackupUser != nil {
		view.BackupUserName = rec.BackupUser.GetFullName()
	}
	return view
}
