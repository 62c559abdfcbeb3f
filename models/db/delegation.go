package dbmodels

import "time"

// Delegation - замещение согласующего на время отсутствия.
// Запись принадлежит делегирующему, читается только на этапе разрешения цепочки,
// уже разрешенные этапы задним числом не меняются.
type Delegation struct {
	BaseSpaceModel
	UserID        string `gorm:"type:varchar(36);uniqueIndex"`
	BackupUserID  string     `gorm:"type:varchar(36)"`
	BackupUser    *SpaceUser `gorm:"foreignKey:BackupUserID"`
	Active        bool
	ActivatedAt   *time.Time
	DeactivatedAt *time.Time
}
