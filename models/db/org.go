package dbmodels

// Орг. справочник ведется внешней подсистемой, здесь только чтение

type Brand struct {
	BaseSpaceModel
	Name string `gorm:"type:varchar(255)"`
	Code string `gorm:"type:varchar(10)"` // префикс для нумерации заявок
}

type Store struct {
	BaseSpaceModel
	BrandID string `gorm:"type:varchar(36);index"`
	Brand   *Brand
	Name    string `gorm:"type:varchar(255)"`
	Address string `gorm:"type:varchar(255)"`
}

type JobPosition struct {
	BaseSpaceModel
	Name string `gorm:"type:varchar(255)"`
	Area string `gorm:"type:varchar(255)"`
}

type ManagementUnit struct {
	BaseSpaceModel
	Name     string  `gorm:"type:varchar(255)"`
	ParentID *string `gorm:"type:varchar(36)"`
}
