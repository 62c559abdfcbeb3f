package dbmodels

// SequenceCounter - счетчик кодов в пределах области (бренд+год для заявок, общий для кандидатов).
// Области независимы между пространствами, нумерация одного пространства не видна другому.
// Инкремент выполняется только в транзакции c блокировкой строки.
type SequenceCounter struct {
	SpaceID string `gorm:"primaryKey;type:varchar(36)"`
	Scope   string `gorm:"primaryKey;type:varchar(100)"`
	Value   int64
}
