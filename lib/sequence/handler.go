package sequence

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hiring-flow-backend/db"
	sequencestore "hiring-flow-backend/lib/sequence/store"
)

// FallbackSuffix помечает код, выданный резервным путем без гарантии уникальности
const FallbackSuffix = "-FB"

// CountFunc считает уже существующие записи области для резервной выдачи кода
type CountFunc func() (int64, error)

type Provider interface {
	// NextCode выдает следующий код области в формате PREFIX-NNNNN.
	// fallback=true означает выдачу резервным путем, такой код нельзя молча считать уникальным.
	NextCode(spaceID, scope, prefix string, countExisting CountFunc) (code string, fallback bool, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: sequencestore.NewInstance(db.DB),
	}
}

type impl struct {
	store sequencestore.Provider
}

func (i impl) NextCode(spaceID, scope, prefix string, countExisting CountFunc) (string, bool, error) {
	logger := log.
		WithField("space_id", spaceID).
		WithField("scope", scope)
	value, err := i.store.NextValue(spaceID, scope)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// проигравший гонку создания строки счетчика повторяет попытку:
		// строка уже существует, FOR UPDATE сериализует инкремент
		value, err = i.store.NextValue(spaceID, scope)
	}
	if err == nil {
		return FormatCode(prefix, value), false, nil
	}
	logger.WithError(err).Error("Счетчик недоступен, выдача кода резервным путем")
	if countExisting == nil {
		return "", false, err
	}
	count, cntErr := countExisting()
	if cntErr != nil {
		return "", false, errors.Wrap(cntErr, "ошибка подсчета записей для резервной выдачи кода")
	}
	code := FormatCode(prefix, count+1) + FallbackSuffix
	logger.
		WithField("code", code).
		Warn("Выдан резервный код, уникальность не гарантирована")
	return code, true, nil
}

func FormatCode(prefix string, value int64) string {
	return fmt.Sprintf("%s-%05d", prefix, value)
}
