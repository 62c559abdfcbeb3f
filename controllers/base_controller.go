package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hiring-flow-backend/middleware"
	apimodels "hiring-flow-backend/models/api"
	"hiring-flow-backend/models/errs"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан идентификатор записи (%v)", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("space_id", middleware.GetUserSpace(ctx)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("path", ctx.Path())
}

var kindHTTPStatus = map[errs.Kind]int{
	errs.KindValidation:       fiber.StatusBadRequest,
	errs.KindAuthorization:    fiber.StatusForbidden,
	errs.KindNotFound:         fiber.StatusNotFound,
	errs.KindStaleState:       fiber.StatusConflict,
	errs.KindInvariant:        fiber.StatusConflict,
	errs.KindAlreadyConfirmed: fiber.StatusConflict,
	errs.KindResolution:       fiber.StatusUnprocessableEntity,
}

// SendError преобразует вид ошибки в http-статус, неклассифицированные ошибки
// логируются и уходят клиенту обезличенным сообщением
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	kind := errs.KindOf(err)
	if kind == "" {
		logger.WithError(err).Error(hMsg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
	}
	status, ok := kindHTTPStatus[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return ctx.Status(status).JSON(apimodels.NewKindError(string(kind), err.Error()))
}
