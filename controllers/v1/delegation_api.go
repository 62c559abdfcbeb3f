package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"hiring-flow-backend/controllers"
	delegationhandler "hiring-flow-backend/lib/delegation"
	"hiring-flow-backend/middleware"
	apimodels "hiring-flow-backend/models/api"
	delegationapimodels "hiring-flow-backend/models/api/delegation"
)

type delegationApiController struct {
	controllers.BaseAPIController
}

func InitDelegationApiRouters(app *fiber.App) {
	controller := delegationApiController{}
	app.Route("delegation", func(router fiber.Router) {
		router.Get("", controller.get)
		router.Put("activate", controller.activate)
		router.Put("deactivate", controller.deactivate)
	})
}

// @Summary Текущее замещение
// @Tags Замещение
// @Description Настройка замещения текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=delegationapimodels.DelegationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation [get]
func (c *delegationApiController) get(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := delegationhandler.Instance.Get(spaceID, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения замещения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Включение замещения
// @Tags Замещение
// @Description Включение замещения, новые этапы согласования назначаются замещающему
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 delegationapimodels.DelegationData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation/activate [put]
func (c *delegationApiController) activate(ctx *fiber.Ctx) error {
	var payload delegationapimodels.DelegationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err := delegationhandler.Instance.Activate(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка включения замещения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Выключение замещения
// @Tags Замещение
// @Description Выключение замещения текущего пользователя
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/delegation/deactivate [put]
func (c *delegationApiController) deactivate(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err := delegationhandler.Instance.Deactivate(spaceID, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выключения замещения")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
