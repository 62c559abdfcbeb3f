package apiv1

import (
	"github.com/gofiber/fiber/v2"

	candidatehandler "hiring-flow-backend/lib/candidate"
	"hiring-flow-backend/controllers"
	"hiring-flow-backend/middleware"
	apimodels "hiring-flow-backend/models/api"
	candidateapimodels "hiring-flow-backend/models/api/candidate"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(app *fiber.App) {
	controller := candidateApiController{}
	app.Route("candidate", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("history", controller.history)
			idRoute.Post("application", controller.addApplication)
			idRoute.Route("application/:applicationId", func(appRoute fiber.Router) {
				appRoute.Put("complete", controller.complete)
				appRoute.Put("approve", controller.approve)
				appRoute.Put("reject", controller.reject)
				appRoute.Put("confirm_hire", controller.confirmHire)
				appRoute.Put("confirm_not_hired", controller.confirmNotHired)
				appRoute.Get("check_select", controller.checkSelect)
			})
			idRoute.Put("select", controller.selectApplication)
			idRoute.Put("select_override", controller.selectOverride)
		})
	})
}

// @Summary Создание кандидата
// @Tags Кандидат
// @Description Создание кандидата с первым откликом на опубликованную заявку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.CandidateCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate [post]
func (c *candidateApiController) create(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := candidatehandler.Instance.Create(spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список кандидатов
// @Tags Кандидат
// @Description Список кандидатов с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.CandidateFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/list [post]
func (c *candidateApiController) list(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := candidatehandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка кандидатов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Получение кандидата
// @Tags Кандидат
// @Description Получение кандидата со всеми откликами
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	result, err := candidatehandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary История действий по кандидату
// @Tags Кандидат
// @Description История действий по кандидату
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]candidateapimodels.SelectionHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/history [get]
func (c *candidateApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	result, err := candidatehandler.Instance.History(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Добавление отклика
// @Tags Кандидат
// @Description Добавление отклика кандидата на опубликованную заявку
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.ApplicationData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application [post]
func (c *candidateApiController) addApplication(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.ApplicationData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	appID, err := candidatehandler.Instance.AddApplication(spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления отклика")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(appID))
}

// @Summary Анкета заполнена
// @Tags Кандидат
// @Description Перевод отклика в статус "анкета заполнена"
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/complete [put]
func (c *candidateApiController) complete(ctx *fiber.Ctx) error {
	return c.advance(ctx, candidatehandler.Instance.CompleteApplication, "Ошибка перевода отклика")
}

// @Summary Одобрение отклика
// @Tags Кандидат
// @Description Одобрение отклика, кандидат становится доступен для выбора
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/approve [put]
func (c *candidateApiController) approve(ctx *fiber.Ctx) error {
	return c.advance(ctx, candidatehandler.Instance.ApproveApplication, "Ошибка одобрения отклика")
}

func (c *candidateApiController) advance(ctx *fiber.Ctx, op func(spaceID, candidateID, applicationID, userID string) error, hMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	appID, err := c.GetIDByKey(ctx, "applicationId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	if err = op(spaceID, id, appID, userID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонение отклика
// @Tags Кандидат
// @Description Отклонение отклика, выбор кандидата снимается если отклонен выбранный отклик
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	 candidateapimodels.RejectData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/reject [put]
func (c *candidateApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	appID, err := c.GetIDByKey(ctx, "applicationId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.RejectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = candidatehandler.Instance.RejectApplication(spaceID, id, appID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения отклика")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Проверка конфликта выбора
// @Tags Кандидат
// @Description Возвращает дескриптор конфликта выбора без изменения состояния
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.SelectConflictView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/check_select [get]
func (c *candidateApiController) checkSelect(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	appID, err := c.GetIDByKey(ctx, "applicationId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	spaceID := middleware.GetUserSpace(ctx)
	result, err := candidatehandler.Instance.CheckSelect(spaceID, id, appID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки конфликта выбора")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Выбор кандидата
// @Tags Кандидат
// @Description Выбор кандидата для найма по отклику, при конфликте возвращается ошибка,
// @Description перенос выбора выполняется отдельным запросом select_override
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.SelectData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/select [put]
func (c *candidateApiController) selectApplication(ctx *fiber.Ctx) error {
	return c.doSelect(ctx, candidatehandler.Instance.Select, "Ошибка выбора кандидата")
}

// @Summary Перенос выбора кандидата
// @Tags Кандидат
// @Description Явный перенос выбора на другой отклик, прежний отклик отклоняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.SelectData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/select_override [put]
func (c *candidateApiController) selectOverride(ctx *fiber.Ctx) error {
	return c.doSelect(ctx, candidatehandler.Instance.SelectWithOverride, "Ошибка переноса выбора кандидата")
}

func (c *candidateApiController) doSelect(ctx *fiber.Ctx, op func(spaceID, candidateID, userID string, data candidateapimodels.SelectData) error, hMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.SelectData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	if err = op(spaceID, id, userID, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Подтверждение найма
// @Tags Кандидат
// @Description Фиксация выхода кандидата, решение принимается один раз
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.ConfirmHireData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/confirm_hire [put]
func (c *candidateApiController) confirmHire(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	appID, err := c.GetIDByKey(ctx, "applicationId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.ConfirmHireData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = candidatehandler.Instance.ConfirmHire(spaceID, id, appID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подтверждения найма")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Фиксация невыхода
// @Tags Кандидат
// @Description Фиксация невыхода кандидата, решение принимается один раз
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 candidateapimodels.ConfirmNotHiredData	true	"request body"
// @Param   id          		path    string  true    "rec ID"
// @Param   applicationId   	path    string  true    "application rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate/{id}/application/{applicationId}/confirm_not_hired [put]
func (c *candidateApiController) confirmNotHired(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	appID, err := c.GetIDByKey(ctx, "applicationId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.ConfirmNotHiredData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = candidatehandler.Instance.ConfirmNotHired(spaceID, id, appID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка фиксации невыхода")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
