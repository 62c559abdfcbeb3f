package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Config настраивает запись запросов api в лог
type Config struct {
	// Logger - целевой логгер; nil означает стандартный логгер logrus
	Logger *logrus.Logger
	// Tags - набор полей записи, см. константы в tags.go
	Tags []string
	// Skip пропускает запрос без записи в лог
	Skip func(c *fiber.Ctx) bool
}

func (cfg Config) withDefaults() Config {
	if len(cfg.Tags) == 0 {
		cfg.Tags = []string{TagStatus, TagLatency, TagMethod, TagPath}
	}
	if cfg.Skip == nil {
		// preflight-запросы не несут полезной нагрузки
		cfg.Skip = func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		}
	}
	return cfg
}
