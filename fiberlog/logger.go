package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// New возвращает middleware, пишущее запись о каждом запросе api.
// Ответы со статусом 4xx/5xx пишутся уровнем Warn.
func New(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()
	d := &data{pid: os.Getpid()}
	ftm := getFuncTagMap(cfg, d)
	return func(c *fiber.Ctx) error {
		d.start = time.Now()
		err := c.Next()
		d.end = time.Now()
		if cfg.Skip(c) {
			return err
		}
		entry := requestEntry(cfg, ftm, c, d)
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			entry.Warn("запрос api")
		} else {
			entry.Info("запрос api")
		}
		return err
	}
}

func requestEntry(cfg Config, ftm map[string]FuncTag, c *fiber.Ctx, d *data) *log.Entry {
	fields := make(log.Fields, len(ftm))
	for tag, ft := range ftm {
		value := ft(c, d)
		if str, ok := value.(string); ok {
			if str == "" {
				continue
			}
			fields[tag] = str
			continue
		}
		fields[tag] = value
	}
	if cfg.Logger != nil {
		return cfg.Logger.WithFields(fields)
	}
	return log.WithFields(fields)
}
