package handler

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"narrated-slideshow/internal/logging"
)

// MaxUploadBytes bounds one multipart request.
const MaxUploadBytes = 100 << 20

// NewApp creates the fiber app with sonic JSON and JSON error bodies.
func NewApp(log *zap.SugaredLogger) *fiber.App {
	log = logging.OrNop(log)
	app := fiber.New(fiber.Config{
		AppName:     "narrated-slideshow",
		BodyLimit:   MaxUploadBytes,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Errorf("[http] %s %s -> %d: %v", c.Method(), c.Path(), code, err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	// Healthcheck endpoint
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}
