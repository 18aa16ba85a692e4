package handler

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"narrated-slideshow/internal/domain/asset"
	"narrated-slideshow/internal/logging"
	"narrated-slideshow/internal/usecase"
	ucpipe "narrated-slideshow/internal/usecase/pipeline"
)

// Publisher copies a finished video somewhere else and returns a shareable link.
type Publisher interface {
	UploadFile(ctx context.Context, localPath string) (id, link string, err error)
}

// VideoHandler bundles dependencies for the video generation route.
type VideoHandler struct {
	uc        usecase.UseCase[ucpipe.GenerateVideoInput, ucpipe.GenerateVideoOutput]
	store     asset.Store
	outputDir string
	publisher Publisher
	log       *zap.SugaredLogger
}

// NewVideoHandler wires the handler. publisher may be nil.
func NewVideoHandler(uc usecase.UseCase[ucpipe.GenerateVideoInput, ucpipe.GenerateVideoOutput], store asset.Store, outputDir string, publisher Publisher, log *zap.SugaredLogger) *VideoHandler {
	return &VideoHandler{uc: uc, store: store, outputDir: outputDir, publisher: publisher, log: logging.OrNop(log)}
}

// Register registers routes to app.
func (h *VideoHandler) Register(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello World"})
	})
	app.Post("/generate-video", h.generateVideo)
}

func (h *VideoHandler) generateVideo(c *fiber.Ctx) error {
	text := c.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "at least one image is required")
	}

	var imagePaths []string
	// the pipeline removes these too; Remove is idempotent
	defer func() {
		for _, p := range imagePaths {
			if err := h.store.Remove(p); err != nil {
				h.log.Warnf("[handler] remove upload %s: %v", p, err)
			}
		}
	}()
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable upload "+fh.Filename)
		}
		p, err := h.store.Save(f, fh.Filename)
		f.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		imagePaths = append(imagePaths, p)
	}

	outputName := uuid.NewString() + ".mp4"
	h.log.Infof("[handler] generateVideo images=%d output=%s", len(imagePaths), outputName)
	out, err := h.uc.Execute(c.UserContext(), &ucpipe.GenerateVideoInput{
		Text:       text,
		Images:     imagePaths,
		OutputPath: filepath.Join(h.outputDir, outputName),
	})
	if err != nil {
		h.log.Errorf("[handler] generateVideo failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	resp := fiber.Map{
		"message": "Video created successfully",
		"output":  "/static/output/" + filepath.Base(out.VideoPath),
	}
	if h.publisher != nil {
		if _, link, err := h.publisher.UploadFile(c.UserContext(), out.VideoPath); err != nil {
			h.log.Warnf("[handler] drive upload failed: %v", err)
		} else if link != "" {
			resp["drive_link"] = link
		}
	}
	return c.JSON(resp)
}
