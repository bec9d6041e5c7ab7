package rest

import (
	"context"
	"errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"heroimage/api/model"
	"heroimage/azure"
	"heroimage/converter"
	"heroimage/service"
	"heroimage/shared/log"
	"net/http"
	"os"
	"time"
)

type ImageGenerator interface {
	Generate(ctx context.Context, params service.GenerateParams) (*service.Result, error)
}

type ImageController struct {
	root    string
	timeout time.Duration
	service ImageGenerator
	logger  *zap.Logger
}

func NewImageController(app *fiber.App, root string, timeout time.Duration, service ImageGenerator, logger *zap.Logger) *ImageController {
	i := &ImageController{root: root, timeout: timeout, service: service, logger: logger}

	app.Get("/images/:type/:slug", i.Show)
	app.Post("/images/:type/:slug", i.Generate)

	return i
}

// Show streams the stored hero image for a piece of content.
func (i *ImageController) Show(c *fiber.Ctx) error {
	_, path, err := i.contentPath(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fiber.ErrNotFound
	}

	c.Type(converter.WEBP.String())
	c.Set("Cache-Control", "no-cache")
	return c.SendFile(path)
}

// Generate (re)creates the hero image for a piece of content.
func (i *ImageController) Generate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), i.timeout)
	defer cancel()
	logger := log.LoggerWithTrace(ctx, i.logger)

	contentType, path, err := i.contentPath(c)
	if err != nil {
		return err
	}

	body := model.GenerateBody{}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if body.Prompt == "" {
		return fiber.NewError(fiber.StatusBadRequest, "prompt is required")
	}
	if body.Size == "" {
		body.Size = model.DefaultSize
	}
	if body.Quality.String() == "" {
		body.Quality = model.QualityHigh
	}

	result, err := i.service.Generate(ctx, service.GenerateParams{
		Request: model.GenerationRequest{Prompt: body.Prompt, Size: body.Size, Quality: body.Quality},
		Output:  path,
		Format:  converter.WEBP,
		Key:     model.ContentKey(contentType, c.Params("slug")),
	})
	if err != nil {
		logger.Error("Error generating image", zap.Error(err))
		return toFiberError(err)
	}

	return c.Status(http.StatusCreated).JSON(model.GenerateResult{
		Path:     result.Path,
		Format:   result.Format.String(),
		Bytes:    result.Bytes,
		Location: result.Location,
	})
}

func (i *ImageController) contentPath(c *fiber.Ctx) (model.ContentType, string, error) {
	contentType, err := model.ContentTypeFromString(c.Params("type"))
	if err != nil {
		return model.ContentType{}, "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	path, err := model.ContentPath(i.root, contentType, c.Params("slug"))
	if err != nil {
		return model.ContentType{}, "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return contentType, path, nil
}

func toFiberError(err error) error {
	var apiErr *azure.APIError
	switch {
	case errors.As(err, &apiErr) && errors.Is(err, azure.ErrBadRequest):
		return fiber.NewError(fiber.StatusUnprocessableEntity, apiErr.Error())
	case errors.Is(err, azure.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}
