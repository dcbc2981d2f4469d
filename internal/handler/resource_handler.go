package handler

import (
	"bytes"
	"errors"

	"warehouse-inventory-api/internal/middleware"
	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResourceHandler serves the five CRUD routes and the lookups of one resource.
type ResourceHandler struct {
	service service.ResourceService
	log     *zap.Logger
}

func NewResourceHandler(s service.ResourceService, log *zap.Logger) *ResourceHandler {
	return &ResourceHandler{service: s, log: log.With(zap.String("resource", s.Resource().Key))}
}

// Register binds the routes relative to r, which is mounted at /api/<key>.
func (h *ResourceHandler) Register(r fiber.Router) {
	res := h.service.Resource()

	var byID, withBody []fiber.Handler
	if res.IDFormat != model.IDAny {
		byID = append(byID, middleware.ValidateID(res.IDFormat, "id"))
	}
	if res.RequireBody {
		withBody = append(withBody, middleware.RequireBody())
	}

	r.Get("/", h.List)
	for _, lk := range res.Lookups {
		r.Get(lk.Path, h.lookup(lk))
	}
	r.Get("/:id", chain(byID, h.Get)...)
	r.Post("/", chain(withBody, h.Create)...)
	r.Put("/:id", chain(append(append([]fiber.Handler{}, byID...), withBody...), h.Update)...)
	r.Delete("/:id", chain(byID, h.Delete)...)
}

func chain(pre []fiber.Handler, final fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(pre)+1)
	out = append(out, pre...)
	return append(out, final)
}

func (h *ResourceHandler) List(c *fiber.Ctx) error {
	rows, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if rows == nil {
		rows = []model.Record{}
	}
	return c.JSON(rows)
}

func (h *ResourceHandler) lookup(lk model.Lookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := h.service.ListBy(c.UserContext(), lk.Field, c.Params(lk.Param))
		if err != nil {
			return h.fail(c, err)
		}
		if rows == nil {
			rows = []model.Record{}
		}
		return c.JSON(rows)
	}
}

func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	row, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(row)
}

func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	row, err := h.service.Create(c.UserContext(), body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	body, err := parseBody(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	row, err := h.service.Replace(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(row)
}

// Delete reports success for ids that do not exist.
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.service.Resource().DeletedMessage()})
}

// parseBody decodes a JSON object body. An absent body is an empty record.
func parseBody(c *fiber.Ctx) (model.Record, error) {
	raw := bytes.TrimSpace(c.Body())
	if len(raw) == 0 {
		return model.Record{}, nil
	}
	var body model.Record
	if err := c.App().Config().JSONDecoder(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		body = model.Record{}
	}
	return body, nil
}

func (h *ResourceHandler) fail(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": h.service.Resource().NotFoundMessage()})
	default:
		h.log.Error("store call failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
