package controller

import (
	"returns-assistant-be/internal/dto"
	"returns-assistant-be/internal/pkg/serverutils"
	"returns-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReturnsController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Refund(ctx *fiber.Ctx) error
	GetPolicies(ctx *fiber.Ctx) error
	GetAuditLog(ctx *fiber.Ctx) error
}

type returnsController struct {
	service service.IReturnsService
}

func NewReturnsController(service service.IReturnsService) IReturnsController {
	return &returnsController{service: service}
}

func (c *returnsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/returns")
	h.Post("/ask", c.Ask)
	h.Post("/search", c.Search)
	h.Post("/refund", c.Refund)
	h.Get("/policies", c.GetPolicies)
	h.Get("/audit", c.GetAuditLog)
}

func (c *returnsController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Query answered", res))
}

func (c *returnsController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Policies found", res))
}

func (c *returnsController) Refund(ctx *fiber.Ctx) error {
	var req dto.RefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Refund(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund computed", res))
}

func (c *returnsController) GetPolicies(ctx *fiber.Ctx) error {
	res, err := c.service.GetPolicies(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Policies", res))
}

func (c *returnsController) GetAuditLog(ctx *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.service.GetAuditLog(ctx.UserContext(), &q)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit log", res))
}
