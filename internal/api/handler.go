package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

type Handlers struct {
	schema *graphql.Schema
	log    *zap.Logger
}

func NewHandlers(schema *graphql.Schema, logger *zap.Logger) *Handlers {
	return &Handlers{schema: schema, log: logger}
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *Handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) postGraphQL(c *fiber.Ctx) error {
	var req graphQLRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	return h.exec(c, req)
}

func (h *Handlers) getGraphQL(c *fiber.Ctx) error {
	req := graphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if v := c.Query("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid variables"})
		}
	}
	return h.exec(c, req)
}

func (h *Handlers) exec(c *fiber.Ctx, req graphQLRequest) error {
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}
	resp := h.schema.Exec(c.UserContext(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		h.log.Debug("graphql errors", zap.String("operation", req.OperationName), zap.Int("count", len(resp.Errors)))
	}
	return c.JSON(resp)
}
