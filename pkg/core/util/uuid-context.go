package util

import (
	"context"

	"shanchuan/pkg/core/consts"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
)

func Context(c *fiber.Ctx) context.Context {

	ctx := c.UserContext()
	if ctx.Value(consts.TraceKey) == nil {
		return context.WithValue(context.Background(), consts.TraceKey, uuid.NewV4().String())
	}
	return ctx
}
