// Package fiberwiring mounts the leaflet field client bundle on a fiber app.
package fiberwiring

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/goliatone/go-leafletfield/components/assets"
)

// Register serves the bundle under basePath on router with fiber's filesystem
// middleware and returns the mount prefix. The component guard, when set,
// runs before any file lookup.
func Register(router fiber.Router, basePath string, fns ...assets.OptionFn) string {
	opts := assets.NewOptions(fns...)
	prefix := assets.MountPath(basePath, func(o *assets.Options) { *o = opts })

	handlers := []fiber.Handler{}
	if opts.Guard != nil {
		handlers = append(handlers, guardHandler(opts.Guard))
	}
	handlers = append(handlers, filesystem.New(filesystem.Config{
		Root:   http.FS(opts.Files),
		MaxAge: opts.MaxAge,
	}))

	args := []interface{}{prefix}
	for _, h := range handlers {
		args = append(args, h)
	}
	router.Use(args...)
	return prefix
}

func guardHandler(guard assets.GuardFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := adaptor.ConvertRequest(c, false)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := guard(req); err != nil {
			code := assets.GuardStatus(err)
			return c.Status(code).SendString(http.StatusText(code))
		}
		return c.Next()
	}
}
