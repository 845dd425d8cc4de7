// Package web serves the embedded map page. The page is the out-of-core map
// surface: it consumes the view API verbatim and owns the tile base layer and
// widget wiring.
package web

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var indexHTML []byte

// RegisterRoutes mounts the map page at the site root.
func RegisterRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(indexHTML)
	})
}
