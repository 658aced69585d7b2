package api

import "github.com/gofiber/fiber/v2"

// Route registers a feature's endpoints on the app.
type Route interface {
	Setup(app *fiber.App)
}
