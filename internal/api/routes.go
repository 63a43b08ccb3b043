package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentUser)

	families := api.Group("/families", handler.AuthRequired)
	families.Get("", handler.ListFamilies)
	families.Post("", handler.CreateFamily)
	families.Post("/join", handler.JoinFamily)
	families.Get("/:familyId", handler.GetFamily)

	progress := api.Group("/progress", handler.AuthRequired)
	progress.Get("", handler.ListProgress)
	progress.Post("", handler.LogProgress)
	progress.Get("/activity", handler.GetActivity)
	progress.Get("/status", handler.GetFamilyStatus)
}
