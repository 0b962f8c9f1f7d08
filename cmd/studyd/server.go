package main

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"studyhub"
)

// server exposes the engine's operation set and read snapshots to the
// dashboard UI.
type server struct {
	engine *Engine
	sounds *soundCatalog
	l      log.Logger
}

func newServer(e *Engine, sounds *soundCatalog, h *hub, logger log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "studyd"})
	srv := &server{engine: e, sounds: sounds, l: logger}

	api := app.Group("/api")
	api.Get("/sessions", srv.listSessions)
	api.Post("/sessions", srv.createSession)
	api.Delete("/sessions/:id", srv.deleteSession)
	api.Post("/sessions/:id/toggle", srv.toggleSession)
	api.Post("/sessions/:id/reset", srv.resetSession)
	api.Post("/sessions/:id/finish", srv.finishSession)
	api.Patch("/sessions/:id", srv.patchSession)
	api.Get("/stats", srv.getStats)
	api.Put("/stats/goal", srv.putGoal)
	api.Get("/sounds", srv.listSounds)
	api.Get("/sounds/:id", srv.getSound)
	api.Put("/ambient", srv.putAmbient)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.Handle))

	return app
}

func (s *server) listSessions(c *fiber.Ctx) error {
	snap := s.engine.Snapshot()
	return c.JSON(fiber.Map{
		"sessions":           snap.Sessions,
		"activeSessionCount": snap.ActiveSessionCount,
	})
}

func (s *server) createSession(c *fiber.Ctx) error {
	var body struct {
		Title    string `json:"title"`
		CourseID string `json:"courseId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	view, err := s.engine.AddSession(c.Context(), body.Title, studyhub.CourseID(body.CourseID))
	if err != nil {
		s.l.Error("failed to create session", "err", err)
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (s *server) deleteSession(c *fiber.Ctx) error {
	s.engine.RemoveSession(c.Context(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) toggleSession(c *fiber.Ctx) error {
	s.engine.ToggleSession(c.Context(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) resetSession(c *fiber.Ctx) error {
	s.engine.ResetSession(c.Context(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) finishSession(c *fiber.Ctx) error {
	if err := s.engine.FinishSession(c.Context(), c.Params("id")); err != nil {
		s.l.Error("failed to finish session", "id", c.Params("id"), "err", err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to save course progress")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *server) patchSession(c *fiber.Ctx) error {
	var patch sessionPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	s.engine.UpdateSession(c.Context(), c.Params("id"), patch)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) getStats(c *fiber.Ctx) error {
	return c.JSON(s.engine.Snapshot().Stats)
}

func (s *server) putGoal(c *fiber.Ctx) error {
	var body struct {
		Hours float64 `json:"hours"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	s.engine.UpdateDailyGoal(c.Context(), body.Hours)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *server) listSounds(c *fiber.Ctx) error {
	return c.JSON(s.sounds.List())
}

func (s *server) getSound(c *fiber.Ctx) error {
	data := s.sounds.Data(c.Params("id"))
	if data == nil {
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(data)
}

func (s *server) putAmbient(c *fiber.Ctx) error {
	var body struct {
		Sound string `json:"sound"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Sound != "" && !s.sounds.IsAmbient(body.Sound) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown ambient sound")
	}
	s.engine.SetAmbientSound(body.Sound)
	return c.SendStatus(fiber.StatusNoContent)
}
