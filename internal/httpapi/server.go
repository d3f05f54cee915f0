// Package httpapi exposes the migration-audit pipeline over HTTP: a
// thin Fiber layer (the teacher's go.mod already carries
// github.com/gofiber/fiber/v2) sitting in front of internal/pipeline
// and internal/store. It owns no business logic of its own — every
// handler parses a request, calls a collaborator, and serializes the
// result.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"migaudit/internal/model"
	"migaudit/internal/pipeline"
	"migaudit/internal/store"
	"migaudit/pkg/logger"
)

// shutdownGrace is how long Listen waits for in-flight requests to
// drain once ctx is cancelled, before Fiber force-closes them.
const shutdownGrace = 5 * time.Second

// Server wires the Fiber app to the pipeline controller and store.
type Server struct {
	app        *fiber.App
	controller *pipeline.Controller
	store      store.Store
	log        *logger.Logger
}

func NewServer(controller *pipeline.Controller, st store.Store) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	s := &Server{
		app:        app,
		controller: controller,
		store:      st,
		log:        logger.GetLogger().WithField("component", "httpapi"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Post("/projects", s.createProject)
	s.app.Get("/projects/:id", s.getProject)
	s.app.Get("/healthz", s.healthz)
}

// Listen starts the Fiber server, blocking until it stops or ctx is
// cancelled. On cancellation it gives in-flight requests shutdownGrace
// to drain before Fiber force-closes them; ctx itself is already Done
// by then, so a fresh deadline is used instead of ctx's own.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = s.app.ShutdownWithContext(shutdownCtx)
	}()
	return s.app.Listen(addr)
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type createProjectRequest struct {
	OldBaseURL      string `json:"oldBaseUrl"`
	NewBaseURL      string `json:"newBaseUrl"`
	OldSitemap      string `json:"oldSitemap"`
	NewSitemap      string `json:"newSitemap"`
	AnalyticsExport string `json:"analyticsExport"`
	RedirectMap     string `json:"redirectMap"`
}

// createProject creates a Project and starts the pipeline in a
// background goroutine, returning immediately with the project ID
// so a client can poll GET /projects/:id for progress.
func (s *Server) createProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.OldBaseURL == "" || req.NewBaseURL == "" || req.OldSitemap == "" || req.NewSitemap == "" {
		return fiber.NewError(fiber.StatusBadRequest, "oldBaseUrl, newBaseUrl, oldSitemap and newSitemap are required")
	}

	project := model.NewProject(uuid.NewString(), req.OldBaseURL, req.NewBaseURL, model.InputFiles{
		OldSitemap:      req.OldSitemap,
		NewSitemap:      req.NewSitemap,
		AnalyticsExport: req.AnalyticsExport,
		RedirectMap:     req.RedirectMap,
	})

	if err := s.store.Save(c.Context(), project); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to persist project")
	}

	go func(p *model.Project) {
		runCtx := context.Background()
		if err := s.controller.Run(runCtx, p); err != nil {
			s.log.WithError(err).WithField("project", p.ID).Warn("pipeline run ended with an error")
		}
	}(project)

	return c.Status(fiber.StatusAccepted).JSON(project)
}

func (s *Server) getProject(c *fiber.Ctx) error {
	id := c.Params("id")
	project, err := s.store.Load(c.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return fiber.NewError(fiber.StatusNotFound, "project not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load project")
	}
	return c.JSON(project)
}
