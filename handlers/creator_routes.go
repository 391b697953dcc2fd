package handlers

import (
	"rise-platform/middleware"
	"rise-platform/models"
	"rise-platform/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type creatorHandler struct {
	svc    *services.CreatorService
	logger *zap.Logger
}

// SetupCreatorRoutes mounts /creators. Every route requires an authenticated user;
// challenge creation additionally requires ADMIN or COUNCIL.
func SetupCreatorRoutes(app fiber.Router, svc *services.CreatorService, auth fiber.Handler, logger *zap.Logger) {
	h := &creatorHandler{svc: svc, logger: logger.Named("creator_routes")}
	secured := app.Group("/creators", auth)

	secured.Post("/artifacts", h.createArtifact)
	secured.Get("/artifacts", h.listArtifacts)
	secured.Get("/artifacts/mine", h.myArtifacts)
	secured.Get("/artifacts/:id", h.getArtifact)
	secured.Put("/artifacts/:id", h.updateArtifact)
	secured.Delete("/artifacts/:id", h.deleteArtifact)
	secured.Post("/artifacts/:id/file", h.uploadArtifactFile)

	secured.Post("/challenges", middleware.RequireRoles(models.RoleAdmin, models.RoleCouncil), h.createChallenge)
	secured.Get("/challenges", h.listChallenges)
	secured.Get("/challenges/:id", h.getChallenge)
	secured.Get("/challenges/:id/submissions", h.challengeSubmissions)

	secured.Post("/submissions", h.submit)
	secured.Get("/submissions", h.mySubmissions)
	secured.Get("/submissions/:id", h.getSubmission)
}

func (h *creatorHandler) fail(c *fiber.Ctx, err error) error {
	return respondError(c, h.logger, err)
}

func (h *creatorHandler) createArtifact(c *fiber.Ctx) error {
	var in services.ArtifactInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.svc.CreateArtifact(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *creatorHandler) listArtifacts(c *fiber.Ctx) error {
	artifacts, err := h.svc.ListArtifacts(c.UserContext(), services.ArtifactFilter{
		CreatorID: c.Query("creator_id"),
		Type:      models.ArtifactType(c.Query("type")),
		Status:    models.ArtifactStatus(c.Query("status")),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(artifacts)
}

func (h *creatorHandler) myArtifacts(c *fiber.Ctx) error {
	artifacts, err := h.svc.ListArtifacts(c.UserContext(), services.ArtifactFilter{CreatorID: middleware.UserID(c)})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(artifacts)
}

func (h *creatorHandler) getArtifact(c *fiber.Ctx) error {
	a, err := h.svc.GetArtifact(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *creatorHandler) updateArtifact(c *fiber.Ctx) error {
	var patch services.ArtifactPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	a, err := h.svc.UpdateArtifact(c.UserContext(), middleware.UserID(c), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *creatorHandler) deleteArtifact(c *fiber.Ctx) error {
	if err := h.svc.DeleteArtifact(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *creatorHandler) uploadArtifactFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	a, err := h.svc.AttachArtifactFile(c.UserContext(), middleware.UserID(c), c.Params("id"),
		fh.Filename, fh.Header.Get(fiber.HeaderContentType), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(a)
}

func (h *creatorHandler) createChallenge(c *fiber.Ctx) error {
	var in services.ChallengeInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ch, err := h.svc.CreateChallenge(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ch)
}

type challengeSummary struct {
	models.CreatorChallenge
	SubmissionCount int `json:"submissionCount"`
}

func (h *creatorHandler) listChallenges(c *fiber.Ctx) error {
	challenges, err := h.svc.ListChallenges(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]challengeSummary, 0, len(challenges))
	for _, ch := range challenges {
		n := len(ch.Submissions)
		ch.Submissions = nil
		out = append(out, challengeSummary{CreatorChallenge: ch, SubmissionCount: n})
	}
	return c.JSON(out)
}

func (h *creatorHandler) getChallenge(c *fiber.Ctx) error {
	ch, err := h.svc.GetChallenge(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ch)
}

func (h *creatorHandler) challengeSubmissions(c *fiber.Ctx) error {
	subs, err := h.svc.ChallengeSubmissions(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(subs)
}

func (h *creatorHandler) submit(c *fiber.Ctx) error {
	var in services.SubmissionInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sub, err := h.svc.Submit(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *creatorHandler) mySubmissions(c *fiber.Ctx) error {
	subs, err := h.svc.ListSubmissions(c.UserContext(), services.SubmissionFilter{CreatorID: middleware.UserID(c)})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(subs)
}

func (h *creatorHandler) getSubmission(c *fiber.Ctx) error {
	sub, err := h.svc.GetSubmission(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sub)
}
