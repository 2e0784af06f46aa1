package journal

import (
	"github.com/KevinDKao/running-diary/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

func RegisterRoutes(r fiber.Router, o *Orchestrator, sessionMiddleware fiber.Handler) {
	r.Get("/plans", sessionMiddleware, func(c *fiber.Ctx) error {
		return dispatch(c, o, LoadPlans{}, fiber.StatusOK)
	})

	r.Post("/plans", sessionMiddleware, func(c *fiber.Ctx) error {
		var req CreatePlan
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		return dispatch(c, o, req, fiber.StatusCreated)
	})

	r.Delete("/plans/:id", sessionMiddleware, func(c *fiber.Ctx) error {
		return dispatch(c, o, DeletePlan{PlanID: planID(c)}, fiber.StatusOK)
	})

	r.Get("/plans/:id/grid", sessionMiddleware, func(c *fiber.Ctx) error {
		return dispatch(c, o, SelectPlan{PlanID: planID(c)}, fiber.StatusOK)
	})

	r.Get("/plans/:id/logs", sessionMiddleware, func(c *fiber.Ctx) error {
		sess, _ := session.FromCtx(c)
		logs, err := o.Logs(c.Context(), sess, planID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"logs": logs})
	})

	r.Post("/plans/:id/cells/:week/:day/click", sessionMiddleware, func(c *fiber.Ctx) error {
		week, err := c.ParamsInt("week")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "week must be a number")
		}
		day, err := c.ParamsInt("day")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "day must be a number")
		}
		var body struct {
			Clicks int `json:"clicks"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
			}
		}
		return dispatch(c, o, CellClicked{Week: week, Day: day, PlanID: planID(c), Clicks: body.Clicks}, fiber.StatusOK)
	})

	r.Get("/modal", sessionMiddleware, func(c *fiber.Ctx) error {
		sess, _ := session.FromCtx(c)
		modal, err := o.Modal(c.Context(), sess)
		if err != nil {
			return err
		}
		return c.JSON(Response{Modal: &modal})
	})

	r.Post("/modal/cancel", sessionMiddleware, func(c *fiber.Ctx) error {
		return dispatch(c, o, CancelWorkout{}, fiber.StatusOK)
	})

	r.Post("/modal/save", sessionMiddleware, func(c *fiber.Ctx) error {
		var req SaveWorkout
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		return dispatch(c, o, req, fiber.StatusOK)
	})
}

// planID copies the path parameter out of the request buffer, which Fiber
// reuses once the handler returns.
func planID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func dispatch(c *fiber.Ctx, o *Orchestrator, ev Event, status int) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing session")
	}
	resp, err := o.Dispatch(c.Context(), sess, ev)
	if IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	if err != nil {
		return err
	}
	return c.Status(status).JSON(resp)
}
