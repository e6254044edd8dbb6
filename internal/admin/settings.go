package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const settingsRoute = "/admin/settings"

func (h *Handler) Settings(c *fiber.Ctx) error {
	return h.renderSettings(c, nil, nil, nil)
}

func (h *Handler) renderSettings(c *fiber.Ctx, profile *forms.ProfileForm, profileErrs, passwordErrs forms.Errors) error {
	if profile == nil {
		p := forms.FromProfile(*web.Req(c).User)
		profile = &p
	}
	return h.render(c, rbac.AreaSettings, "admin/settings", "Settings", fiber.Map{
		"Subtitle":       "Your account",
		"Form":           profile,
		"Errors":         profileErrs,
		"PasswordErrors": passwordErrs,
	})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var form forms.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderSettings(c, &form, errs, nil)
	}

	if _, err := h.srv.Portal(c).UpdateProfile(c.UserContext(), form.Payload()); err != nil {
		h.srv.SetFlash(c, web.Failure("Profile not saved", contentapi.Message(err)))
		return c.Redirect(settingsRoute, fiber.StatusSeeOther)
	}
	h.srv.SetFlash(c, web.Success("Profile saved", ""))
	return c.Redirect(settingsRoute, fiber.StatusSeeOther)
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var form forms.PasswordChange
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderSettings(c, nil, nil, errs)
	}

	if err := h.srv.Portal(c).ChangePassword(c.UserContext(), form.Payload()); err != nil {
		h.srv.SetFlash(c, web.Failure("Password not changed", contentapi.Message(err)))
		return c.Redirect(settingsRoute, fiber.StatusSeeOther)
	}
	h.srv.SetFlash(c, web.Success("Password changed", ""))
	return c.Redirect(settingsRoute, fiber.StatusSeeOther)
}
