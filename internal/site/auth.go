package site

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

func (h *Handler) LoginForm(c *fiber.Ctx) error {
	if u := web.Req(c).User; u != nil {
		return c.Redirect(rbac.LandingRoute(u.Role))
	}
	return h.renderLogin(c, forms.LoginForm{Next: c.Query("next")}, nil, "")
}

func (h *Handler) renderLogin(c *fiber.Ctx, form forms.LoginForm, errs forms.Errors, failure string) error {
	return h.render(c, "site/login", fiber.Map{
		"Menu":    h.menu(c),
		"Form":    form,
		"Errors":  errs,
		"Failure": failure,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderLogin(c, form, errs, "")
	}

	session, err := h.srv.Portal(c).Login(c.UserContext(), form.Credentials())
	if err != nil {
		logger.Get().Info().Err(err).Str("ip", c.IP()).Msg("Login failed")
		c.Status(fiber.StatusUnauthorized)
		return h.renderLogin(c, form, nil, contentapi.Message(err))
	}

	return c.Redirect(web.SafeRedirect(form.Next, rbac.LandingRoute(session.User.Role)))
}

func (h *Handler) RegisterForm(c *fiber.Ctx) error {
	return h.renderRegister(c, forms.RegisterForm{}, nil, "")
}

func (h *Handler) renderRegister(c *fiber.Ctx, form forms.RegisterForm, errs forms.Errors, failure string) error {
	form.Password, form.ConfirmPassword = "", ""
	return h.render(c, "site/register", fiber.Map{
		"Menu":    h.menu(c),
		"Form":    form,
		"Errors":  errs,
		"Failure": failure,
	})
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var form forms.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderRegister(c, form, errs, "")
	}

	if _, err := h.srv.Portal(c).Register(c.UserContext(), form.Credentials()); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.renderRegister(c, form, nil, contentapi.Message(err))
	}
	return c.Redirect("/")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.srv.Portal(c).Logout(c.UserContext()); err != nil {
		logger.Get().Debug().Err(err).Msg("Logout call failed")
	}
	return c.Redirect("/")
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	user := web.Req(c).User
	if user == nil {
		return c.Redirect("/auth/login?next=" + url.QueryEscape("/profile"))
	}
	return h.renderProfile(c, forms.FromProfile(*user), nil, nil)
}

func (h *Handler) renderProfile(c *fiber.Ctx, form forms.ProfileForm, errs, passwordErrs forms.Errors) error {
	return h.render(c, "site/profile", fiber.Map{
		"Menu":           h.menu(c),
		"Form":           form,
		"Errors":         errs,
		"PasswordErrors": passwordErrs,
	})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	user := web.Req(c).User
	if user == nil {
		return c.Redirect("/auth/login?next=" + url.QueryEscape("/profile"))
	}

	var form forms.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderProfile(c, form, errs, nil)
	}

	if _, err := h.srv.Portal(c).UpdateProfile(c.UserContext(), form.Payload()); err != nil {
		h.srv.SetFlash(c, web.Failure("Profile not saved", contentapi.Message(err)))
	} else {
		h.srv.SetFlash(c, web.Success("Profile updated", ""))
	}
	return c.Redirect("/profile")
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	user := web.Req(c).User
	if user == nil {
		return c.Redirect("/auth/login?next=" + url.QueryEscape("/profile"))
	}

	var form forms.PasswordChange
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderProfile(c, forms.FromProfile(*user), nil, errs)
	}

	if err := h.srv.Portal(c).ChangePassword(c.UserContext(), form.Payload()); err != nil {
		h.srv.SetFlash(c, web.Failure("Password not changed", contentapi.Message(err)))
	} else {
		h.srv.SetFlash(c, web.Success("Password updated", ""))
	}
	return c.Redirect("/profile")
}

func (h *Handler) Language(c *fiber.Ctx) error {
	h.srv.SetLanguage(c, c.FormValue("lang"))
	return c.Redirect(web.SafeRedirect(c.FormValue("next"), "/"))
}

func (h *Handler) Theme(c *fiber.Ctx) error {
	h.srv.SetTheme(c, c.FormValue("theme"))
	return c.Redirect(web.SafeRedirect(c.FormValue("next"), "/"))
}
