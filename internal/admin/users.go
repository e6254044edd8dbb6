package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const usersRoute = "/admin/users"

func (h *Handler) Users(c *fiber.Ctx) error {
	return h.renderUsers(c, editState(c), nil, nil, "")
}

func (h *Handler) renderUsers(c *fiber.Ctx, state forms.EditState, draft *forms.UserDraft, errs forms.Errors, failure string) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()

	list := h.srv.Portal(c).Users(ctx)
	logFailed("users", list.Err)

	if draft == nil {
		d := forms.NewUserDraft()
		if state.IsEditing() {
			if u, ok := findUser(list.Data, state.ID()); ok {
				d = forms.FromUser(u)
			} else {
				state = state.Cancel()
			}
		}
		draft = &d
	}
	draft.Password = ""

	return h.render(c, rbac.AreaUsers, "admin/users", "Users", fiber.Map{
		"List":    list,
		"State":   state,
		"Form":    draft,
		"Errors":  errs,
		"Failure": failure,
		"Roles":   models.Roles,
	})
}

func findUser(list []models.User, id string) (models.User, bool) {
	for _, u := range list {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (h *Handler) SaveUser(c *fiber.Ctx) error {
	if !canManageUsers(c) {
		return fiber.ErrForbidden
	}
	var draft forms.UserDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	state := forms.Editing(draft.ID)
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderUsers(c, state, &draft, errs, "")
	}

	if _, err := h.srv.Portal(c).SaveUser(c.UserContext(), draft.Payload()); err != nil {
		c.Status(fiber.StatusBadGateway)
		return h.renderUsers(c, state, &draft, nil, contentapi.Message(err))
	}
	h.srv.SetFlash(c, web.Success("User saved", draft.Email))
	return back(c, usersRoute, state.AfterSave())
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if !canManageUsers(c) {
		return fiber.ErrForbidden
	}
	id := c.Params("id")
	state := forms.Editing(c.FormValue("editing"))
	if web.Req(c).User.ID == id {
		h.srv.SetFlash(c, web.Failure("User not deleted", "You cannot delete your own account."))
		return back(c, usersRoute, state)
	}
	if err := h.srv.Portal(c).DeleteUser(c.UserContext(), id); err != nil {
		h.srv.SetFlash(c, web.Failure("User not deleted", contentapi.Message(err)))
		return back(c, usersRoute, state)
	}
	h.srv.SetFlash(c, web.Success("User deleted", ""))
	return back(c, usersRoute, state.AfterDelete(id))
}

func canManageUsers(c *fiber.Ctx) bool {
	user := web.Req(c).User
	return user != nil && rbac.CanManageUsers(user.Role)
}
