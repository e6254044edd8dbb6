package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const categoriesRoute = "/admin/categories"

func (h *Handler) Categories(c *fiber.Ctx) error {
	return h.renderCategories(c, editState(c), nil, nil, "")
}

func (h *Handler) renderCategories(c *fiber.Ctx, state forms.EditState, draft *forms.CategoryDraft, errs forms.Errors, failure string) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()

	list := h.srv.Portal(c).AdminCategories(ctx)
	logFailed("categories", list.Err)

	if draft == nil {
		d := forms.NewCategoryDraft()
		if state.IsEditing() {
			if cat, ok := findCategory(list.Data, state.ID()); ok {
				d = forms.FromCategory(cat)
			} else {
				state = state.Cancel()
			}
		}
		draft = &d
	}

	return h.render(c, rbac.AreaCategories, "admin/categories", "Categories", fiber.Map{
		"List":    list,
		"Tree":    models.BuildCategoryTree(list.Data),
		"State":   state,
		"Form":    draft,
		"Errors":  errs,
		"Failure": failure,
	})
}

func findCategory(list []models.Category, id string) (models.Category, bool) {
	for _, cat := range list {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

func (h *Handler) SaveCategory(c *fiber.Ctx) error {
	var draft forms.CategoryDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	state := forms.Editing(draft.ID)
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderCategories(c, state, &draft, errs, "")
	}

	if _, err := h.srv.Portal(c).SaveCategory(c.UserContext(), draft.Payload()); err != nil {
		c.Status(fiber.StatusBadGateway)
		return h.renderCategories(c, state, &draft, nil, contentapi.Message(err))
	}
	h.srv.SetFlash(c, web.Success("Category saved", draft.NameEn))
	return back(c, categoriesRoute, state.AfterSave())
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	state := forms.Editing(c.FormValue("editing"))
	if err := h.srv.Portal(c).DeleteCategory(c.UserContext(), id); err != nil {
		h.srv.SetFlash(c, web.Failure("Category not deleted", contentapi.Message(err)))
		return back(c, categoriesRoute, state)
	}
	h.srv.SetFlash(c, web.Success("Category deleted", ""))
	return back(c, categoriesRoute, state.AfterDelete(id))
}
