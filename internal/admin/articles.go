package admin

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const articlesRoute = "/admin/articles"

// articleFilter narrows the article list.
type articleFilter struct {
	Search string
	Status string
	Page   int
}

func readArticleFilter(c *fiber.Ctx) articleFilter {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return articleFilter{Search: c.Query("search"), Status: c.Query("status"), Page: page}
}

func (f articleFilter) params() query.Params {
	return query.Params{"search": f.Search, "status": f.Status, "page": f.Page, "limit": pageSize}
}

func (h *Handler) Articles(c *fiber.Ctx) error {
	state := editState(c)
	return h.renderArticles(c, state, nil, nil, "")
}

// renderArticles shows the list with the form. A nil draft is filled from
// the edit state.
func (h *Handler) renderArticles(c *fiber.Ctx, state forms.EditState, draft *forms.ArticleDraft, errs forms.Errors, failure string) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Portal(c)
	filter := readArticleFilter(c)

	var (
		list       query.Result[models.Page[models.Article]]
		categories query.Result[[]models.Category]
		editing    query.Result[models.Article]
	)
	web.Parallel(ctx,
		func(ctx context.Context) { list = svc.AdminArticles(ctx, filter.params()) },
		func(ctx context.Context) { categories = svc.AdminCategories(ctx) },
		func(ctx context.Context) {
			if state.IsEditing() && draft == nil {
				editing = svc.Article(ctx, state.ID())
			}
		},
	)
	logFailed("articles", list.Err)

	if draft == nil {
		d := forms.NewArticleDraft()
		if editing.Ready() {
			d = forms.FromArticle(editing.Data)
		} else if state.IsEditing() {
			logFailed("article", editing.Err)
			state = state.Cancel()
		}
		draft = &d
	}

	user := web.Req(c).User
	return h.render(c, rbac.AreaArticles, "admin/articles", "Articles", fiber.Map{
		"List":       list,
		"Categories": categories,
		"Filter":     filter,
		"Statuses":   models.ArticleStatuses,
		"State":      state,
		"Form":       draft,
		"Errors":     errs,
		"Failure":    failure,
		"CanDelete":  user != nil && rbac.CanDeleteArticle(user.Role),
	})
}

func (h *Handler) SaveArticle(c *fiber.Ctx) error {
	var draft forms.ArticleDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	state := forms.Editing(draft.ID)
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderArticles(c, state, &draft, errs, "")
	}

	saved, err := h.srv.Portal(c).SaveArticle(c.UserContext(), draft.Payload())
	if err != nil {
		c.Status(fiber.StatusBadGateway)
		return h.renderArticles(c, state, &draft, nil, contentapi.Message(err))
	}

	verb := "created"
	if state.IsEditing() {
		verb = "updated"
	}
	h.srv.SetFlash(c, web.Success("Article "+verb, saved.Slug))
	return back(c, articlesRoute, state.AfterSave())
}

// DeleteArticle is refused for roles that may not delete, even when the
// button was never shown.
func (h *Handler) DeleteArticle(c *fiber.Ctx) error {
	user := web.Req(c).User
	state := forms.Editing(c.FormValue("editing"))
	if user == nil || !rbac.CanDeleteArticle(user.Role) {
		h.srv.SetFlash(c, web.Failure("Not allowed", "Your role cannot delete articles."))
		return back(c, articlesRoute, state)
	}

	id := c.Params("id")
	if err := h.srv.Portal(c).DeleteArticle(c.UserContext(), id); err != nil {
		h.srv.SetFlash(c, web.Failure("Article not deleted", contentapi.Message(err)))
		return back(c, articlesRoute, state)
	}
	h.srv.SetFlash(c, web.Success("Article deleted", ""))
	return back(c, articlesRoute, state.AfterDelete(id))
}
