package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const adsRoute = "/admin/ads"

// adPages are the site pages an ad can target.
var adPages = []string{"home", "article", "category", "search"}

func (h *Handler) Ads(c *fiber.Ctx) error {
	return h.renderAds(c, editState(c), nil, nil, "")
}

func (h *Handler) renderAds(c *fiber.Ctx, state forms.EditState, draft *forms.AdDraft, errs forms.Errors, failure string) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Portal(c)

	var (
		list    query.Result[[]models.Advertisement]
		summary query.Result[models.AnalyticsAdsSummary]
	)
	web.Parallel(ctx,
		func(ctx context.Context) { list = svc.AdminAds(ctx) },
		func(ctx context.Context) { summary = svc.AnalyticsAdsSummary(ctx) },
	)
	logFailed("ads", list.Err)

	if draft == nil {
		d := forms.NewAdDraft()
		if state.IsEditing() {
			if ad, ok := findAd(list.Data, state.ID()); ok {
				d = forms.FromAd(ad)
			} else {
				state = state.Cancel()
			}
		}
		draft = &d
	}

	return h.render(c, rbac.AreaAds, "admin/ads", "Advertisements", fiber.Map{
		"List":       list,
		"Summary":    summary,
		"State":      state,
		"Form":       draft,
		"Errors":     errs,
		"Failure":    failure,
		"Types":      models.AdvertisementTypes,
		"Placements": models.AdPlacements,
		"Pages":      adPages,
	})
}

func findAd(list []models.Advertisement, id string) (models.Advertisement, bool) {
	for _, ad := range list {
		if ad.ID == id {
			return ad, true
		}
	}
	return models.Advertisement{}, false
}

func (h *Handler) SaveAd(c *fiber.Ctx) error {
	var draft forms.AdDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	state := forms.Editing(draft.ID)
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderAds(c, state, &draft, errs, "")
	}

	if _, err := h.srv.Portal(c).SaveAd(c.UserContext(), draft.Payload()); err != nil {
		c.Status(fiber.StatusBadGateway)
		return h.renderAds(c, state, &draft, nil, contentapi.Message(err))
	}
	h.srv.SetFlash(c, web.Success("Advertisement saved", draft.Name))
	return back(c, adsRoute, state.AfterSave())
}

func (h *Handler) DeleteAd(c *fiber.Ctx) error {
	id := c.Params("id")
	state := forms.Editing(c.FormValue("editing"))
	if err := h.srv.Portal(c).DeleteAd(c.UserContext(), id); err != nil {
		h.srv.SetFlash(c, web.Failure("Advertisement not deleted", contentapi.Message(err)))
		return back(c, adsRoute, state)
	}
	h.srv.SetFlash(c, web.Success("Advertisement deleted", ""))
	return back(c, adsRoute, state.AfterDelete(id))
}
