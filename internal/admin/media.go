package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/media"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const mediaRoute = "/admin/media"

func (h *Handler) Media(c *fiber.Ctx) error {
	return h.renderMedia(c, editState(c), nil, nil)
}

func (h *Handler) renderMedia(c *fiber.Ctx, state forms.EditState, draft *forms.MediaDraft, errs forms.Errors) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()

	folder := c.Query("folder")
	search := c.Query("search")
	list := h.srv.Portal(c).MediaLibrary(ctx, query.Params{"folder": folder, "search": search})
	logFailed("media", list.Err)

	if draft == nil {
		var d forms.MediaDraft
		if state.IsEditing() {
			if item, ok := findMedia(list.Data, state.ID()); ok {
				d = forms.FromMedia(item)
			} else {
				state = state.Cancel()
			}
		}
		draft = &d
	}

	return h.render(c, rbac.AreaMedia, "admin/media", "Media", fiber.Map{
		"List":   list,
		"Folder": folder,
		"Search": search,
		"State":  state,
		"Form":   draft,
		"Errors": errs,
	})
}

func findMedia(list []models.Media, id string) (models.Media, bool) {
	for _, m := range list {
		if m.ID == id {
			return m, true
		}
	}
	return models.Media{}, false
}

func (h *Handler) UploadMedia(c *fiber.Ctx) error {
	var draft forms.MediaDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderMedia(c, forms.EditState{}, &draft, errs)
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderMedia(c, forms.EditState{}, &draft, forms.Errors{"file": "Choose a file to upload."})
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	upload := draft.Upload(models.MediaUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	item, err := h.srv.Portal(c).UploadMedia(c.UserContext(), upload)
	if err != nil {
		message := contentapi.Message(err)
		if errors.Is(err, media.ErrTooLarge) {
			message = err.Error()
		}
		logger.Get().Warn().Err(err).Str("file", header.Filename).Msg("Media upload failed")
		h.srv.SetFlash(c, web.Failure("Upload failed", message))
		return back(c, mediaRoute, forms.EditState{})
	}

	h.srv.SetFlash(c, web.Success("File uploaded", item.DisplayName()))
	return back(c, mediaRoute, forms.EditState{})
}

func (h *Handler) UpdateMedia(c *fiber.Ctx) error {
	var draft forms.MediaDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.ErrBadRequest
	}
	draft.ID = c.Params("id")
	state := forms.Editing(draft.ID)
	if errs := draft.Check(); errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.renderMedia(c, state, &draft, errs)
	}

	if _, err := h.srv.Portal(c).UpdateMedia(c.UserContext(), draft.Payload()); err != nil {
		h.srv.SetFlash(c, web.Failure("Media not updated", contentapi.Message(err)))
		return back(c, mediaRoute, state)
	}
	h.srv.SetFlash(c, web.Success("Media updated", ""))
	return back(c, mediaRoute, state.AfterSave())
}

func (h *Handler) DeleteMedia(c *fiber.Ctx) error {
	id := c.Params("id")
	state := forms.Editing(c.FormValue("editing"))
	if err := h.srv.Portal(c).DeleteMedia(c.UserContext(), id); err != nil {
		h.srv.SetFlash(c, web.Failure("Media not deleted", contentapi.Message(err)))
		return back(c, mediaRoute, state)
	}
	h.srv.SetFlash(c, web.Success("Media deleted", ""))
	return back(c, mediaRoute, state.AfterDelete(id))
}
