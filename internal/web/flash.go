package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

func Success(title, message string) Flash { return Flash{Type: FlashSuccess, Title: title, Message: message} }

func Failure(title, message string) Flash { return Flash{Type: FlashError, Title: title, Message: message} }

// SetFlash queues f for the next page, typically before a redirect.
func (s *Server) SetFlash(c *fiber.Ctx, f Flash) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	s.setCookie(c, FlashCookie, base64.RawURLEncoding.EncodeToString(data), time.Minute, true)
}

func readFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f Flash
	if json.Unmarshal(data, &f) != nil || f.Title == "" {
		return nil
	}
	return &f
}

// TakeFlash returns the pending flash once and expires its cookie.
func (r *Request) TakeFlash(c *fiber.Ctx) *Flash {
	if r.flash == nil || r.flashTaken {
		return nil
	}
	r.flashTaken = true
	c.Cookie(&fiber.Cookie{Name: FlashCookie, Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	return r.flash
}
