package models

import (
	"sort"
	"time"
)

// AdvertisementType is the creative format of an ad.
type AdvertisementType string

const (
	AdBanner  AdvertisementType = "banner"
	AdSidebar AdvertisementType = "sidebar"
	AdNative  AdvertisementType = "native"
	AdPopup   AdvertisementType = "popup"
	AdVideo   AdvertisementType = "video"
	AdHTML    AdvertisementType = "html"
)

// AdvertisementTypes lists the formats editors may pick.
var AdvertisementTypes = []AdvertisementType{AdBanner, AdSidebar, AdNative, AdPopup, AdVideo, AdHTML}

// AdPlacements lists the slots the site renders.
var AdPlacements = []string{"hero", "banner", "sidebar", "in_content", "popup"}

// Advertisement is a placement in the ad inventory. The API has used two
// generations of field names; the accessor methods merge them.
type Advertisement struct {
	ID           string            `json:"id"`
	Name         string            `json:"name,omitempty"`
	Title        string            `json:"title,omitempty"`
	Type         AdvertisementType `json:"type"`
	Position     string            `json:"position"`
	Page         string            `json:"page,omitempty"`
	Image        *ImageAsset       `json:"image,omitempty"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	TargetURL    string            `json:"targetUrl,omitempty"`
	LinkURL      string            `json:"linkUrl,omitempty"`
	ActiveFrom   string            `json:"activeFrom,omitempty"`
	ActiveTo     string            `json:"activeTo,omitempty"`
	StartDate    string            `json:"startDate,omitempty"`
	EndDate      string            `json:"endDate,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty"`
	DisplayPages []string          `json:"displayPages,omitempty"`
	Priority     int               `json:"priority,omitempty"`
	Impressions  int               `json:"impressions,omitempty"`
	Clicks       int               `json:"clicks,omitempty"`
}

// Label is the display name of the ad.
func (a Advertisement) Label() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Name
}

// Link is the click-through target.
func (a Advertisement) Link() string {
	if a.LinkURL != "" {
		return a.LinkURL
	}
	return a.TargetURL
}

// Picture is the raw creative path.
func (a Advertisement) Picture() string {
	if a.Image != nil && a.Image.URL != "" {
		return a.Image.URL
	}
	return a.ImageURL
}

// Start returns the beginning of the active window.
func (a Advertisement) Start() string {
	if a.StartDate != "" {
		return a.StartDate
	}
	return a.ActiveFrom
}

// End returns the end of the active window.
func (a Advertisement) End() string {
	if a.EndDate != "" {
		return a.EndDate
	}
	return a.ActiveTo
}

// Enabled reports the active flag, defaulting to true when omitted.
func (a Advertisement) Enabled() bool {
	return a.IsActive == nil || *a.IsActive
}

// TargetPage returns the page the ad is aimed at.
func (a Advertisement) TargetPage() string {
	if a.Page != "" {
		return a.Page
	}
	if len(a.DisplayPages) > 0 {
		return a.DisplayPages[0]
	}
	return ""
}

// CTR returns the click-through rate in percent.
func (a Advertisement) CTR() float64 {
	if a.Impressions == 0 {
		return 0
	}
	return float64(a.Clicks) * 100 / float64(a.Impressions)
}

// ActiveAt reports whether the ad is enabled and now falls inside its
// window. A date-only end covers the whole day.
func (a Advertisement) ActiveAt(now time.Time) bool {
	if !a.Enabled() {
		return false
	}
	if start, ok := ParseTime(a.Start()); ok && now.Before(start) {
		return false
	}
	if end, ok := ParseTime(a.End()); ok {
		if len(a.End()) == len("2006-01-02") {
			end = end.Add(24 * time.Hour)
		}
		if !now.Before(end) {
			return false
		}
	}
	return true
}

// PickAd returns the highest priority ad active at now, or nil.
func PickAd(ads []Advertisement, now time.Time) *Advertisement {
	candidates := make([]Advertisement, 0, len(ads))
	for _, ad := range ads {
		if ad.ActiveAt(now) {
			candidates = append(candidates, ad)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return &candidates[0]
}

// AdvertisementPayload is the body for create and update calls.
type AdvertisementPayload struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Type         AdvertisementType `json:"type"`
	Position     string            `json:"position"`
	Page         string            `json:"page,omitempty"`
	Image        *ImageAsset       `json:"image,omitempty"`
	LinkURL      string            `json:"linkUrl,omitempty"`
	StartDate    string            `json:"startDate,omitempty"`
	EndDate      string            `json:"endDate,omitempty"`
	IsActive     bool              `json:"isActive"`
	DisplayPages []string          `json:"displayPages,omitempty"`
	Priority     int               `json:"priority"`
}
