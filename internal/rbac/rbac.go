// Package rbac maps backoffice roles to the areas and actions they may use.
// Permissions are data: adding a role or an area means editing the tables
// below.
package rbac

import "github.com/bilgisen/newsportal/internal/models"

// Area is a section of the backoffice.
type Area string

const (
	AreaDashboard  Area = "dashboard"
	AreaArticles   Area = "articles"
	AreaCategories Area = "categories"
	AreaAds        Area = "ads"
	AreaMedia      Area = "media"
	AreaUsers      Area = "users"
	AreaSettings   Area = "settings"
)

// Areas lists every area in navigation order.
var Areas = []Area{AreaDashboard, AreaArticles, AreaCategories, AreaAds, AreaMedia, AreaUsers, AreaSettings}

// Action is a guarded operation inside an area.
type Action string

const (
	ActionDeleteArticle Action = "delete-article"
	ActionManageUsers   Action = "manage-users"
)

type grant struct {
	areas   map[Area]bool
	actions map[Action]bool
	landing string
}

func areas(list ...Area) map[Area]bool {
	m := make(map[Area]bool, len(list))
	for _, a := range list {
		m[a] = true
	}
	return m
}

func actions(list ...Action) map[Action]bool {
	m := make(map[Action]bool, len(list))
	for _, a := range list {
		m[a] = true
	}
	return m
}

const (
	dashboardRoute = "/admin"
	articlesRoute  = "/admin/articles"
	homeRoute      = "/"
)

var table = map[models.Role]grant{
	models.RoleSuperAdmin: {
		areas:   areas(Areas...),
		actions: actions(ActionDeleteArticle, ActionManageUsers),
		landing: dashboardRoute,
	},
	models.RoleAdmin: {
		areas:   areas(AreaDashboard, AreaArticles, AreaCategories, AreaAds, AreaMedia, AreaSettings),
		actions: actions(ActionDeleteArticle),
		landing: dashboardRoute,
	},
	models.RoleEditorial: {
		areas:   areas(AreaArticles, AreaSettings),
		landing: articlesRoute,
	},
	models.RoleJournalist: {
		areas:   areas(AreaArticles, AreaSettings),
		landing: articlesRoute,
	},
}

// CanAccessAdminArea reports whether role may open area. Unknown and empty
// roles have no access.
func CanAccessAdminArea(role models.Role, area Area) bool {
	return table[role].areas[area]
}

// CanAccessAdmin reports whether role may enter the backoffice at all.
func CanAccessAdmin(role models.Role) bool {
	return len(table[role].areas) > 0
}

// Can reports whether role may perform action.
func Can(role models.Role, action Action) bool {
	return table[role].actions[action]
}

func CanDeleteArticle(role models.Role) bool {
	return Can(role, ActionDeleteArticle)
}

func CanManageUsers(role models.Role) bool {
	return Can(role, ActionManageUsers)
}

// LandingRoute is where role is sent after login or when it opens an area
// it may not use.
func LandingRoute(role models.Role) string {
	if g, ok := table[role]; ok {
		return g.landing
	}
	return homeRoute
}

// VisibleAreas returns the areas role sees in the backoffice navigation.
func VisibleAreas(role models.Role) []Area {
	var out []Area
	for _, a := range Areas {
		if CanAccessAdminArea(role, a) {
			out = append(out, a)
		}
	}
	return out
}
