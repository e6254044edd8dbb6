package models

import (
	"encoding/json"
	"sort"

	"github.com/bilgisen/newsportal/internal/i18n"
)

// Category is a news section. The working set is flat; the hierarchy is
// expressed through ParentID.
type Category struct {
	ID          string      `json:"id"`
	Slug        string      `json:"slug"`
	Name        i18n.Text   `json:"name"`
	Description i18n.Text   `json:"description,omitzero"`
	ParentID    string      `json:"parentId,omitempty"`
	Order       int         `json:"order,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	ShowInMenu  *bool       `json:"showInMenu,omitempty"`
	Children    []*Category `json:"children,omitempty"`
}

// UnmarshalJSON also accepts a bare category id, which some article
// endpoints return instead of the embedded category.
func (c *Category) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = Category{ID: id}
		return nil
	}
	type plain Category
	return json.Unmarshal(data, (*plain)(c))
}

// Active reports the active flag, defaulting to true when the API omits it.
func (c Category) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// InMenu reports the menu flag, defaulting to true when the API omits it.
func (c Category) InMenu() bool {
	return c.ShowInMenu == nil || *c.ShowInMenu
}

// CategoryPayload is the body for create and update calls.
type CategoryPayload struct {
	ID          string    `json:"id,omitempty"`
	Slug        string    `json:"slug"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description,omitzero"`
	ParentID    *string   `json:"parentId"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	ShowInMenu  bool      `json:"showInMenu"`
}

// CategoryNode is one entry of a flattened category tree.
type CategoryNode struct {
	Category *Category
	Depth    int
}

// BuildCategoryTree orders a flat category list depth-first by parent
// pointer, siblings sorted by Order then slug. Categories whose parent is
// missing are treated as roots; cycles are cut.
func BuildCategoryTree(flat []Category) []CategoryNode {
	byID := make(map[string]*Category, len(flat))
	for i := range flat {
		byID[flat[i].ID] = &flat[i]
	}

	children := make(map[string][]*Category)
	var roots []*Category
	for i := range flat {
		c := &flat[i]
		if c.ParentID == "" || c.ParentID == c.ID || byID[c.ParentID] == nil {
			roots = append(roots, c)
			continue
		}
		children[c.ParentID] = append(children[c.ParentID], c)
	}

	sortCategories(roots)
	for _, list := range children {
		sortCategories(list)
	}

	nodes := make([]CategoryNode, 0, len(flat))
	visited := make(map[string]bool, len(flat))
	var walk func(c *Category, depth int)
	walk = func(c *Category, depth int) {
		if visited[c.ID] {
			return
		}
		visited[c.ID] = true
		nodes = append(nodes, CategoryNode{Category: c, Depth: depth})
		for _, child := range children[c.ID] {
			walk(child, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return nodes
}

// FlattenCategoryTree turns the nested /categories/tree/all shape into
// depth-annotated nodes.
func FlattenCategoryTree(tree []*Category) []CategoryNode {
	var nodes []CategoryNode
	var walk func(list []*Category, depth int)
	walk = func(list []*Category, depth int) {
		for _, c := range list {
			nodes = append(nodes, CategoryNode{Category: c, Depth: depth})
			walk(c.Children, depth+1)
		}
	}
	walk(tree, 0)
	return nodes
}

func sortCategories(list []*Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].Slug < list[j].Slug
	})
}
