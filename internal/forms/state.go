// Package forms holds the backoffice form drafts, their validation and the
// edit state shared by every list-plus-form screen.
package forms

// EditState tracks whether a screen's form creates a new item or edits an
// existing one. The zero value is idle (create mode).
type EditState struct {
	id string
}

// Editing returns the state for editing id.
func Editing(id string) EditState {
	return EditState{id: id}
}

func (s EditState) ID() string { return s.id }

// IsEditing reports whether an item is being edited.
func (s EditState) IsEditing() bool { return s.id != "" }

// Begin switches to editing id.
func (s EditState) Begin(id string) EditState { return EditState{id: id} }

// Cancel discards the edit.
func (s EditState) Cancel() EditState { return EditState{} }

// AfterSave returns to create mode once a save succeeded.
func (s EditState) AfterSave() EditState { return EditState{} }

// AfterDelete returns to create mode when the deleted item was the one
// being edited and leaves the state alone otherwise.
func (s EditState) AfterDelete(id string) EditState {
	if s.id == id {
		return EditState{}
	}
	return s
}
