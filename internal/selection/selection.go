// Package selection tracks the single active object of an editor.
package selection

// Controller holds at most one active object id. The zero value has no selection.
type Controller struct {
	active string
}

// Select makes id active. An empty id clears the selection.
func (c *Controller) Select(id string) {
	c.active = id
}

func (c *Controller) Clear() {
	c.active = ""
}

// Active returns the selected id and whether there is one.
func (c *Controller) Active() (string, bool) {
	return c.active, c.active != ""
}

func (c *Controller) IsSelected(id string) bool {
	return id != "" && c.active == id
}

// ClearIf clears the selection when id is the active object and reports whether it did.
func (c *Controller) ClearIf(id string) bool {
	if !c.IsSelected(id) {
		return false
	}
	c.active = ""
	return true
}

// Validate clears a selection that no longer refers to an existing object.
func (c *Controller) Validate(exists func(id string) bool) bool {
	if c.active == "" || exists(c.active) {
		return false
	}
	c.active = ""
	return true
}
