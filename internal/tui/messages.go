package tui

import (
	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/model"
)

// propertiesMsg carries a fresh property list.
type propertiesMsg struct {
	props []model.Property
	err   error
}

// createdMsg reports a submitted "new property" form.
type createdMsg struct {
	created bool
	props   []model.Property
	err     error
}

// photoMsg carries an image converted to a data URL off the event loop.
type photoMsg struct {
	url string
	err error
}

// openMsg asks the app to show the checklist of a property.
type openMsg struct{ property model.Property }

// backMsg returns to the property directory.
type backMsg struct{}

// nodesMsg carries the tree after a load or a mutation of session. focus
// names the node the cursor should land on, if any.
type nodesMsg struct {
	session *checklist.Session
	nodes   []model.Node
	focus   model.ID
	changed bool
	err     error
}
