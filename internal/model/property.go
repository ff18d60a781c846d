// Package model holds the records exchanged with the backend: properties and
// their checklist trees.
package model

// Property is a vacation-home record. PhotoURL is a data URL or empty.
type Property struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func (p Property) HasPhoto() bool { return p.PhotoURL != "" }
