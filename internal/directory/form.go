package directory

import (
	"github.com/idilsaglam/lovedhomes/internal/photo"
)

// Form is the pending "new property" input: a name and an optional photo
// held as a data URL. Photo setters leave the form untouched on failure.
type Form struct {
	Name     string
	PhotoURL string
}

// SetPhotoFromFile reads an image chosen from the file picker.
func (f *Form) SetPhotoFromFile(path string) error {
	url, err := photo.FromFile(path)
	if err != nil {
		return err
	}
	f.PhotoURL = url
	return nil
}

// DropPhoto takes what the terminal delivered for a dropped file.
func (f *Form) DropPhoto(payload string) error {
	url, err := photo.FromInput(payload)
	if err != nil {
		return err
	}
	f.PhotoURL = url
	return nil
}

// PastePhoto reads the clipboard through read (clipboard.ReadAll in the
// app) and accepts an image path or an image data URL.
func (f *Form) PastePhoto(read func() (string, error)) error {
	text, err := read()
	if err != nil {
		return err
	}
	return f.DropPhoto(text)
}

// ClearPhoto drops the pending photo.
func (f *Form) ClearPhoto() { f.PhotoURL = "" }

// Reset empties the form after a successful submit.
func (f *Form) Reset() { *f = Form{} }
