package directory_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/photo"
)

// fakeBackend serves /api/properties from memory.
type fakeBackend struct {
	mu       sync.Mutex
	props    []map[string]any
	lists    int
	creates  int
	failPost bool
	failGet  bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.URL.Path != "/api/properties" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		f.lists++
		if f.failGet {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(f.props)
	case http.MethodPost:
		f.creates++
		if f.failPost {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body["id"] = len(f.props) + 1
		f.props = append(f.props, body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newDirectory(c *qt.C, f *fakeBackend) *directory.Directory {
	srv := httptest.NewServer(f)
	c.Cleanup(srv.Close)
	return directory.New(api.New(srv.URL), nil)
}

func TestLoad(t *testing.T) {
	c := qt.New(t)

	c.Run("server order is kept", func(c *qt.C) {
		f := &fakeBackend{props: []map[string]any{
			{"id": 7, "name": "Villa Zeta"},
			{"id": 3, "name": "Appartamento Alfa"},
		}}
		d := newDirectory(c, f)
		props, err := d.Load(context.Background())
		c.Assert(err, qt.IsNil)
		c.Assert(props, qt.DeepEquals, []model.Property{
			{ID: "7", Name: "Villa Zeta"},
			{ID: "3", Name: "Appartamento Alfa"},
		})
		c.Assert(d.Properties(), qt.DeepEquals, props)
	})

	c.Run("failure keeps the previous list", func(c *qt.C) {
		f := &fakeBackend{props: []map[string]any{{"id": 1, "name": "Baita"}}}
		d := newDirectory(c, f)
		_, err := d.Load(context.Background())
		c.Assert(err, qt.IsNil)

		f.mu.Lock()
		f.failGet = true
		f.mu.Unlock()
		_, err = d.Load(context.Background())
		var se *api.StatusError
		c.Assert(errors.As(err, &se), qt.IsTrue)
		c.Assert(d.Properties(), qt.HasLen, 1)
	})
}

func TestCreate(t *testing.T) {
	c := qt.New(t)

	c.Run("trims name and reloads", func(c *qt.C) {
		f := &fakeBackend{}
		d := newDirectory(c, f)
		created, err := d.Create(context.Background(), "  Casa Mare Blu  ", "")
		c.Assert(err, qt.IsNil)
		c.Assert(created, qt.IsTrue)
		c.Assert(d.Properties(), qt.DeepEquals, []model.Property{{ID: "1", Name: "Casa Mare Blu"}})
		c.Assert(f.creates, qt.Equals, 1)
		c.Assert(f.lists, qt.Equals, 1)
		c.Assert(f.props[0]["photo_url"], qt.IsNil)
	})

	c.Run("blank name sends nothing", func(c *qt.C) {
		f := &fakeBackend{}
		d := newDirectory(c, f)
		for _, name := range []string{"", "   ", "\t\n"} {
			created, err := d.Create(context.Background(), name, "data:image/png;base64,AA==")
			c.Assert(err, qt.IsNil)
			c.Assert(created, qt.IsFalse)
		}
		c.Assert(f.creates, qt.Equals, 0)
		c.Assert(f.lists, qt.Equals, 0)
	})

	c.Run("photo is forwarded", func(c *qt.C) {
		f := &fakeBackend{}
		d := newDirectory(c, f)
		_, err := d.Create(context.Background(), "Rifugio", "data:image/png;base64,AA==")
		c.Assert(err, qt.IsNil)
		c.Assert(d.Properties()[0].PhotoURL, qt.Equals, "data:image/png;base64,AA==")
	})

	c.Run("failed post does not reload", func(c *qt.C) {
		f := &fakeBackend{failPost: true}
		d := newDirectory(c, f)
		created, err := d.Create(context.Background(), "Rustico", "")
		c.Assert(err, qt.IsNotNil)
		c.Assert(created, qt.IsFalse)
		c.Assert(f.lists, qt.Equals, 0)
	})

	c.Run("list grows in server order", func(c *qt.C) {
		f := &fakeBackend{}
		d := newDirectory(c, f)
		for i := 1; i <= 3; i++ {
			_, err := d.Create(context.Background(), "Casa "+strconv.Itoa(i), "")
			c.Assert(err, qt.IsNil)
		}
		props := d.Properties()
		c.Assert(props, qt.HasLen, 3)
		c.Assert(props[2].Name, qt.Equals, "Casa 3")
	})
}

func TestSubmit(t *testing.T) {
	c := qt.New(t)

	f := &fakeBackend{}
	d := newDirectory(c, f)

	form := &directory.Form{Name: " ", PhotoURL: "data:image/png;base64,AA=="}
	created, err := d.Submit(context.Background(), form)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsFalse)
	c.Assert(form.PhotoURL, qt.Not(qt.Equals), "")

	form.Name = "Casa Mare Blu"
	created, err = d.Submit(context.Background(), form)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)
	c.Assert(*form, qt.DeepEquals, directory.Form{})
}

func TestForm(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	imgPath := filepath.Join(dir, "front.gif")
	c.Assert(os.WriteFile(imgPath, gif, 0o644), qt.IsNil)
	txtPath := filepath.Join(dir, "notes.txt")
	c.Assert(os.WriteFile(txtPath, []byte("not a picture"), 0o644), qt.IsNil)

	c.Run("file picker", func(c *qt.C) {
		var f directory.Form
		c.Assert(f.SetPhotoFromFile(imgPath), qt.IsNil)
		c.Assert(f.PhotoURL, qt.Matches, `data:image/gif;base64,.+`)
	})

	c.Run("non-image leaves photo unchanged", func(c *qt.C) {
		f := directory.Form{PhotoURL: "data:image/png;base64,AA=="}
		c.Assert(f.SetPhotoFromFile(txtPath), qt.ErrorIs, photo.ErrNotImage)
		c.Assert(f.DropPhoto(txtPath), qt.ErrorIs, photo.ErrNotImage)
		c.Assert(f.PhotoURL, qt.Equals, "data:image/png;base64,AA==")
	})

	c.Run("drop of a quoted path", func(c *qt.C) {
		var f directory.Form
		c.Assert(f.DropPhoto("'"+imgPath+"'"), qt.IsNil)
		c.Assert(f.PhotoURL, qt.Matches, `data:image/gif;base64,.+`)
	})

	c.Run("paste", func(c *qt.C) {
		var f directory.Form
		c.Assert(f.PastePhoto(func() (string, error) { return imgPath, nil }), qt.IsNil)
		c.Assert(f.PhotoURL, qt.Matches, `data:image/gif;base64,.+`)

		boom := errors.New("no clipboard")
		err := f.PastePhoto(func() (string, error) { return "", boom })
		c.Assert(err, qt.ErrorIs, boom)
		c.Assert(f.PhotoURL, qt.Not(qt.Equals), "")
	})

	c.Run("clear and reset", func(c *qt.C) {
		f := directory.Form{Name: "Casa", PhotoURL: "data:image/png;base64,AA=="}
		f.ClearPhoto()
		c.Assert(f, qt.DeepEquals, directory.Form{Name: "Casa"})
		f.Reset()
		c.Assert(f, qt.DeepEquals, directory.Form{})
	})
}
