// Package tui is the interactive terminal client: the property directory
// and, once a property is opened, its checklist.
package tui

import (
	"context"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/photo"
	"github.com/idilsaglam/lovedhomes/pkg/log"
)

// Deps are the collaborators the views talk to.
type Deps struct {
	Directory *directory.Directory
	// Session opens the checklist of a property.
	Session   func(model.Property) *checklist.Session
	Previewer *photo.Previewer
	// ReadClipboard defaults to clipboard.ReadAll.
	ReadClipboard func() (string, error)
	// StartDir is where the photo picker opens; defaults to the home directory.
	StartDir string
	Logger   log.Logger
}

type view int

const (
	viewDirectory view = iota
	viewChecklist
)

// App is the root Bubble Tea model. It switches between the two views and
// keeps the directory state while a checklist is open.
type App struct {
	ctx  context.Context
	deps Deps

	view      view
	directory directoryModel
	checklist checklistModel

	width, height int
}

// withDefaults fills the optional collaborators. Both views call it so a
// view built on its own never sees a nil Logger.
func (deps Deps) withDefaults() Deps {
	if deps.ReadClipboard == nil {
		deps.ReadClipboard = clipboard.ReadAll
	}
	if deps.StartDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			deps.StartDir = home
		} else {
			deps.StartDir = "."
		}
	}
	if deps.Logger == nil {
		deps.Logger = log.NewNop()
	}
	return deps
}

func NewApp(ctx context.Context, deps Deps) App {
	deps = deps.withDefaults()
	return App{
		ctx:       ctx,
		deps:      deps,
		view:      viewDirectory,
		directory: newDirectoryModel(ctx, deps),
	}
}

// Run starts the interactive client and blocks until it exits or ctx ends.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	app := NewApp(ctx, deps)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(app, opts...)
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd { return a.directory.Init() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var dcmd, ccmd tea.Cmd
		a.directory, dcmd = a.directory.Update(msg)
		if a.view == viewChecklist {
			a.checklist, ccmd = a.checklist.Update(msg)
		}
		return a, tea.Batch(dcmd, ccmd)
	case openMsg:
		a.deps.Logger.Infof(a.ctx, "tui: open property %s", msg.property.ID)
		a.view = viewChecklist
		a.checklist = newChecklistModel(a.ctx, a.deps, a.deps.Session(msg.property))
		a.checklist.width, a.checklist.height = a.width, a.height
		return a, a.checklist.Init()
	case propertiesMsg, createdMsg, photoMsg:
		var cmd tea.Cmd
		a.directory, cmd = a.directory.Update(msg)
		return a, cmd
	case backMsg:
		a.view = viewDirectory
		a.checklist = checklistModel{}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case viewChecklist:
		a.checklist, cmd = a.checklist.Update(msg)
	default:
		a.directory, cmd = a.directory.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.view == viewChecklist {
		return a.checklist.View()
	}
	return a.directory.View()
}
