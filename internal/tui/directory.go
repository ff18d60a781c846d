package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/ui"
)

// imageExts limits the photo picker to common image files. The content is
// still sniffed before it is accepted.
var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".heic", ".avif", ".svg"}

const (
	previewCols = 16
	previewRows = 8
)

type dirMode int

const (
	modeList dirMode = iota
	modeForm
	modePicker
)

// propertyItem adapts model.Property to bubbles/list.Item
type propertyItem struct{ model.Property }

func (i propertyItem) Title() string       { return i.Name }
func (i propertyItem) Description() string { return "" }
func (i propertyItem) FilterValue() string { return i.Name }

type propertyDelegate struct{}

func (d propertyDelegate) Height() int                         { return 1 }
func (d propertyDelegate) Spacing() int                        { return 0 }
func (d propertyDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d propertyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(propertyItem)
	if !ok {
		return
	}
	t := ui.Current()
	sym := ui.MutedStyle.Render(t.SymHome)
	line := fmt.Sprintf("%s %s", sym, it.Name)
	if it.HasPhoto() {
		line += " " + ui.AccentStyle.Render(t.SymPhoto)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type directoryModel struct {
	ctx  context.Context
	deps Deps

	mode    dirMode
	list    list.Model
	name    textinput.Model
	picker  filepicker.Model
	spinner spinner.Model
	form    directory.Form

	busy   int
	loaded bool
	status string

	width, height int
}

func newDirectoryModel(ctx context.Context, deps Deps) directoryModel {
	deps = deps.withDefaults()
	l := list.New(nil, propertyDelegate{}, 0, 0)
	l.Title = "Tutte le case"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("casa", "case")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{dirKeys.Add, dirKeys.Open, dirKeys.Reload, dirKeys.Quit}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Nome della casa..."
	ti.CharLimit = 200

	fp := filepicker.New()
	fp.CurrentDirectory = deps.StartDir
	fp.AllowedTypes = imageExts
	fp.ShowPermissions = false

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.AccentStyle))

	return directoryModel{
		ctx:     ctx,
		deps:    deps,
		list:    l,
		name:    ti,
		picker:  fp,
		spinner: sp,
	}
}

func (m directoryModel) Init() tea.Cmd {
	return m.reload()
}

// reload is the first load. The spinner keeps turning until loaded is set.
func (m directoryModel) reload() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadProperties(m.ctx, m.deps.Directory))
}

func loadProperties(ctx context.Context, d *directory.Directory) tea.Cmd {
	return func() tea.Msg {
		props, err := d.Load(ctx)
		return propertiesMsg{props: props, err: err}
	}
}

func createProperty(ctx context.Context, d *directory.Directory, f directory.Form) tea.Cmd {
	return func() tea.Msg {
		created, err := d.Create(ctx, f.Name, f.PhotoURL)
		return createdMsg{created: created, props: d.Properties(), err: err}
	}
}

// convertPhoto runs a Form photo setter on a scratch form off the event loop.
func convertPhoto(set func(*directory.Form) error) tea.Cmd {
	return func() tea.Msg {
		var scratch directory.Form
		err := set(&scratch)
		return photoMsg{url: scratch.PhotoURL, err: err}
	}
}

// looksLikeDrop reports whether pasted text is a dropped file or an inline
// image rather than typed text.
func looksLikeDrop(s string) bool {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"data:image/", "file://", "/", "~/", "'/", "\"/", `\\`} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return len(s) > 2 && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}

func (m *directoryModel) begin() tea.Cmd {
	m.busy++
	if m.busy == 1 {
		return m.spinner.Tick
	}
	return nil
}

func (m *directoryModel) end() {
	if m.busy > 0 {
		m.busy--
	}
}

func (m *directoryModel) setProperties(props []model.Property) tea.Cmd {
	items := make([]list.Item, len(props))
	for i, p := range props {
		items[i] = propertyItem{p}
	}
	m.loaded = true
	return m.list.SetItems(items)
}

func (m *directoryModel) resetForm() {
	m.form.Reset()
	m.name.SetValue("")
	m.name.Blur()
}

func (m directoryModel) Update(msg tea.Msg) (directoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(max(msg.Width-4-previewCols, 20), max(msg.Height-6, 5))
		m.name.Width = max(msg.Width-10, 10)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.busy == 0 && m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case propertiesMsg:
		m.end()
		if msg.err != nil {
			m.status = "Impossibile caricare le case: " + msg.err.Error()
			m.loaded = true
			return m, nil
		}
		m.status = ""
		return m, m.setProperties(msg.props)

	case createdMsg:
		m.end()
		if msg.err != nil {
			m.status = "Impossibile salvare la casa: " + msg.err.Error()
			if !msg.created {
				return m, nil
			}
		} else {
			m.status = ""
		}
		m.resetForm()
		m.mode = modeList
		return m, m.setProperties(msg.props)

	case photoMsg:
		if msg.err != nil {
			m.deps.Logger.Debugf(m.ctx, "tui: photo ignored: %v", msg.err)
			return m, nil
		}
		m.form.PhotoURL = msg.url
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modePicker:
			return m.updatePicker(msg)
		default:
			return m.updateList(msg)
		}
	}

	var pcmd, lcmd tea.Cmd
	m.picker, pcmd = m.picker.Update(msg)
	m.list, lcmd = m.list.Update(msg)
	return m, tea.Batch(pcmd, lcmd)
}

func (m directoryModel) updateList(msg tea.KeyMsg) (directoryModel, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	if msg.Paste && looksLikeDrop(string(msg.Runes)) {
		m.mode = modeForm
		payload := string(msg.Runes)
		return m, tea.Batch(m.name.Focus(), convertPhoto(func(f *directory.Form) error { return f.DropPhoto(payload) }))
	}
	switch {
	case key.Matches(msg, dirKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, dirKeys.Add):
		m.mode = modeForm
		return m, m.name.Focus()
	case key.Matches(msg, dirKeys.Reload):
		m.status = ""
		return m, tea.Batch(m.begin(), loadProperties(m.ctx, m.deps.Directory))
	case key.Matches(msg, dirKeys.Open):
		it, ok := m.list.SelectedItem().(propertyItem)
		if !ok {
			return m, nil
		}
		prop := it.Property
		return m, func() tea.Msg { return openMsg{property: prop} }
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m directoryModel) updateForm(msg tea.KeyMsg) (directoryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, frmKeys.Submit):
		m.form.Name = m.name.Value()
		if m.busy > 0 {
			// the previous submit has not answered yet
			return m, nil
		}
		if _, err := directory.Validate(m.form.Name); err != nil {
			return m, nil
		}
		return m, tea.Batch(m.begin(), createProperty(m.ctx, m.deps.Directory, m.form))
	case key.Matches(msg, frmKeys.Cancel):
		m.resetForm()
		m.mode = modeList
		return m, nil
	case key.Matches(msg, frmKeys.Pick):
		m.mode = modePicker
		return m, m.picker.Init()
	case key.Matches(msg, frmKeys.Paste):
		read := m.deps.ReadClipboard
		return m, convertPhoto(func(f *directory.Form) error { return f.PastePhoto(read) })
	case key.Matches(msg, frmKeys.ClearPhoto):
		m.form.ClearPhoto()
		return m, nil
	}
	if msg.Paste && looksLikeDrop(string(msg.Runes)) {
		payload := string(msg.Runes)
		return m, convertPhoto(func(f *directory.Form) error { return f.DropPhoto(payload) })
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	m.form.Name = m.name.Value()
	return m, cmd
}

func (m directoryModel) updatePicker(msg tea.KeyMsg) (directoryModel, tea.Cmd) {
	if key.Matches(msg, frmKeys.Cancel) {
		m.mode = modeForm
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = modeForm
		return m, tea.Batch(cmd, convertPhoto(func(f *directory.Form) error { return f.SetPhotoFromFile(path) }))
	}
	return m, cmd
}

func (m directoryModel) preview(dataURL string) string {
	if m.deps.Previewer == nil || dataURL == "" {
		return ""
	}
	out, err := m.deps.Previewer.Render(dataURL, previewCols, previewRows)
	if err != nil {
		return ui.MutedStyle.Render(ui.Current().SymPhoto)
	}
	return out
}

func (m directoryModel) View() string {
	var b strings.Builder

	switch m.mode {
	case modePicker:
		b.WriteString(ui.TitleStyle.Render("Scegli una foto") + "\n")
		b.WriteString(ui.MutedStyle.Render(m.picker.CurrentDirectory) + "\n\n")
		b.WriteString(m.picker.View() + "\n")
		b.WriteString(ui.HelpStyle.Render("enter scegli · esc annulla"))
		return ui.Box(b.String())
	case modeForm:
		b.WriteString(m.formView())
	default:
		body := m.list.View()
		if it, ok := m.list.SelectedItem().(propertyItem); ok && it.HasPhoto() {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.preview(it.PhotoURL))
		}
		b.WriteString(body)
		if m.loaded && len(m.list.Items()) == 0 {
			b.WriteString("\n" + ui.MutedStyle.Render("Nessuna casa. Premi a per aggiungerne una."))
		}
	}

	if m.busy > 0 || !m.loaded {
		b.WriteString("\n" + m.spinner.View() + " caricamento…")
	}
	if m.status != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.status))
	}
	return ui.Box(b.String())
}

func (m directoryModel) formView() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Nuova casa") + "\n")
	b.WriteString(m.name.View() + "\n\n")
	if m.form.PhotoURL != "" {
		b.WriteString(m.preview(m.form.PhotoURL) + "\n")
		b.WriteString(ui.HelpStyle.Render(helpLine(frmKeys.ClearPhoto)) + "\n")
	} else {
		b.WriteString(ui.MutedStyle.Render("Nessuna foto: trascina un'immagine qui, oppure") + "\n")
		b.WriteString(ui.HelpStyle.Render(helpLine(frmKeys.Pick, frmKeys.Paste)) + "\n")
	}
	b.WriteString("\n" + ui.HelpStyle.Render(helpLine(frmKeys.Submit, frmKeys.Cancel)))
	return b.String()
}
