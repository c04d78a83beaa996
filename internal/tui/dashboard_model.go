package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"botnology/internal/bridge"
	"botnology/internal/model"
	"botnology/internal/render"
	"botnology/internal/tutor"
	"botnology/internal/workspace"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

type focus int

const (
	focusList focus = iota
	focusChat
	focusPrompt
	focusPicker
)

type promptKind int

const (
	promptNone promptKind = iota
	promptNewProject
	promptRenameProject
	promptNewFolder
	promptRenameFolder
	promptStudentName
)

// changeCounter is bumped by the workspace refresh callback, which may run on a command
// goroutine; the model compares it to the generation it last rendered.
type changeCounter struct {
	gen atomic.Uint64
}

type appModel struct {
	mgr    *workspace.Manager
	client *tutor.Client
	sender *tutor.Sender
	opener bridge.Opener
	user   string
	log    zerolog.Logger

	changes *changeCounter
	seenGen uint64

	view workspace.View
	tab  render.Tab

	list     list.Model
	chat     textinput.Model
	prompt   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	picker   filepicker.Model

	focus         focus
	promptKind    promptKind
	promptTarget  string
	pendingDelete string

	sending bool
	chatErr string

	health         bridge.Health
	healthKnown    bool
	healthInterval time.Duration

	flash string
	keys  keyMap

	width  int
	height int

	now func() time.Time
}

type entityItem struct {
	id     string
	title  string
	desc   string
	active bool
}

func (i entityItem) FilterValue() string { return i.title }
func (i entityItem) Title() string {
	if i.active {
		return i.title + " ●"
	}
	return i.title
}
func (i entityItem) Description() string { return i.desc }

func newAppModel(opts Options) appModel {
	interval := opts.HealthInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	m := appModel{
		mgr:            opts.Manager,
		client:         opts.Client,
		opener:         opts.Opener,
		user:           opts.User,
		log:            opts.Log,
		changes:        &changeCounter{},
		tab:            render.TabProjects,
		keys:           defaultKeyMap(),
		healthInterval: interval,
		now:            time.Now,
	}
	if m.opener == nil {
		m.opener = bridge.BrowserOpener{}
	}
	if opts.Client != nil {
		m.sender = &tutor.Sender{Chat: opts.Client, Conv: opts.Manager}
	}

	m.list = newList()
	m.chat = textinput.New()
	m.chat.Placeholder = "Ask Dr. Botonic something…"
	m.chat.CharLimit = 2000
	m.chat.Prompt = "› "
	m.prompt = textinput.New()
	m.prompt.CharLimit = 120
	m.viewport = viewport.New(40, 10)
	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot))

	changes := m.changes
	m.mgr.OnChange(func(workspace.View) { changes.gen.Add(1) })
	m.view = m.mgr.View()
	m.rebuild()
	return m
}

func newList() list.Model {
	d := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// q and ctrl+c are handled by the dashboard.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

// syncIfChanged re-reads the workspace when a refresh callback fired since the last render.
func (m *appModel) syncIfChanged() {
	gen := m.changes.gen.Load()
	if gen == m.seenGen {
		return
	}
	m.seenGen = gen
	m.view = m.mgr.View()
	m.rebuild()
}

// rebuild re-derives every view from m.view.
func (m *appModel) rebuild() {
	cur := ""
	if it, ok := m.list.SelectedItem().(entityItem); ok {
		cur = it.id
	}
	items := m.tabItems()
	m.list.SetItems(items)
	m.selectByID(cur)
	m.refreshTranscript()
}

func (m *appModel) selectByID(id string) {
	if id == "" {
		return
	}
	for i, it := range m.list.Items() {
		if e, ok := it.(entityItem); ok && e.id == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *appModel) tabItems() []list.Item {
	ws := m.view.Workspace
	var items []list.Item
	switch m.tab {
	case render.TabProjects:
		for _, p := range ws.Projects {
			items = append(items, entityItem{
				id:     p.ID,
				title:  p.Name,
				desc:   p.Status + " · updated " + p.Updated,
				active: ws.ActiveProjectID != nil && *ws.ActiveProjectID == p.ID,
			})
		}
	case render.TabFolders:
		counts := map[string]int{}
		for _, f := range ws.Files {
			if f.FolderID != nil {
				counts[*f.FolderID]++
			}
		}
		for _, f := range ws.Folders {
			items = append(items, entityItem{
				id:     f.ID,
				title:  f.Name,
				desc:   fmt.Sprintf("%d files", counts[f.ID]),
				active: ws.ActiveFolderID != nil && *ws.ActiveFolderID == f.ID,
			})
		}
	case render.TabFiles:
		now := m.now()
		for _, f := range ws.Files {
			items = append(items, entityItem{
				id:    f.ID,
				title: f.Name,
				desc:  humanize.IBytes(uint64(max(f.Size, 0))) + " · " + f.Type + " · " + humanize.RelTime(f.Added, now, "ago", "from now"),
			})
		}
	}
	return items
}

func (m *appModel) refreshTranscript() {
	w := m.viewport.Width
	body := render.Transcript(m.view.Transcript, w, true)
	if m.chatErr != "" {
		body += "\n\n" + render.ErrorBubble(m.chatErr, w)
	}
	if m.sending {
		body += "\n\n" + m.spinner.View() + " Dr. Botonic is thinking…"
	}
	m.viewport.SetContent(body)
	m.viewport.GotoBottom()
}

func (m *appModel) resize() {
	leftW := m.width / 2
	if leftW < 30 {
		leftW = 30
	}
	rightW := m.width - leftW - 2
	if rightW < 30 {
		rightW = 30
	}
	bodyH := m.height - 12
	if bodyH < 6 {
		bodyH = 6
	}
	m.list.SetSize(leftW, bodyH)
	m.viewport.Width = rightW
	m.viewport.Height = bodyH - 4
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.chat.Width = rightW - 4
	m.prompt.Width = leftW - 4
	m.picker.Height = bodyH
	m.refreshTranscript()
}

func (m appModel) selectedID() string {
	if it, ok := m.list.SelectedItem().(entityItem); ok {
		return it.id
	}
	return ""
}

func (m appModel) lastReply() string {
	for i := len(m.view.Transcript) - 1; i >= 0; i-- {
		if t := m.view.Transcript[i]; t.Role == model.RoleAssistant {
			return t.Text
		}
	}
	return ""
}

func nextStatus(cur string) string {
	order := []string{model.StatusActive, model.StatusDraft, model.StatusNeedsLove}
	for i, s := range order {
		if strings.EqualFold(s, cur) {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func nextPlan(cur model.Plan) model.Plan {
	plans := model.Plans()
	for i, p := range plans {
		if p == cur {
			return plans[(i+1)%len(plans)]
		}
	}
	return plans[0]
}

func flashStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}
