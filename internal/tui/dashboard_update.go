package tui

import (
	"context"
	"os"
	"strings"

	"botnology/internal/model"
	"botnology/internal/mutate"
	"botnology/internal/render"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		checkHealthCmd(m.client),
		healthTickCmd(m.healthInterval),
		textinput.Blink,
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncIfChanged()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case healthMsg:
		m.health = msg.health
		m.healthKnown = true
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(checkHealthCmd(m.client), healthTickCmd(m.healthInterval))

	case chatDoneMsg:
		m.sending = false
		m.chat.Placeholder = "Ask Dr. Botonic something…"
		if msg.err != nil {
			m.chatErr = msg.err.Error()
			m.log.Warn().Err(msg.err).Msg("chat request failed")
		}
		m.syncIfChanged()
		m.refreshTranscript()
		return m, nil

	case checkoutDoneMsg:
		if msg.err != nil {
			m.flash = "Checkout failed: " + msg.err.Error()
			m.log.Warn().Err(msg.err).Msg("checkout failed")
		} else {
			m.flash = "Opened checkout in your browser."
			m.log.Info().Str("url", msg.url).Msg("checkout opened")
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.flash = "Copy failed: " + msg.err.Error()
		} else {
			m.flash = "Copied the last reply."
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshTranscript()
		return m, cmd

	case tea.KeyMsg:
		switch m.focus {
		case focusPrompt:
			return m.updatePrompt(msg)
		case focusChat:
			return m.updateChat(msg)
		case focusPicker:
			return m.updatePicker(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.focus == focusPicker {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	if m.focus == focusChat {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	return m, nil
}

// run applies a workspace operation synchronously; the refresh callback marks the model stale.
func (m *appModel) run(op string, fn func(ctx context.Context) (mutate.Result, error)) {
	res, err := fn(context.Background())
	switch {
	case err != nil:
		m.flash = err.Error()
		m.log.Warn().Err(err).Str("op", op).Msg("workspace operation failed")
	case !res.Changed:
		m.flash = "Nothing changed."
	default:
		m.flash = ""
		m.log.Debug().Str("op", op).Msg("workspace changed")
	}
	m.syncIfChanged()
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingDelete != "" {
		return m.confirmDelete(msg)
	}
	k := m.keys
	id := m.selectedID()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, k.PrevTab):
		m.switchTab(-1)
		return m, nil
	case key.Matches(msg, k.Chat):
		return m.focusChatInput()
	case key.Matches(msg, k.Health):
		m.flash = "Checking tutor status…"
		return m, checkHealthCmd(m.client)
	case key.Matches(msg, k.ClearChat):
		if err := m.mgr.ClearHistory(context.Background()); err != nil {
			m.flash = err.Error()
		}
		m.chatErr = ""
		m.syncIfChanged()
		m.refreshTranscript()
		return m, nil
	case key.Matches(msg, k.Copy):
		reply := m.lastReply()
		if reply == "" {
			m.flash = "No tutor reply to copy yet."
			return m, nil
		}
		return m, copyCmd(reply)
	case key.Matches(msg, k.Name):
		return m.openPrompt(promptStudentName, "", "Student name", m.view.Workspace.StudentName)
	case key.Matches(msg, k.Plan):
		next := nextPlan(m.view.Workspace.Plan)
		m.run("set-plan", func(ctx context.Context) (mutate.Result, error) {
			return m.mgr.SetPlan(ctx, string(next))
		})
		return m, nil
	case key.Matches(msg, k.Checkout):
		plan := m.view.Workspace.Plan
		if plan == model.PlanFree {
			m.flash = "Pick a paid plan first (p cycles plans)."
			return m, nil
		}
		if m.client == nil {
			m.flash = "Tutor API is not configured."
			return m, nil
		}
		m.flash = "Starting checkout…"
		return m, checkoutCmd(m.client, string(plan), m.opener)
	}

	switch m.tab {
	case render.TabProjects:
		switch {
		case key.Matches(msg, k.Select) && id != "":
			m.run("select-project", func(ctx context.Context) (mutate.Result, error) { return m.mgr.SelectProject(ctx, id) })
			return m, nil
		case key.Matches(msg, k.New):
			return m.openPrompt(promptNewProject, "", "New project name", "")
		case key.Matches(msg, k.Rename) && id != "":
			return m.openPrompt(promptRenameProject, id, "Rename project", m.selectedTitle())
		case key.Matches(msg, k.Status) && id != "":
			cur := ""
			if p, ok := m.view.Workspace.FindProject(id); ok {
				cur = p.Status
			}
			next := nextStatus(cur)
			m.run("set-status", func(ctx context.Context) (mutate.Result, error) { return m.mgr.SetProjectStatus(ctx, id, next) })
			return m, nil
		case key.Matches(msg, k.Delete) && id != "":
			m.pendingDelete = id
			m.flash = "Delete " + m.selectedTitle() + "? (y/n)"
			return m, nil
		}
	case render.TabFolders:
		switch {
		case key.Matches(msg, k.Select) && id != "":
			m.run("select-folder", func(ctx context.Context) (mutate.Result, error) { return m.mgr.SelectFolder(ctx, id) })
			return m, nil
		case key.Matches(msg, k.New):
			return m.openPrompt(promptNewFolder, "", "New folder name", "")
		case key.Matches(msg, k.Rename) && id != "":
			return m.openPrompt(promptRenameFolder, id, "Rename folder", m.selectedTitle())
		case key.Matches(msg, k.Delete) && id != "":
			m.pendingDelete = id
			m.flash = "Delete " + m.selectedTitle() + "? (y/n)"
			return m, nil
		}
	case render.TabFiles:
		switch {
		case key.Matches(msg, k.Upload):
			return m.openPicker()
		case key.Matches(msg, k.Delete) && id != "":
			m.pendingDelete = id
			m.flash = "Remove " + m.selectedTitle() + "? (y/n)"
			return m, nil
		}
	}

	if m.tab == render.TabSettings {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) confirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	if msg.String() != "y" && msg.String() != "Y" {
		m.flash = "Cancelled."
		return m, nil
	}
	switch m.tab {
	case render.TabProjects:
		m.run("delete-project", func(ctx context.Context) (mutate.Result, error) { return m.mgr.DeleteProject(ctx, id) })
	case render.TabFolders:
		m.run("delete-folder", func(ctx context.Context) (mutate.Result, error) { return m.mgr.DeleteFolder(ctx, id) })
	case render.TabFiles:
		m.run("remove-file", func(ctx context.Context) (mutate.Result, error) { return m.mgr.RemoveFile(ctx, id) })
	}
	return m, nil
}

func (m *appModel) switchTab(delta int) {
	tabs := render.Tabs()
	i := 0
	for j, t := range tabs {
		if t == m.tab {
			i = j
		}
	}
	m.tab = tabs[(i+delta+len(tabs))%len(tabs)]
	m.list.Select(0)
	m.pendingDelete = ""
	m.flash = ""
	m.rebuild()
}

func (m appModel) selectedTitle() string {
	if it, ok := m.list.SelectedItem().(entityItem); ok {
		return it.title
	}
	return ""
}

func (m appModel) openPrompt(kind promptKind, target, label, value string) (tea.Model, tea.Cmd) {
	m.focus = focusPrompt
	m.promptKind = kind
	m.promptTarget = target
	m.prompt.Prompt = label + ": "
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.flash = ""
	return m, m.prompt.Focus()
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closePrompt()
		return m, nil
	case msg.Type == tea.KeyEnter:
		value := m.prompt.Value()
		target := m.promptTarget
		kind := m.promptKind
		m.closePrompt()
		m.submitPrompt(kind, target, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *appModel) closePrompt() {
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.focus = focusList
	m.promptKind = promptNone
	m.promptTarget = ""
}

func (m *appModel) submitPrompt(kind promptKind, target, value string) {
	switch kind {
	case promptNewProject:
		m.run("create-project", func(ctx context.Context) (mutate.Result, error) { return m.mgr.CreateProject(ctx, value) })
	case promptRenameProject:
		m.run("rename-project", func(ctx context.Context) (mutate.Result, error) { return m.mgr.RenameProject(ctx, target, value) })
	case promptNewFolder:
		m.run("create-folder", func(ctx context.Context) (mutate.Result, error) { return m.mgr.CreateFolder(ctx, value) })
	case promptRenameFolder:
		m.run("rename-folder", func(ctx context.Context) (mutate.Result, error) { return m.mgr.RenameFolder(ctx, target, value) })
	case promptStudentName:
		m.run("set-name", func(ctx context.Context) (mutate.Result, error) { return m.mgr.SetStudentName(ctx, value) })
	}
}

func (m appModel) focusChatInput() (tea.Model, tea.Cmd) {
	m.focus = focusChat
	m.flash = ""
	return m, m.chat.Focus()
}

func (m appModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.chat.Blur()
		m.focus = focusList
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m.submitChat()
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if m.sending {
		return m, nil
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m appModel) submitChat() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.chat.Value())
	if text == "" || m.sending {
		return m, nil
	}
	if m.sender == nil {
		m.chatErr = "Tutor API is not configured."
		m.refreshTranscript()
		return m, nil
	}
	m.chat.SetValue("")
	m.chat.Placeholder = "Waiting for Dr. Botonic…"
	m.sending = true
	m.chatErr = ""
	m.refreshTranscript()
	return m, tea.Batch(sendChatCmd(m.sender, text), m.spinner.Tick)
}

func (m appModel) openPicker() (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	fp.AutoHeight = false
	fp.Height = max(m.list.Height(), 6)
	m.picker = fp
	m.focus = focusPicker
	m.flash = "Choose a file to upload (esc to cancel)."
	return m, m.picker.Init()
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.focus = focusList
		m.flash = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.focus = focusList
		m.run("add-files", func(ctx context.Context) (mutate.Result, error) { return m.mgr.AddPaths(ctx, []string{path}) })
		return m, nil
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.flash = "Cannot upload " + path
	}
	return m, cmd
}
