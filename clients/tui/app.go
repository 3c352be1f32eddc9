package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/dohr-michael/daily/clients/tui/molecules"
	"github.com/dohr-michael/daily/clients/tui/organisms"
	"github.com/dohr-michael/daily/internal/events"
	"github.com/dohr-michael/daily/internal/tasks"
)

// BannerDuration is how long a fired reminder stays on screen.
const BannerDuration = 10 * time.Second

// Deps are the App's collaborators.
type Deps struct {
	Ctx    context.Context
	Store  *tasks.Store
	Events <-chan events.Event // reminder and task events; may be nil
	Status func() string       // notification authorization label; may be nil
	Now    func() time.Time
}

// App is the main TUI application model.
// Layout: TITLE | FORM | LIST | BANNER | STATUS
type App struct {
	ctx    context.Context
	store  *tasks.Store
	events <-chan events.Event
	status func() string
	now    func() time.Time

	form molecules.TaskForm
	list organisms.TaskList
	info organisms.InformationPanel

	banner    string
	bannerSeq int

	width    int
	height   int
	quitting bool
}

// NewApp creates a new TUI application.
func NewApp(deps Deps) *App {
	a := &App{
		ctx:    deps.Ctx,
		store:  deps.Store,
		events: deps.Events,
		status: deps.Status,
		now:    deps.Now,
		form:   molecules.NewTaskForm(MutedStyle),
		list: organisms.NewTaskList(organisms.TaskListStyles{
			Cursor: TitleStyle,
			Done:   lipgloss.NewStyle().Foreground(ColorDone),
			Due:    lipgloss.NewStyle().Foreground(ColorDue),
			Muted:  MutedStyle.Italic(true),
			Delete: ErrorStyle,
		}),
		info: organisms.NewInformationPanel(StatusBarStyle),
	}
	if a.ctx == nil {
		a.ctx = context.Background()
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.refresh()
	return a
}

// Init focuses the form and starts listening for bus events.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.form.Focus(), listen(a.events))
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		if a.form.Focused() {
			return a, a.handleFormKey(msg)
		}
		return a, a.handleListKey(msg)

	case molecules.SubmitMsg:
		return a, a.submit(msg)

	case ReminderResultMsg:
		if msg.Err != nil {
			a.info.SetMessage("reminder not scheduled: " + msg.Err.Error())
		}
		a.refresh()
		return a, nil

	case TasksChangedMsg:
		a.refresh()
		return a, listen(a.events)

	case ReminderScheduledMsg:
		a.info.SetMessage("reminder set for " + msg.FireAt.Local().Format("Mon 15:04"))
		return a, listen(a.events)

	case ReminderFiredMsg:
		a.banner = fmt.Sprintf("%s: %s", msg.Title, msg.Body)
		a.bannerSeq++
		seq := a.bannerSeq
		expire := tea.Tick(BannerDuration, func(time.Time) tea.Msg { return bannerExpiredMsg{seq: seq} })
		return a, tea.Batch(expire, listen(a.events))

	case bannerExpiredMsg:
		if msg.seq == a.bannerSeq {
			a.banner = ""
		}
		return a, nil

	case eventsClosedMsg:
		a.events = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a *App) handleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		inForm, cmd := a.form.Next()
		if !inForm {
			a.focusList()
		}
		return cmd
	case "esc":
		a.form.Blur()
		a.focusList()
		return nil
	}
	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return cmd
}

func (a *App) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		a.quitting = true
		return tea.Quit
	case "tab", "a", "i":
		a.list.SetFocused(false)
		a.setMode(organisms.ModeNormal)
		return a.form.Focus()
	case "up", "k":
		a.list.Move(-1)
	case "down", "j":
		a.list.Move(1)
	case "space", "x":
		if t, ok := a.list.Selected(); ok {
			a.store.ToggleComplete(t.ID)
			a.refresh()
		}
	case "e":
		if a.list.Mode() == organisms.ModeEdit {
			a.setMode(organisms.ModeNormal)
		} else {
			a.setMode(organisms.ModeEdit)
		}
	case "esc":
		a.setMode(organisms.ModeNormal)
	case "d", "delete", "backspace":
		if a.list.Mode() != organisms.ModeEdit {
			a.info.SetMessage("press e to edit, then d to delete")
			return nil
		}
		if t, ok := a.list.Selected(); ok {
			a.store.Delete(a.ctx, t.ID)
			a.info.SetMessage("deleted " + t.Name)
			a.refresh()
		}
	}
	return nil
}

func (a *App) submit(msg molecules.SubmitMsg) tea.Cmd {
	due, err := tasks.ParseDue(msg.Due, a.now())
	if err != nil {
		a.info.SetMessage(err.Error())
		return nil
	}
	id, outcome, err := a.store.Add(a.ctx, msg.Name, due)
	if err != nil {
		a.info.SetMessage(err.Error())
		return nil
	}
	a.info.SetMessage("")
	a.refresh()
	a.list.Move(len(a.list.Items()))

	cmds := []tea.Cmd{a.form.Reset()}
	if due != nil {
		cmds = append(cmds, func() tea.Msg {
			return ReminderResultMsg{TaskID: id, Err: <-outcome}
		})
	}
	return tea.Batch(cmds...)
}

func (a *App) focusList() {
	a.list.SetFocused(true)
}

func (a *App) setMode(m organisms.Mode) {
	a.list.SetMode(m)
	a.info.SetMode(m)
}

func (a *App) refresh() {
	a.list.SetItems(a.store.List())
	a.info.SetProgress(a.store.Progress())
	if a.status != nil {
		a.info.SetNotification(a.status())
	}
}

func (a *App) updateSizes() {
	a.form.SetWidth(a.width - 4)
	a.info.SetWidth(a.width)

	// title, form box (3), banner (3), status bar
	listHeight := a.height - 1 - 3 - 1
	if a.banner != "" {
		listHeight -= 3
	}
	if listHeight < 3 {
		listHeight = 3
	}
	a.list.SetSize(a.width, listHeight)
}

// View renders the application.
func (a *App) View() tea.View {
	v := tea.NewView(a.render())
	v.AltScreen = true
	return v
}

func (a *App) render() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	title := TitleStyle.Render("daily") + MutedStyle.Render("  "+a.now().Format("Monday, January 2"))
	sections := []string{
		title,
		FormBorderStyle.Render(a.form.View()),
		a.list.View(),
	}
	if a.banner != "" {
		sections = append(sections, BannerStyle.Render(a.banner))
	}
	sections = append(sections, a.info.View(), MutedStyle.Render(a.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) help() string {
	if a.form.Focused() {
		return "enter add · tab next field · esc list · ctrl+c quit"
	}
	keys := []string{"↑/↓ move", "space toggle", "e edit", "tab new task", "q quit"}
	if a.list.Mode() == organisms.ModeEdit {
		keys = []string{"↑/↓ move", "d delete", "e/esc done editing", "q quit"}
	}
	return strings.Join(keys, " · ")
}
