package tui

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/hylla/todoboard/internal/app"
	"github.com/hylla/todoboard/internal/domain"
)

// Service is the board state manager driven by the model.
type Service interface {
	Snapshot() domain.Board
	AddTask(categoryID string, in app.AddTaskInput) app.Outcome
	ToggleCompletion(taskID int64, inCompleted bool) app.Outcome
	RemoveTask(categoryID string, taskID int64) app.Outcome
	AddCategory(name string) app.Outcome
	SetActiveCategory(categoryID string) app.Outcome
}

// Attachments loads, removes, and saves task files.
type Attachments interface {
	Select(path string) (domain.Attachment, *domain.Notification, error)
	Remove(domain.Attachment) *domain.Notification
	Download(domain.Attachment) (string, *domain.Notification, error)
}

// Previews issues, resolves, and revokes preview handles.
type Previews interface {
	Acquire(domain.Attachment) (app.PreviewHandle, error)
	Lookup(id string) (app.PreviewHandle, error)
	Release(id string) bool
}

// inputMode represents a selectable mode.
type inputMode int

const (
	modeNone inputMode = iota
	modeAddTask
	modeDuePicker
	modeAddCategory
	modeTaskInfo
	modePreview
)

const (
	taskFieldText = iota
	taskFieldPriority
	taskFieldDue
	taskFieldNote
	taskFieldFile
	taskFieldCount
)

const frameInterval = time.Second / 15

// boardLoadedMsg carries the initial board snapshot.
type boardLoadedMsg struct {
	board domain.Board
}

// BoardChangedMsg delivers a committed board snapshot from the service
// subscription. Snapshots older than the one shown are dropped.
type BoardChangedMsg struct {
	Board    domain.Board
	Revision uint64
}

// frameMsg advances the particle band.
type frameMsg time.Time

// toastExpiredMsg prunes toasts when no particle frames are redrawing the view.
type toastExpiredMsg time.Time

// duePickerOption is one preset in the due date picker.
type duePickerOption struct {
	Label string
	Value string
}

// Model is the Bubble Tea model for the task board.
type Model struct {
	svc         Service
	attachments Attachments
	previews    Previews

	board         domain.Board
	revision      uint64
	selectedTask  int
	returnTo      string
	ready         bool
	width, height int
	mode          inputMode
	status        string

	help help.Model
	keys keyMap

	theme           Theme
	showNotes       bool
	defaultPriority domain.Priority
	md              *markdownRenderer

	toasts      toastStack
	toastsShown int
	toastTTL    time.Duration
	clock       func() time.Time

	particleCount int
	rng           *rand.Rand
	particles     particleField

	formInputs     []textinput.Model
	formFocus      int
	formPriority   domain.Priority
	formAttachment *domain.Attachment
	duePicker      int

	categoryInput textinput.Model

	previewID   string
	previewBack inputMode

	copyText func(string) error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, attachments Attachments, previews Previews, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:             svc,
		attachments:     attachments,
		previews:        previews,
		status:          "loading...",
		help:            h,
		keys:            newKeyMap(),
		theme:           ThemeLight,
		showNotes:       true,
		defaultPriority: domain.PriorityMedium,
		md:              &markdownRenderer{},
		toastTTL:        4 * time.Second,
		clock:           time.Now,
		copyText:        clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	if m.particleCount > 0 {
		return tea.Batch(m.loadBoard, m.frameTick())
	}
	return m.loadBoard
}

func (m Model) loadBoard() tea.Msg {
	return boardLoadedMsg{board: m.svc.Snapshot()}
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	shown := m.toastsShown
	updated, cmd := m.update(msg)
	next, ok := updated.(Model)
	if !ok || next.toastsShown == shown || next.particleCount > 0 {
		return updated, cmd
	}
	// Without the frame loop nothing redraws, so each toast schedules its own expiry.
	expire := tea.Tick(next.toastTTL, func(t time.Time) tea.Msg {
		return toastExpiredMsg(t)
	})
	if cmd == nil {
		return next, expire
	}
	return next, tea.Batch(cmd, expire)
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		if m.particleCount > 0 && m.rng != nil {
			m.particles = newParticleField(m.particleCount, m.width, particleBandHeight, m.rng)
		}
		return m, nil

	case boardLoadedMsg:
		m.board = msg.board
		m.clampSelection()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case BoardChangedMsg:
		if msg.Revision <= m.revision {
			return m, nil
		}
		m.board = msg.Board
		m.revision = msg.Revision
		m.clampSelection()
		return m, nil

	case frameMsg:
		m.particles = m.particles.step()
		m.toasts = m.toasts.prune(m.clock())
		return m, m.frameTick()

	case toastExpiredMsg:
		m.toasts = m.toasts.prune(m.clock())
		return m, nil

	case tea.KeyPressMsg:
		m.toasts = m.toasts.prune(m.clock())
		if msg.String() == "ctrl+c" {
			m.releasePreview()
			return m, tea.Quit
		}
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey handles board navigation and actions.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.releasePreview()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.prevCategory):
		m.cycleCategory(-1)
		return m, nil
	case key.Matches(msg, m.keys.nextCategory):
		m.cycleCategory(1)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.selectedTask = clamp(m.selectedTask-1, 0, len(m.visibleTasks())-1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selectedTask = clamp(m.selectedTask+1, 0, len(m.visibleTasks())-1)
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		if m.inCompleted() {
			m.status = "switch to a category to add tasks"
			return m, nil
		}
		return m, m.startTaskForm()
	case key.Matches(msg, m.keys.addCategory):
		return m, m.startCategoryForm()
	case key.Matches(msg, m.keys.completedView):
		m.toggleCompletedView()
		return m, nil
	case key.Matches(msg, m.keys.toggleTheme):
		m.theme = m.theme.toggled()
		m.status = string(m.theme) + " theme"
		return m, nil
	}

	task, ok := m.selected()
	if !ok {
		if key.Matches(msg, m.keys.toggleDone, m.keys.removeTask, m.keys.taskInfo, m.keys.preview, m.keys.download, m.keys.copyText) {
			m.status = "no task selected"
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.toggleDone):
		m.applyOutcome(m.svc.ToggleCompletion(task.ID, m.inCompleted()))
	case key.Matches(msg, m.keys.removeTask):
		m.applyOutcome(m.svc.RemoveTask(m.board.ActiveCategoryID(), task.ID))
	case key.Matches(msg, m.keys.taskInfo):
		m.mode = modeTaskInfo
		m.status = "task info"
	case key.Matches(msg, m.keys.preview):
		m.openPreview(task)
	case key.Matches(msg, m.keys.download):
		m.downloadAttachment(task)
	case key.Matches(msg, m.keys.copyText):
		m.copyTaskText(task)
	}
	return m, nil
}

// handleInputModeKey dispatches keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddTask:
		return m.handleTaskFormKey(msg)
	case modeDuePicker:
		return m.handleDuePickerKey(msg)
	case modeAddCategory:
		return m.handleCategoryFormKey(msg)
	case modeTaskInfo:
		return m.handleTaskInfoKey(msg)
	case modePreview:
		return m.handlePreviewKey(msg)
	default:
		m.mode = modeNone
		return m, nil
	}
}

func (m Model) handleTaskFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeTaskForm()
		m.status = "cancelled"
		return m, nil
	case "tab", "down":
		return m, m.focusTaskField((m.formFocus + 1) % taskFieldCount)
	case "shift+tab", "up":
		return m, m.focusTaskField((m.formFocus + taskFieldCount - 1) % taskFieldCount)
	case "ctrl+x":
		m.removeStagedAttachment()
		return m, nil
	case "ctrl+d":
		if m.formFocus == taskFieldDue {
			m.mode = modeDuePicker
			m.duePicker = 0
			m.status = "pick a due date"
			return m, nil
		}
	case "enter":
		if m.formFocus == taskFieldFile && strings.TrimSpace(m.formInputs[taskFieldFile].Value()) != "" {
			m.attachFromPath(m.formInputs[taskFieldFile].Value())
			return m, nil
		}
		return m.submitTaskForm()
	}

	if m.formFocus == taskFieldPriority {
		switch msg.String() {
		case "h", "left":
			m.formPriority = cyclePriority(m.formPriority, -1)
		case "l", "right", "space":
			m.formPriority = cyclePriority(m.formPriority, 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDuePickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	options := m.duePickerOptions()
	switch msg.String() {
	case "esc":
		m.mode = modeAddTask
		m.status = "new task"
	case "j", "down":
		m.duePicker = clamp(m.duePicker+1, 0, len(options)-1)
	case "k", "up":
		m.duePicker = clamp(m.duePicker-1, 0, len(options)-1)
	case "enter":
		choice := options[clamp(m.duePicker, 0, len(options)-1)]
		m.formInputs[taskFieldDue].SetValue(choice.Value)
		m.mode = modeAddTask
		m.status = "due: " + choice.Label
	}
	return m, nil
}

func (m Model) handleCategoryFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.categoryInput.Blur()
		m.status = "cancelled"
		return m, nil
	case "enter":
		out := m.svc.AddCategory(m.categoryInput.Value())
		if !out.Changed {
			m.applyOutcome(out)
			m.status = "category name is empty or already exists"
			return m, nil
		}
		m.applyOutcome(out)
		m.mode = modeNone
		m.categoryInput.Blur()
		m.status = "category added"
		return m, nil
	}
	var cmd tea.Cmd
	m.categoryInput, cmd = m.categoryInput.Update(msg)
	return m, cmd
}

func (m Model) handleTaskInfoKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		m.mode = modeNone
		return m, nil
	}
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.taskInfo), key.Matches(msg, m.keys.quit):
		m.mode = modeNone
		m.status = "ready"
	case key.Matches(msg, m.keys.preview):
		m.openPreview(task)
	case key.Matches(msg, m.keys.download):
		m.downloadAttachment(task)
	case key.Matches(msg, m.keys.copyText):
		m.copyTaskText(task)
	}
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.preview), key.Matches(msg, m.keys.quit):
		m.closePreview()
	case key.Matches(msg, m.keys.download):
		if handle, ok := m.activePreview(); ok {
			m.download(handle.Attachment)
		} else {
			m.status = "preview no longer available"
		}
	}
	return m, nil
}

// startTaskForm opens the add-task modal for the active category.
func (m *Model) startTaskForm() tea.Cmd {
	m.mode = modeAddTask
	m.formInputs = []textinput.Model{
		newModalInput("", "what needs doing?", "", 200),
		newModalInput("", "", "", 0),
		newModalInput("", "YYYY-MM-DD, YYYY-MM-DD HH:MM, or - (ctrl+d presets)", "", 32),
		newModalInput("", "optional note (markdown)", "", 500),
		newModalInput("", "file path (enter attaches)", "", 1024),
	}
	m.formPriority = m.defaultPriority
	m.formAttachment = nil
	m.status = "new task"
	return m.focusTaskField(taskFieldText)
}

func (m *Model) focusTaskField(idx int) tea.Cmd {
	m.formFocus = clamp(idx, 0, taskFieldCount-1)
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	if m.formFocus == taskFieldPriority || m.formFocus >= len(m.formInputs) {
		return nil
	}
	return m.formInputs[m.formFocus].Focus()
}

func (m *Model) closeTaskForm() {
	m.mode = modeNone
	m.formInputs = nil
	m.formAttachment = nil
	m.formFocus = taskFieldText
}

func (m Model) submitTaskForm() (tea.Model, tea.Cmd) {
	due, err := parseDueInput(m.formInputs[taskFieldDue].Value(), nil)
	if err != nil {
		m.status = err.Error()
		return m, m.focusTaskField(taskFieldDue)
	}
	if path := strings.TrimSpace(m.formInputs[taskFieldFile].Value()); path != "" {
		if !m.attachFromPath(path) {
			return m, nil
		}
	}

	out := m.svc.AddTask(m.board.ActiveCategoryID(), app.AddTaskInput{
		Text:       m.formInputs[taskFieldText].Value(),
		Priority:   m.formPriority,
		DueDate:    due,
		Note:       m.formInputs[taskFieldNote].Value(),
		Attachment: m.formAttachment,
	})
	if !out.Changed {
		m.applyOutcome(out)
		m.status = "task text is required"
		return m, m.focusTaskField(taskFieldText)
	}
	m.applyOutcome(out)
	m.closeTaskForm()
	m.selectedTask = max(0, len(m.visibleTasks())-1)
	m.status = "task added"
	return m, nil
}

// attachFromPath stages the file at path on the open form. A rejected file
// leaves the staged attachment as it was.
func (m *Model) attachFromPath(path string) bool {
	if m.attachments == nil {
		m.status = "attachments unavailable"
		return false
	}
	attachment, notice, err := m.attachments.Select(path)
	m.notify(notice)
	if err != nil {
		m.status = "attach failed: " + err.Error()
		return false
	}
	m.formAttachment = &attachment
	if len(m.formInputs) > taskFieldFile {
		m.formInputs[taskFieldFile].SetValue("")
	}
	m.status = "attached " + attachment.Name
	return true
}

func (m *Model) removeStagedAttachment() {
	if m.formAttachment == nil {
		m.status = "no file attached"
		return
	}
	if m.attachments != nil {
		m.notify(m.attachments.Remove(*m.formAttachment))
	}
	m.formAttachment = nil
	m.status = "attachment removed"
}

func (m *Model) startCategoryForm() tea.Cmd {
	m.mode = modeAddCategory
	m.categoryInput = newModalInput("", "category name", "", 60)
	m.status = "new category"
	return m.categoryInput.Focus()
}

// openPreview acquires a handle for the task attachment, releasing any
// preview already shown.
func (m *Model) openPreview(task domain.Task) {
	if !task.HasAttachment() {
		m.status = "task has no attachment"
		return
	}
	if m.previews == nil {
		m.status = "preview unavailable"
		return
	}
	back := m.mode
	if back == modePreview {
		back = m.previewBack
	}
	m.releasePreview()
	handle, err := m.previews.Acquire(*task.Attachment)
	if err != nil {
		m.mode = back
		m.status = "preview failed: " + err.Error()
		return
	}
	m.previewID = handle.ID
	m.previewBack = back
	m.mode = modePreview
	m.status = "preview " + task.Attachment.Name
}

func (m *Model) closePreview() {
	m.releasePreview()
	m.mode = m.previewBack
	if m.mode == modePreview {
		m.mode = modeNone
	}
	m.status = "ready"
}

func (m *Model) releasePreview() {
	if m.previewID == "" {
		return
	}
	if m.previews != nil {
		m.previews.Release(m.previewID)
	}
	m.previewID = ""
}

// activePreview resolves the open preview handle. It fails once the handle
// has been revoked.
func (m Model) activePreview() (app.PreviewHandle, bool) {
	if m.previewID == "" || m.previews == nil {
		return app.PreviewHandle{}, false
	}
	handle, err := m.previews.Lookup(m.previewID)
	if err != nil {
		return app.PreviewHandle{}, false
	}
	return handle, true
}

func (m *Model) downloadAttachment(task domain.Task) {
	if !task.HasAttachment() {
		m.status = "task has no attachment"
		return
	}
	m.download(*task.Attachment)
}

func (m *Model) download(attachment domain.Attachment) {
	if m.attachments == nil {
		m.status = "attachments unavailable"
		return
	}
	path, notice, err := m.attachments.Download(attachment)
	if err != nil {
		m.status = "download failed: " + err.Error()
		return
	}
	m.notify(notice)
	m.status = "saved " + path
}

func (m *Model) copyTaskText(task domain.Task) {
	if err := m.copyText(task.Text); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "copied task text"
}

// cycleCategory moves between the category tabs. From the completed view it
// enters the first or last tab.
func (m *Model) cycleCategory(delta int) {
	tabs := m.tabCategories()
	if len(tabs) == 0 {
		return
	}
	idx := slices.IndexFunc(tabs, func(c domain.Category) bool { return c.ID == m.board.ActiveCategoryID() })
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(tabs) - 1
	default:
		idx = (idx + delta + len(tabs)) % len(tabs)
	}
	m.applyOutcome(m.svc.SetActiveCategory(tabs[idx].ID))
	m.selectedTask = 0
}

func (m *Model) toggleCompletedView() {
	if !m.inCompleted() {
		m.returnTo = m.board.ActiveCategoryID()
		m.applyOutcome(m.svc.SetActiveCategory(domain.CategoryCompleted))
		m.selectedTask = 0
		return
	}
	target := m.returnTo
	if target == "" || target == domain.CategoryCompleted || !m.board.HasCategory(target) {
		target = domain.CategoryPersonal
		if tabs := m.tabCategories(); len(tabs) > 0 {
			target = tabs[0].ID
		}
	}
	m.applyOutcome(m.svc.SetActiveCategory(target))
	m.selectedTask = 0
}

func (m *Model) applyOutcome(out app.Outcome) {
	if out.Revision >= m.revision {
		m.board = out.Board
		m.revision = out.Revision
	}
	m.notify(out.Notice)
	m.clampSelection()
}

func (m *Model) notify(note *domain.Notification) {
	if note == nil {
		return
	}
	m.toasts = m.toasts.push(*note, m.clock(), m.toastTTL)
	m.toastsShown++
}

func (m *Model) clampSelection() {
	m.selectedTask = clamp(m.selectedTask, 0, len(m.visibleTasks())-1)
}

func (m Model) visibleTasks() []domain.Task {
	return m.board.ActiveCategory().Tasks
}

func (m Model) selected() (domain.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

func (m Model) inCompleted() bool {
	return m.board.ActiveCategoryID() == domain.CategoryCompleted
}

// tabCategories returns every category except completed.
func (m Model) tabCategories() []domain.Category {
	all := m.board.Categories()
	out := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if !c.IsCompleted() {
			out = append(out, c)
		}
	}
	return out
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if !m.ready {
		return "loading..."
	}
	p := paletteFor(m.theme)
	mutedStyle := lipgloss.NewStyle().Foreground(p.muted)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)

	sections := []string{titleStyle.Render("Todo List") + mutedStyle.Render("  "+string(m.theme)+" theme")}
	if band := m.particles.render(lipgloss.NewStyle().Foreground(p.particle)); band != "" {
		sections = append(sections, band)
	}
	sections = append(sections, m.renderTabs(p), "", m.renderTaskList(p))
	if m.inCompleted() {
		sections = append(sections, "", mutedStyle.Render("c back to categories"))
	} else {
		sections = append(sections, "", mutedStyle.Render("c View Completed Tasks"))
	}
	if toasts := m.renderToasts(p); toasts != "" {
		sections = append(sections, "", toasts)
	}
	if strings.TrimSpace(m.status) != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(p.dim).Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(p.muted).
		BorderTop(true).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine
	if overlay := m.renderModeOverlay(p, m.width-8); overlay != "" {
		height := lipgloss.Height(full)
		if m.height > 0 {
			height = m.height
		}
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, height))
	}
	return full
}

func (m Model) renderTabs(p palette) string {
	if m.inCompleted() {
		category := m.board.ActiveCategory()
		return lipgloss.NewStyle().Bold(true).Foreground(p.success).
			Render(fmt.Sprintf("%s (%d)", category.Name, len(category.Tasks)))
	}
	activeStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent)
	idleStyle := lipgloss.NewStyle().Foreground(p.muted)
	parts := make([]string, 0)
	for _, c := range m.tabCategories() {
		label := fmt.Sprintf("%s (%d)", c.Name, len(c.Tasks))
		if c.ID == m.board.ActiveCategoryID() {
			parts = append(parts, activeStyle.Render(label))
			continue
		}
		parts = append(parts, idleStyle.Render(label))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTaskList(p palette) string {
	tasks := m.visibleTasks()
	mutedStyle := lipgloss.NewStyle().Foreground(p.muted)
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks in this category")
	}
	check := "○"
	if m.inCompleted() {
		check = "●"
	}
	width := max(m.width, 40)
	lines := make([]string, 0, len(tasks)*2)
	for idx, task := range tasks {
		cursor := "  "
		textStyle := lipgloss.NewStyle().Foreground(p.priority(task.Priority))
		if idx == m.selectedTask {
			cursor = "› "
			textStyle = textStyle.Bold(true)
		}
		line := cursor + check + " " + textStyle.Render(truncate(task.Text, width-16))
		if task.DueDate != nil {
			line += mutedStyle.Render("  " + formatDueShort(task.DueDate))
		}
		lines = append(lines, line)
		if m.showNotes && task.Note != "" {
			note, _, _ := strings.Cut(task.Note, "\n")
			lines = append(lines, "    "+mutedStyle.Render(truncate(note, width-8)))
		}
		if task.Attachment != nil {
			lines = append(lines, "    "+mutedStyle.Render(fmt.Sprintf("📎 %s (%s)", task.Attachment.Name, humanize.IBytes(uint64(task.Attachment.Size())))))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderToasts(p palette) string {
	notes := m.toasts.visible(m.clock())
	if len(notes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		fg := p.accent
		if note.Destructive() {
			fg = p.destructive
		}
		title := lipgloss.NewStyle().Bold(true).Foreground(fg).Render(note.Title)
		lines = append(lines, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(fg).
			Padding(0, 1).
			Render(title+"\n"+note.Description))
	}
	return strings.Join(lines, "\n")
}

// renderModeOverlay renders the modal for the current mode, if any.
func (m Model) renderModeOverlay(p palette, maxWidth int) string {
	width := clamp(maxWidth, 40, 90)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1).
		Width(width)
	title := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	muted := lipgloss.NewStyle().Foreground(p.muted)

	switch m.mode {
	case modeAddTask:
		return box.Render(m.renderTaskForm(p, title, muted))
	case modeDuePicker:
		lines := []string{title.Render("Due date"), ""}
		for idx, option := range m.duePickerOptions() {
			cursor := "  "
			if idx == m.duePicker {
				cursor = "› "
			}
			lines = append(lines, cursor+option.Label)
		}
		lines = append(lines, "", muted.Render("enter select • esc back"))
		return box.Render(strings.Join(lines, "\n"))
	case modeAddCategory:
		return box.Render(strings.Join([]string{
			title.Render("New category"),
			"",
			m.categoryInput.View(),
			"",
			muted.Render("enter add • esc cancel"),
		}, "\n"))
	case modeTaskInfo:
		return box.Render(m.renderTaskInfo(p, title, muted, width-4))
	case modePreview:
		return box.Render(m.renderPreview(title, muted, width-4))
	default:
		return ""
	}
}

func (m Model) renderTaskForm(p palette, title, muted lipgloss.Style) string {
	label := func(idx int, name string) string {
		if idx == m.formFocus {
			return title.Render("› " + name)
		}
		return muted.Render("  " + name)
	}
	category := m.board.ActiveCategory()
	lines := []string{
		title.Render("New task in " + category.Name),
		"",
		label(taskFieldText, "text"),
		"  " + m.formInputs[taskFieldText].View(),
		label(taskFieldPriority, "priority"),
		"  " + lipgloss.NewStyle().Foreground(p.priority(m.formPriority)).Render("‹ "+string(m.formPriority)+" ›"),
		label(taskFieldDue, "due"),
		"  " + m.formInputs[taskFieldDue].View(),
		label(taskFieldNote, "note"),
		"  " + m.formInputs[taskFieldNote].View(),
		label(taskFieldFile, "file"),
		"  " + m.formInputs[taskFieldFile].View(),
	}
	if m.formAttachment != nil {
		lines = append(lines, "  "+fmt.Sprintf("📎 %s (%s) • ctrl+x remove", m.formAttachment.Name, humanize.IBytes(uint64(m.formAttachment.Size()))))
	}
	lines = append(lines, "", muted.Render("tab next • enter add task • esc cancel"))
	return strings.Join(lines, "\n")
}

func (m Model) renderTaskInfo(p palette, title, muted lipgloss.Style, width int) string {
	task, ok := m.selected()
	if !ok {
		return muted.Render("no task selected")
	}
	origin := task.OriginalCategory
	if c, ok := m.board.Category(origin); ok {
		origin = c.Name
	}
	lines := []string{
		title.Render(task.Text),
		"",
		muted.Render("category: ") + origin,
		muted.Render("priority: ") + lipgloss.NewStyle().Foreground(p.priority(task.Priority)).Render(string(task.Priority)),
		muted.Render("due: ") + formatDueValue(task.DueDate),
	}
	if task.Attachment != nil {
		lines = append(lines, muted.Render("file: ")+fmt.Sprintf("%s (%s, %s)", task.Attachment.Name, task.Attachment.MediaType, humanize.IBytes(uint64(task.Attachment.Size()))))
	}
	if note := m.md.render(task.Note, width, m.theme.glamourStyle()); note != "" {
		lines = append(lines, "", note)
	}
	lines = append(lines, "", muted.Render("p preview • o download • y copy • esc close"))
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview(title, muted lipgloss.Style, width int) string {
	handle, ok := m.activePreview()
	if !ok {
		return muted.Render("No preview available")
	}
	summary := app.Summarize(handle)
	lines := []string{
		title.Render("File Preview: " + summary.Name),
		muted.Render(fmt.Sprintf("%s • %s", summary.MediaType, summary.Size)),
		"",
	}
	data := string(handle.Attachment.Data)
	switch summary.Kind {
	case domain.PreviewImage:
		if summary.Width > 0 {
			lines = append(lines, fmt.Sprintf("image %d×%d px", summary.Width, summary.Height))
		} else {
			lines = append(lines, "image")
		}
	case domain.PreviewPDF:
		lines = append(lines, "PDF document", muted.Render("press o to download and open it externally"))
	case domain.PreviewMarkdown:
		lines = append(lines, fitLines(m.md.render(data, width, m.theme.glamourStyle()), 20))
	case domain.PreviewText:
		lines = append(lines, fitLines(strings.TrimRight(data, "\n"), 20))
	default:
		lines = append(lines, "Unsupported file type")
	}
	lines = append(lines, "", muted.Render("o download • esc close"))
	return strings.Join(lines, "\n")
}

// duePickerOptions returns due date presets relative to the model clock.
func (m Model) duePickerOptions() []duePickerOption {
	now := m.clock().UTC()
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, time.UTC).Format("2006-01-02 15:04")
	tomorrowStart := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Format("2006-01-02 15:04")
	return []duePickerOption{
		{Label: "No due date", Value: "-"},
		{Label: "Today (" + day(0) + ")", Value: day(0)},
		{Label: "Today 17:00 UTC (" + todayEnd + ")", Value: todayEnd},
		{Label: "Tomorrow (" + day(1) + ")", Value: day(1)},
		{Label: "Tomorrow 09:00 UTC (" + tomorrowStart + ")", Value: tomorrowStart},
		{Label: "Next week (" + day(7) + ")", Value: day(7)},
		{Label: "In two weeks (" + day(14) + ")", Value: day(14)},
	}
}

func cyclePriority(current domain.Priority, delta int) domain.Priority {
	priorities := domain.Priorities()
	idx := slices.Index(priorities, current)
	if idx < 0 {
		return domain.PriorityMedium
	}
	return priorities[(idx+delta+len(priorities))%len(priorities)]
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// parseDueInput parses input into a normalized form.
func parseDueInput(raw string, current *time.Time) (*time.Time, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return current, nil
	}
	if text == "-" {
		return nil, nil
	}
	layouts := []string{
		"2006-01-02",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			ts := parsed.UTC()
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("due date must be YYYY-MM-DD, YYYY-MM-DD HH:MM, RFC3339, or -")
}

// formatDueValue formats due datetime values for the detail view.
func formatDueValue(dueAt *time.Time) string {
	if dueAt == nil {
		return "-"
	}
	due := dueAt.UTC()
	if due.Hour() == 0 && due.Minute() == 0 {
		return due.Format("2006-01-02")
	}
	return due.Format("2006-01-02 15:04")
}

// formatDueShort formats due dates for the task list, e.g. "Jan 2".
func formatDueShort(dueAt *time.Time) string {
	if dueAt == nil {
		return ""
	}
	return dueAt.UTC().Format("Jan 2")
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base using a layered canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
