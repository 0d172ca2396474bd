package wizard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rayahealth/intake/cmd/intake/wizard/components"
	"github.com/rayahealth/intake/cmd/intake/wizard/screens"
	"github.com/rayahealth/intake/internal/draft"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseStep Phase = iota
	PhaseAlert
	PhaseSaveDraft
	PhaseComplete
)

// advancedMsg reports the outcome of leaving a step.
type advancedMsg struct {
	ok           bool
	err          error
	uploadErrors map[string]string
}

// taskDoneMsg reports a step's entry task.
type taskDoneMsg struct {
	step flow.StepID
	err  error
}

type autoAdvanceMsg struct {
	step flow.StepID
}

// Wizard is the main orchestrator for the wizard interface.
type Wizard struct {
	ctx    context.Context
	intake *Intake

	// Current phase
	phase Phase

	// Screen instances
	stepScreen       *screens.StepScreen
	alertScreen      *screens.AlertScreen
	completionScreen *screens.CompletionScreen

	// Save draft form
	saveDraftForm *huh.Form
	draftPath     string

	// busy is the message shown while a command runs; input is ignored
	// until it returns.
	busy        string
	busyTitle   string
	banner      string
	status      string
	autoPending bool

	// Window size
	width  int
	height int

	// Final state
	cancelled bool
	finished  bool
	err       error
}

// NewWizard creates a wizard positioned on the session's current step.
func NewWizard(ctx context.Context, in *Intake) *Wizard {
	w := &Wizard{
		ctx:       ctx,
		intake:    in,
		phase:     PhaseStep,
		draftPath: in.Name + "-draft.yaml",
	}
	w.buildStep()
	return w
}

func (w *Wizard) ctrl() *flow.Controller { return w.intake.Session.Controller() }

func (w *Wizard) store() *form.Store { return w.ctrl().Store() }

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(w.stepScreen.Init(), w.startTask())
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	case advancedMsg:
		return w.advanced(msg)
	case taskDoneMsg:
		return w.taskDone(msg)
	case autoAdvanceMsg:
		w.autoPending = false
		if w.busy == "" && w.phase == PhaseStep && msg.step == w.ctrl().Current() {
			return w, w.commit()
		}
		return w, nil
	}

	if w.busy != "" || w.autoPending {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
			w.cancelled = true
			return w, tea.Quit
		}
		return w, nil
	}

	switch w.phase {
	case PhaseStep:
		return w.updateStep(msg)
	case PhaseAlert:
		return w.updateAlert(msg)
	case PhaseSaveDraft:
		return w.updateSaveDraft(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseStep:
		if w.busy != "" {
			return w.viewBusy()
		}
		return w.stepScreen.View()
	case PhaseAlert:
		return w.alertScreen.View()
	case PhaseSaveDraft:
		return w.viewSaveDraft()
	case PhaseComplete:
		return w.completionScreen.View()
	}

	return ""
}

func (w *Wizard) viewBusy() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.SubtitleStyle.Render(w.intake.Heading),
		components.TitleStyle.Render(w.busyTitle),
		"⏳ "+w.busy,
	)
}

// setBusy records what the busy view shows. It runs before a command is
// started; the controller belongs to the command until it returns.
func (w *Wizard) setBusy(message string) {
	w.busy = message
	w.busyTitle = w.ctrl().Step().Title
}

// hidden reports whether a field of the current step is hidden by the
// answers so far.
func (w *Wizard) hidden(key string) bool {
	base := strings.TrimSuffix(key, keepSuffix)
	return !slices.Contains(w.ctrl().Step().VisibleFields(w.store()), base)
}

// buildStep creates the screen for the current step.
func (w *Wizard) buildStep() tea.Cmd {
	ctrl := w.ctrl()
	st := ctrl.Step()
	store := w.store()
	fields := w.intake.fields(st.ID, store)

	keys := []string{"Enter: Continue", "Shift+Tab: Previous field"}
	if st.ID == 0 {
		keys = append(keys, "Esc: Quit")
	} else {
		keys = append(keys, "Esc: Back")
	}
	if ctrl.HasJump("skip") {
		keys = append(keys, "Ctrl+K: Skip")
	}
	keys = append(keys, "Ctrl+S: Save draft")

	cfg := screens.StepConfig{
		Heading:  w.intake.Heading,
		Title:    st.Title,
		Subtitle: w.intake.Subtitles[st.ID],
		Step:     int(st.ID),
		Total:    ctrl.Graph().Len(),
		Banner:   w.banner,
		Status:   w.status,
		Fields:   fields,
		Hidden:   w.hidden,
		Keys:     strings.Join(keys, " | "),
		Changed: func() {
			if err := w.intake.sync(store, fields, w.hidden); err != nil {
				w.err = err
			}
		},
	}
	if body, ok := w.intake.Bodies[st.ID]; ok {
		cfg.Body = func() string { return body(store) }
	}

	w.stepScreen = screens.NewStepScreen(cfg)
	return w.stepScreen.Init()
}

// enterStep shows the current step and starts its entry task.
func (w *Wizard) enterStep() tea.Cmd {
	return tea.Batch(w.buildStep(), w.startTask())
}

func (w *Wizard) startTask() tea.Cmd {
	step := w.ctrl().Current()
	task, ok := w.intake.OnEnter[step]
	if !ok || (task.When != nil && !task.When(w.store())) {
		return nil
	}
	w.setBusy(task.Busy)
	ctx := w.ctx
	return func() tea.Msg {
		return taskDoneMsg{step: step, err: task.Run(ctx)}
	}
}

func (w *Wizard) taskDone(msg taskDoneMsg) (tea.Model, tea.Cmd) {
	w.busy = ""
	if msg.err != nil {
		return w.showAlert("We couldn't finish that", msg.err.Error())
	}
	return w, w.buildStep()
}

// updateStep handles updates while a step is shown.
func (w *Wizard) updateStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return w.back()
		case "ctrl+s":
			return w.transitionToSaveDraft()
		case "ctrl+k":
			if w.ctrl().HasJump("skip") {
				return w.skip()
			}
		}
	}

	model, cmd := w.stepScreen.Update(msg)
	if ss, ok := model.(*screens.StepScreen); ok {
		w.stepScreen = ss
	}

	if w.stepScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.stepScreen.Done() {
		step := w.ctrl().Current()
		if d := w.intake.AutoAdvance[step]; d > 0 {
			w.autoPending = true
			return w, tea.Batch(cmd, tea.Tick(d, func(time.Time) tea.Msg {
				return autoAdvanceMsg{step: step}
			}))
		}
		return w, tea.Batch(cmd, w.commit())
	}

	return w, cmd
}

// commit syncs the step's answers, attaches new files and advances. The
// uploads and the advance run as one command.
func (w *Wizard) commit() tea.Cmd {
	store := w.store()
	fields := w.stepScreen.Fields()
	if err := w.intake.sync(store, fields, w.hidden); err != nil {
		w.err = err
	}
	if err := removeUnkept(store, fields, w.hidden); err != nil {
		w.err = err
	}
	pending := uploads(fields, w.hidden)

	if w.ctrl().Step().BeforeAdvance != nil {
		w.setBusy("Sending your information...")
	} else {
		w.setBusy("Checking your answers...")
	}
	w.status = ""

	sess, ctx := w.intake.Session, w.ctx
	return func() tea.Msg {
		failed := attachAll(ctx, sess, pending)
		if len(failed) > 0 {
			return advancedMsg{uploadErrors: failed}
		}
		ok, err := sess.Next(ctx)
		return advancedMsg{ok: ok, err: err}
	}
}

// batchAttacher encodes several files of one field in a single call.
type batchAttacher interface {
	AttachAll(ctx context.Context, field string, paths []string) error
}

// attachAll stores every upload and returns the failures by field. Fields
// with several paths go through AttachAll when the session offers it.
func attachAll(ctx context.Context, sess Session, pending []upload) map[string]string {
	failed := map[string]string{}
	var order []string
	byField := map[string][]string{}
	for _, u := range pending {
		if _, ok := byField[u.field]; !ok {
			order = append(order, u.field)
		}
		byField[u.field] = append(byField[u.field], u.path)
	}

	batch, canBatch := sess.(batchAttacher)
	for _, field := range order {
		paths := byField[field]
		if canBatch && len(paths) > 1 {
			if err := batch.AttachAll(ctx, field, paths); err != nil {
				failed[field] = err.Error()
			}
			continue
		}
		for _, p := range paths {
			if err := sess.Attach(ctx, field, p); err != nil {
				failed[field] = err.Error()
			}
		}
	}
	return failed
}

func (w *Wizard) advanced(msg advancedMsg) (tea.Model, tea.Cmd) {
	w.busy = ""
	store := w.store()

	switch {
	case len(msg.uploadErrors) > 0:
		for field, message := range msg.uploadErrors {
			store.SetError(field, message)
		}
		w.banner = "Some files could not be attached."
		return w, w.buildStep()
	case msg.err != nil:
		w.banner = ""
		return w.showAlert("We couldn't continue", msg.err.Error())
	case !msg.ok:
		w.banner = "Please fix the highlighted fields."
		return w, w.buildStep()
	}

	w.banner = ""
	if w.ctrl().Finished() {
		w.phase = PhaseComplete
		w.completionScreen = screens.NewCompletionScreen(w.intake.Complete())
		return w, w.completionScreen.Init()
	}
	return w, w.enterStep()
}

// back keeps the answers on screen and returns to the previous step.
func (w *Wizard) back() (tea.Model, tea.Cmd) {
	if w.ctrl().Current() == 0 {
		w.cancelled = true
		return w, tea.Quit
	}
	if err := w.intake.sync(w.store(), w.stepScreen.Fields(), w.hidden); err != nil {
		w.err = err
	}
	if err := w.intake.Session.Back(); err != nil {
		return w.showAlert("We couldn't go back", err.Error())
	}
	w.banner, w.status = "", ""
	return w, w.enterStep()
}

func (w *Wizard) skip() (tea.Model, tea.Cmd) {
	if err := w.intake.sync(w.store(), w.stepScreen.Fields(), w.hidden); err != nil {
		w.err = err
	}
	var err error
	if s, ok := w.intake.Session.(interface{ Skip() error }); ok {
		err = s.Skip()
	} else {
		err = w.ctrl().Jump("skip")
	}
	if err != nil {
		return w.showAlert("We couldn't skip this step", err.Error())
	}
	w.banner, w.status = "", ""
	return w, w.enterStep()
}

// showAlert blocks the wizard with a message.
func (w *Wizard) showAlert(title, message string) (tea.Model, tea.Cmd) {
	w.phase = PhaseAlert
	w.alertScreen = screens.NewAlertScreen(title, message)
	return w, w.alertScreen.Init()
}

// updateAlert handles updates while an alert is shown.
func (w *Wizard) updateAlert(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.alertScreen.Update(msg)
	if as, ok := model.(*screens.AlertScreen); ok {
		w.alertScreen = as
	}

	if w.alertScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}
	if w.alertScreen.Done() {
		w.phase = PhaseStep
		return w, w.buildStep()
	}

	return w, cmd
}

// transitionToSaveDraft shows the save draft dialog.
func (w *Wizard) transitionToSaveDraft() (tea.Model, tea.Cmd) {
	if err := w.intake.sync(w.store(), w.stepScreen.Fields(), w.hidden); err != nil {
		w.err = err
	}
	w.phase = PhaseSaveDraft

	w.saveDraftForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("draft_path").
				Title("Save draft to").
				Description("Enter the path for the YAML draft file").
				Value(&w.draftPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveDraftForm.Init()
}

// updateSaveDraft handles updates in the save draft phase.
func (w *Wizard) updateSaveDraft(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			w.phase = PhaseStep
			return w, w.buildStep()
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	f, cmd := w.saveDraftForm.Update(msg)
	if ff, ok := f.(*huh.Form); ok {
		w.saveDraftForm = ff
	}

	if w.saveDraftForm.State == huh.StateCompleted {
		if err := w.saveDraft(strings.TrimSpace(w.draftPath)); err != nil {
			return w.showAlert("Draft not saved", err.Error())
		}
		w.phase = PhaseStep
		return w, w.buildStep()
	}

	return w, cmd
}

func (w *Wizard) saveDraft(path string) error {
	var accountID string
	if a, ok := w.intake.Session.(interface{ AccountID() string }); ok {
		accountID = a.AccountID()
	}
	d := draft.New(w.intake.Name, w.ctrl().Current(), accountID, w.store())
	if err := draft.Save(path, d); err != nil {
		return err
	}
	w.status = "Draft saved to " + path
	return nil
}

// viewSaveDraft renders the save draft dialog.
func (w *Wizard) viewSaveDraft() string {
	title := components.TitleStyle.Render("Save Draft")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveDraftForm.View(),
		"",
		components.HintStyle.Render("Enter: Save | Esc: Back"),
	)
}

// updateComplete handles updates in the completion phase.
func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completionScreen.Update(msg)
	if cs, ok := model.(*screens.CompletionScreen); ok {
		w.completionScreen = cs
	}

	if w.completionScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// Run starts the interactive wizard for in and blocks until it exits.
func Run(ctx context.Context, in *Intake) error {
	wizard := NewWizard(ctx, in)
	p := tea.NewProgram(wizard, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok {
		if w.err != nil {
			return w.err
		}
	}

	return nil
}
