package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/notify"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Query     *state.Query
	Favorites *favorites.Store
	Toasts    <-chan notify.Toast
	ThemeName string
	Sort      catalog.SortOrder
	PrefsPath string // empty disables saving preferences
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	query     *state.Query
	favorites *favorites.Store
	toasts    <-chan notify.Toast
	prefsPath string
	logger    *zap.Logger
	keys      keyMap

	// Subscription
	changes     chan struct{}
	unsubscribe func()

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Data state
	snapshot state.Snapshot

	// List controls
	filter        textinput.Model
	filtering     bool
	category      catalog.Category
	order         catalog.SortOrder
	favoritesOnly bool
	selected      int
	offset        int

	// Toast state
	toast    *activeToast
	toastSeq int
}

type activeToast struct {
	notify.Toast
	id int
}

// Messages

type snapshotMsg state.Snapshot

type toastMsg notify.Toast

type toastExpiredMsg struct{ id int }

// New creates a new Bubble Tea model and subscribes it to the query.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	filter := textinput.New()
	filter.Placeholder = "Search products"
	filter.Prompt = ""
	filter.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		query:       opts.Query,
		favorites:   opts.Favorites,
		toasts:      opts.Toasts,
		prefsPath:   opts.PrefsPath,
		logger:      logger,
		keys:        DefaultKeyMap(),
		changes:     make(chan struct{}, 1),
		unsubscribe: func() {},
		theme:       GetTheme(themeName),
		spinner:     spin,
		filter:      filter,
		order:       opts.Sort,
	}

	if m.query != nil {
		changes := m.changes
		m.unsubscribe = m.query.Subscribe(func(state.Snapshot) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		m.snapshot = m.query.Snapshot()
	}
	return m
}

// Close removes the query subscription.
func (m Model) Close() {
	m.unsubscribe()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForChange(m.ctx, m.changes, m.query),
		waitForToast(m.ctx, m.toasts),
	}
	// Pick up anything that settled before the subscription existed.
	if m.query != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.query))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.filter.Width = max(m.width/3, 10)
		m.clampSelection()
		return m, nil

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, waitForChange(m.ctx, m.changes, m.query)

	case toastMsg:
		m.toastSeq++
		t := notify.Toast(msg).WithDefaults()
		m.toast = &activeToast{Toast: t, id: m.toastSeq}
		return m, tea.Batch(
			waitForToast(m.ctx, m.toasts),
			toastExpiryCmd(m.toastSeq, t.AutoClose),
		)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	ctx := m.ctx
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// Commands

func fetchSnapshotCmd(q *state.Query) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(q.Snapshot())
	}
}

// waitForChange blocks until the query publishes a transition.
func waitForChange(ctx context.Context, changes <-chan struct{}, q *state.Query) tea.Cmd {
	if q == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return snapshotMsg(q.Snapshot())
		}
	}
}

func waitForToast(ctx context.Context, toasts <-chan notify.Toast) tea.Cmd {
	if toasts == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case t, ok := <-toasts:
			if !ok {
				return nil
			}
			return toastMsg(t)
		}
	}
}

func toastExpiryCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// refreshCmd runs the retry action. Results arrive through the subscription.
func refreshCmd(ctx context.Context, q *state.Query) tea.Cmd {
	return func() tea.Msg {
		q.Refresh(ctx)
		return nil
	}
}

// savePrefs persists theme and sort order. Failures are logged only.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Sort: m.order.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("error saving preferences", zap.Error(err), zap.String("path", m.prefsPath))
	}
}
