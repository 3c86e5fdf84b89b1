package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/kv"
	"github.com/five82/shelf/internal/notify"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

type harness struct {
	model     Model
	query     *state.Query
	favorites *favorites.Store
	toasts    *notify.Recorder
}

func newHarness(t *testing.T, fail bool, opts ...func(*Options)) *harness {
	t.Helper()
	ctx := context.Background()

	store, err := catalog.NewStore(catalog.WithDelay(0))
	require.NoError(t, err)
	q := state.NewQuery(ctx, store, state.QueryOptions{DeferFetch: true, ShouldFail: fail})
	q.Execute(ctx)

	rec := &notify.Recorder{}
	favs := favorites.New(kv.NewMemory(), rec)

	o := Options{Context: ctx, Query: q, Favorites: favs}
	for _, opt := range opts {
		opt(&o)
	}
	m := New(o)
	t.Cleanup(m.Close)

	h := &harness{model: m, query: q, favorites: favs, toasts: rec}
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 30})
	h.send(t, snapshotMsg(q.Snapshot()))
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.model.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	h.model = model
	return cmd
}

func (h *harness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		h.send(t, keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func visibleNames(m Model) []string {
	var out []string
	for _, p := range m.visibleProducts() {
		out = append(out, p.Name)
	}
	return out
}

func TestView_BeforeWindowSize(t *testing.T) {
	m := New(Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestView_ListsCatalog(t *testing.T) {
	h := newHarness(t, false)
	view := h.model.View()

	for _, want := range []string{"Kind Vue Guide", "Noise-Cancel Buds", "$29.99", "$99.50", "Out of stock", "In stock", "Products: 5/5"} {
		assert.Contains(t, view, want)
	}
	assert.Equal(t, []string{"Kind Vue Guide", "Vue Racer", "Noise-Cancel Buds", "TypeScript Tactics", "Indie Platformer"}, visibleNames(h.model))
}

func TestFilterByName(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "/")
	require.True(t, h.model.filtering)
	h.press(t, "vue", "enter")
	assert.False(t, h.model.filtering)

	assert.Equal(t, []string{"Kind Vue Guide", "Vue Racer"}, visibleNames(h.model))
	view := h.model.View()
	assert.Contains(t, view, "Vue Racer")
	assert.NotContains(t, view, "TypeScript Tactics")

	// esc outside the input clears the filter.
	h.press(t, "esc")
	assert.Len(t, h.model.visibleProducts(), 5)
}

func TestFilterWithoutMatchesShowsEmptyState(t *testing.T) {
	h := newHarness(t, false)
	h.press(t, "/", "zzz", "enter")

	assert.Empty(t, h.model.visibleProducts())
	assert.Contains(t, h.model.View(), emptyText)
}

func TestFilteringSwallowsListKeys(t *testing.T) {
	h := newHarness(t, false)
	h.press(t, "/", "q")

	cmd := h.send(t, keyMsg("s"))
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit)
	}
	assert.Equal(t, catalog.SortNone, h.model.order)
	assert.Equal(t, "qs", h.model.filter.Value())
}

func TestCycleSort(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "s")
	require.Equal(t, catalog.SortAsc, h.model.order)
	assert.Equal(t, 14.99, h.model.visibleProducts()[0].Price)
	assert.Contains(t, h.model.View(), "Price: Low→High")

	h.press(t, "s")
	require.Equal(t, catalog.SortDesc, h.model.order)
	assert.Equal(t, 99.5, h.model.visibleProducts()[0].Price)

	h.press(t, "s")
	assert.Equal(t, catalog.SortNone, h.model.order)
	assert.Equal(t, "p1", h.model.visibleProducts()[0].ID)
}

func TestCycleCategory(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "c")
	assert.Equal(t, catalog.CategoryBooks, h.model.category)
	assert.Equal(t, []string{"Kind Vue Guide", "TypeScript Tactics"}, visibleNames(h.model))

	h.press(t, "c", "c")
	assert.Equal(t, catalog.CategoryElectronics, h.model.category)
	assert.Equal(t, []string{"Noise-Cancel Buds"}, visibleNames(h.model))

	h.press(t, "c")
	assert.Equal(t, catalog.Category(""), h.model.category)
	assert.Contains(t, h.model.View(), "Category: All")
}

func TestToggleFavorite(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "down", "space")
	assert.True(t, h.favorites.IsFavorite("p2"))
	assert.Equal(t, []string{"Vue Racer added to favorites."}, h.toasts.Messages())
	assert.Contains(t, h.model.View(), "★")

	h.press(t, "F")
	assert.Equal(t, []string{"Vue Racer"}, visibleNames(h.model))
	assert.Equal(t, 0, h.model.selected)

	// Unfavoriting the only row empties the favorites-only view.
	h.press(t, "space")
	assert.False(t, h.favorites.IsFavorite("p2"))
	assert.Empty(t, h.model.visibleProducts())
	assert.Contains(t, h.model.View(), emptyText)
	assert.Equal(t, "Vue Racer removed from favorites.", h.toasts.Messages()[1])
}

func TestClearFavorites(t *testing.T) {
	h := newHarness(t, false)
	h.favorites.Add("p1", "Kind Vue Guide")
	h.favorites.Add("p4", "TypeScript Tactics")

	h.press(t, "X")
	assert.Zero(t, h.favorites.Len())
	msgs := h.toasts.Messages()
	assert.Equal(t, "All favorites cleared.", msgs[len(msgs)-1])
}

func TestNavigationClampsSelection(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "k")
	assert.Equal(t, 0, h.model.selected)
	h.press(t, "G")
	assert.Equal(t, 4, h.model.selected)
	h.press(t, "j")
	assert.Equal(t, 4, h.model.selected)
	h.press(t, "g")
	assert.Equal(t, 0, h.model.selected)
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	h := newHarness(t, false)
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: chromeLines + 2})

	h.press(t, "G")
	assert.Equal(t, 4, h.model.selected)
	assert.Equal(t, 3, h.model.offset)
	view := h.model.View()
	assert.Contains(t, view, "Indie Platformer")
	assert.NotContains(t, view, "Kind Vue Guide")
}

func TestErrorStateAndRetry(t *testing.T) {
	h := newHarness(t, true)
	view := h.model.View()
	assert.Contains(t, view, catalog.ErrFetchFailed.Error())
	assert.Contains(t, view, retryText)
	assert.Nil(t, h.model.visibleProducts())

	cmd := h.send(t, keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	snap := h.query.Snapshot()
	assert.Equal(t, state.PhaseError, snap.Phase)
	assert.Equal(t, 2, snap.ConsecutiveFailures)
}

func TestRetryIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t, false)
	h.send(t, snapshotMsg(state.Snapshot{Phase: state.PhaseLoading, Loading: true}))

	assert.Contains(t, h.model.View(), loadingText)
	assert.Nil(t, h.send(t, keyMsg("r")))
}

func TestIdleState(t *testing.T) {
	h := newHarness(t, false)
	h.query.Reset()
	h.send(t, snapshotMsg(h.query.Snapshot()))
	assert.Contains(t, h.model.View(), idleText)
}

func TestWaitForChangeDeliversSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := catalog.NewStore(catalog.WithDelay(0))
	require.NoError(t, err)
	q := state.NewQuery(ctx, store, state.QueryOptions{DeferFetch: true})
	m := New(Options{Context: ctx, Query: q})
	defer m.Close()

	q.Execute(ctx)

	msg := waitForChange(ctx, m.changes, q)()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, state.PhaseSuccess, snap.Phase)
	assert.Len(t, snap.Products, 5)
}

func TestWaitForChangeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store, err := catalog.NewStore(catalog.WithDelay(0))
	require.NoError(t, err)
	q := state.NewQuery(ctx, store, state.QueryOptions{DeferFetch: true})
	m := New(Options{Context: ctx, Query: q})
	defer m.Close()

	cancel()
	assert.Nil(t, waitForChange(ctx, m.changes, q)())
	assert.Nil(t, waitForChange(ctx, m.changes, nil))
}

func TestToastLifecycle(t *testing.T) {
	ch := notify.NewChannel(4)
	h := newHarness(t, false, func(o *Options) { o.Toasts = ch.C })

	ch.Notify(notify.Toast{Message: "Kind Vue Guide added to favorites.", AutoClose: 700 * time.Millisecond})
	msg := waitForToast(context.Background(), ch.C)()
	require.IsType(t, toastMsg{}, msg)

	cmd := h.send(t, msg)
	assert.NotNil(t, cmd)
	require.NotNil(t, h.model.toast)
	assert.Contains(t, h.model.View(), "Kind Vue Guide added to favorites.")

	// A newer toast replaces the old one; the first expiry is stale.
	h.send(t, toastMsg{Message: "All favorites cleared."})
	h.send(t, toastExpiredMsg{id: 1})
	require.NotNil(t, h.model.toast)
	assert.Equal(t, "All favorites cleared.", h.model.toast.Message)
	assert.Equal(t, notify.DefaultAutoClose, h.model.toast.AutoClose)

	h.send(t, toastExpiredMsg{id: 2})
	assert.Nil(t, h.model.toast)
	assert.Contains(t, h.model.View(), "help")
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t, false)

	h.press(t, "?")
	view := h.model.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Toggle favorite")

	// Any key closes help without acting.
	h.press(t, "s")
	assert.False(t, h.model.showHelp)
	assert.Equal(t, catalog.SortNone, h.model.order)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, false)
	cmd := h.send(t, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestThemeAndSortPersistToPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	h := newHarness(t, false, func(o *Options) { o.PrefsPath = path })

	h.press(t, "T", "s")
	assert.Equal(t, "Kanagawa", h.model.theme.Name)

	saved, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
	assert.Equal(t, catalog.SortAsc, saved.SortOrder())
}

func TestOptionsSortIsApplied(t *testing.T) {
	h := newHarness(t, false, func(o *Options) { o.Sort = catalog.SortDesc })
	assert.Equal(t, "p3", h.model.visibleProducts()[0].ID)
}

func TestHeaderShowsFavoritesCount(t *testing.T) {
	h := newHarness(t, false)
	h.favorites.Add("p5", "Indie Platformer")
	header := h.model.renderHeader()
	assert.True(t, strings.Contains(header, "★ 1"), header)
}
