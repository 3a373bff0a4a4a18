package binding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvnd/banner/internal/model"
	"github.com/mlvnd/banner/internal/present"
)

// shown records one Show call with the config the view was shown with,
// so tests can fire dismissal events the way a presenter would.
type shown struct {
	cfg  *present.Config
	view *present.View
}

// fakePresenter records every call in order. It never emits dismissal
// events on its own; tests fire them explicitly through the recorded
// configs.
type fakePresenter struct {
	calls   []string
	shows   []shown
	defCfg  *present.Config
	geo     present.Geometry
	showErr error
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{
		defCfg: &present.Config{Timeout: 10 * time.Second, Position: "top-right"},
		geo:    present.Geometry{Width: 80, Height: 24},
	}
}

func (f *fakePresenter) Show(cfg *present.Config, view *present.View) error {
	f.calls = append(f.calls, "show:"+view.ID)
	f.shows = append(f.shows, shown{cfg: cfg, view: view})
	return f.showErr
}

func (f *fakePresenter) HideAll() {
	f.calls = append(f.calls, "hideAll")
}

func (f *fakePresenter) DefaultConfig() *present.Config {
	return f.defCfg
}

func (f *fakePresenter) Geometry() present.Geometry {
	return f.geo
}

func (f *fakePresenter) reset() {
	f.calls = nil
	f.shows = nil
}

// lastShown returns the most recent Show call.
func (f *fakePresenter) lastShown(t *testing.T) shown {
	t.Helper()
	require.NotEmpty(t, f.shows)
	return f.shows[len(f.shows)-1]
}

func newMessage(t *testing.T, summary string) *model.Message {
	t.Helper()
	m, err := model.New(summary, "body of "+summary)
	require.NoError(t, err)
	return m
}

func TestBinding_ShowOnSet(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()
	p.reset()

	m := newMessage(t, "hi")
	cell.Set(m)

	assert.Equal(t, []string{"hideAll", "show:" + m.ID}, p.calls)
	view := p.lastShown(t).view
	assert.Equal(t, m.Summary, view.Summary)
	assert.Equal(t, m.Body, view.Body)
	assert.Equal(t, m.Severity, view.Severity)
}

func TestBinding_HideOnClear(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	cell.Set(newMessage(t, "hi"))
	p.reset()

	cell.Clear()

	assert.Equal(t, []string{"hideAll"}, p.calls)
}

func TestBinding_Supersession(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()
	p.reset()

	m1 := newMessage(t, "first")
	m2 := newMessage(t, "second")
	cell.Set(m1)
	cell.Set(m2)

	assert.Equal(t, []string{
		"hideAll", "show:" + m1.ID,
		"hideAll", "show:" + m2.ID,
	}, p.calls)
	assert.Equal(t, "second", p.lastShown(t).view.Summary)
}

func TestBinding_DismissalClosesLoop(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()
	p.reset()

	m := newMessage(t, "hi")
	cell.Set(m)
	s := p.lastShown(t)
	p.reset()

	s.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonExpired,
	})

	assert.Nil(t, cell.Get(), "cell must be cleared by the dismissal")
	assert.Equal(t, []string{"hideAll"}, p.calls,
		"the resulting empty branch hides all and shows nothing")
}

func TestBinding_StaleDismissalIgnored(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	m1 := newMessage(t, "first")
	cell.Set(m1)
	firstShow := p.lastShown(t)

	m2 := newMessage(t, "second")
	cell.Set(m2)
	p.reset()

	// A delayed did-hide for the superseded message arrives after the
	// cell was reassigned.
	firstShow.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m1.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonExpired,
	})

	assert.Same(t, m2, cell.Get(), "stale dismissal must not clear the cell")
	assert.Empty(t, p.calls, "stale dismissal must not touch the presenter")
}

// syncEmitPresenter emits will-hide and did-hide synchronously from
// HideAll, the way an in-process presenter does.
type syncEmitPresenter struct {
	fakePresenter
	live *shown
}

func (f *syncEmitPresenter) Show(cfg *present.Config, view *present.View) error {
	err := f.fakePresenter.Show(cfg, view)
	f.live = &shown{cfg: cfg, view: view}
	return err
}

func (f *syncEmitPresenter) HideAll() {
	f.fakePresenter.HideAll()
	lv := f.live
	f.live = nil
	if lv == nil {
		return
	}
	lv.cfg.NotifyDismissed(present.DismissalEvent{
		ID:   lv.view.ID,
		Kind: present.KindWillHide,
	})
	lv.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     lv.view.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonClosed,
	})
}

func TestBinding_SameIdentityResetKeepsShowing(t *testing.T) {
	p := &syncEmitPresenter{fakePresenter: *newFakePresenter()}
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()
	p.reset()

	m := newMessage(t, "hi")
	cell.Set(m)
	// Re-setting the same message still re-synchronizes: hide, then
	// show again. The did-hide the first instance emits on the way out
	// carries the same identity the cell holds and must not clear it.
	cell.Set(m)

	assert.Equal(t, []string{
		"hideAll", "show:" + m.ID,
		"hideAll", "show:" + m.ID,
	}, p.calls)
	assert.Same(t, m, cell.Get(), "re-setting a message must leave it in the cell")
	require.NotNil(t, p.live, "re-setting a message must leave it showing")
	assert.Equal(t, m.ID, p.live.view.ID)
}

func TestBinding_SupersededShowListenerIgnored(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	m := newMessage(t, "hi")
	cell.Set(m)
	firstShow := p.lastShown(t)

	cell.Set(m)
	p.reset()

	// A delayed did-hide from the first show matches the live identity,
	// but the show it belongs to has been superseded.
	firstShow.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonExpired,
	})
	assert.Same(t, m, cell.Get(), "superseded show's dismissal must not clear the cell")

	// The current show's did-hide still closes the loop.
	cell.Set(m)
	secondShow := p.lastShown(t)
	secondShow.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonExpired,
	})
	assert.Nil(t, cell.Get(), "current show's dismissal must clear the cell")
}

func TestBinding_NonDidHideIgnored(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	m := newMessage(t, "hi")
	cell.Set(m)
	s := p.lastShown(t)
	p.reset()

	s.cfg.NotifyDismissed(present.DismissalEvent{
		ID:   m.ID,
		Kind: present.KindWillHide,
	})

	assert.Same(t, m, cell.Get())
	assert.Empty(t, p.calls)
}

func TestBinding_ConfigPrecedence(t *testing.T) {
	explicit := &present.Config{Timeout: 1 * time.Second}
	selfDescribed := &present.Config{Timeout: 2 * time.Second}

	tests := []struct {
		name        string
		opts        []Option
		selfPresent *present.Config
		wantTimeout time.Duration
	}{
		{
			name:        "explicit wins over everything",
			opts:        []Option{WithConfig(explicit)},
			selfPresent: selfDescribed,
			wantTimeout: 1 * time.Second,
		},
		{
			name:        "self-described wins over presenter default",
			selfPresent: selfDescribed,
			wantTimeout: 2 * time.Second,
		},
		{
			name:        "presenter default is the last resort",
			wantTimeout: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePresenter()
			cell := NewCell()
			b := BindDefault(cell, append(tt.opts, WithPresenter(p))...)
			defer b.Close()

			m := newMessage(t, "hi")
			m.Present = tt.selfPresent
			cell.Set(m)

			assert.Equal(t, tt.wantTimeout, p.lastShown(t).cfg.Timeout)
		})
	}
}

func TestBinding_ExplicitConfigNotMutated(t *testing.T) {
	explicit := &present.Config{Timeout: 1 * time.Second}

	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p), WithConfig(explicit))
	defer b.Close()

	cell.Set(newMessage(t, "one"))
	cell.Set(newMessage(t, "two"))

	// Each show clones before appending its listener, so the caller's
	// config never accumulates listeners across shows.
	var fired int
	cfg := p.lastShown(t).cfg
	require.NotSame(t, explicit, cfg)
	explicit.OnDismiss(func(present.DismissalEvent) { fired++ })
	cfg.NotifyDismissed(present.DismissalEvent{Kind: present.KindWillHide})
	assert.Zero(t, fired)
}

func TestBinding_CallerListenersPreserved(t *testing.T) {
	var events []present.DismissalEvent
	explicit := &present.Config{Timeout: 1 * time.Second}
	explicit.OnDismiss(func(ev present.DismissalEvent) {
		events = append(events, ev)
	})

	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p), WithConfig(explicit))
	defer b.Close()

	m := newMessage(t, "hi")
	cell.Set(m)

	p.lastShown(t).cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonDismissed,
	})

	require.Len(t, events, 1)
	assert.Equal(t, m.ID, events[0].ID)
	assert.Nil(t, cell.Get())
}

func TestBinding_InitialValueSynchronized(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	m := newMessage(t, "already there")
	cell.Set(m)

	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	assert.Equal(t, []string{"hideAll", "show:" + m.ID}, p.calls)
}

func TestBinding_DefaultPresenterUsed(t *testing.T) {
	p := newFakePresenter()
	present.SetDefault(p)
	t.Cleanup(func() { present.SetDefault(nil) })

	cell := NewCell()
	b := BindDefault(cell)
	defer b.Close()
	p.reset()

	m := newMessage(t, "hi")
	cell.Set(m)

	assert.Equal(t, []string{"hideAll", "show:" + m.ID}, p.calls)
}

func TestBinding_NoPresenterDropsQuietly(t *testing.T) {
	present.SetDefault(nil)

	cell := NewCell()
	b := BindDefault(cell)
	defer b.Close()

	assert.NotPanics(t, func() {
		cell.Set(newMessage(t, "hi"))
	})
}

func TestBinding_ShowErrorLoggedNotSurfaced(t *testing.T) {
	p := newFakePresenter()
	p.showErr = errors.New("render failed")

	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()

	assert.NotPanics(t, func() {
		cell.Set(newMessage(t, "hi"))
	})
}

func TestBinding_GeometryPassedToBuilder(t *testing.T) {
	p := newFakePresenter()
	p.geo = present.Geometry{Width: 120, Height: 40}

	var got present.Geometry
	build := func(m model.Message, geo present.Geometry) *present.View {
		got = geo
		return DefaultBuilder(m, geo)
	}

	cell := NewCell()
	b := Bind(cell, build, WithPresenter(p))
	defer b.Close()

	cell.Set(newMessage(t, "hi"))
	assert.Equal(t, p.geo, got)
}

func TestBinding_CloseDetaches(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	b.Close()
	p.reset()

	cell.Set(newMessage(t, "hi"))
	assert.Empty(t, p.calls)
}

type fakePlayer struct {
	played []string
	err    error
}

func (f *fakePlayer) Play(path string) error {
	f.played = append(f.played, path)
	return f.err
}

func TestBinding_ShowSound(t *testing.T) {
	p := newFakePresenter()
	player := &fakePlayer{}
	sounds := map[int]string{
		present.SeverityNormal:   "/sounds/normal.wav",
		present.SeverityCritical: "/sounds/critical.wav",
	}

	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p), WithSound(player, sounds))
	defer b.Close()

	m := newMessage(t, "hi")
	m.SetSeverity(present.SeverityCritical)
	cell.Set(m)

	assert.Equal(t, []string{"/sounds/critical.wav"}, player.played)
}

func TestBinding_ConfigSoundWins(t *testing.T) {
	p := newFakePresenter()
	p.defCfg.Sound = "/sounds/override.wav"
	player := &fakePlayer{}

	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p),
		WithSound(player, map[int]string{present.SeverityNormal: "/sounds/normal.wav"}))
	defer b.Close()

	cell.Set(newMessage(t, "hi"))
	assert.Equal(t, []string{"/sounds/override.wav"}, player.played)
}

// The concrete end-to-end scenario: empty cell, set a message, expect
// hideAll then show; the presenter later reports did-hide for that
// identity; the cell empties and exactly one more hideAll fires with no
// further show.
func TestBinding_Scenario(t *testing.T) {
	p := newFakePresenter()
	cell := NewCell()
	b := BindDefault(cell, WithPresenter(p))
	defer b.Close()
	p.reset()

	m := newMessage(t, "hi")
	cell.Set(m)
	require.Equal(t, []string{"hideAll", "show:" + m.ID}, p.calls)

	s := p.lastShown(t)
	p.reset()
	s.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     m.ID,
		Kind:   present.KindDidHide,
		Reason: present.ReasonExpired,
	})

	assert.Nil(t, cell.Get())
	assert.Equal(t, []string{"hideAll"}, p.calls)
}
