package server

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/gestris/internal/command"
	"github.com/tomz197/gestris/internal/loop/config"
	"github.com/tomz197/gestris/internal/tetris"
)

// fakeGame records the commands it receives. CurrentID in its snapshot is the
// number of applied commands.
type fakeGame struct {
	mu        sync.Mutex
	calls     []command.Command
	score     int
	overAfter int
	panicOn   command.Command
	over      bool
}

func (g *fakeGame) record(c command.Command) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c == g.panicOn {
		panic("boom")
	}
	g.calls = append(g.calls, c)
	if g.overAfter > 0 && len(g.calls) >= g.overAfter {
		g.over = true
	}
}

func (g *fakeGame) RotateCW()  { g.record(command.RotateCW) }
func (g *fakeGame) RotateCCW() { g.record(command.RotateCCW) }
func (g *fakeGame) MoveLeft()  { g.record(command.MoveLeft) }
func (g *fakeGame) MoveRight() { g.record(command.MoveRight) }
func (g *fakeGame) MoveDown()  { g.record(command.MoveDown) }
func (g *fakeGame) Drop()      { g.record(command.Drop) }
func (g *fakeGame) Hold()      { g.record(command.Hold) }

func (g *fakeGame) GameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

func (g *fakeGame) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *fakeGame) Snapshot() tetris.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return tetris.Snapshot{Score: g.score, CurrentID: len(g.calls), GameOver: g.over}
}

func (g *fakeGame) Calls() []command.Command {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.calls)
}

// manualClock hands out timer channels that only fire when the test says so.
type manualClock struct {
	requests chan time.Duration
	mu       sync.Mutex
	pending  []chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{requests: make(chan time.Duration, 64)}
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	c.pending = append(c.pending, ch)
	c.mu.Unlock()
	c.requests <- d
	return ch
}

func (c *manualClock) fire(i int) {
	c.mu.Lock()
	ch := c.pending[i]
	c.mu.Unlock()
	ch <- time.Now()
}

func (c *manualClock) fireLatest() {
	c.mu.Lock()
	i := len(c.pending) - 1
	c.mu.Unlock()
	c.fire(i)
}

type recordingObserver struct {
	states chan tetris.Snapshot
	overs  chan int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		states: make(chan tetris.Snapshot, 512),
		overs:  make(chan int, 16),
	}
}

func (o *recordingObserver) StateChanged(s tetris.Snapshot) { o.states <- s }
func (o *recordingObserver) GameOver(score int)             { o.overs <- score }

const waitTimeout = 2 * time.Second

func waitState(t *testing.T, o *recordingObserver) tetris.Snapshot {
	t.Helper()
	select {
	case s := <-o.states:
		return s
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for state change")
	}
	return tetris.Snapshot{}
}

func waitOver(t *testing.T, o *recordingObserver) int {
	t.Helper()
	select {
	case score := <-o.overs:
		return score
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for game over")
	}
	return 0
}

func waitRequest(t *testing.T, c *manualClock) time.Duration {
	t.Helper()
	select {
	case d := <-c.requests:
		return d
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a scheduled tick")
	}
	return 0
}

func expectNoState(t *testing.T, o *recordingObserver) {
	t.Helper()
	select {
	case s := <-o.states:
		t.Fatalf("unexpected state change: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

type harness struct {
	srv   *Server
	clock *manualClock
	obs   *recordingObserver
}

func newHarness(t *testing.T, newGame func() Game) *harness {
	t.Helper()
	h := &harness{clock: newManualClock(), obs: newRecordingObserver()}
	h.srv = New(Options{NewGame: newGame, After: h.clock.After, Observer: h.obs})
	return h
}

func (h *harness) run(t *testing.T) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go h.srv.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.srv.Done()
	})
	return cancel
}

func gameOf(g *fakeGame) func() Game {
	return func() Game { return g }
}

func TestTickDelay(t *testing.T) {
	tests := []struct {
		score int
		want  time.Duration
	}{
		{score: 0, want: time.Second},
		{score: -3, want: time.Second},
		{score: 1, want: 975 * time.Millisecond},
		{score: 20, want: 500 * time.Millisecond},
		{score: 36, want: 100 * time.Millisecond},
		{score: 37, want: 75 * time.Millisecond},
		{score: 40, want: 75 * time.Millisecond},
		{score: 10000, want: 75 * time.Millisecond},
		{score: math.MaxInt, want: 75 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := TickDelay(tt.score, DefaultTiming()); got != tt.want {
			t.Errorf("TickDelay(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestTickDelayMonotonic(t *testing.T) {
	prev := TickDelay(0, DefaultTiming())
	for score := 1; score <= 200; score++ {
		d := TickDelay(score, DefaultTiming())
		if d < config.MinDelay {
			t.Fatalf("TickDelay(%d) = %v below floor", score, d)
		}
		if d > prev {
			t.Fatalf("TickDelay(%d) = %v grew from %v", score, d, prev)
		}
		prev = d
	}
}

func TestSchedulerMovesDownOnTick(t *testing.T) {
	game := &fakeGame{}
	h := newHarness(t, gameOf(game))
	h.run(t)

	if s := waitState(t, h.obs); s.CurrentID != 0 {
		t.Fatalf("initial observation saw %d commands", s.CurrentID)
	}
	if d := waitRequest(t, h.clock); d != time.Second {
		t.Fatalf("first delay = %v, want 1s", d)
	}

	h.clock.fireLatest()
	if s := waitState(t, h.obs); s.CurrentID != 1 {
		t.Fatalf("after tick saw %d commands, want 1", s.CurrentID)
	}
	if got := game.Calls(); !slices.Equal(got, []command.Command{command.MoveDown}) {
		t.Fatalf("calls = %v, want [move_down]", got)
	}
	if d := waitRequest(t, h.clock); d != time.Second {
		t.Fatalf("second delay = %v, want 1s", d)
	}
}

func TestTickDelayFollowsScore(t *testing.T) {
	h := newHarness(t, gameOf(&fakeGame{score: 8}))
	h.run(t)

	waitState(t, h.obs)
	if d := waitRequest(t, h.clock); d != 800*time.Millisecond {
		t.Errorf("delay at score 8 = %v, want 800ms", d)
	}
}

func TestCommandsDoNotResetTick(t *testing.T) {
	game := &fakeGame{}
	h := newHarness(t, gameOf(game))
	h.run(t)

	waitState(t, h.obs)
	waitRequest(t, h.clock)

	h.srv.Submit(command.MoveLeft, command.SourceGesture)
	waitState(t, h.obs)
	h.srv.Submit(command.RotateCW, command.SourceKeyboard)
	waitState(t, h.obs)

	if n := len(h.clock.requests); n != 0 {
		t.Fatalf("commands scheduled %d extra ticks", n)
	}

	h.clock.fire(0)
	waitState(t, h.obs)

	want := []command.Command{command.MoveLeft, command.RotateCW, command.MoveDown}
	if got := game.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestGameOverStopsScheduling(t *testing.T) {
	game := &fakeGame{overAfter: 2, score: 3}
	h := newHarness(t, gameOf(game))
	cancel := h.run(t)

	waitState(t, h.obs)
	waitRequest(t, h.clock)
	h.clock.fireLatest()
	waitState(t, h.obs)
	waitRequest(t, h.clock)
	h.clock.fireLatest()

	if s := waitState(t, h.obs); !s.GameOver {
		t.Fatal("final observation does not report game over")
	}
	if score := waitOver(t, h.obs); score != 3 {
		t.Errorf("final score = %d, want 3", score)
	}
	if !h.srv.GameOver() {
		t.Error("server not in game over state")
	}

	h.srv.Submit(command.MoveLeft, command.SourceKeyboard)
	h.srv.Submit(command.Drop, command.SourceGesture)
	expectNoState(t, h.obs)

	cancel()
	<-h.srv.Done()

	if n := len(h.clock.requests); n != 0 {
		t.Errorf("scheduled %d ticks after game over", n)
	}
	if got := len(game.Calls()); got != 2 {
		t.Errorf("game received %d commands, want 2", got)
	}
}

func TestRestart(t *testing.T) {
	var (
		mu    sync.Mutex
		games []*fakeGame
	)
	newGame := func() Game {
		mu.Lock()
		defer mu.Unlock()
		g := &fakeGame{}
		if len(games) == 0 {
			g.overAfter = 1
		}
		games = append(games, g)
		return g
	}

	h := newHarness(t, newGame)
	h.run(t)

	waitState(t, h.obs)
	waitRequest(t, h.clock)
	h.clock.fireLatest()
	waitState(t, h.obs)
	waitOver(t, h.obs)

	if err := h.srv.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	if s := waitState(t, h.obs); s.GameOver || s.CurrentID != 0 {
		t.Fatalf("after restart got %+v, want fresh game", s)
	}
	if d := waitRequest(t, h.clock); d != time.Second {
		t.Errorf("delay after restart = %v, want 1s", d)
	}
	if h.srv.GameOver() {
		t.Error("server still in game over after restart")
	}

	h.srv.Submit(command.Hold, command.SourceKeyboard)
	waitState(t, h.obs)

	mu.Lock()
	defer mu.Unlock()
	if len(games) != 2 {
		t.Fatalf("factory called %d times, want 2", len(games))
	}
	if got := games[1].Calls(); !slices.Equal(got, []command.Command{command.Hold}) {
		t.Errorf("new game calls = %v, want [hold]", got)
	}
}

func TestRestartDiscardsPendingTick(t *testing.T) {
	var (
		mu    sync.Mutex
		games []*fakeGame
	)
	newGame := func() Game {
		mu.Lock()
		defer mu.Unlock()
		g := &fakeGame{}
		games = append(games, g)
		return g
	}

	h := newHarness(t, newGame)
	h.run(t)

	waitState(t, h.obs)
	waitRequest(t, h.clock)

	if err := h.srv.Restart(); err != nil {
		t.Fatalf("Restart() error = %v", err)
	}
	waitState(t, h.obs)
	waitRequest(t, h.clock)

	h.clock.fire(0)
	expectNoState(t, h.obs)

	h.clock.fire(1)
	waitState(t, h.obs)

	mu.Lock()
	defer mu.Unlock()
	if n := len(games[0].Calls()); n != 0 {
		t.Errorf("replaced game received %d commands", n)
	}
	if n := len(games[1].Calls()); n != 1 {
		t.Errorf("new game received %d commands, want 1", n)
	}
}

func TestDispatchPanicEndsGame(t *testing.T) {
	h := newHarness(t, gameOf(&fakeGame{panicOn: command.Hold}))
	h.run(t)

	waitState(t, h.obs)
	h.srv.Submit(command.Hold, command.SourceGesture)
	waitOver(t, h.obs)

	if !h.srv.GameOver() {
		t.Error("server not in game over after panic")
	}
	expectNoState(t, h.obs)
}

func TestCommandsSerialized(t *testing.T) {
	const (
		producers = 8
		perEach   = 25
	)
	game := &fakeGame{}
	h := newHarness(t, gameOf(game))
	h.run(t)
	waitState(t, h.obs)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perEach; i++ {
				h.srv.Submit(command.MoveLeft, command.SourceKeyboard)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < producers*perEach; i++ {
		waitState(t, h.obs)
	}
	if got := len(game.Calls()); got != producers*perEach {
		t.Errorf("applied %d commands, want %d", got, producers*perEach)
	}
}

func TestSubmitDropsWhenFull(t *testing.T) {
	s := New(Options{NewGame: gameOf(&fakeGame{})})

	s.Submit(command.Command(99), command.SourceKeyboard)
	if n := len(s.commands); n != 0 {
		t.Fatalf("invalid command enqueued, queue length %d", n)
	}

	for i := 0; i < config.CommandQueueSize+10; i++ {
		s.Submit(command.MoveDown, command.SourceGesture)
	}
	if n := len(s.commands); n != config.CommandQueueSize {
		t.Errorf("queue length = %d, want %d", n, config.CommandQueueSize)
	}
}

func TestClientEvents(t *testing.T) {
	h := newHarness(t, gameOf(&fakeGame{overAfter: 1, score: 5}))
	client := h.srv.Register("alice")
	h.run(t)

	next := func() ClientEvent {
		t.Helper()
		select {
		case ev := <-client.EventsCh:
			return ev
		case <-time.After(waitTimeout):
			t.Fatal("timed out waiting for client event")
		}
		return ClientEvent{}
	}

	if ev := next(); ev.Type != EventStateChanged {
		t.Fatalf("first event = %v, want state changed", ev.Type)
	}
	waitRequest(t, h.clock)
	h.clock.fireLatest()
	if ev := next(); ev.Type != EventStateChanged {
		t.Fatalf("second event = %v, want state changed", ev.Type)
	}
	if ev := next(); ev.Type != EventGameOver || ev.Score != 5 {
		t.Fatalf("third event = %+v, want game over with score 5", ev)
	}

	h.srv.Unregister(client.ID)
	for range client.EventsCh {
	}
	if n := h.srv.Clients(); n != 0 {
		t.Errorf("Clients() = %d after unregister", n)
	}
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := New(Options{NewGame: gameOf(&fakeGame{})})
	client := s.Register("bob")

	got := make(chan ClientEventType, 1)
	go func() {
		for ev := range client.EventsCh {
			if ev.Type == EventServerShutdown {
				got <- ev.Type
				s.Unregister(client.ID)
			}
		}
	}()

	start := time.Now()
	s.Shutdown(waitTimeout)
	if time.Since(start) >= waitTimeout {
		t.Error("Shutdown waited for the full timeout")
	}
	select {
	case <-got:
	default:
		t.Error("client never received shutdown event")
	}
}

func TestRestartAfterStop(t *testing.T) {
	h := newHarness(t, gameOf(&fakeGame{}))
	cancel := h.run(t)
	cancel()
	<-h.srv.Done()

	if err := h.srv.Restart(); !errors.Is(err, ErrServerStopped) {
		t.Errorf("Restart() error = %v, want ErrServerStopped", err)
	}
}

func TestSnapshotBeforeRun(t *testing.T) {
	s := New(Options{NewGame: func() Game { return tetris.NewSeededGame(1) }})
	snap := s.Snapshot()
	if snap.Rows != tetris.Rows || snap.Cols != tetris.Cols {
		t.Errorf("snapshot dims = %dx%d", snap.Rows, snap.Cols)
	}
}
