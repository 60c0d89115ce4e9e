package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"naval-chess/internal/config"
	"naval-chess/internal/game"
	"naval-chess/internal/shared"
)

type fakeStore struct {
	mu       sync.Mutex
	matches  map[string]*Match
	failSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{matches: map[string]*Match{}}
}

func (s *fakeStore) LoadMatch(_ context.Context, id string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *fakeStore) SaveMatch(_ context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("disk full")
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *fakeStore) MatchIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) setFailSave(v bool) {
	s.mu.Lock()
	s.failSave = v
	s.mu.Unlock()
}

type event struct {
	room   string
	action string
	data   interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Broadcast(room, action string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{room, action, data})
}

func (r *recorder) count(room, action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.room == room && e.action == action {
			n++
		}
	}
	return n
}

func (r *recorder) last(room, action string) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if e := r.events[i]; e.room == room && e.action == action {
			return e.data, true
		}
	}
	return nil, false
}

// fleet mirrors the fixed layout used by the game package tests.
func fleet() []game.Ship {
	return []game.Ship{
		{ID: 0, Length: 2, Row: 2, Col: 0, Orientation: game.Horizontal},
		{ID: 1, Length: 3, Row: 4, Col: 4, Orientation: game.Vertical},
		{ID: 2, Length: 3, Row: 9, Col: 2, Orientation: game.Horizontal},
		{ID: 3, Length: 4, Row: 1, Col: 7, Orientation: game.Vertical},
		{ID: 4, Length: 5, Row: 7, Col: 5, Orientation: game.Horizontal},
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ComputerThink = 0
	cfg.DisconnectGrace = 20 * time.Millisecond
	return cfg
}

func newTestManager(t *testing.T, cfg config.Config, opts ...Option) (*Manager, *fakeStore, *recorder) {
	t.Helper()
	st := newFakeStore()
	rec := &recorder{}
	opts = append([]Option{WithSeed(42), WithAutoPlay(false)}, opts...)
	return NewManager(st, cfg, rec, opts...), st, rec
}

// startHuman pairs alice and bob and returns the playing match.
func startHuman(t *testing.T, m *Manager) *Match {
	t.Helper()
	ctx := context.Background()
	first, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
	require.NoError(t, err)
	require.Equal(t, SideOne, side)
	require.Equal(t, StatusWaiting, first.Status)

	match, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "bob", Ships: fleet()})
	require.NoError(t, err)
	require.Equal(t, SideTwo, side)
	require.Equal(t, first.ID, match.ID)
	require.Equal(t, StatusPlaying, match.Status)
	return match
}

// missCell is the first unattacked water cell of b.
func missCell(b Board) game.Cell {
	for _, c := range game.EmptyCells(b.Attacks) {
		if !b.Layout.Occupies(c) {
			return c
		}
	}
	panic("no water left")
}

func TestCreateOrJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("second player joins the waiting match", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)
		require.Equal(t, "alice", match.Players[SideOne].ID)
		require.Equal(t, "bob", match.Players[SideTwo].ID)
		require.Equal(t, 17, match.Boards[SideOne].Remaining)
		require.Equal(t, []int{2, 3, 3, 4, 5}, match.Boards[SideTwo].ShipsLeft)
		require.Equal(t, 1, rec.count(match.ID, shared.ActionWaiting))
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameStarted))
		require.Zero(t, m.Queue().Len())

		data, ok := rec.last(match.ID, shared.ActionGameStarted)
		require.True(t, ok)
		started := data.(shared.GameStarted)
		require.Equal(t, match.Players[match.Turn].ID, started.FirstTurn)
		require.False(t, started.VsComputer)
	})

	t.Run("player never pairs with itself", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		a, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		b, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		require.Equal(t, SideOne, side)
		require.NotEqual(t, a.ID, b.ID)
		require.Equal(t, 2, m.Queue().Len())
	})

	t.Run("rating band", func(t *testing.T) {
		cfg := testConfig()
		cfg.RatingBand = 100
		m, _, _ := newTestManager(t, cfg)
		low, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "a", Ships: fleet(), Rating: 1000})
		require.NoError(t, err)
		high, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "b", Ships: fleet(), Rating: 1500})
		require.NoError(t, err)
		require.NotEqual(t, low.ID, high.ID)
		require.Equal(t, StatusWaiting, high.Status)

		joined, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "c", Ships: fleet(), Rating: 1050})
		require.NoError(t, err)
		require.Equal(t, SideTwo, side)
		require.Equal(t, low.ID, joined.ID)
	})

	t.Run("empty player id gets one assigned", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match, _, err := m.CreateOrJoin(ctx, JoinRequest{Ships: fleet()})
		require.NoError(t, err)
		require.NotEmpty(t, match.Players[SideOne].ID)
	})

	t.Run("invalid layouts are rejected", func(t *testing.T) {
		m, st, _ := newTestManager(t, testConfig())
		short := fleet()[:4]
		_, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: short})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "ships", verr.Field)
		require.ErrorIs(t, err, game.ErrFleetMismatch)

		overlap := fleet()
		overlap[1].Row, overlap[1].Col = 2, 1
		_, _, err = m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: overlap})
		require.ErrorAs(t, err, &verr)
		require.Empty(t, st.matches)
	})

	t.Run("computer id is reserved", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		_, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: ComputerID, Ships: fleet()})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("stale ticket is skipped", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		a, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		m.Queue().Push(Ticket{PlayerID: "ghost", MatchID: "gone"})
		m.Queue().Requeue(Ticket{PlayerID: "ghost", MatchID: "gone"})

		joined, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "bob", Ships: fleet()})
		require.NoError(t, err)
		require.Equal(t, SideTwo, side)
		require.Equal(t, a.ID, joined.ID)
	})
}

func TestSubmitMove(t *testing.T) {
	ctx := context.Background()

	t.Run("hits keep the turn and sinking shrinks the fleet", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)
		atk := match.Turn

		out, err := m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 0})
		require.NoError(t, err)
		require.Equal(t, game.ResultHit, out.Result)
		require.Equal(t, atk, out.Turn)
		require.Equal(t, 16, out.Remaining)
		require.Empty(t, out.Sunk)

		out, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 1})
		require.NoError(t, err)
		require.Len(t, out.Sunk, 1)
		require.Len(t, out.Sunk[0], 2)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		def := got.Boards[atk.Other()]
		require.Equal(t, []int{3, 3, 4, 5}, def.ShipsLeft)
		require.Equal(t, game.CellSunk, def.Attacks.At(game.Cell{Row: 2, Col: 0}))
		require.Equal(t, game.CellSunk, def.Attacks.At(game.Cell{Row: 2, Col: 1}))

		data, ok := rec.last(match.ID, shared.ActionMoveMade)
		require.True(t, ok)
		mv := data.(shared.MoveMade)
		require.Equal(t, 2, mv.X)
		require.Equal(t, 1, mv.Y)
		require.True(t, mv.Hit)
		require.Equal(t, []int{2}, mv.SunkLengths)

		out, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 0, Col: 0})
		require.NoError(t, err)
		require.Equal(t, game.ResultMiss, out.Result)
		require.Equal(t, atk.Other(), out.Turn)
	})

	t.Run("rejections leave the match untouched", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match := startHuman(t, m)
		atk := match.Turn

		_, err := m.SubmitMove(ctx, match.ID, atk.Other(), game.Cell{Row: 0, Col: 0})
		require.ErrorIs(t, err, ErrNotYourTurn)

		_, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 0})
		require.NoError(t, err)
		_, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 0})
		require.ErrorIs(t, err, ErrAlreadyAttacked)

		_, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 10, Col: 0})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.ErrorIs(t, err, game.ErrOutOfBounds)

		_, err = m.SubmitMove(ctx, "nope", atk, game.Cell{})
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, m.RunComputerTurn(ctx, "nope"), ErrNotFound)
		require.ErrorIs(t, m.HandleDisconnect(ctx, "nope", SideOne), ErrNotFound)
		m.mu.Lock()
		_, held := m.sessions["nope"]
		m.mu.Unlock()
		require.False(t, held)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Len(t, got.Moves, 1)
		require.Equal(t, atk, got.Turn)
		require.Equal(t, 16, got.Boards[atk.Other()].Remaining)
	})

	t.Run("waiting match is not started", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		_, err = m.SubmitMove(ctx, match.ID, SideOne, game.Cell{})
		require.ErrorIs(t, err, ErrNotStarted)
	})

	t.Run("sinking the last ship wins once", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)
		atk := match.Turn

		var out MoveOutcome
		var err error
		for _, s := range fleet() {
			for _, c := range s.Cells() {
				out, err = m.SubmitMove(ctx, match.ID, atk, c)
				require.NoError(t, err)
			}
		}
		require.Equal(t, StatusFinished, out.Status)
		require.NotNil(t, out.Winner)
		require.Equal(t, atk, *out.Winner)
		require.Zero(t, out.Remaining)

		_, err = m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 0, Col: 0})
		require.ErrorIs(t, err, ErrGameOver)
		_, err = m.SubmitMove(ctx, match.ID, atk.Other(), game.Cell{Row: 0, Col: 0})
		require.ErrorIs(t, err, ErrGameOver)

		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
		data, _ := rec.last(match.ID, shared.ActionGameOver)
		over := data.(shared.GameOver)
		require.Equal(t, match.Players[atk].ID, over.Winner)
		require.Equal(t, string(ReasonVictory), over.Reason)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, 17, got.Boards[atk.Other()].Attacks.Count(game.CellSunk))
		require.Empty(t, got.Boards[atk.Other()].ShipsLeft)
	})

	t.Run("fire resolves the player", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match := startHuman(t, m)
		shooter := match.Players[match.Turn].ID

		out, err := m.Fire(ctx, match.ID, shooter, game.Cell{Row: 4, Col: 4})
		require.NoError(t, err)
		require.Equal(t, game.ResultHit, out.Result)

		_, err = m.Fire(ctx, match.ID, "mallory", game.Cell{Row: 0, Col: 0})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "player", verr.Field)
	})

	t.Run("concurrent shots at one cell apply once", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match := startHuman(t, m)
		atk := match.Turn

		var wg sync.WaitGroup
		var mu sync.Mutex
		var ok, dup int
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 7, Col: 7})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, ErrAlreadyAttacked):
					dup++
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 1, ok)
		require.Equal(t, 15, dup)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Len(t, got.Moves, 1)
		require.Equal(t, 16, got.Boards[atk.Other()].Remaining)
	})

	t.Run("failed save rolls back", func(t *testing.T) {
		m, st, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)
		atk := match.Turn

		st.setFailSave(true)
		_, err := m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 0})
		var serr *StorageError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, "save", serr.Op)
		require.Zero(t, rec.count(match.ID, shared.ActionMoveMade))

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Empty(t, got.Moves)
		require.Equal(t, game.CellEmpty, got.Boards[atk.Other()].Attacks.At(game.Cell{Row: 2, Col: 0}))

		st.setFailSave(false)
		out, err := m.SubmitMove(ctx, match.ID, atk, game.Cell{Row: 2, Col: 0})
		require.NoError(t, err)
		require.Equal(t, game.ResultHit, out.Result)
	})
}

type fixedPolicy struct {
	cell  game.Cell
	calls int
	mu    sync.Mutex
}

func (p *fixedPolicy) Propose(ctx context.Context, _, _ game.AttackState) (game.Cell, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err := ctx.Err(); err != nil {
		return game.Cell{}, err
	}
	return p.cell, nil
}

func startComputer(t *testing.T, m *Manager) *Match {
	t.Helper()
	match, side, err := m.CreateOrJoin(context.Background(), JoinRequest{PlayerID: "alice", Ships: fleet(), VsComputer: true})
	require.NoError(t, err)
	require.Equal(t, SideOne, side)
	require.Equal(t, StatusPlaying, match.Status)
	require.True(t, match.VsComputer())
	require.Equal(t, ComputerID, match.Players[SideTwo].ID)
	require.NoError(t, game.ValidateLayout(match.Boards[SideTwo].Layout, 10, game.DefaultFleet))
	return match
}

// handOver makes the human miss so the computer holds the turn.
func handOver(t *testing.T, m *Manager, match *Match) {
	t.Helper()
	if match.Turn == SideTwo {
		return
	}
	out, err := m.SubmitMove(context.Background(), match.ID, SideOne, missCell(match.Boards[SideTwo]))
	require.NoError(t, err)
	require.Equal(t, SideTwo, out.Turn)
}

func TestComputerTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("computer fires until it misses", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match := startComputer(t, m)
		handOver(t, m, match)

		require.NoError(t, m.RunComputerTurn(ctx, match.ID))
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)

		var shots []MoveRecord
		for _, mv := range got.Moves {
			if mv.Side == SideTwo {
				shots = append(shots, mv)
			}
		}
		require.NotEmpty(t, shots)
		for _, mv := range shots[:len(shots)-1] {
			require.Equal(t, game.ResultHit, mv.Result)
		}
		if got.Status == StatusPlaying {
			require.Equal(t, game.ResultMiss, shots[len(shots)-1].Result)
			require.Equal(t, SideOne, got.Turn)
		}
	})

	t.Run("not the computer's turn is a no-op", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		match := startComputer(t, m)
		handOver(t, m, match)
		require.NoError(t, m.RunComputerTurn(ctx, match.ID))

		before, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		if before.Status != StatusPlaying {
			t.Skip("computer won outright")
		}
		require.NoError(t, m.RunComputerTurn(ctx, match.ID))
		after, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, len(before.Moves), len(after.Moves))
	})

	t.Run("full game against the computer ends once", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startComputer(t, m)
		target := game.EmptyCells(match.Boards[SideTwo].Attacks)

		for i := 0; i < 400; i++ {
			got, err := m.Get(ctx, match.ID)
			require.NoError(t, err)
			if got.Status == StatusFinished {
				break
			}
			if got.Turn == SideTwo {
				require.NoError(t, m.RunComputerTurn(ctx, match.ID))
				continue
			}
			require.NotEmpty(t, target)
			_, err = m.SubmitMove(ctx, match.ID, SideOne, target[0])
			require.NoError(t, err)
			target = target[1:]
		}

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, StatusFinished, got.Status)
		require.Equal(t, ReasonVictory, got.Reason)
		require.NotNil(t, got.Winner)
		require.Zero(t, got.Boards[got.Winner.Other()].Remaining)
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
	})

	t.Run("policy proposal is used and bad ones fall back", func(t *testing.T) {
		pol := &fixedPolicy{cell: game.Cell{Row: 0, Col: 0}}
		m, _, _ := newTestManager(t, testConfig(), WithPolicy(pol))
		match := startComputer(t, m)
		handOver(t, m, match)

		require.NoError(t, m.RunComputerTurn(ctx, match.ID))
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		var first *MoveRecord
		for i := range got.Moves {
			if got.Moves[i].Side == SideTwo {
				first = &got.Moves[i]
				break
			}
		}
		require.NotNil(t, first)
		require.Equal(t, game.Cell{Row: 0, Col: 0}, first.Cell)
		require.Equal(t, game.ResultMiss, first.Result)

		handOver(t, m, got)
		require.NoError(t, m.RunComputerTurn(ctx, match.ID))
		got, err = m.Get(ctx, match.ID)
		require.NoError(t, err)
		last := got.Moves[len(got.Moves)-1]
		require.Equal(t, SideTwo, last.Side)
		require.NotEqual(t, game.Cell{Row: 0, Col: 0}, last.Cell)
	})

	t.Run("zero policy timeout gets the default", func(t *testing.T) {
		cfg := testConfig()
		cfg.PolicyTimeout = 0
		pol := &fixedPolicy{cell: game.Cell{Row: 0, Col: 0}}
		m, _, _ := newTestManager(t, cfg, WithPolicy(pol))
		require.Positive(t, m.Config().PolicyTimeout)

		match := startComputer(t, m)
		handOver(t, m, match)
		require.NoError(t, m.RunComputerTurn(ctx, match.ID))
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		for _, mv := range got.Moves {
			if mv.Side == SideTwo {
				require.Equal(t, game.Cell{Row: 0, Col: 0}, mv.Cell)
				break
			}
		}
	})

	t.Run("autoplay retries after a failed save", func(t *testing.T) {
		cfg := testConfig()
		cfg.ComputerThink = 30 * time.Millisecond
		m, st, _ := newTestManager(t, cfg, WithAutoPlay(true), WithRetryDelay(10*time.Millisecond))
		match := startComputer(t, m)
		require.Eventually(t, func() bool {
			got, err := m.Get(ctx, match.ID)
			return err == nil && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		if got.Status == StatusFinished {
			t.Skip("computer won outright")
		}

		_, err = m.SubmitMove(ctx, match.ID, SideOne, missCell(got.Boards[SideTwo]))
		require.NoError(t, err)
		st.setFailSave(true)
		time.Sleep(60 * time.Millisecond)
		st.setFailSave(false)

		require.Eventually(t, func() bool {
			got, err := m.Get(ctx, match.ID)
			if err != nil || len(got.Moves) == 0 {
				return false
			}
			last := got.Moves[len(got.Moves)-1]
			return last.Side == SideTwo && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)

		got, err = m.Get(ctx, match.ID)
		require.NoError(t, err)
		if got.Status == StatusPlaying {
			_, err = m.SubmitMove(ctx, match.ID, SideOne, missCell(got.Boards[SideTwo]))
			require.NoError(t, err)
		}
	})

	t.Run("forfeit while the computer thinks ends the turn quietly", func(t *testing.T) {
		cfg := testConfig()
		cfg.ComputerThink = 50 * time.Millisecond
		cfg.DisconnectGrace = 10 * time.Millisecond
		m, _, rec := newTestManager(t, cfg)
		match := startComputer(t, m)
		handOver(t, m, match)
		before, err := m.Get(ctx, match.ID)
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- m.RunComputerTurn(ctx, match.ID) }()
		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("computer turn did not return")
		}

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, StatusFinished, got.Status)
		require.Equal(t, ReasonForfeit, got.Reason)
		require.Equal(t, ComputerID, got.WinnerID())
		require.Len(t, got.Moves, len(before.Moves))
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
	})

	t.Run("reconnect restarts a stalled computer turn", func(t *testing.T) {
		m, st, _ := newTestManager(t, testConfig())
		match := startComputer(t, m)
		handOver(t, m, match)

		restarted := NewManager(st, testConfig(), &recorder{}, WithSeed(3))
		require.NoError(t, restarted.HandleReconnect(ctx, match.ID, SideOne))
		require.Eventually(t, func() bool {
			got, err := restarted.Get(ctx, match.ID)
			if err != nil || len(got.Moves) == 0 {
				return false
			}
			last := got.Moves[len(got.Moves)-1]
			return last.Side == SideTwo && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("autoplay answers a human miss", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig(), WithAutoPlay(true))
		match := startComputer(t, m)
		require.Eventually(t, func() bool {
			got, err := m.Get(ctx, match.ID)
			return err == nil && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		if got.Status == StatusFinished {
			t.Skip("computer won outright")
		}
		_, err = m.SubmitMove(ctx, match.ID, SideOne, missCell(got.Boards[SideTwo]))
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			got, err := m.Get(ctx, match.ID)
			if err != nil || len(got.Moves) == 0 {
				return false
			}
			last := got.Moves[len(got.Moves)-1]
			return last.Side == SideTwo && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)
	})
}

func TestPresence(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnect past grace forfeits", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)

		require.NoError(t, m.DisconnectPlayer(ctx, match.ID, "alice"))
		require.Equal(t, 1, rec.count(match.ID, shared.ActionPlayerDisconnected))

		require.Eventually(t, func() bool {
			got, err := m.Get(ctx, match.ID)
			return err == nil && got.Status == StatusFinished
		}, time.Second, 5*time.Millisecond)

		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, ReasonForfeit, got.Reason)
		require.Equal(t, "bob", got.WinnerID())
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
	})

	t.Run("reconnect within grace cancels the forfeit", func(t *testing.T) {
		cfg := testConfig()
		cfg.DisconnectGrace = 60 * time.Millisecond
		m, _, rec := newTestManager(t, cfg)
		match := startHuman(t, m)

		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideTwo))
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.False(t, got.Players[SideTwo].Connected)
		require.NotNil(t, got.Players[SideTwo].DisconnectedAt)

		require.NoError(t, m.HandleReconnect(ctx, match.ID, SideTwo))
		time.Sleep(3 * cfg.DisconnectGrace)

		got, err = m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, StatusPlaying, got.Status)
		require.True(t, got.Players[SideTwo].Connected)
		require.Nil(t, got.Players[SideTwo].DisconnectedAt)
		require.Equal(t, 1, rec.count(match.ID, shared.ActionPlayerReconnected))
		require.Zero(t, rec.count(match.ID, shared.ActionGameOver))
	})

	t.Run("repeated disconnects keep one timer", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match := startHuman(t, m)
		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))
		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))
		require.Equal(t, 1, rec.count(match.ID, shared.ActionPlayerDisconnected))

		require.Eventually(t, func() bool {
			return rec.count(match.ID, shared.ActionGameOver) == 1
		}, time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
	})

	t.Run("waiting match is abandoned", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)

		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))
		got, err := m.Get(ctx, match.ID)
		require.NoError(t, err)
		require.Equal(t, StatusFinished, got.Status)
		require.Equal(t, ReasonAbandoned, got.Reason)
		require.Nil(t, got.Winner)
		require.Zero(t, m.Queue().Len())
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))

		next, side, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "bob", Ships: fleet()})
		require.NoError(t, err)
		require.Equal(t, SideOne, side)
		require.NotEqual(t, match.ID, next.ID)
	})

	t.Run("unbound side and computer side", func(t *testing.T) {
		m, _, _ := newTestManager(t, testConfig())
		waiting, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		var verr *ValidationError
		require.ErrorAs(t, m.HandleDisconnect(ctx, waiting.ID, SideTwo), &verr)

		vs := startComputer(t, m)
		require.NoError(t, m.HandleDisconnect(ctx, vs.ID, SideTwo))
		got, err := m.Get(ctx, vs.ID)
		require.NoError(t, err)
		require.Equal(t, StatusPlaying, got.Status)
	})

	t.Run("finished match ignores presence", func(t *testing.T) {
		m, _, rec := newTestManager(t, testConfig())
		match, _, err := m.CreateOrJoin(ctx, JoinRequest{PlayerID: "alice", Ships: fleet()})
		require.NoError(t, err)
		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))
		require.NoError(t, m.HandleDisconnect(ctx, match.ID, SideOne))
		require.NoError(t, m.HandleReconnect(ctx, match.ID, SideOne))
		require.Equal(t, 1, rec.count(match.ID, shared.ActionGameOver))
	})
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.DisconnectGrace = time.Hour
	before, st, _ := newTestManager(t, cfg)

	human := startHuman(t, before)
	require.NoError(t, before.HandleDisconnect(ctx, human.ID, SideOne))
	vs := startComputer(t, before)
	handOver(t, before, vs)
	abandoned, _, err := before.CreateOrJoin(ctx, JoinRequest{PlayerID: "dave", Ships: fleet()})
	require.NoError(t, err)
	require.NoError(t, before.HandleDisconnect(ctx, abandoned.ID, SideOne))
	waiting, _, err := before.CreateOrJoin(ctx, JoinRequest{PlayerID: "carol", Ships: fleet()})
	require.NoError(t, err)

	rec := &recorder{}
	after := NewManager(st, testConfig(), rec, WithSeed(9))
	n, err := after.Resume(ctx, st)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	t.Run("waiting match is queued again", func(t *testing.T) {
		joined, side, err := after.CreateOrJoin(ctx, JoinRequest{PlayerID: "erin", Ships: fleet()})
		require.NoError(t, err)
		require.Equal(t, SideTwo, side)
		require.Equal(t, waiting.ID, joined.ID)
	})

	t.Run("grace keeps running for a disconnected player", func(t *testing.T) {
		require.Eventually(t, func() bool {
			got, err := after.Get(ctx, human.ID)
			return err == nil && got.Status == StatusFinished
		}, time.Second, 5*time.Millisecond)
		got, err := after.Get(ctx, human.ID)
		require.NoError(t, err)
		require.Equal(t, ReasonForfeit, got.Reason)
		require.Equal(t, "bob", got.WinnerID())
	})

	t.Run("computer takes its pending turn", func(t *testing.T) {
		require.Eventually(t, func() bool {
			got, err := after.Get(ctx, vs.ID)
			if err != nil || len(got.Moves) == 0 {
				return false
			}
			last := got.Moves[len(got.Moves)-1]
			return last.Side == SideTwo && (got.Turn == SideOne || got.Status == StatusFinished)
		}, time.Second, 5*time.Millisecond)
	})
}
