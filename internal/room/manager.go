package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"naval-chess/internal/config"
	"naval-chess/internal/game"
	"naval-chess/internal/shared"
)

var errStaleTicket = errors.New("waiting match no longer open")

type Option func(*Manager)

// WithPolicy lets an external policy propose computer shots. The heuristic
// cascade is used whenever the policy fails or proposes an illegal cell.
func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

func WithSeed(seed uint64) Option {
	return func(m *Manager) { m.rng = newLockedRand(seed) }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithAutoPlay controls whether the manager starts the computer's turn on
// its own. Tests disable it and drive RunComputerTurn directly.
func WithAutoPlay(on bool) Option {
	return func(m *Manager) { m.autoPlay = on }
}

// WithRetryDelay sets how long the manager waits before retrying a computer
// turn or a forfeit whose save failed.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) { m.retryDelay = d }
}

// Manager is the match state machine. Every mutation of one match runs under
// that match's session lock; different matches proceed in parallel.
type Manager struct {
	store       Store
	cfg         config.Config
	broadcaster Broadcaster
	policy      Policy
	queue       *Queue
	rng         *lockedRand
	now         func() time.Time
	autoPlay    bool
	retryDelay  time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu        sync.Mutex
	forfeit   [2]*time.Timer
	gen       [2]int
	computing bool
	rerun     bool
}

func NewManager(s Store, cfg config.Config, b Broadcaster, opts ...Option) *Manager {
	if b == nil {
		b = nopBroadcaster{}
	}
	if cfg.BoardSize <= 0 {
		cfg.BoardSize = game.DefaultBoardSize
	}
	if len(cfg.Fleet) == 0 {
		cfg.Fleet = append([]int(nil), game.DefaultFleet...)
	}
	if cfg.PolicyTimeout <= 0 {
		cfg.PolicyTimeout = config.Default().PolicyTimeout
	}
	m := &Manager{
		store:       s,
		cfg:         cfg,
		broadcaster: b,
		queue:       NewQueue(cfg.RatingBand),
		rng:         newLockedRand(uint64(time.Now().UnixNano())),
		now:         time.Now,
		autoPlay:    true,
		retryDelay:  time.Second,
		sessions:    map[string]*session{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetBroadcaster swaps the notification sink. Call it before serving traffic.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = nopBroadcaster{}
	}
	m.broadcaster = b
}

func (m *Manager) Config() config.Config { return m.cfg }

func (m *Manager) Queue() *Queue { return m.queue }

// GenerateLayout draws a random layout for the configured board and fleet.
func (m *Manager) GenerateLayout() (game.Layout, error) {
	return game.GenerateLayout(m.rng, m.cfg.BoardSize, m.cfg.Fleet, m.cfg.AllowTouching)
}

func (m *Manager) Get(ctx context.Context, id string) (*Match, error) {
	return m.load(ctx, id)
}

type JoinRequest struct {
	PlayerID   string
	Ships      []game.Ship
	VsComputer bool
	Rating     int
}

// CreateOrJoin registers a player's board. Against the computer the match
// starts at once; otherwise the player joins the oldest compatible waiting
// match or opens a new one.
func (m *Manager) CreateOrJoin(ctx context.Context, req JoinRequest) (*Match, Side, error) {
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}
	if req.PlayerID == ComputerID {
		return nil, SideOne, &ValidationError{Field: "player", Err: fmt.Errorf("%q is reserved", ComputerID)}
	}
	layout, err := game.NewLayout(m.cfg.BoardSize, req.Ships)
	if err == nil {
		err = game.ValidateLayout(layout, m.cfg.BoardSize, m.cfg.Fleet)
	}
	if err != nil {
		return nil, SideOne, &ValidationError{Field: "ships", Err: err}
	}
	player := Player{ID: req.PlayerID, Rating: req.Rating, Connected: true}

	if req.VsComputer {
		return m.createVsComputer(ctx, player, layout)
	}
	for {
		t, ok := m.queue.Pop(player.ID, player.Rating)
		if !ok {
			return m.createWaiting(ctx, player, layout)
		}
		match, err := m.joinWaiting(ctx, t, player, layout)
		if errors.Is(err, errStaleTicket) {
			continue
		}
		if err != nil {
			m.queue.Requeue(t)
			return nil, SideOne, err
		}
		return match, SideTwo, nil
	}
}

func (m *Manager) newMatch() *Match {
	now := m.now()
	return &Match{
		ID:           uuid.NewString(),
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (m *Manager) createWaiting(ctx context.Context, p Player, l game.Layout) (*Match, Side, error) {
	match := m.newMatch()
	match.Players[SideOne] = p
	match.Boards[SideOne] = newBoard(l, m.cfg.BoardSize)
	if err := m.save(ctx, match); err != nil {
		return nil, SideOne, err
	}
	m.queue.Push(Ticket{PlayerID: p.ID, MatchID: match.ID, Rating: p.Rating, Enqueued: match.CreatedAt})

	log.Info().Str("match", match.ID).Str("player", p.ID).Msg("waiting for opponent")
	m.broadcaster.Broadcast(match.ID, shared.ActionWaiting, shared.Waiting{RoomID: match.ID, PlayerID: p.ID})
	return match.Clone(), SideOne, nil
}

func (m *Manager) joinWaiting(ctx context.Context, t Ticket, p Player, l game.Layout) (*Match, error) {
	s := m.session(t.MatchID)
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := m.load(ctx, t.MatchID)
	if errors.Is(err, ErrNotFound) {
		return nil, errStaleTicket
	}
	if err != nil {
		return nil, err
	}
	if match.Status != StatusWaiting {
		return nil, errStaleTicket
	}
	match.Players[SideTwo] = p
	match.Boards[SideTwo] = newBoard(l, m.cfg.BoardSize)
	m.start(match)
	if err := m.save(ctx, match); err != nil {
		return nil, err
	}
	m.announceStart(match)
	return match.Clone(), nil
}

func (m *Manager) createVsComputer(ctx context.Context, p Player, l game.Layout) (*Match, Side, error) {
	cl, err := m.GenerateLayout()
	if err != nil {
		return nil, SideOne, fmt.Errorf("computer layout: %w", err)
	}
	match := m.newMatch()
	match.Players = [2]Player{p, {ID: ComputerID, Computer: true, Connected: true}}
	match.Boards = [2]Board{newBoard(l, m.cfg.BoardSize), newBoard(cl, m.cfg.BoardSize)}
	m.start(match)
	if err := m.save(ctx, match); err != nil {
		return nil, SideOne, err
	}
	m.announceStart(match)
	m.maybeAutoPlay(match)
	return match.Clone(), SideOne, nil
}

func (m *Manager) start(match *Match) {
	match.Status = StatusPlaying
	match.Turn = Side(m.rng.Intn(2))
	match.LastActivity = m.now()
}

func (m *Manager) announceStart(match *Match) {
	log.Info().
		Str("match", match.ID).
		Str("player1", match.Players[SideOne].ID).
		Str("player2", match.Players[SideTwo].ID).
		Str("first", match.Turn.String()).
		Msg("match started")
	m.broadcaster.Broadcast(match.ID, shared.ActionGameStarted, shared.GameStarted{
		RoomID:     match.ID,
		Player1:    match.Players[SideOne].ID,
		Player2:    match.Players[SideTwo].ID,
		FirstTurn:  match.Players[match.Turn].ID,
		VsComputer: match.VsComputer(),
	})
}

func (m *Manager) maybeAutoPlay(match *Match) {
	if !m.autoPlay || match.Status != StatusPlaying || !match.Players[match.Turn].Computer {
		return
	}
	go m.autoPlayLoop(match.ID)
}

// autoPlayLoop runs the computer's turn, retrying while saves fail so the
// computer never keeps the turn without moving.
func (m *Manager) autoPlayLoop(id string) {
	for {
		err := m.RunComputerTurn(context.Background(), id)
		var serr *StorageError
		if !errors.As(err, &serr) {
			if err != nil {
				log.Error().Err(err).Str("match", id).Msg("computer turn failed")
			}
			return
		}
		log.Warn().Err(err).Str("match", id).Dur("retry", m.retryDelay).Msg("computer turn not persisted, retrying")
		time.Sleep(m.retryDelay)
	}
}

type MoveOutcome struct {
	MatchID    string
	Attacker   Side
	AttackerID string
	Cell       game.Cell
	Result     game.AttackResult
	Sunk       []game.Component
	Turn       Side
	NextTurnID string
	Status     Status
	Winner     *Side
	WinnerID   string
	Remaining  int
}

// SubmitMove fires side's shot at the opponent's board. A miss passes the
// turn; a hit keeps it. Rejections leave the match untouched.
func (m *Manager) SubmitMove(ctx context.Context, id string, side Side, cell game.Cell) (MoveOutcome, error) {
	if !side.Valid() {
		return MoveOutcome{}, &ValidationError{Field: "side", Err: fmt.Errorf("unknown side %d", side)}
	}
	s := m.session(id)
	s.mu.Lock()
	match, err := m.load(ctx, id)
	var out MoveOutcome
	if err == nil {
		out, err = m.apply(ctx, s, match, side, cell)
	}
	s.mu.Unlock()
	if err != nil {
		return MoveOutcome{}, err
	}
	m.maybeAutoPlay(match)
	return out, nil
}

// Fire is SubmitMove addressed by player id.
func (m *Manager) Fire(ctx context.Context, id, playerID string, cell game.Cell) (MoveOutcome, error) {
	side, err := m.sideOf(ctx, id, playerID)
	if err != nil {
		return MoveOutcome{}, err
	}
	return m.SubmitMove(ctx, id, side, cell)
}

func (m *Manager) sideOf(ctx context.Context, id, playerID string) (Side, error) {
	match, err := m.load(ctx, id)
	if err != nil {
		return SideOne, err
	}
	side, ok := match.SideOf(playerID)
	if !ok || match.Players[side].Computer {
		return SideOne, &ValidationError{Field: "player", Err: fmt.Errorf("%q is not a player of %s", playerID, id)}
	}
	return side, nil
}

// apply must run under s.mu with match freshly loaded.
func (m *Manager) apply(ctx context.Context, s *session, match *Match, side Side, cell game.Cell) (MoveOutcome, error) {
	switch match.Status {
	case StatusWaiting:
		return MoveOutcome{}, ErrNotStarted
	case StatusFinished:
		m.release(match.ID)
		return MoveOutcome{}, ErrGameOver
	}
	if side != match.Turn {
		return MoveOutcome{}, ErrNotYourTurn
	}
	def := &match.Boards[side.Other()]
	res, err := game.ApplyAttack(&def.Attacks, def.Layout, cell)
	if err != nil {
		return MoveOutcome{}, &ValidationError{Field: "cell", Err: err}
	}
	if res == game.ResultAlreadyAttacked {
		return MoveOutcome{}, ErrAlreadyAttacked
	}

	var sunk []game.Component
	if res == game.ResultHit {
		def.Remaining--
		sunk = game.ResolveSunkShips(&def.Attacks, def.Layout)
		def.ShipsLeft = game.RemoveSunk(def.ShipsLeft, sunk)
	}
	now := m.now()
	match.LastActivity = now
	match.Moves = append(match.Moves, MoveRecord{Side: side, Cell: cell, Result: res, Sunk: lengths(sunk), At: now})
	if def.Remaining == 0 {
		winner := side
		finish(match, &winner, ReasonVictory, now)
	} else if res == game.ResultMiss {
		match.Turn = side.Other()
	}

	if err := m.save(ctx, match); err != nil {
		log.Error().Err(err).Str("match", match.ID).Msg("move not persisted")
		return MoveOutcome{}, err
	}

	next := ""
	if match.Status == StatusPlaying {
		next = match.Players[match.Turn].ID
	}
	out := MoveOutcome{
		MatchID:    match.ID,
		Attacker:   side,
		AttackerID: match.Players[side].ID,
		Cell:       cell,
		Result:     res,
		Sunk:       sunk,
		Turn:       match.Turn,
		NextTurnID: next,
		Status:     match.Status,
		Winner:     match.Winner,
		WinnerID:   match.WinnerID(),
		Remaining:  def.Remaining,
	}
	sunkCells := make([][]game.Cell, 0, len(sunk))
	for _, comp := range sunk {
		sunkCells = append(sunkCells, comp)
	}
	m.broadcaster.Broadcast(match.ID, shared.ActionMoveMade, shared.MoveMade{
		RoomID:      match.ID,
		Attacker:    match.Players[side].ID,
		X:           cell.Row,
		Y:           cell.Col,
		Hit:         res == game.ResultHit,
		Result:      res.String(),
		SunkLengths: lengths(sunk),
		SunkCells:   sunkCells,
		NextTurn:    next,
		Remaining:   def.Remaining,
	})
	if match.Status == StatusFinished {
		m.closeLocked(s, match)
	}
	return out, nil
}

func finish(match *Match, winner *Side, reason FinishReason, at time.Time) {
	match.Status = StatusFinished
	match.Winner = winner
	match.Reason = reason
	match.LastActivity = at
}

// closeLocked emits the single terminal notification and drops the session.
func (m *Manager) closeLocked(s *session, match *Match) {
	log.Info().
		Str("match", match.ID).
		Str("winner", match.WinnerID()).
		Str("reason", string(match.Reason)).
		Msg("match finished")
	m.broadcaster.Broadcast(match.ID, shared.ActionGameOver, shared.GameOver{
		RoomID: match.ID,
		Winner: match.WinnerID(),
		Reason: string(match.Reason),
	})
	for i, t := range s.forfeit {
		if t != nil {
			t.Stop()
			s.forfeit[i] = nil
		}
		s.gen[i]++
	}
	m.release(match.ID)
}

// RunComputerTurn fires computer shots while the computer holds the turn,
// stopping after a miss or the end of the match. Only one loop runs per match;
// a call arriving while it runs makes the loop check the match once more
// before exiting. The session lock is released while thinking, so a forfeit
// can land between shots.
func (m *Manager) RunComputerTurn(ctx context.Context, id string) error {
	s := m.session(id)
	s.mu.Lock()
	if s.computing {
		s.rerun = true
		s.mu.Unlock()
		return nil
	}
	s.computing = true
	s.mu.Unlock()

	for {
		err := m.think(ctx)
		done := true
		if err == nil {
			done, err = m.computerShot(ctx, s, id)
		}
		s.mu.Lock()
		if err == nil && done && s.rerun {
			done = false
		}
		s.rerun = false
		if err != nil || done {
			s.computing = false
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
	}
}

func (m *Manager) computerShot(ctx context.Context, s *session, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := m.load(ctx, id)
	if err != nil {
		return true, err
	}
	side := match.Turn
	if match.Status != StatusPlaying || !match.Players[side].Computer {
		return true, nil
	}
	cell, err := m.computerCell(ctx, match, side)
	if err != nil {
		return true, err
	}
	out, err := m.apply(ctx, s, match, side, cell)
	if err != nil {
		return true, err
	}
	return out.Result == game.ResultMiss || out.Status != StatusPlaying, nil
}

func (m *Manager) computerCell(ctx context.Context, match *Match, side Side) (game.Cell, error) {
	target := match.Boards[side.Other()]
	if m.policy != nil {
		pctx, cancel := context.WithTimeout(ctx, m.cfg.PolicyTimeout)
		cell, err := m.policy.Propose(pctx, match.Boards[side].Attacks.Clone(), target.Attacks.Clone())
		cancel()
		if err == nil {
			err = game.ValidTarget(target.Attacks, cell)
		}
		if err == nil {
			return cell, nil
		}
		log.Warn().Err(err).Str("match", match.ID).Msg("policy proposal rejected, using heuristic")
	}
	cell, tier, err := game.ChooseCell(m.rng, target.Attacks, target.ShipsLeft)
	if err != nil {
		return game.Cell{}, err
	}
	log.Debug().Str("match", match.ID).Stringer("tier", tier).Stringer("cell", cell).Msg("computer target")
	return cell, nil
}

func (m *Manager) think(ctx context.Context) error {
	if m.cfg.ComputerThink <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.cfg.ComputerThink)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// HandleDisconnect marks side as gone. A waiting match is abandoned at once;
// a playing match is forfeited to the opponent if side has not reconnected
// when the grace period runs out.
func (m *Manager) HandleDisconnect(ctx context.Context, id string, side Side) error {
	if !side.Valid() {
		return &ValidationError{Field: "side", Err: fmt.Errorf("unknown side %d", side)}
	}
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	p := &match.Players[side]
	switch {
	case match.Status == StatusFinished:
		m.release(id)
		return nil
	case p.ID == "":
		return &ValidationError{Field: "side", Err: fmt.Errorf("%s is not bound", side)}
	case p.Computer || !p.Connected:
		return nil
	}

	now := m.now()
	if match.Status == StatusWaiting {
		finish(match, nil, ReasonAbandoned, now)
		if err := m.save(ctx, match); err != nil {
			return err
		}
		m.queue.Remove(id)
		m.closeLocked(s, match)
		return nil
	}

	p.Connected = false
	p.DisconnectedAt = &now
	match.LastActivity = now
	if err := m.save(ctx, match); err != nil {
		return err
	}
	log.Info().Str("match", id).Str("player", p.ID).Dur("grace", m.cfg.DisconnectGrace).Msg("player disconnected")
	m.broadcaster.Broadcast(id, shared.ActionPlayerDisconnected, shared.Presence{RoomID: id, PlayerID: p.ID})
	m.armForfeit(s, id, side, m.cfg.DisconnectGrace)
	return nil
}

func (m *Manager) armForfeit(s *session, id string, side Side, after time.Duration) {
	s.gen[side]++
	gen := s.gen[side]
	if s.forfeit[side] != nil {
		s.forfeit[side].Stop()
	}
	s.forfeit[side] = time.AfterFunc(after, func() { m.expire(id, side, gen) })
}

func (m *Manager) expire(id string, side Side, gen int) {
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[side] != gen {
		return
	}
	s.forfeit[side] = nil

	match, err := m.load(context.Background(), id)
	if err != nil {
		log.Error().Err(err).Str("match", id).Msg("forfeit check failed")
		return
	}
	if match.Status != StatusPlaying || match.Players[side].Connected {
		return
	}
	winner := side.Other()
	finish(match, &winner, ReasonForfeit, m.now())
	if err := m.save(context.Background(), match); err != nil {
		log.Error().Err(err).Str("match", id).Msg("forfeit not persisted, retrying")
		m.armForfeit(s, id, side, m.retryDelay)
		return
	}
	m.closeLocked(s, match)
}

// HandleReconnect cancels a pending forfeit for side. It also restarts the
// computer if it holds the turn, which covers a computer turn lost to a
// failed save or a restart.
func (m *Manager) HandleReconnect(ctx context.Context, id string, side Side) error {
	if !side.Valid() {
		return &ValidationError{Field: "side", Err: fmt.Errorf("unknown side %d", side)}
	}
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	p := &match.Players[side]
	switch {
	case match.Status == StatusFinished:
		m.release(id)
		return nil
	case p.ID == "":
		return &ValidationError{Field: "side", Err: fmt.Errorf("%s is not bound", side)}
	case p.Connected:
		m.maybeAutoPlay(match)
		return nil
	}
	p.Connected = true
	p.DisconnectedAt = nil
	match.LastActivity = m.now()
	if err := m.save(ctx, match); err != nil {
		return err
	}
	s.gen[side]++
	if s.forfeit[side] != nil {
		s.forfeit[side].Stop()
		s.forfeit[side] = nil
	}
	log.Info().Str("match", id).Str("player", p.ID).Msg("player reconnected")
	m.broadcaster.Broadcast(id, shared.ActionPlayerReconnected, shared.Presence{RoomID: id, PlayerID: p.ID})
	m.maybeAutoPlay(match)
	return nil
}

// DisconnectPlayer and ReconnectPlayer address a side by player id.
func (m *Manager) DisconnectPlayer(ctx context.Context, id, playerID string) error {
	side, err := m.sideOf(ctx, id, playerID)
	if err != nil {
		return err
	}
	return m.HandleDisconnect(ctx, id, side)
}

func (m *Manager) ReconnectPlayer(ctx context.Context, id, playerID string) error {
	side, err := m.sideOf(ctx, id, playerID)
	if err != nil {
		return err
	}
	return m.HandleReconnect(ctx, id, side)
}

func (m *Manager) session(id string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &session{}
		m.sessions[id] = s
	}
	return s
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Resume rebuilds in-process state for stored matches after a restart:
// waiting matches go back in the queue, disconnected players get the rest
// of their grace period and the computer moves if it holds the turn. It
// returns the number of unfinished matches picked up.
func (m *Manager) Resume(ctx context.Context, l Lister) (int, error) {
	ids, err := l.MatchIDs(ctx)
	if err != nil {
		return 0, &StorageError{Op: "list", Err: err}
	}
	n := 0
	for _, id := range ids {
		ok, err := m.resume(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("match", id).Msg("resume failed")
			continue
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (m *Manager) resume(ctx context.Context, id string) (bool, error) {
	s := m.session(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := m.load(ctx, id)
	if err != nil {
		return false, err
	}
	switch match.Status {
	case StatusFinished:
		m.release(id)
		return false, nil
	case StatusWaiting:
		p := match.Players[SideOne]
		m.queue.Remove(id)
		m.queue.Push(Ticket{PlayerID: p.ID, MatchID: id, Rating: p.Rating, Enqueued: match.CreatedAt})
		return true, nil
	}
	for i, p := range match.Players {
		if p.Connected || p.Computer || p.DisconnectedAt == nil {
			continue
		}
		left := m.cfg.DisconnectGrace - m.now().Sub(*p.DisconnectedAt)
		if left < 0 {
			left = 0
		}
		m.armForfeit(s, id, Side(i), left)
	}
	m.maybeAutoPlay(match)
	return true, nil
}

func (m *Manager) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.StoreTimeout > 0 {
		return context.WithTimeout(ctx, m.cfg.StoreTimeout)
	}
	return context.WithCancel(ctx)
}

// load returns a private copy; mutations reach the store only through save.
func (m *Manager) load(ctx context.Context, id string) (*Match, error) {
	ctx, cancel := m.storeCtx(ctx)
	defer cancel()
	match, err := m.store.LoadMatch(ctx, id)
	if errors.Is(err, ErrNotFound) {
		m.release(id)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return match.Clone(), nil
}

func (m *Manager) save(ctx context.Context, match *Match) error {
	ctx, cancel := m.storeCtx(ctx)
	defer cancel()
	if err := m.store.SaveMatch(ctx, match); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func lengths(sunk []game.Component) []int {
	if len(sunk) == 0 {
		return nil
	}
	out := make([]int, len(sunk))
	for i, comp := range sunk {
		out[i] = len(comp)
	}
	return out
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
