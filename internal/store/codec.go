package store

import (
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"naval-chess/internal/game"
	"naval-chess/internal/room"
)

// matchRecord is the on-disk shape of a match. Layouts are stored as ship
// lists and rebuilt on decode.
type matchRecord struct {
	ID           string         `msgpack:"id"`
	Players      [2]playerRecord `msgpack:"players"`
	Boards       [2]boardRecord  `msgpack:"boards"`
	Turn         int            `msgpack:"turn"`
	Status       string         `msgpack:"status"`
	Winner       *int           `msgpack:"winner"`
	Reason       string         `msgpack:"reason"`
	CreatedAt    time.Time      `msgpack:"created_at"`
	LastActivity time.Time      `msgpack:"last_activity"`
	Moves        []moveRecord   `msgpack:"moves"`
}

type playerRecord struct {
	ID             string     `msgpack:"id"`
	Rating         int        `msgpack:"rating"`
	Computer       bool       `msgpack:"computer"`
	Connected      bool       `msgpack:"connected"`
	DisconnectedAt *time.Time `msgpack:"disconnected_at"`
}

type shipRecord struct {
	ID       int  `msgpack:"id"`
	Length   int  `msgpack:"len"`
	Row      int  `msgpack:"row"`
	Col      int  `msgpack:"col"`
	Vertical bool `msgpack:"vertical"`
}

type boardRecord struct {
	Size      int          `msgpack:"size"`
	Ships     []shipRecord `msgpack:"ships"`
	Attacks   [][]int      `msgpack:"attacks"`
	Remaining int          `msgpack:"remaining"`
	ShipsLeft []int        `msgpack:"ships_left"`
}

type moveRecord struct {
	Side   int       `msgpack:"side"`
	Row    int       `msgpack:"row"`
	Col    int       `msgpack:"col"`
	Result int       `msgpack:"result"`
	Sunk   []int     `msgpack:"sunk"`
	At     time.Time `msgpack:"at"`
}

func encodeMatch(m *room.Match) ([]byte, error) {
	rec := matchRecord{
		ID:           m.ID,
		Turn:         int(m.Turn),
		Status:       string(m.Status),
		Reason:       string(m.Reason),
		CreatedAt:    m.CreatedAt,
		LastActivity: m.LastActivity,
	}
	if m.Winner != nil {
		w := int(*m.Winner)
		rec.Winner = &w
	}
	for i, p := range m.Players {
		rec.Players[i] = playerRecord{
			ID:             p.ID,
			Rating:         p.Rating,
			Computer:       p.Computer,
			Connected:      p.Connected,
			DisconnectedAt: p.DisconnectedAt,
		}
	}
	for i, b := range m.Boards {
		br := boardRecord{
			Size:      b.Layout.Size,
			Remaining: b.Remaining,
			ShipsLeft: b.ShipsLeft,
		}
		for _, s := range b.Layout.Ships {
			br.Ships = append(br.Ships, shipRecord{
				ID:       s.ID,
				Length:   s.Length,
				Row:      s.Row,
				Col:      s.Col,
				Vertical: s.Orientation == game.Vertical,
			})
		}
		if b.Attacks.Cells != nil {
			br.Attacks = b.Attacks.Ints()
		}
		rec.Boards[i] = br
	}
	for _, mv := range m.Moves {
		rec.Moves = append(rec.Moves, moveRecord{
			Side:   int(mv.Side),
			Row:    mv.Cell.Row,
			Col:    mv.Cell.Col,
			Result: int(mv.Result),
			Sunk:   mv.Sunk,
			At:     mv.At,
		})
	}
	data, err := msgpack.Marshal(&rec)
	return data, errors.Wrapf(err, "encode match %s", m.ID)
}

func decodeMatch(data []byte) (*room.Match, error) {
	var rec matchRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode match")
	}
	m := &room.Match{
		ID:           rec.ID,
		Turn:         room.Side(rec.Turn),
		Status:       room.Status(rec.Status),
		Reason:       room.FinishReason(rec.Reason),
		CreatedAt:    rec.CreatedAt,
		LastActivity: rec.LastActivity,
	}
	if rec.Winner != nil {
		w := room.Side(*rec.Winner)
		m.Winner = &w
	}
	for i, p := range rec.Players {
		m.Players[i] = room.Player{
			ID:             p.ID,
			Rating:         p.Rating,
			Computer:       p.Computer,
			Connected:      p.Connected,
			DisconnectedAt: p.DisconnectedAt,
		}
	}
	for i, br := range rec.Boards {
		b, err := decodeBoard(br)
		if err != nil {
			return nil, errors.Wrapf(err, "match %s board %d", rec.ID, i)
		}
		m.Boards[i] = b
	}
	for _, mv := range rec.Moves {
		m.Moves = append(m.Moves, room.MoveRecord{
			Side:   room.Side(mv.Side),
			Cell:   game.Cell{Row: mv.Row, Col: mv.Col},
			Result: game.AttackResult(mv.Result),
			Sunk:   mv.Sunk,
			At:     mv.At,
		})
	}
	return m, nil
}

func decodeBoard(br boardRecord) (room.Board, error) {
	if br.Attacks == nil {
		return room.Board{}, nil
	}
	ships := make([]game.Ship, 0, len(br.Ships))
	for _, s := range br.Ships {
		o := game.Horizontal
		if s.Vertical {
			o = game.Vertical
		}
		ships = append(ships, game.Ship{ID: s.ID, Length: s.Length, Row: s.Row, Col: s.Col, Orientation: o})
	}
	l, err := game.NewLayout(br.Size, ships)
	if err != nil {
		return room.Board{}, err
	}
	a := game.NewAttackState(br.Size)
	if len(br.Attacks) != br.Size {
		return room.Board{}, errors.Errorf("attack grid has %d rows, want %d", len(br.Attacks), br.Size)
	}
	for r, row := range br.Attacks {
		if len(row) != br.Size {
			return room.Board{}, errors.Errorf("attack row %d has %d cells, want %d", r, len(row), br.Size)
		}
		for c, v := range row {
			a.Cells[r][c] = game.CellState(v)
		}
	}
	return room.Board{
		Layout:    l,
		Attacks:   a,
		Remaining: br.Remaining,
		ShipsLeft: br.ShipsLeft,
	}, nil
}
