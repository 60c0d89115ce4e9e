package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"naval-chess/internal/config"
	"naval-chess/internal/game"
	"naval-chess/internal/room"
	"naval-chess/internal/shared"
	"naval-chess/internal/store"
)

const you = "you"

// narrator prints match notifications as they happen.
type narrator struct{}

func (narrator) Broadcast(_ string, action string, data interface{}) {
	switch action {
	case shared.ActionGameStarted:
		d := data.(shared.GameStarted)
		log.Info("match started", "first", d.FirstTurn)
	case shared.ActionMoveMade:
		d := data.(shared.MoveMade)
		kv := []interface{}{"row", d.X, "col", d.Y, "result", d.Result}
		if len(d.SunkLengths) > 0 {
			kv = append(kv, "sunk", d.SunkLengths)
		}
		log.Info(d.Attacker+" fired", kv...)
	case shared.ActionGameOver:
		d := data.(shared.GameOver)
		log.Info("game over", "winner", d.Winner, "reason", d.Reason)
	}
}

func play(ctx context.Context, cfg config.Config, seed uint64, in io.Reader, out io.Writer) error {
	cfg.ComputerThink = 0
	rm := room.NewManager(store.NewMemoryStore(), cfg, narrator{}, room.WithSeed(seed), room.WithAutoPlay(false))

	l, err := rm.GenerateLayout()
	if err != nil {
		return err
	}
	match, side, err := rm.CreateOrJoin(ctx, room.JoinRequest{PlayerID: you, Ships: l.Ships, VsComputer: true})
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	for {
		match, err = rm.Get(ctx, match.ID)
		if err != nil {
			return err
		}
		if match.Status == room.StatusFinished {
			render(out, match, side)
			return nil
		}
		if match.Turn != side {
			if err := rm.RunComputerTurn(ctx, match.ID); err != nil {
				return err
			}
			continue
		}

		render(out, match, side)
		fmt.Fprint(out, "fire at (row col, or q to quit)> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "q" {
			return nil
		}
		cell, err := parseCell(line)
		if err != nil {
			log.Warn("bad input", "err", err)
			continue
		}
		if _, err := rm.SubmitMove(ctx, match.ID, side, cell); err != nil {
			log.Warn("shot rejected", "err", err)
		}
	}
}

func parseCell(line string) (game.Cell, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return game.Cell{}, fmt.Errorf("want two numbers, got %q", line)
	}
	r, err := strconv.Atoi(parts[0])
	if err != nil {
		return game.Cell{}, err
	}
	c, err := strconv.Atoi(parts[1])
	if err != nil {
		return game.Cell{}, err
	}
	return game.Cell{Row: r, Col: c}, nil
}

var marks = map[game.CellState]byte{
	game.CellEmpty: '.',
	game.CellMiss:  'o',
	game.CellHit:   'x',
	game.CellSunk:  '#',
}

// render prints the player's own waters next to the target grid.
func render(w io.Writer, m *room.Match, side room.Side) {
	own, target := m.Boards[side], m.Boards[side.Other()]
	size := own.Attacks.Size

	var b strings.Builder
	header := "   "
	for c := 0; c < size; c++ {
		header += fmt.Sprintf("%d", c%10)
	}
	fmt.Fprintf(&b, "%-*s   %s\n", size+3, "you", "enemy "+fmt.Sprint(target.ShipsLeft))
	fmt.Fprintf(&b, "%s   %s\n", header, header)
	for r := 0; r < size; r++ {
		fmt.Fprintf(&b, "%2d ", r)
		for c := 0; c < size; c++ {
			cell := game.Cell{Row: r, Col: c}
			mark := marks[own.Attacks.At(cell)]
			if mark == '.' && own.Layout.Occupies(cell) {
				mark = 'S'
			}
			b.WriteByte(mark)
		}
		fmt.Fprintf(&b, "   %2d ", r)
		for c := 0; c < size; c++ {
			b.WriteByte(marks[target.Attacks.At(game.Cell{Row: r, Col: c})])
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(w, b.String())
}
