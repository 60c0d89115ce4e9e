package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"naval-chess/internal/game"
	"naval-chess/internal/room"
)

func statusFor(err error) int {
	switch room.ErrorCode(err) {
	case "validation":
		return http.StatusBadRequest
	case "not_your_turn", "already_attacked", "game_over", "not_started":
		return http.StatusConflict
	case "not_found":
		return http.StatusNotFound
	case "storage":
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": room.ErrorCode(err)})
}

func badRequest(c *gin.Context, err error) {
	abort(c, &room.ValidationError{Field: "body", Err: err})
}

// participantSide resolves a player id only. Routes that act for a player or
// expose a player's own layout go through it.
func participantSide(m *room.Match, player string) (room.Side, error) {
	if side, ok := m.SideOf(player); ok {
		return side, nil
	}
	return room.SideOne, &room.ValidationError{Field: "player", Err: fmt.Errorf("%q is not in match %s", player, m.ID)}
}

// resolveSide also accepts a side name. Only read-only lookups of public
// information use it.
func resolveSide(m *room.Match, player string) (room.Side, error) {
	if side, ok := m.SideOf(player); ok {
		return side, nil
	}
	if side, err := room.ParseSide(player); err == nil {
		return side, nil
	}
	return participantSide(m, player)
}

// @Summary Generate a random board
// @Description Random legal placement of the configured fleet
// @Tags Board
// @Produce json
// @Success 200 {object} BoardResponse
// @Router /api/generate_board [get]
func GenerateBoardHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := rm.GenerateLayout()
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, BoardResponse{Board: l.Grid(), Ships: l.Ships})
	}
}

// @Summary Join a game
// @Description Register a layout; pairs with a waiting player or starts a match against the computer
// @Tags Match
// @Accept json
// @Produce json
// @Param request body JoinGameRequest true "Player and layout"
// @Success 200 {object} JoinGameResponse
// @Router /api/join_game [post]
func JoinGameHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		match, side, err := rm.CreateOrJoin(c.Request.Context(), room.JoinRequest{
			PlayerID:   req.PlayerID,
			Ships:      req.Ships,
			VsComputer: req.IsAIGame,
			Rating:     req.Rating,
		})
		if err != nil {
			abort(c, err)
			return
		}
		resp := JoinGameResponse{
			RoomID:   match.ID,
			PlayerID: match.Players[side].ID,
			Side:     side.String(),
			Status:   string(match.Status),
			IsAIGame: match.VsComputer(),
		}
		if match.Status == room.StatusPlaying {
			resp.FirstTurn = match.Players[match.Turn].ID
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Resolve sides
// @Description Which side the player holds and which side is the opponent
// @Tags Match
// @Accept json
// @Produce json
// @Param request body PlayerRequest true "Room and player"
// @Success 200 {object} OpponentResponse
// @Router /api/opponent [post]
func OpponentHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		match, err := rm.Get(c.Request.Context(), req.RoomID)
		if err != nil {
			abort(c, err)
			return
		}
		side, err := resolveSide(match, req.Player)
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, OpponentResponse{YourSide: side.String(), OpponentSide: side.Other().String()})
	}
}

// @Summary Sunk ships of a side
// @Description Ids of the named side's ships whose every cell is sunk
// @Tags Match
// @Accept json
// @Produce json
// @Param request body PlayerRequest true "Room and player"
// @Success 200 {object} SunkenShipsResponse
// @Router /api/sunken_ships [post]
func SunkenShipsHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		match, err := rm.Get(c.Request.Context(), req.RoomID)
		if err != nil {
			abort(c, err)
			return
		}
		side, err := resolveSide(match, req.Player)
		if err != nil {
			abort(c, err)
			return
		}
		b := match.Boards[side]
		ids := []int{}
		if b.Attacks.Cells != nil {
			ids = game.SunkShipIDs(b.Attacks, b.Layout)
		}
		c.JSON(http.StatusOK, SunkenShipsResponse{SunkenShipIDs: ids})
	}
}

// @Summary Fire a shot
// @Description x is the row and y the column of the opponent's board
// @Tags Match
// @Accept json
// @Produce json
// @Param request body MoveRequest true "Shot"
// @Success 200 {object} MoveResponse
// @Router /api/make_move [post]
func MakeMoveHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := rm.Fire(c.Request.Context(), req.RoomID, req.Player, game.Cell{Row: *req.X, Col: *req.Y})
		if err != nil {
			abort(c, err)
			return
		}

		resp := MoveResponse{
			Attacker:  out.AttackerID,
			X:         out.Cell.Row,
			Y:         out.Cell.Col,
			Hit:       out.Result == game.ResultHit,
			Result:    out.Result.String(),
			Sunk:      []int{},
			SunkCells: [][]game.Cell{},
			NextTurn:  out.NextTurnID,
			Status:    string(out.Status),
			Winner:    out.WinnerID,
			Remaining: out.Remaining,
		}
		for _, comp := range out.Sunk {
			resp.Sunk = append(resp.Sunk, len(comp))
			resp.SunkCells = append(resp.SunkCells, comp)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Match state for one player
// @Description The caller's layout plus both attack grids; the opponent's layout stays hidden
// @Tags Match
// @Produce json
// @Param id path string true "Room ID"
// @Param player query string true "Player id"
// @Success 200 {object} MatchView
// @Router /api/match/{id} [get]
func MatchHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := c.Query("player")
		if player == "" {
			abort(c, &room.ValidationError{Field: "player", Err: fmt.Errorf("query parameter is required")})
			return
		}
		match, err := rm.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			abort(c, err)
			return
		}
		side, err := participantSide(match, player)
		if err != nil {
			abort(c, err)
			return
		}
		own, opp := match.Boards[side], match.Boards[side.Other()]
		view := MatchView{
			RoomID:        match.ID,
			Status:        string(match.Status),
			You:           side.String(),
			Winner:        match.WinnerID(),
			Reason:        string(match.Reason),
			Players:       match.Players,
			OwnShips:      own.Layout.Ships,
			OwnBoard:      own.Layout.Grid(),
			IncomingShots: own.Attacks.Ints(),
			OutgoingShots: opp.Attacks.Ints(),
			OpponentLeft:  opp.ShipsLeft,
			Moves:         match.Moves,
		}
		if match.Status == room.StatusPlaying {
			view.Turn = match.Players[match.Turn].ID
		}
		c.JSON(http.StatusOK, view)
	}
}
