package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"naval-chess/internal/game"
)

// Client asks a remote policy service for the computer's next shot.
//
// The service receives POST {url}/propose with both boards encoded as
// 0 empty, 1 miss, 2 hit, 3 sunk and answers {"row": r, "col": c}.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{url: strings.TrimRight(url, "/"), http: hc}
}

type proposeRequest struct {
	Own    [][]int `json:"own"`
	Target [][]int `json:"target"`
}

type proposeResponse struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// Propose returns the service's cell. The caller validates it against the
// target board; Propose only checks that an answer came back.
func (c *Client) Propose(ctx context.Context, own, target game.AttackState) (game.Cell, error) {
	body, err := json.Marshal(proposeRequest{Own: own.Ints(), Target: target.Ints()})
	if err != nil {
		return game.Cell{}, errors.Wrap(err, "encode proposal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/propose", bytes.NewReader(body))
	if err != nil {
		return game.Cell{}, errors.Wrap(err, "build proposal request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return game.Cell{}, errors.Wrap(err, "policy request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return game.Cell{}, errors.Errorf("policy returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out proposeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return game.Cell{}, errors.Wrap(err, "decode proposal")
	}
	if out.Row == nil || out.Col == nil {
		return game.Cell{}, errors.New("proposal is missing row or col")
	}
	return game.Cell{Row: *out.Row, Col: *out.Col}, nil
}
