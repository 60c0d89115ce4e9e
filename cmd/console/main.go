package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"naval-chess/internal/config"
)

func main() {
	cfg := config.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	log.SetDefault(logger)

	app := &cli.App{
		Name:  "naval-console",
		Usage: "play against the computer or measure the targeting heuristic",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "verbose output"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play one match against the computer in the terminal",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 picks one from the clock"},
				},
				Action: func(c *cli.Context) error {
					seed := c.Uint64("seed")
					if seed == 0 {
						seed = uint64(time.Now().UnixNano())
					}
					return play(c.Context, cfg, seed, os.Stdin, os.Stdout)
				},
			},
			{
				Name:  "simulate",
				Usage: "let the heuristic sink random fleets and report the shots it needed",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "games", Value: 100, Usage: "number of boards to play"},
					&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed"},
				},
				Action: func(c *cli.Context) error {
					stats, err := simulate(c.Int("games"), c.Uint64("seed"), cfg.BoardSize, cfg.Fleet, cfg.AllowTouching)
					if err != nil {
						return err
					}
					stats.report()
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal("console failed", "err", err)
	}
}
