package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/config"
	"github.com/urfave/cli/v2"
)

var keypairFlag = cli.StringFlag{
	Name:  "keypair",
	Usage: "path of the JSON keypair file used to sign, defaults to <datadir>/id.json",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "escrow"
	app.Usage = "Command line interface to open, take and refund escrowed swaps"
	app.Flags = []cli.Flag{&keypairFlag}
	app.Before = func(c *cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		if path := c.String(keypairFlag.Name); path != "" {
			config.Set(config.KeypairPathKey, path)
		}
		return nil
	}
	app.Commands = append(
		app.Commands,
		&keygen,
		&address,
		&airdrop,
		&transfer,
		&mint,
		&makeEscrow,
		&takeEscrow,
		&refundEscrow,
		&escrowCmd,
		&balance,
		&settlements,
		&webhook,
	)
	return app
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[escrow] %v\n", err)
	}
	os.Exit(1)
}
