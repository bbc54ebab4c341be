package main

import (
	"github.com/tdex-network/tdex-escrow/internal/config"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "generate a new keypair and store it in a JSON file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "outfile",
			Usage: "path of the keypair file, defaults to the configured one",
		},
	},
	Action: keygenAction,
}

var address = cli.Command{
	Name:   "address",
	Usage:  "print the identity of the configured keypair",
	Action: addressAction,
}

func keygenAction(c *cli.Context) error {
	path := c.String("outfile")
	if path == "" {
		path = config.GetString(config.KeypairPathKey)
	}

	w, err := wallet.NewWallet()
	if err != nil {
		return err
	}
	if err := w.SaveKeyFile(path); err != nil {
		return err
	}

	return printJSON(c, map[string]string{
		"identity": w.Identity().String(),
		"keypair":  path,
	})
}

func addressAction(c *cli.Context) error {
	w, err := getWallet()
	if err != nil {
		return err
	}
	return printJSON(c, map[string]string{
		"identity": w.Identity().String(),
	})
}
