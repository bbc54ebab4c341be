package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

var airdrop = cli.Command{
	Name:      "airdrop",
	Usage:     "credit lamports to an identity",
	ArgsUsage: "<lamports>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "to",
			Usage: "the recipient, defaults to the configured keypair",
		},
	},
	Action: airdropAction,
}

func airdropAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return &invalidUsageError{c, c.Command.Name}
	}
	lamports, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid lamports: %w", err)
	}

	to, err := identityFlag(c, "to")
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	balance, err := svc.ledger.Airdrop(c.Context, to, lamports)
	if err != nil {
		return err
	}

	return printJSON(c, map[string]interface{}{
		"identity": to.String(),
		"lamports": balance,
	})
}

var transfer = cli.Command{
	Name:      "transfer",
	Usage:     "send lamports from the configured keypair",
	ArgsUsage: "<lamports>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the recipient",
			Required: true,
		},
	},
	Action: transferAction,
}

func transferAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return &invalidUsageError{c, c.Command.Name}
	}
	lamports, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid lamports: %w", err)
	}
	to, err := requiredIdentityFlag(c, "to")
	if err != nil {
		return err
	}
	from, err := getWallet()
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	remaining, err := svc.ledger.Transfer(c.Context, from, to, lamports)
	if err != nil {
		return err
	}

	return printJSON(c, map[string]interface{}{
		"identity": from.Identity().String(),
		"lamports": remaining,
	})
}
