package main

import (
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:  "mint",
	Usage: "create mints and issue tokens",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a new mint whose authority is the configured keypair",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "decimals",
					Usage: "the number of fractional digits of the asset",
					Value: 9,
				},
			},
			Action: mintCreateAction,
		},
		{
			Name:  "to",
			Usage: "issue tokens to the associated account of an owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "mint",
					Usage:    "the mint to issue",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "owner",
					Usage: "the recipient, defaults to the configured keypair",
				},
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "the amount to issue in whole units, ie. 12.5",
					Required: true,
				},
			},
			Action: mintToAction,
		},
	},
}

func mintCreateAction(c *cli.Context) error {
	decimals := c.Uint("decimals")
	if decimals > 18 {
		return &invalidUsageError{c, c.Command.Name}
	}

	w, err := getWallet()
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	mintAddr, err := svc.ledger.CreateMint(c.Context, w, uint8(decimals))
	if err != nil {
		return err
	}

	return printJSON(c, map[string]interface{}{
		"mint":     mintAddr.String(),
		"decimals": decimals,
	})
}

func mintToAction(c *cli.Context) error {
	mintAddr, err := requiredIdentityFlag(c, "mint")
	if err != nil {
		return err
	}
	owner, err := identityFlag(c, "owner")
	if err != nil {
		return err
	}
	w, err := getWallet()
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	m, err := svc.ledger.GetMint(c.Context, mintAddr)
	if err != nil {
		return err
	}
	amount, err := mathutil.ToBaseUnits(c.String("amount"), m.Decimals)
	if err != nil {
		return err
	}

	account, err := svc.ledger.MintTo(c.Context, w, mintAddr, owner, amount)
	if err != nil {
		return err
	}

	return printJSON(c, map[string]interface{}{
		"account": account.String(),
		"amount":  mathutil.FormatAmount(amount, m.Decimals),
	})
}
