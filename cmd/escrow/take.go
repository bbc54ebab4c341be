package main

import (
	"fmt"

	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var takeEscrow = cli.Command{
	Name:  "take",
	Usage: "settle an escrow paying its maker and receiving the vault's balance",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "escrow",
			Usage:    "the address of the escrow to take",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "receive",
			Usage: "the amount of mint B the taker expects to pay, refused if the escrow asks for a different one",
		},
	},
	Action: takeAction,
}

func takeAction(c *cli.Context) error {
	escrowAddr, err := requiredIdentityFlag(c, "escrow")
	if err != nil {
		return err
	}
	taker, err := getWallet()
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.escrow.GetEscrow(c.Context, escrowAddr)
	if err != nil {
		return err
	}
	terms := info.Escrow

	if expected := c.String("receive"); expected != "" {
		mintB, err := svc.ledger.GetMint(c.Context, terms.MintB)
		if err != nil {
			return err
		}
		amount, err := mathutil.ToBaseUnits(expected, mintB.Decimals)
		if err != nil {
			return fmt.Errorf("invalid --receive: %w", err)
		}
		if amount != terms.Receive {
			return fmt.Errorf(
				"escrow asks for %s of mint B, not %s",
				mathutil.FormatAmount(terms.Receive, mintB.Decimals), expected,
			)
		}
	}

	// The signed request covers the terms just read, a take racing with a
	// change of the escrow is refused.
	req, err := escrow.NewTakeRequest(
		svc.escrow.ProgramID(), taker.Identity(), terms,
	)
	if err != nil {
		return err
	}
	req.Sign(taker)

	settlement, err := svc.escrow.Take(c.Context, req)
	if err != nil {
		return err
	}
	return printJSON(c, newSettlementView(*settlement))
}
