package main

import (
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/urfave/cli/v2"
)

var refundEscrow = cli.Command{
	Name:  "refund",
	Usage: "cancel an escrow of the configured keypair and get the deposit back",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "mint-a",
			Usage:    "the mint deposited into the vault",
			Required: true,
		},
		&seedFlag,
	},
	Action: refundAction,
}

func refundAction(c *cli.Context) error {
	mintA, err := requiredIdentityFlag(c, "mint-a")
	if err != nil {
		return err
	}
	maker, err := getWallet()
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := escrow.NewRefundRequest(
		svc.escrow.ProgramID(), maker.Identity(), mintA, c.Uint64(seedFlag.Name),
	)
	if err != nil {
		return err
	}
	req.Sign(maker)

	settlement, err := svc.escrow.Refund(c.Context, req)
	if err != nil {
		return err
	}
	return printJSON(c, newSettlementView(*settlement))
}
