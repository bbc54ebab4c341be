package main

import (
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var seedFlag = cli.Uint64Flag{
	Name:     "seed",
	Usage:    "the number that discriminates among the escrows of a maker",
	Required: true,
}

var makeEscrow = cli.Command{
	Name:  "make",
	Usage: "open an escrow depositing mint A in exchange for mint B",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "mint-a",
			Usage:    "the mint deposited into the vault",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "mint-b",
			Usage:    "the mint expected in exchange",
			Required: true,
		},
		&seedFlag,
		&cli.StringFlag{
			Name:     "deposit",
			Usage:    "the amount of mint A to deposit in whole units",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "receive",
			Usage:    "the amount of mint B to receive in whole units",
			Required: true,
		},
	},
	Action: makeAction,
}

func makeAction(c *cli.Context) error {
	mintA, err := requiredIdentityFlag(c, "mint-a")
	if err != nil {
		return err
	}
	mintB, err := requiredIdentityFlag(c, "mint-b")
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

	mA, err := svc.ledger.GetMint(c.Context, mintA)
	if err != nil {
		return err
	}
	mB, err := svc.ledger.GetMint(c.Context, mintB)
	if err != nil {
		return err
	}
	deposit, err := mathutil.ToBaseUnits(c.String("deposit"), mA.Decimals)
	if err != nil {
		return err
	}
	receive, err := mathutil.ToBaseUnits(c.String("receive"), mB.Decimals)
	if err != nil {
		return err
	}

	req, err := escrow.NewMakeRequest(
		svc.escrow.ProgramID(), maker.Identity(), mintA, mintB,
		c.Uint64(seedFlag.Name), deposit, receive,
	)
	if err != nil {
		return err
	}
	req.Sign(maker)

	record, err := svc.escrow.Make(c.Context, req)
	if err != nil {
		return err
	}

	return printJSON(c, map[string]interface{}{
		"escrow":  record.Address.String(),
		"vault":   req.Vault.String(),
		"bump":    record.Bump,
		"deposit": mathutil.FormatAmount(deposit, mA.Decimals),
		"receive": mathutil.FormatAmount(receive, mB.Decimals),
	})
}
