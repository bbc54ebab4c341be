package main

import (
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var escrowCmd = cli.Command{
	Name:  "escrow",
	Usage: "inspect open escrows",
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "show an escrow and the balance of its vault",
			ArgsUsage: "<address>",
			Action:    escrowShowAction,
		},
		{
			Name:  "list",
			Usage: "list open escrows",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "maker",
					Usage: "list only the escrows of this maker",
				},
			},
			Action: escrowListAction,
		},
	},
}

type escrowView struct {
	Address string `json:"address"`
	Seed    uint64 `json:"seed"`
	Maker   string `json:"maker"`
	MintA   string `json:"mint_a"`
	MintB   string `json:"mint_b"`
	Receive uint64 `json:"receive"`
	Bump    uint8  `json:"bump"`
	Vault   string `json:"vault,omitempty"`
	Deposit string `json:"deposit,omitempty"`
}

func newEscrowView(e domain.Escrow) escrowView {
	return escrowView{
		Address: e.Address.String(),
		Seed:    e.Seed,
		Maker:   e.Maker.String(),
		MintA:   e.MintA.String(),
		MintB:   e.MintB.String(),
		Receive: e.Receive,
		Bump:    e.Bump,
	}
}

func escrowShowAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return &invalidUsageError{c, c.Command.Name}
	}
	addr, err := identity.FromString(c.Args().First())
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.escrow.GetEscrow(c.Context, addr)
	if err != nil {
		return err
	}
	mintA, err := svc.ledger.GetMint(c.Context, info.Escrow.MintA)
	if err != nil {
		return err
	}

	view := newEscrowView(info.Escrow)
	view.Vault = info.Vault.Address.String()
	view.Deposit = mathutil.FormatAmount(info.Vault.Amount, mintA.Decimals)
	return printJSON(c, view)
}

func escrowListAction(c *cli.Context) error {
	maker := identity.Zero
	if v := c.String("maker"); v != "" {
		id, err := identity.FromString(v)
		if err != nil {
			return err
		}
		maker = id
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	escrows, err := svc.escrow.ListEscrows(c.Context, maker)
	if err != nil {
		return err
	}

	views := make([]escrowView, 0, len(escrows))
	for _, e := range escrows {
		views = append(views, newEscrowView(e))
	}
	return printJSON(c, views)
}
