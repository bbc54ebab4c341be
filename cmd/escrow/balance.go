package main

import (
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "show the lamports and token balances of an identity",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the identity to inspect, defaults to the configured keypair",
		},
	},
	Action: balanceAction,
}

type tokenBalanceView struct {
	Account string `json:"account"`
	Mint    string `json:"mint"`
	Amount  string `json:"amount"`
}

func balanceAction(c *cli.Context) error {
	owner, err := identityFlag(c, "owner")
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	lamports, err := svc.ledger.GetBalance(c.Context, owner)
	if err != nil {
		return err
	}
	balances, err := svc.ledger.ListTokenBalances(c.Context, owner)
	if err != nil {
		return err
	}

	tokens := make([]tokenBalanceView, 0, len(balances))
	for _, b := range balances {
		tokens = append(tokens, tokenBalanceView{
			Account: b.Account.String(),
			Mint:    b.Mint.String(),
			Amount:  mathutil.FormatAmount(b.Amount, b.Decimals),
		})
	}

	return printJSON(c, map[string]interface{}{
		"identity": owner.String(),
		"lamports": lamports,
		"tokens":   tokens,
	})
}
