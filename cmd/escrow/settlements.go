package main

import (
	"time"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/urfave/cli/v2"
)

var settlements = cli.Command{
	Name:  "settlements",
	Usage: "list the receipts of taken and refunded escrows",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "party",
			Usage: "list only the receipts where this identity is maker or counterparty",
		},
	},
	Action: settlementsAction,
}

type settlementView struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Escrow         string `json:"escrow"`
	Maker          string `json:"maker"`
	Counterparty   string `json:"counterparty"`
	MintA          string `json:"mint_a"`
	MintB          string `json:"mint_b"`
	AmountPaid     uint64 `json:"amount_paid"`
	AmountReleased uint64 `json:"amount_released"`
	RentReturned   uint64 `json:"rent_returned"`
	Time           string `json:"time"`
}

func newSettlementView(s domain.Settlement) settlementView {
	return settlementView{
		ID:             s.ID.String(),
		Type:           s.Type.String(),
		Escrow:         s.Escrow.String(),
		Maker:          s.Maker.String(),
		Counterparty:   s.Counterparty.String(),
		MintA:          s.MintA.String(),
		MintB:          s.MintB.String(),
		AmountPaid:     s.AmountPaid,
		AmountReleased: s.AmountReleased,
		RentReturned:   s.RentReturned,
		Time:           time.Unix(s.Timestamp, 0).UTC().Format(time.RFC3339),
	}
}

func settlementsAction(c *cli.Context) error {
	party := identity.Zero
	if v := c.String("party"); v != "" {
		id, err := identity.FromString(v)
		if err != nil {
			return err
		}
		party = id
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := svc.escrow.ListSettlements(c.Context, party)
	if err != nil {
		return err
	}

	views := make([]settlementView, 0, len(list))
	for _, s := range list {
		views = append(views, newSettlementView(s))
	}
	return printJSON(c, views)
}
