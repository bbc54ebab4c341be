package escrow

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type escrowOpenedEvent struct {
	Escrow  string `json:"escrow"`
	Seed    uint64 `json:"seed"`
	Maker   string `json:"maker"`
	MintA   string `json:"mint_a"`
	MintB   string `json:"mint_b"`
	Deposit uint64 `json:"deposit"`
	Receive uint64 `json:"receive"`
}

func newEscrowOpenedEvent(e *domain.Escrow, deposit uint64) escrowOpenedEvent {
	return escrowOpenedEvent{
		Escrow:  e.Address.String(),
		Seed:    e.Seed,
		Maker:   e.Maker.String(),
		MintA:   e.MintA.String(),
		MintB:   e.MintB.String(),
		Deposit: deposit,
		Receive: e.Receive,
	}
}

type settlementEvent struct {
	ID             string `json:"id"`
	Escrow         string `json:"escrow"`
	Seed           uint64 `json:"seed"`
	Maker          string `json:"maker"`
	Counterparty   string `json:"counterparty"`
	MintA          string `json:"mint_a"`
	MintB          string `json:"mint_b"`
	AmountPaid     uint64 `json:"amount_paid"`
	AmountReleased uint64 `json:"amount_released"`
	RentReturned   uint64 `json:"rent_returned"`
	Timestamp      int64  `json:"timestamp"`
}

func newSettlementEvent(s *domain.Settlement) settlementEvent {
	return settlementEvent{
		ID:             s.ID.String(),
		Escrow:         s.Escrow.String(),
		Seed:           s.Seed,
		Maker:          s.Maker.String(),
		Counterparty:   s.Counterparty.String(),
		MintA:          s.MintA.String(),
		MintB:          s.MintB.String(),
		AmountPaid:     s.AmountPaid,
		AmountReleased: s.AmountReleased,
		RentReturned:   s.RentReturned,
		Timestamp:      s.Timestamp,
	}
}

// publish notifies the subscribers of topic. Notifications happen after the
// instruction is committed, a failure is only logged.
func (s *Service) publish(ctx context.Context, topic string, event interface{}) {
	if s.pubsub == nil {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Warnf("failed to serialize %s event", topic)
		return
	}
	if err := s.pubsub.Publish(ctx, topic, string(message)); err != nil {
		log.WithError(err).Warnf("failed to publish %s event", topic)
	}
}
