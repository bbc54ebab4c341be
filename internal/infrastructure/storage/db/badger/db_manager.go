package dbbadger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type txKey struct{}

// repoManager holds all the repositories over a single badgerhold store so
// that one badger transaction can span any of them.
type repoManager struct {
	store *badgerhold.Store

	escrowRepository        domain.EscrowRepository
	mintRepository          domain.MintRepository
	tokenAccountRepository  domain.TokenAccountRepository
	systemAccountRepository domain.SystemAccountRepository
	settlementRepository    domain.SettlementRepository
	signatureRepository     domain.SignatureRepository
	subscriptionRepository  domain.SubscriptionRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. If the data dir is
// empty the store is kept in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening escrow db: %w", err)
	}

	return &repoManager{
		store:                   store,
		escrowRepository:        NewEscrowRepositoryImpl(store),
		mintRepository:          NewMintRepositoryImpl(store),
		tokenAccountRepository:  NewTokenAccountRepositoryImpl(store),
		systemAccountRepository: NewSystemAccountRepositoryImpl(store),
		settlementRepository:    NewSettlementRepositoryImpl(store),
		signatureRepository:     NewSignatureRepositoryImpl(store),
		subscriptionRepository:  NewSubscriptionRepositoryImpl(store),
	}, nil
}

func (r *repoManager) EscrowRepository() domain.EscrowRepository {
	return r.escrowRepository
}

func (r *repoManager) MintRepository() domain.MintRepository {
	return r.mintRepository
}

func (r *repoManager) TokenAccountRepository() domain.TokenAccountRepository {
	return r.tokenAccountRepository
}

func (r *repoManager) SystemAccountRepository() domain.SystemAccountRepository {
	return r.systemAccountRepository
}

func (r *repoManager) SettlementRepository() domain.SettlementRepository {
	return r.settlementRepository
}

func (r *repoManager) SignatureRepository() domain.SignatureRepository {
	return r.signatureRepository
}

func (r *repoManager) SubscriptionRepository() domain.SubscriptionRepository {
	return r.subscriptionRepository
}

// RunTransaction runs the handler within a badger transaction shared by all
// the repositories through the context. Conflicting concurrent transactions
// make the latest to commit fail with badger.ErrConflict. A panicking handler
// discards the transaction and makes it fail with an error.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (result interface{}, err error) {
	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("recovered: %v", rec)
		}
	}()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.store.Close()
}

// withTx runs fn with the transaction carried by the context, or with a new
// one if none is found.
func withTx(
	ctx context.Context, store *badgerhold.Store, update bool,
	fn func(tx *badger.Txn) error,
) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	if update {
		return store.Badger().Update(fn)
	}
	return store.Badger().View(fn)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if len(dbDir) <= 0 {
		opts = badger.DefaultOptions("")
		opts.InMemory = true
	} else {
		opts = badger.DefaultOptions(dbDir)
		opts.Compression = options.ZSTD
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          jsonEncode,
		Decoder:          jsonDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// Records are JSON encoded so that identities are stored in their base58
// text form.
func jsonEncode(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func jsonDecode(data []byte, value interface{}) error {
	return json.Unmarshal(data, value)
}
