package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/config"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/ledger"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/pubsub"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/stats"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
	"github.com/urfave/cli/v2"
)

const metricsFile = "metrics"

type services struct {
	escrow *escrow.Service
	ledger *ledger.Service
	pubsub ports.PubSub
}

// getServices opens the configured store and returns the services on top
// of it, with a cleanup func that closes the store and dumps metrics if
// enabled.
func getServices() (*services, func(), error) {
	repoManager, err := getRepoManager()
	if err != nil {
		return nil, nil, err
	}

	var (
		metrics  *stats.Metrics
		registry *prometheus.Registry
	)
	if config.GetBool(config.EnableMetricsKey) {
		registry = prometheus.NewRegistry()
		if metrics, err = stats.NewMetrics(registry); err != nil {
			repoManager.Close()
			return nil, nil, err
		}
	}

	pubsubSvc, err := pubsub.NewService(repoManager)
	if err != nil {
		repoManager.Close()
		return nil, nil, err
	}
	escrowSvc, err := escrow.NewService(
		repoManager, config.GetProgramID(), pubsubSvc, metrics,
	)
	if err != nil {
		repoManager.Close()
		return nil, nil, err
	}
	ledgerSvc, err := ledger.NewService(repoManager)
	if err != nil {
		repoManager.Close()
		return nil, nil, err
	}

	cleanup := func() {
		repoManager.Close()
		if registry == nil {
			return
		}
		path := filepath.Join(
			config.GetDatadir(), config.MetricsLocation, metricsFile,
		)
		if err := stats.DumpPrometheus(path, registry); err != nil {
			log.WithError(err).Warn("failed to dump metrics")
		}
	}
	return &services{escrowSvc, ledgerSvc, pubsubSvc}, cleanup, nil
}

func getRepoManager() (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewRepoManager(dbDir, log.StandardLogger())
	}
}

func getWallet() (*wallet.Wallet, error) {
	path := config.GetString(config.KeypairPathKey)
	w, err := wallet.LoadKeyFile(path)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to load keypair from %s, try 'keygen': %w", path, err,
		)
	}
	return w, nil
}

// identityFlag returns the identity given with the named flag, or the one
// of the configured keypair if the flag is not set.
func identityFlag(c *cli.Context, name string) (identity.Identity, error) {
	if v := c.String(name); v != "" {
		return identity.FromString(v)
	}
	w, err := getWallet()
	if err != nil {
		return identity.Zero, err
	}
	return w.Identity(), nil
}

func requiredIdentityFlag(c *cli.Context, name string) (identity.Identity, error) {
	id, err := identity.FromString(c.String(name))
	if err != nil {
		return identity.Zero, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return id, nil
}

func printJSON(c *cli.Context, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(buf))
	return err
}
