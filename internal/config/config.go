package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

const (
	// DatadirKey is the local data directory to store the ledger state and the
	// default keypair
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// ProgramIDKey is the base58 identity of the escrow program, from which
	// the escrow authorities are derived
	ProgramIDKey = "PROGRAM_ID"
	// KeypairPathKey is the path of the JSON keypair file used to sign when no
	// other is given
	KeypairPathKey = "KEYPAIR_PATH"
	// EnableMetricsKey enables dumping the prometheus metrics to the datadir
	// on exit
	EnableMetricsKey = "ENABLE_METRICS"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	DbLocation      = "db"
	MetricsLocation = "stats"
	KeypairFile     = "id.json"

	// DefaultProgramID is the identity of the escrow program when none is
	// configured.
	DefaultProgramID = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("tdex-escrow", false)
)

// InitConfig loads the configuration from the environment, with ESCROW_
// prefix, and makes sure the datadir exists.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("ESCROW")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(ProgramIDKey, DefaultProgramID)
	vip.SetDefault(EnableMetricsKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	if !vip.IsSet(KeypairPathKey) {
		vip.Set(KeypairPathKey, filepath.Join(GetDatadir(), KeypairFile))
	}
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetProgramID returns the configured program identity.
func GetProgramID() identity.Identity {
	// validated by InitConfig
	return identity.MustFromString(GetString(ProgramIDKey))
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf(
			"%s must be in range [%d, %d]",
			LogLevelKey, log.PanicLevel, log.TraceLevel,
		)
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be either '%s' or '%s'", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	programID, err := identity.FromString(GetString(ProgramIDKey))
	if err != nil {
		return fmt.Errorf("invalid %s: %s", ProgramIDKey, err)
	}
	if programID.IsZero() {
		return fmt.Errorf("%s must not be the zero identity", ProgramIDKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetBool(EnableMetricsKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, MetricsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
