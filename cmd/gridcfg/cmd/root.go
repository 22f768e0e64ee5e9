// Package cmd implements the gridcfg command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gridcfg.io/console/cmd/gridcfg/ui"
	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
	"gridcfg.io/console/sdk"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Configuration keys, settable by flag, GRIDCFG_* environment variable, or
// config file.
const (
	keyServer          = "server"
	keySession         = "session"
	keyCatalogue       = "catalogue"
	keyPlatformVersion = "platform-version"
	keyStrictPaths     = "strict-paths"
	keyVerbose         = "verbose"
)

var errNeedsServer = errors.New("this command needs --server")

// app carries the configuration shared by all commands of one invocation.
type app struct {
	cfg     *viper.Viper
	cfgFile string
	logger  *zap.Logger
}

// Execute runs the gridcfg command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "gridcfg",
		Short: "gridcfg - cluster configuration summary and bundle export",
		Long: `gridcfg inspects cluster configurations and exports them as
ready-to-build configuration bundles (<cluster>-configuration.zip).

It works in two modes:
  - Server mode (--server): talks to one or more gridcfg-server instances;
    the selection and tabs live in a server session
  - Local mode (--catalogue): reads a cluster catalogue file and renders
    bundles without a server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.initConfig(cmd.ErrOrStderr())

			logger, err := logging.NewLogger(logging.CLIConfig(a.cfg.GetBool(keyVerbose)))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/gridcfg/config.yaml)")
	flags.StringSlice(keyServer, nil, "gridcfg-server URLs, tried in order")
	flags.String(keySession, "", "server session to resume")
	flags.String(keyCatalogue, "", "cluster catalogue file for local mode")
	flags.String(keyPlatformVersion, "", "platform version for locally rendered bundles (semver)")
	flags.Bool(keyStrictPaths, false, "reject bundles in which two classes map to one path")
	flags.BoolP(keyVerbose, "v", false, "enable debug logging on stderr")

	for _, key := range []string{keyServer, keySession, keyCatalogue, keyPlatformVersion, keyStrictPaths, keyVerbose} {
		if err := a.cfg.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newVersionCmd(),
		a.newStatusCmd(),
		a.newClustersCmd(),
		a.newSummaryCmd(),
		a.newSelectCmd(),
		a.newTabCmd(),
		a.newExportCmd(),
		a.newHistoryCmd(),
		a.newBrowseCmd(),
	)

	return root
}

// initConfig reads the config file and GRIDCFG_* environment variables.
// A missing config file is not an error.
func (a *app) initConfig(stderr io.Writer) {
	a.cfg.SetEnvPrefix("GRIDCFG")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	if a.cfgFile != "" {
		a.cfg.SetConfigFile(a.cfgFile)
	} else {
		a.cfg.SetConfigName("config")
		a.cfg.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			a.cfg.AddConfigPath(filepath.Join(dir, "gridcfg"))
		}
	}

	if err := a.cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			warnf(stderr, "failed to read config file: %v", err)
		}
	}
}

// versionString returns formatted version information
func versionString() string {
	return fmt.Sprintf("gridcfg %s (commit: %s, built: %s)",
		Version, Commit, BuildDate)
}

// platformVersion returns the configured platform version, validated as a
// semantic version, or the default.
func (a *app) platformVersion() (string, error) {
	v := strings.TrimSpace(a.cfg.GetString(keyPlatformVersion))
	if v == "" {
		return bundle.DefaultPlatformVersion, nil
	}
	if _, err := semver.StrictNewVersion(v); err != nil {
		return "", fmt.Errorf("invalid platform version %q: %w", v, err)
	}
	return v, nil
}

// console is everything the commands need from a summary session.
type console interface {
	ui.Console
	ListClusters(ctx context.Context) ([]models.Cluster, error)
	SelectName(ctx context.Context, name string) (*models.SummaryState, error)
	ExportCluster(ctx context.Context, name string, payload *models.ExportPayload) (*sdk.Bundle, error)
}

var (
	_ console = (*sdk.Client)(nil)
	_ console = (*localConsole)(nil)
)

// openConsole opens the local catalogue when one is configured, otherwise
// connects to the configured servers. The returned close function must be
// called when done.
func (a *app) openConsole(ctx context.Context, stderr io.Writer) (console, func(), error) {
	if path := a.cfg.GetString(keyCatalogue); path != "" {
		version, err := a.platformVersion()
		if err != nil {
			return nil, nil, err
		}

		local, err := newLocalConsole(ctx, path, version, a.cfg.GetBool(keyStrictPaths), a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using local catalogue", zap.String("path", path))
		return local, local.Close, nil
	}

	client, err := a.serverClient()
	if err != nil {
		if errors.Is(err, errNeedsServer) {
			return nil, nil, fmt.Errorf("no cluster source: set --server or --catalogue")
		}
		return nil, nil, err
	}
	if a.cfg.GetString(keyPlatformVersion) != "" {
		warnf(stderr, "--platform-version only applies to local mode; the server uses its own")
	}
	return client, func() {}, nil
}

// serverClient connects to the configured servers.
func (a *app) serverClient() (*sdk.Client, error) {
	servers := a.cfg.GetStringSlice(keyServer)
	if len(servers) == 0 {
		return nil, errNeedsServer
	}

	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURLs:  servers,
		SessionID: a.cfg.GetString(keySession),
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using server", zap.Strings("urls", servers))
	return client, nil
}

// reportSession tells the user how to reuse a session the server issued.
func (a *app) reportSession(stderr io.Writer, c console) {
	client, ok := c.(*sdk.Client)
	if !ok || a.cfg.GetString(keySession) != "" {
		return
	}
	if id := client.Session(); id != "" {
		infof(stderr, "session %s (set GRIDCFG_SESSION=%s to keep this selection)", id, id)
	}
}
