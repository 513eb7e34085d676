package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mergepilot/mergepilot-go/internal/config"
	"github.com/mergepilot/mergepilot-go/internal/contrib"
	"github.com/mergepilot/mergepilot-go/internal/git"
	"github.com/mergepilot/mergepilot-go/internal/plan"
	"github.com/mergepilot/mergepilot-go/internal/planner"
)

var (
	// Version is set by build flags.
	Version = "dev"

	cfgFile  string
	repoPath string
	verbose  bool
	logger   *logrus.Logger
	cfg      *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mpilot",
	Short: "mergepilot - decompose large branch merges into assignable work",
	Long: `mergepilot breaks a diverged-branch merge into small, directory-coherent
groups, scores who knows each group best, and assigns owners under a
per-person load cap.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .merge_work/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "path to the git repository")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(configCmd)
}

// openRepo validates the repository path and returns the git adapter.
func openRepo(cmd *cobra.Command) (*git.Repo, error) {
	repo := git.NewRepo(repoPath, logger)
	if err := repo.Detect(cmd.Context()); err != nil {
		return nil, err
	}
	return repo, nil
}

// loadPlan reads the persisted plan, translating a missing document
// into the "run plan creation first" message.
func loadPlan() (*plan.Store, *plan.Plan, error) {
	store := plan.NewStore(repoPath)
	p, err := store.Load()
	if err != nil {
		if errors.Is(err, plan.ErrNoPlan) {
			return nil, nil, fmt.Errorf("no merge plan found, run 'mpilot plan <source> <target>' first")
		}
		return nil, nil, err
	}
	return store, p, nil
}

// openCache opens the contributor cache when enabled. A nil cache just
// means every history query hits git.
func openCache(store *plan.Store) *contrib.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	cache, err := contrib.OpenCache(filepath.Join(store.Dir(), "contrib_cache.db"), cfg.Cache.TTL, logger)
	if err != nil {
		logger.WithError(err).Warn("contributor cache unavailable, querying git directly")
		return nil
	}
	return cache
}

func newPlanner(repo *git.Repo, cache *contrib.Cache) *planner.Planner {
	return planner.New(repo, cfg, cache, logger)
}
