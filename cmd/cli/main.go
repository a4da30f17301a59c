package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/murat/gimly/pkg/adapters/repository"
	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/ports"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "gimly",
		Short:        "Administer the gimly link store",
		SilenceUsage: true,
	}

	root.AddCommand(
		newCreateCmd(cfg),
		newListCmd(cfg),
		newExportCmd(cfg),
		newImportCmd(cfg),
		newTokenCmd(cfg),
	)
	return root
}

// openRepo connects to the store named by DATABASE_URL. Callers close it.
func openRepo(cfg *config.Config) (ports.LinkRepository, error) {
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Failed to connect to db: %v", err)
		return nil, err
	}
	return repo, nil
}
