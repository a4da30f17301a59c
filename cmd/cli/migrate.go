package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
	"github.com/spf13/cobra"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every link as JSON to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			return exportLinks(cmd.Context(), repo, cmd.OutOrStdout())
		},
	}
}

func newImportCmd(cfg *config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load links from an export file, keeping codes and click counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			count, err := importLinks(cmd.Context(), repo, f)
			if err != nil {
				return err
			}
			log.Printf("Imported %d links", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func exportLinks(ctx context.Context, repo ports.LinkRepository, w io.Writer) error {
	links, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(links)
}

// importLinks inserts in creation order so listing order survives the move.
// Links whose code already exists, or whose URL no longer validates, are skipped.
func importLinks(ctx context.Context, repo ports.LinkRepository, r io.Reader) (int, error) {
	var links []domain.Link
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return 0, fmt.Errorf("decode failed: %w", err)
	}
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})

	count := 0
	for _, l := range links {
		target, err := domain.NormalizeURL(l.TargetURL)
		if err != nil {
			log.Printf("Skipping %s: %v", l.ShortID, err)
			continue
		}
		if l.ShortID == "" || l.ClickCount < 0 {
			log.Printf("Skipping malformed entry %+v", l)
			continue
		}

		l.TargetURL = target
		err = repo.Create(ctx, &l)
		switch {
		case errors.Is(err, domain.ErrShortIDTaken):
			log.Printf("Skipping existing code: %s", l.ShortID)
		case err != nil:
			return count, fmt.Errorf("import %s: %w", l.ShortID, err)
		default:
			count++
		}
	}
	return count, nil
}
