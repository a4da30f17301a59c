package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/murat/gimly/pkg/config"
	"github.com/murat/gimly/pkg/core/services"
	"github.com/murat/gimly/pkg/core/shortcode"
	"github.com/spf13/cobra"
)

func newCreateCmd(cfg *config.Config) *cobra.Command {
	var targetURL, title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Shorten a URL",
		Long: `Shorten a URL and print the generated code.

Example:
  gimly create --url="https://www.google.com/search?q=go+lang" --title="search"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			codes, err := shortcode.New(cfg.CodeLength)
			if err != nil {
				return err
			}

			// No click recorder: the CLI never resolves links.
			service := services.NewLinkService(repo, codes, nil, cfg.MaxCodeAttempts)
			link, err := service.Shorten(cmd.Context(), targetURL, title)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Code: %s\nURL:  %s\n", link.ShortID, cfg.ShortURL(link.ShortID))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "url", "", "URL to shorten")
	cmd.Flags().StringVar(&title, "title", "", "optional title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List links in creation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			links, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tCLICKS\tCREATED\tTITLE\tURL")
			for _, l := range links {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", l.ShortID, l.ClickCount, l.CreatedAt.Format("2006-01-02 15:04"), l.Title, l.TargetURL)
			}
			return w.Flush()
		},
	}
}
