package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/atelier/pkg/suggest"
)

var applyFlag bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-file]",
	Short: "Analyze an image with the AI adapter",
	Long: `Sends the image to the vision model and prints the proposed title, tags
and description. Requires ATELIER_AI_KEY to be configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newEnrichClient()
		if !client.Enabled() {
			return fmt.Errorf("AI enrichment is not configured, set ATELIER_AI_KEY")
		}

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		analysis := client.AnalyzeImage(context.Background(), image)
		if analysis.Title == "" && len(analysis.Tags) == 0 && analysis.Description == "" {
			fmt.Println("Analysis returned no result.")
			return nil
		}

		if jsonOut {
			return printJSON(analysis)
		}
		fmt.Printf("Title:       %s\n", analysis.Title)
		fmt.Printf("Tags:        %s\n", strings.Join(analysis.Tags, ", "))
		fmt.Printf("Description: %s\n", analysis.Description)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [id]",
	Short: "Suggest related assets for an asset",
	Long: `Proposes assets related to the given one. Uses the AI adapter when
configured, local title matching otherwise. With --apply, the suggestions
are linked immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		e, ok := repo.Get(args[0])
		if !ok {
			return fmt.Errorf("no asset with id %s", args[0])
		}

		if applyFlag {
			linkSuggested(repo, e)
			updated, _ := repo.Get(e.ID)
			return printEntity(updated)
		}

		candidates := make([]string, 0, repo.Len())
		for _, other := range repo.All() {
			if other.ID != e.ID {
				candidates = append(candidates, other.Title)
			}
		}

		client := newEnrichClient()
		var titles []string
		if client.Enabled() {
			titles = client.SuggestRelated(context.Background(), e.Title, e.Content, candidates)
		} else {
			titles = suggest.MatchTitles(e.Title+" "+e.Content, candidates)
		}

		if len(titles) == 0 {
			fmt.Println("No related assets found.")
			return nil
		}
		if jsonOut {
			return printJSON(titles)
		}
		for _, t := range titles {
			fmt.Println(t)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library and adapter status",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		fmt.Printf("Library:  %s\n", cfg.DBPath)
		fmt.Printf("Assets:   %d\n", repo.Len())
		if newEnrichClient().Enabled() {
			fmt.Printf("AI:       enabled (vision: %s, suggest: %s)\n", cfg.VisionModel, cfg.SuggestModel)
		} else {
			fmt.Println("AI:       disabled (set ATELIER_AI_KEY to enable)")
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&applyFlag, "apply", false, "Link the suggested assets immediately")
}
