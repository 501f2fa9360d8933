package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kittclouds/atelier/pkg/catalog"
	"github.com/kittclouds/atelier/pkg/suggest"
)

var (
	typeFlag     string
	titleFlag    string
	contentFlag  string
	mediaFlag    string
	tagsFlag     string
	metaFlag     []string
	analyzeFlag  bool
	suggestFlag  bool
	autoTagsFlag bool
	typeFilter   string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new asset to the library",
	Long: `Adds a new asset of the given type. With --analyze and a media file,
the AI adapter proposes a title, tags and description before the asset is
stored. With --suggest-links, related assets are linked automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !catalog.IsValidType(typeFlag) {
			return fmt.Errorf("invalid type %q, must be one of: %s", typeFlag, strings.Join(catalog.AllTypes, ", "))
		}

		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		e := catalog.Entity{
			ID:       uuid.NewString(),
			Type:     catalog.EntityType(typeFlag),
			Title:    titleFlag,
			Content:  contentFlag,
			MediaURL: mediaFlag,
			Tags:     splitList(tagsFlag),
			Metadata: parseMetadata(metaFlag),
		}

		if analyzeFlag {
			if mediaFlag == "" {
				return fmt.Errorf("--analyze requires --media pointing to an image file")
			}
			image, err := os.ReadFile(mediaFlag)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			analysis := newEnrichClient().AnalyzeImage(context.Background(), image)
			if e.Title == "" && analysis.Title != "" {
				e.Title = analysis.Title
			}
			if len(e.Tags) == 0 {
				e.Tags = analysis.Tags
			}
			if e.Content == "" && analysis.Description != "" {
				e.Content = analysis.Description
			}
		}

		if e.Title == "" {
			return fmt.Errorf("a title is required (set --title or use --analyze)")
		}

		if autoTagsFlag && len(e.Tags) == 0 {
			e.Tags = suggest.Tags(e.Title+" "+e.Content, 5)
		}

		if err := repo.Create(e); err != nil {
			return err
		}

		if suggestFlag {
			linkSuggested(repo, e)
		}

		created, _ := repo.Get(e.ID)
		return printEntity(created)
	},
}

// linkSuggested asks for related titles and links whatever resolves. The AI
// path falls back to local title matching when the adapter is disabled.
// Titles are resolved to the first entity carrying them, in collection order.
func linkSuggested(repo *catalog.Repository, e catalog.Entity) {
	others := make([]catalog.Entity, 0, repo.Len())
	candidates := make([]string, 0, repo.Len())
	for _, other := range repo.All() {
		if other.ID == e.ID {
			continue
		}
		others = append(others, other)
		candidates = append(candidates, other.Title)
	}
	if len(candidates) == 0 {
		return
	}

	client := newEnrichClient()
	var titles []string
	if client.Enabled() {
		titles = client.SuggestRelated(context.Background(), e.Title, e.Content, candidates)
	} else {
		titles = suggest.MatchTitles(e.Title+" "+e.Content, candidates)
	}

	for _, title := range titles {
		for _, other := range others {
			if other.Title == title {
				if repo.Link(e.ID, other.ID) {
					logger.Info("linked", "to", other.Title, "id", other.ID)
				}
				break
			}
		}
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		entities := repo.All()
		if typeFilter != "" {
			if !catalog.IsValidType(typeFilter) {
				return fmt.Errorf("invalid type %q, must be one of: %s", typeFilter, strings.Join(catalog.AllTypes, ", "))
			}
			filtered := entities[:0]
			for _, e := range entities {
				if e.Type == catalog.EntityType(typeFilter) {
					filtered = append(filtered, e)
				}
			}
			entities = filtered
		}

		return printEntities(entities)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a single asset",
	Args:  cobra.ExactArgs(1),
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
		return printEntity(e)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search assets by title, tag or content",
	Long:  `Case-insensitive substring search over title, tags and content. Without a query, every asset is listed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return printEntities(repo.Search(query))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of an asset",
	Long:  `Updates an asset with the given ID. Only the provided flags change; --tags and --meta replace the previous values entirely.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p catalog.Patch
		if cmd.Flags().Changed("title") {
			p.Title = &titleFlag
		}
		if cmd.Flags().Changed("content") {
			p.Content = &contentFlag
		}
		if cmd.Flags().Changed("media") {
			p.MediaURL = &mediaFlag
		}
		if cmd.Flags().Changed("tags") {
			tags := splitList(tagsFlag)
			p.Tags = &tags
		}
		if cmd.Flags().Changed("meta") {
			meta := parseMetadata(metaFlag)
			p.Metadata = &meta
		}
		if p.Title == nil && p.Content == nil && p.MediaURL == nil && p.Tags == nil && p.Metadata == nil {
			return fmt.Errorf("no update fields provided, use --title, --content, --media, --tags or --meta")
		}

		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		if !repo.Update(args[0], p) {
			return fmt.Errorf("no asset with id %s", args[0])
		}
		e, _ := repo.Get(args[0])
		return printEntity(e)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an asset",
	Long:  `Deletes the asset and removes every relation pointing at it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		if !repo.Delete(args[0]) {
			return fmt.Errorf("no asset with id %s", args[0])
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&typeFlag, "type", "T", "", fmt.Sprintf("Asset type: %s (required)", strings.Join(catalog.AllTypes, "|")))
	addCmd.MarkFlagRequired("type")
	addCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Title of the asset")
	addCmd.Flags().StringVarP(&contentFlag, "content", "c", "", "Content or description")
	addCmd.Flags().StringVarP(&mediaFlag, "media", "m", "", "Media URL or local file path")
	addCmd.Flags().StringVar(&tagsFlag, "tags", "", "Comma-separated tags")
	addCmd.Flags().StringArrayVar(&metaFlag, "meta", nil, "Metadata as key=value (repeatable)")
	addCmd.Flags().BoolVar(&analyzeFlag, "analyze", false, "Analyze the media file with the AI adapter")
	addCmd.Flags().BoolVar(&suggestFlag, "suggest-links", false, "Link related assets automatically")
	addCmd.Flags().BoolVar(&autoTagsFlag, "auto-tags", false, "Derive tags locally from title and content when none are given")

	listCmd.Flags().StringVarP(&typeFilter, "type", "T", "", "Only list assets of this type")

	updateCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "New title")
	updateCmd.Flags().StringVarP(&contentFlag, "content", "c", "", "New content")
	updateCmd.Flags().StringVarP(&mediaFlag, "media", "m", "", "New media URL")
	updateCmd.Flags().StringVar(&tagsFlag, "tags", "", "New comma-separated tags (replaces existing)")
	updateCmd.Flags().StringArrayVar(&metaFlag, "meta", nil, "New metadata as key=value (replaces existing)")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMetadata(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func printEntity(e catalog.Entity) error {
	if jsonOut {
		return printJSON(e)
	}
	fmt.Printf("%s  [%s]  %s\n", e.ID, e.Type, e.Title)
	if e.Content != "" {
		fmt.Printf("  %s\n", e.Content)
	}
	if e.MediaURL != "" {
		fmt.Printf("  media: %s\n", e.MediaURL)
	}
	if len(e.Tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(e.Tags, ", "))
	}
	for k, v := range e.Metadata {
		fmt.Printf("  %s: %s\n", k, v)
	}
	if len(e.RelatedIDs) > 0 {
		fmt.Printf("  related: %s\n", strings.Join(e.RelatedIDs, ", "))
	}
	fmt.Printf("  created: %s\n", time.UnixMilli(e.CreatedAt).Format(time.RFC3339))
	return nil
}

func printEntities(entities []catalog.Entity) error {
	if jsonOut {
		return printJSON(entities)
	}
	if len(entities) == 0 {
		fmt.Println("No assets found.")
		return nil
	}
	for _, e := range entities {
		tags := ""
		if len(e.Tags) > 0 {
			tags = "  [" + strings.Join(e.Tags, ", ") + "]"
		}
		fmt.Printf("%s  %-9s  %s%s\n", e.ID, e.Type, e.Title, tags)
	}
	return nil
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
