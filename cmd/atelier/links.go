package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/atelier/pkg/graph"
)

var linkCmd = &cobra.Command{
	Use:   "link [id-a] [id-b]",
	Short: "Link two assets",
	Long:  `Records an undirected relation between two assets. Linking an already linked pair changes nothing.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		if !repo.Link(args[0], args[1]) {
			return fmt.Errorf("cannot link %s and %s: both ids must exist and differ", args[0], args[1])
		}
		fmt.Printf("Linked %s <-> %s.\n", args[0], args[1])
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink [id-a] [id-b]",
	Short: "Remove the relation between two assets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		if !repo.Unlink(args[0], args[1]) {
			return fmt.Errorf("cannot unlink %s and %s: both ids must exist", args[0], args[1])
		}
		fmt.Printf("Unlinked %s <-> %s.\n", args[0], args[1])
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the relationship graph",
	Long:  `Projects the library into nodes and edges. Each relation appears once, whichever side recorded it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			return err
		}
		defer closer()

		g := graph.Project(repo.All())
		if jsonOut {
			return printJSON(g)
		}

		fmt.Printf("%d nodes, %d edges\n\n", len(g.Nodes), len(g.Edges))
		for _, n := range g.Nodes {
			fmt.Printf("%s  %-10s  %s\n", n.ID, n.Group, n.Label)
		}
		if len(g.Edges) > 0 {
			fmt.Println()
			for _, e := range g.Edges {
				fmt.Printf("%s <-> %s\n", e.Source, e.Target)
			}
		}
		return nil
	},
}
