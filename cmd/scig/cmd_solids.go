package main

import (
	"fmt"

	"scig/internal/solids"

	"github.com/spf13/cobra"
)

var solidsMarkdown bool

// solidsCmd lists the Geant4 solids catalog
var solidsCmd = &cobra.Command{
	Use:   "solids",
	Short: "List the Geant4 solids and their descriptor form",
	RunE:  runSolids,
}

// solidsShowCmd prints a descriptor template for one solid
var solidsShowCmd = &cobra.Command{
	Use:   "show [type]",
	Short: "Print a descriptor line template for a solid",
	Long: `Accepts a Geant4 name (G4Tubs) or a descriptor tag (Tube), ignoring case.
Solids sci-g supports but the descriptor format does not are reported as such.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolidsShow,
}

func runSolids(cmd *cobra.Command, args []string) error {
	list := solids.All()
	if !solidsMarkdown {
		return solids.Table(cmd.OutOrStdout(), list)
	}
	out, err := solids.Render(solids.Markdown(list), 100)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runSolidsShow(cmd *cobra.Command, args []string) error {
	snippet, err := solids.Snippet(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), snippet)
	return nil
}
