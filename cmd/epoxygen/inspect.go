// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/m-shinder/libepoxy/internal/gen"
	"github.com/m-shinder/libepoxy/internal/issue"
	"github.com/m-shinder/libepoxy/pkg/glprofile"

	"github.com/spf13/cobra"
)

var (
	inspectProfile string

	inspectCmd = &cobra.Command{
		Use:   "inspect <registry.xml>",
		Short: "Summarize the planned dispatch model for a registry",
		Long: `Summarize the planned dispatch model for a registry.

Runs the full planning pipeline without writing any files and prints
what the generate command would work from: how many entry points
survived filtering, the distinct providers, and the version and
extension defines the header would carry.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringVar(&inspectProfile, "profile", "", "CUE provider-profile override")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var profile *glprofile.Profile
	if inspectProfile != "" {
		p, err := glprofile.LoadFile(inspectProfile)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("load provider profile").
				WithResource(inspectProfile).
				WithIssue(issue.ProfileLoadFailedId).
				Wrap(err).
				BuildError()
		}
		profile = p
	}

	res, err := gen.RunFile(args[0], gen.Options{Profile: profile})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse registry").
			WithResource(args[0]).
			WithIssue(issue.RegistryParseErrorId).
			Wrap(err).
			BuildError()
	}

	single := 0
	for _, p := range res.Plans {
		if p.Single {
			single++
		}
	}

	fmt.Println(TitleStyle.Render("Dispatch model: " + res.Target))
	fmt.Println()
	fmt.Printf("%s: %d (%d single-provider)\n", FileStyle.Render("entry points"), res.Model.Len(), single)
	fmt.Printf("%s: %d\n", FileStyle.Render("providers"), res.Interner.Len())
	fmt.Printf("%s: %d\n", FileStyle.Render("version defines"), len(res.Versions))
	fmt.Printf("%s: %d\n", FileStyle.Render("extension defines"), len(res.Extensions))

	if verbose {
		fmt.Println()
		fmt.Println(SubtitleStyle.Render("providers:"))
		for _, p := range res.Interner.Providers() {
			fmt.Printf("  %s  %s\n", p.Ident, SubtitleStyle.Render(p.Condition))
		}
	}
	return nil
}
