package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"exprua/internal/symbols"
	"exprua/internal/units"
	"exprua/internal/version"
)

const versionTagline = "numbers that know their units"

// versionPayload is the --format json shape; optional fields are filled by
// --hash, --date and --full.
type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Tagline   string `json:"tagline"`
	Units     int    `json:"units"`
	Functions int    `json:"functions"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show exprua build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "include every recorded build detail")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	full, _ := flags.GetBool("full")
	showHash, _ := flags.GetBool("hash")
	showDate, _ := flags.GetBool("date")
	colorMode, _ := flags.GetString("color")

	p := versionPayload{
		Tool:      "exprua",
		Version:   orUnknown(strings.TrimSpace(version.Version), "dev"),
		Tagline:   versionTagline,
		Units:     len(units.Names()),
		Functions: len(symbols.Builtins()),
	}
	if showHash || full {
		p.GitCommit = orUnknown(strings.TrimSpace(version.GitCommit), "unknown")
	}
	if showDate || full {
		p.BuildDate = orUnknown(strings.TrimSpace(version.BuildDate), "unknown")
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "pretty":
		renderVersion(out, p, wantsColor(colorMode, out))
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func renderVersion(out io.Writer, p versionPayload, colored bool) {
	v := p.Version
	if v == strings.TrimSpace(version.Version) {
		v = version.Pretty(colored)
	}
	fmt.Fprintf(out, "exprua %s: %s\n", v, p.Tagline)
	fmt.Fprintf(out, "engine: %d units, %d functions\n", p.Units, p.Functions)
	if p.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
