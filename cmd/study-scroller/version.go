// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildInfo describes the running binary and the library it would open.
type buildInfo struct {
	App            string `json:"app"`
	Version        string `json:"version"`
	Go             string `json:"go"`
	LibraryBackend string `json:"library_backend"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the study-scroller version and library backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return printVersion(os.Stdout, currentBuild(viper.GetString("library.backend")), asJSON)
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(versionCmd)
}

// currentBuild falls back to the module version stamped by go install when
// no version was set through ldflags.
func currentBuild(backend string) buildInfo {
	v := version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return buildInfo{App: appName, Version: v, Go: runtime.Version(), LibraryBackend: backend}
}

func printVersion(w io.Writer, info buildInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := fmt.Fprintf(w, "%s %s (%s, library: %s)\n", info.App, info.Version, info.Go, info.LibraryBackend)
	return err
}
