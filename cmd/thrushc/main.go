// Command thrushc is the flag-driven front door to the compiler core: it
// maps CLI flags onto pipeline.CompilerOptions and drives the per-unit
// pipeline, the way the teacher's go-corset binary fronts its own compiler
// (pkg/cmd/root.go + per-subcommand files). Everything interesting happens
// in internal/; this package only parses flags, runs the driver, renders
// the collected diagnostics, and exits with the documented status code.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/thrush-lang/thrushc/internal/config"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// Exit codes per spec.md §6: 0 success, 1 command-line misuse, 2 unit had
// errors, 3 internal bug.
const (
	exitOK      = 0
	exitUsage   = 1
	exitErrors  = 2
	exitBug     = 3
)

var rootCmd = &cobra.Command{
	Use:   "thrushc",
	Short: "A compiler for the Thrush language.",
	Long:  "The middle and back-end of the Thrush compiler: semantic analysis, LLVM IR lowering, optimization, and emission.",
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Print("thrushc ")
			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.Flags().Bool("version", false, "print the compiler version")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.AddCommand(buildCmd)
	config.RegisterFlags(buildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUsage)
	}
}
