// Command vardemo is a small host program for github.com/zng-ui/zvar/pkg/vars:
// it builds one reactive variable graph and drives it three different ways
// (serve, bench, tick) so the scheduler, derived variables, and animation
// controller all run against something that looks like a real frame loop
// instead of only a test harness.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
 __   ____   __ _ _ __
 \ \ / /\ \ / /| | '__|
  \ V /  \ V / | | |
   \_/    \_/  |_|_|
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vardemo",
		Short: "Demo host for the zvar reactive variable runtime",
		Long: `vardemo drives a small reactive variable graph (a counter, a
derived label, a when-status, an eased progress bar, and an observable todo
list) three different ways:

  • serve — HTTP + WebSocket server that streams frame updates to a browser
  • bench — hammers a serve instance with concurrent WebSocket clients
  • tick  — headless, drives a fixed number of frames and prints a log line per frame`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		benchCmd(),
		tickCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() { fmt.Print(banner) }

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

func versionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version)
				return
			}
			printBanner()
			fmt.Printf("  Version: %s\n  Commit:  %s\n  Built:   %s\n", version, commit, date)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return cmd
}
