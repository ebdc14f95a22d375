package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: handbook <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown pages to HTML files")
	fmt.Fprintln(w, "  serve      Preview a handbook directory over HTTP")
	fmt.Fprintln(w, "  init       Write a default config file")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'handbook help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: handbook render [flags] <file-or-dir>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown pages to standalone HTML files.")
	fmt.Fprintln(w, "Files starting with '_' or '.' are skipped when walking directories.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: next to sources)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-page render timeout (default: 30s)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error")
	fmt.Fprintln(w, "      --no-heading-plugin   Keep heading levels as written")
	printEnvUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: handbook serve [flags] <dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a handbook directory with live reload of changed pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default: "+defaultAddr+")")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "      --no-watch            Disable reload on file changes")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error (default: info)")
	printEnvUsage(w)
}

// printEnvUsage lists the recognized environment variables.
func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HANDBOOK_CONFIG, HANDBOOK_LOG_LEVEL, HANDBOOK_OUTPUT_DIR, HANDBOOK_ADDR,")
	fmt.Fprintln(w, "  HANDBOOK_NAME, HANDBOOK_TIMEOUT, HANDBOOK_WORKERS")
}

// runHelp prints help for a command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "init":
		fmt.Fprintln(env.Stdout, "Usage: handbook init [path]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Write the default config to path (default: "+defaultConfigFile+").")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: handbook version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: handbook help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
