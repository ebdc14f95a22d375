package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// flagType is how a flag's value is completed.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagInt
	flagEnum
	flagFile
	flagDir
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // flagEnum
	FileGlob string   // flagFile, comma-separated
}

// argKind is how a command's positional arguments are completed.
type argKind int

const (
	argNone argKind = iota
	argFiles
	argDir
	argWords
)

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  argKind
	Glob  string   // argFiles, comma-separated
	Words []string // argWords
}

// completionMeta holds what a FlagSet cannot say about a flag's value.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"log-level": {Values: []string{"debug", "info", "warn", "error"}},
	"config":    {FileGlob: "*.yaml,*.yml"},
	"output":    {IsDir: true},
}

// extractFlagsFromFlagSet lists a FlagSet's flags, enriched with
// flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type, fd.Values = flagEnum, meta.Values
			case meta.FileGlob != "":
				fd.Type, fd.FileGlob = flagFile, meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion. Flags come from
// the same registration functions the parsers use.
func getCommands() []commandDef {
	renderSet := flag.NewFlagSet("render", flag.ContinueOnError)
	addRenderFlags(renderSet, &renderFlags{})
	serveSet := flag.NewFlagSet("serve", flag.ContinueOnError)
	addServeFlags(serveSet, &serveFlags{})

	names := []string{"render", "serve", "init", "version", "help", "completion"}

	return []commandDef{
		{Name: "render", Desc: "Render markdown pages to HTML files", Flags: extractFlagsFromFlagSet(renderSet), Args: argFiles, Glob: "*.md"},
		{Name: "serve", Desc: "Preview a handbook directory over HTTP", Flags: extractFlagsFromFlagSet(serveSet), Args: argDir},
		{Name: "init", Desc: "Write a default config file", Args: argFiles, Glob: "*.yaml,*.yml"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: argWords, Words: names},
		{Name: "completion", Desc: "Generate shell completion script", Args: argWords, Words: supportedShells},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(getCommands())
	case ShellZsh:
		script = zshScript(getCommands())
	case ShellFish:
		script = fishScript(getCommands())
	case ShellPowerShell:
		script = powerShellScript(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell", ErrUsage)
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: handbook completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(handbook completion bash)\"            # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(handbook completion zsh)\"             # ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:        handbook completion fish > ~/.config/fish/completions/handbook.fish")
	fmt.Fprintln(w, "  PowerShell:  handbook completion powershell | Out-String | Invoke-Expression")
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords lists every spelling of the flags, long first.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// flagPattern is the bash case pattern matching a flag, e.g. "-c|--config".
func flagPattern(f flagDef) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "-" + f.Short + "|--" + f.Long
}

func globs(list string) []string {
	return strings.Split(list, ",")
}

// bashFiles completes files matching the comma-separated globs plus
// directories to descend into.
func bashFiles(list string) string {
	var parts []string
	for _, g := range globs(list) {
		parts = append(parts, fmt.Sprintf(`$(compgen -f -X '!%s' -- "$cur")`, g))
	}
	parts = append(parts, `$(compgen -d -- "$cur")`)
	return "COMPREPLY=( " + strings.Join(parts, " ") + " )"
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for handbook\n")
	b.WriteString("_handbook_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && c.Args == argNone {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)

		var valued []flagDef
		for _, f := range c.Flags {
			if f.Type == flagEnum || f.Type == flagFile || f.Type == flagDir {
				valued = append(valued, f)
			}
		}
		if len(valued) > 0 {
			b.WriteString("            case \"$prev\" in\n")
			for _, f := range valued {
				var reply string
				switch f.Type {
				case flagEnum:
					reply = fmt.Sprintf(`COMPREPLY=( $(compgen -W %q -- "$cur") )`, strings.Join(f.Values, " "))
				case flagFile:
					reply = bashFiles(f.FileGlob)
				case flagDir:
					reply = `COMPREPLY=( $(compgen -d -- "$cur") )`
				}
				fmt.Fprintf(&b, "                %s) %s; return ;;\n", flagPattern(f), reply)
			}
			b.WriteString("            esac\n")
		}

		if len(c.Flags) > 0 {
			b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("                return\n            fi\n")
		}

		switch c.Args {
		case argFiles:
			fmt.Fprintf(&b, "            %s\n", bashFiles(c.Glob))
		case argDir:
			b.WriteString("            COMPREPLY=( $(compgen -d -- \"$cur\") )\n")
		case argWords:
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Words, " "))
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n}\n\n")
	b.WriteString("complete -F _handbook_completions handbook\n")
	return b.String()
}

// zshQuote escapes text for a single-quoted zsh word.
func zshQuote(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "[", `\[`)
	return strings.ReplaceAll(s, "]", `\]`)
}

func zshFileAction(list string) string {
	return `_files -g "` + strings.Join(globs(list), " ") + `"`
}

func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:" + zshFileAction(f.FileGlob)
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	desc := "[" + zshQuote(f.Desc) + "]"
	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef handbook\n\n")
	b.WriteString("_handbook() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && c.Args == argNone {
			continue
		}
		var specs []string
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch c.Args {
		case argFiles:
			specs = append(specs, "'*:file:"+zshFileAction(c.Glob)+"'")
		case argDir:
			specs = append(specs, "'1:directory:_files -/'")
		case argWords:
			specs = append(specs, "'1:"+c.Name+":("+strings.Join(c.Words, " ")+")'")
		}

		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            shift words\n            (( CURRENT-- ))\n")
		b.WriteString("            _arguments \\\n                ")
		b.WriteString(strings.Join(specs, " \\\n                "))
		b.WriteString("\n            ;;\n")
	}

	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _handbook handbook\n")
	return b.String()
}

// fishQuote escapes text for a single-quoted fish string.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for handbook\n\n")
	b.WriteString("function __fish_handbook_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_handbook_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c handbook -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c handbook -n __fish_handbook_needs_command -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_handbook_using_command %s'", c.Name)
		if len(c.Flags) > 0 || c.Args != argNone {
			b.WriteString("\n")
		}
		for _, f := range c.Flags {
			line := "complete -c handbook " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			b.WriteString(line + " -d '" + fishQuote(f.Desc) + "'\n")
		}
		switch c.Args {
		case argFiles:
			fmt.Fprintf(&b, "complete -c handbook %s -F\n", cond)
		case argDir:
			fmt.Fprintf(&b, "complete -c handbook %s -x -a '(__fish_complete_directories)'\n", cond)
		case argWords:
			fmt.Fprintf(&b, "complete -c handbook %s -x -a '%s'\n", cond, strings.Join(c.Words, " "))
		}
	}
	return b.String()
}

// psQuote escapes text for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func psList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + psQuote(w) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func powerShellScript(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# powershell completion for handbook\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName handbook -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psQuote(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) > 0 {
			fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psList(flagWords(c.Flags)))
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	seen := make(map[string]bool)
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(&b, "        '--%s' = %s\n", f.Long, psList(f.Values))
		}
	}
	b.WriteString("    }\n")

	b.WriteString("    $words = @{\n")
	for _, c := range cmds {
		if c.Args == argWords {
			fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psList(c.Words))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    $count = $elements.Count
    if ($wordToComplete -ne '') { $count-- }

    if ($count -le 1) {
        $commands.GetEnumerator() | Where-Object { $_.Key -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)
        }
        return
    }

    $cmd = $elements[1]
    $prev = $elements[$count - 1]

    if ($values.ContainsKey($prev)) {
        $values[$prev] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {
        $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
        return
    }

    if ($count -eq 2 -and $words.ContainsKey($cmd)) {
        $words[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
}
`)
	return b.String()
}
