package cli

import (
	"fmt"
	"io"
	"strings"
)

// completionFlag describes one command-line flag for completion scripts.
type completionFlag struct {
	name   string // long name, without dashes
	short  string // single-letter alias, if any
	desc   string
	values string // space-separated suggestions; "@algo" for algorithms, "@file" for paths
	takes  bool   // whether the flag takes a value
}

var completionFlags = []completionFlag{
	{name: "help", short: "h", desc: "Show help message"},
	{name: "version", short: "V", desc: "Show version information"},
	{name: "x", desc: "Argument x of J_n(x)", takes: true},
	{name: "n", desc: "Order n of J_n(x)", takes: true},
	{name: "algo", desc: "Evaluator to use", values: "@algo", takes: true},
	{name: "timeout", desc: "Maximum execution time", values: "5s 30s 1m 5m", takes: true},
	{name: "max-order", desc: "Maximum accepted order", values: "1000 10000 100000", takes: true},
	{name: "v", desc: "Display the value with full precision"},
	{name: "details", short: "d", desc: "Show strategy and timing"},
	{name: "json", desc: "Output in JSON format"},
	{name: "quiet", short: "q", desc: "Print only the value"},
	{name: "output", short: "o", desc: "Output file path", values: "@file", takes: true},
	{name: "no-color", desc: "Disable colored output"},
	{name: "log-level", desc: "Minimum log level", values: "debug info warn error disabled", takes: true},
	{name: "server", desc: "Start HTTP server mode"},
	{name: "port", desc: "Server port", values: "8080 3000 5000 9000", takes: true},
	{name: "interactive", desc: "Start interactive REPL mode"},
	{name: "membrane", desc: "Sample a membrane mode"},
	{name: "m", desc: "Angular mode of the membrane", values: "0 1 2 3 4 5 6", takes: true},
	{name: "k", desc: "Radial mode of the membrane", values: "1 2 3 4 5", takes: true},
	{name: "t", desc: "Sampling time", takes: true},
	{name: "radius", desc: "Membrane radius", takes: true},
	{name: "velocity", desc: "Wave velocity", takes: true},
	{name: "rings", desc: "Radial segments", values: "16 32 64 128", takes: true},
	{name: "spokes", desc: "Angular segments", values: "32 64 128 256", takes: true},
	{name: "completion", desc: "Generate completion script", values: "bash zsh fish powershell", takes: true},
}

// GenerateCompletion writes a shell completion script for besselj.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - algorithms: List of available evaluator names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	algos := strings.Join(append(append([]string{}, algorithms...), "all"), " ")
	switch shell {
	case "bash":
		return generateBashCompletion(out, algos)
	case "zsh":
		return generateZshCompletion(out, algos)
	case "fish":
		return generateFishCompletion(out, algos)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, algos)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func (f completionFlag) suggestions(algos string) string {
	if f.values == "@algo" {
		return algos
	}
	return f.values
}

func generateBashCompletion(out io.Writer, algos string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range completionFlags {
		names := []string{"-" + f.name}
		if len(f.name) > 1 {
			names = append(names, "--"+f.name)
		}
		if f.short != "" {
			names = append(names, "-"+f.short)
		}
		opts = append(opts, names...)

		switch {
		case f.values == "@file":
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", strings.Join(names, "|"))
		case f.values != "":
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", strings.Join(names, "|"), f.suggestions(algos))
		}
	}

	_, err := fmt.Fprintf(out, `# Bash completion script for besselj
# Add this to your ~/.bashrc or ~/.bash_completion

_besselj_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _besselj_completions besselj
`, strings.Join(opts, " "), cases.String())
	return err
}

func generateZshCompletion(out io.Writer, algos string) error {
	var args strings.Builder
	for i, f := range completionFlags {
		opt := "-" + f.name
		if len(f.name) > 1 {
			opt = "--" + f.name
		}
		if f.short != "" {
			opt = fmt.Sprintf("(-%s %s)'{-%s,%s}'", f.short, opt, f.short, opt)
		}
		action := ""
		switch {
		case f.values == "@file":
			action = ":file:_files"
		case f.values != "":
			action = fmt.Sprintf(":%s:(%s)", f.name, f.suggestions(algos))
		case f.takes:
			action = fmt.Sprintf(":%s:", f.name)
		}
		sep := " \\\n"
		if i == len(completionFlags)-1 {
			sep = "\n"
		}
		fmt.Fprintf(&args, "        '%s[%s]%s'%s", opt, f.desc, action, sep)
	}

	_, err := fmt.Fprintf(out, `#compdef besselj

# Zsh completion script for besselj
# Add this to your ~/.zshrc or place in $fpath

_besselj() {
    _arguments -s \
%s}

_besselj "$@"
`, args.String())
	return err
}

func generateFishCompletion(out io.Writer, algos string) error {
	var b strings.Builder
	b.WriteString("# Fish completion script for besselj\n")
	b.WriteString("# Add this to ~/.config/fish/completions/besselj.fish\n\n")
	b.WriteString("complete -c besselj -f\n")
	for _, f := range completionFlags {
		line := "complete -c besselj"
		if len(f.name) == 1 {
			line += " -o " + f.name
		} else {
			line += " -l " + f.name
		}
		if f.short != "" {
			line += " -s " + f.short
		}
		line += fmt.Sprintf(" -d '%s'", f.desc)
		switch {
		case f.values == "@file":
			line += " -rF"
		case f.values != "":
			line += fmt.Sprintf(" -xa '%s'", f.suggestions(algos))
		case f.takes:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func generatePowerShellCompletion(out io.Writer, algos string) error {
	var options strings.Builder
	var values strings.Builder
	for _, f := range completionFlags {
		names := []string{"-" + f.name}
		if len(f.name) > 1 {
			names = []string{"--" + f.name}
		}
		if f.short != "" {
			names = append(names, "-"+f.short)
		}
		for _, name := range names {
			fmt.Fprintf(&options, "        @{Name = '%s'; Description = '%s' }\n", name, f.desc)
		}
		if f.values != "" && f.values != "@file" {
			quoted := strings.Fields(f.suggestions(algos))
			for i, v := range quoted {
				quoted[i] = "'" + v + "'"
			}
			fmt.Fprintf(&values, "        '%s' = @(%s)\n", names[0], strings.Join(quoted, ", "))
		}
	}

	_, err := fmt.Fprintf(out, `# PowerShell completion script for besselj
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'besselj' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s    )
    $values = @{
%s    }

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    if ($values.ContainsKey($prevElement)) {
        $values[$prevElement] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, options.String(), values.String())
	return err
}
