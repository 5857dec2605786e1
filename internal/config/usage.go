package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/besselj/internal/ui"
)

// setCustomUsage configures the flag set with a colored usage function.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Respect NO_COLOR even before app initialization
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}

		out := fs.Output()

		// Header
		fmt.Fprintf(out, "\n%sbesselj%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Bessel functions of the first kind, J_n(x), for integer orders.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			// Print formatted flag
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, flagSig, t.Reset, usage)

			// Print default value if meaningful
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})

		fmt.Fprintf(out, "\n%sExamples:%s\n", t.Warning, t.Reset)
		for _, ex := range usageExamples {
			fmt.Fprintf(out, "  %s %s\n", fs.Name(), ex)
		}
		fmt.Fprintf(out, "\nEvery flag can also be set through a %s<FLAG> environment variable.\n\n", EnvPrefix)
	}
}

var usageExamples = []string{
	"-x 2.5 -n 3",
	"-x 10 -n 5 -algo miller -json",
	"-membrane -m 3 -k 2 -t 0.5 -d",
	"-server -port 9090 -log-level info",
	"-interactive",
	"-completion bash > /etc/bash_completion.d/besselj",
}
