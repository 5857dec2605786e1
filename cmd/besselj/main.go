// Command besselj evaluates Bessel functions of the first kind J_n(x),
// samples vibrating membrane modes, and serves both over HTTP.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/agbru/besselj/internal/app"
	"github.com/agbru/besselj/internal/bessel"
	apperrors "github.com/agbru/besselj/internal/errors"
	"github.com/agbru/besselj/internal/logging"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout, os.Args[1:])
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	logging.Setup(os.Stderr, application.Config.Level(), false)
	bessel.SetLogger(log.Logger)
	os.Exit(application.Run(context.Background(), os.Stdout))
}
