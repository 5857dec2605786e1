package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns $BESSELJ_<key>, or defaultVal if unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvFloat returns $BESSELJ_<key> as a float64, or defaultVal if unset or
// unparsable.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive); anything else yields defaultVal.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies BESSELJ_* variables to every setting whose flag
// was not given explicitly, so that flags > environment > defaults.
//
// Supported environment variables:
//   - BESSELJ_X, BESSELJ_N: argument and order (float)
//   - BESSELJ_ALGO, BESSELJ_PORT, BESSELJ_OUTPUT, BESSELJ_LOG_LEVEL,
//     BESSELJ_COMPLETION (string)
//   - BESSELJ_TIMEOUT (duration: "30s", "2m")
//   - BESSELJ_MAX_ORDER (int)
//   - BESSELJ_SERVER, BESSELJ_JSON, BESSELJ_VERBOSE, BESSELJ_DETAILS,
//     BESSELJ_QUIET, BESSELJ_INTERACTIVE, BESSELJ_NO_COLOR,
//     BESSELJ_MEMBRANE (bool)
//   - BESSELJ_M, BESSELJ_K, BESSELJ_RINGS, BESSELJ_SPOKES (int)
//   - BESSELJ_T, BESSELJ_RADIUS, BESSELJ_VELOCITY (float)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	floats := []struct {
		flag, env string
		dst       *float64
	}{
		{"x", "X", &config.X},
		{"n", "N", &config.N},
		{"t", "T", &config.T},
		{"radius", "RADIUS", &config.Radius},
		{"velocity", "VELOCITY", &config.Velocity},
	}
	for _, f := range floats {
		if !isFlagSet(fs, f.flag) {
			*f.dst = getEnvFloat(f.env, *f.dst)
		}
	}

	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"max-order", "MAX_ORDER", &config.MaxOrder},
		{"m", "M", &config.M},
		{"k", "K", &config.K},
		{"rings", "RINGS", &config.Rings},
		{"spokes", "SPOKES", &config.Spokes},
	}
	for _, f := range ints {
		if !isFlagSet(fs, f.flag) {
			*f.dst = getEnvInt(f.env, *f.dst)
		}
	}

	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
	if !isFlagSet(fs, "completion") {
		config.Completion = getEnvString("COMPLETION", config.Completion)
	}
	if !isFlagSet(fs, "output", "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}

	bools := []struct {
		flags []string
		env   string
		dst   *bool
	}{
		{[]string{"server"}, "SERVER", &config.ServerMode},
		{[]string{"json"}, "JSON", &config.JSONOutput},
		{[]string{"v"}, "VERBOSE", &config.Verbose},
		{[]string{"d", "details"}, "DETAILS", &config.Details},
		{[]string{"quiet", "q"}, "QUIET", &config.Quiet},
		{[]string{"interactive"}, "INTERACTIVE", &config.Interactive},
		{[]string{"no-color"}, "NO_COLOR", &config.NoColor},
		{[]string{"membrane"}, "MEMBRANE", &config.Membrane},
	}
	for _, b := range bools {
		if !isFlagSet(fs, b.flags...) {
			*b.dst = getEnvBool(b.env, *b.dst)
		}
	}
}
