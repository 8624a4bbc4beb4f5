package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/calldash/internal/flagx"
	"github.com/dmitrijs2005/calldash/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   admin API base URL
//	-s string   session backend (sqlite|redis)
//	-d string   sqlite session database path
//	-r string   redis address
//	-t value    request timeout: seconds ("30") or a duration ("1500ms")
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-r", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIHost, "a", cfg.APIHost, "admin API base URL")
	fs.StringVar(&cfg.SessionBackend, "s", cfg.SessionBackend, "session backend: sqlite or redis")
	fs.StringVar(&cfg.SessionDSN, "d", cfg.SessionDSN, "sqlite session database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for the shared session")
	fs.Func("t", "request timeout: seconds or a Go duration", func(v string) error {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d.Std()
		return nil
	})
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
