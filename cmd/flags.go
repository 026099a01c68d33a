package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/pkg/report"
	"github.com/zhengshuai-xiao/ufhash/pkg/store"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

var errNoStore = errors.New("no store given: use --store, UFHASH_STORE or the config file")

// openStore is replaced in tests.
var openStore = store.Open

func expandFlags(compoundFlags ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, fs := range compoundFlags {
		flags = append(flags, fs...)
	}
	return flags
}

func factorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "factor",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("factor of the hash, an odd number above 2 (default %d)", internal.DefaultFactor),
			EnvVars: []string{"UFHASH_FACTOR"},
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Aliases: []string{"s"},
			Usage:   "digest store: a file path, file://, redis:// or s3:// URL",
			EnvVars: []string{"UFHASH_STORE"},
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "compress file and S3 stores with the specified algorithm: none/zlib/snappy/zstd",
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "precision",
			Usage: fmt.Sprintf("decimals of similarities (default %d)", report.DefaultPrecision),
		},
	}
}

func appConfig(c *cli.Context) *internal.Config {
	if conf, ok := c.App.Metadata[configKey].(*internal.Config); ok {
		return conf
	}
	return internal.DefaultConfig()
}

func factorOf(c *cli.Context) (int, error) {
	factor := appConfig(c).Factor
	if c.IsSet("factor") {
		factor = c.Int("factor")
	}
	if err := ufh.CheckFactor(factor); err != nil {
		return 0, fmt.Errorf("invalid factor %d: %w", factor, err)
	}
	return factor, nil
}

func workersOf(c *cli.Context) int {
	if c.IsSet("workers") {
		return c.Int("workers")
	}
	return appConfig(c).Workers
}

func compressionOf(c *cli.Context) string {
	if c.IsSet("compression") {
		return c.String("compression")
	}
	return appConfig(c).Compression
}

// storeURL returns the URL of flag name, falling back to the config file.
func storeURL(c *cli.Context, name string) (string, error) {
	if u := c.String(name); u != "" {
		return u, nil
	}
	if u := appConfig(c).Store; u != "" {
		return u, nil
	}
	return "", errNoStore
}

func openStoreURL(c *cli.Context, rawURL string) (store.Store, error) {
	s, err := openStore(c.Context, rawURL, store.Options{Compression: compressionOf(c)})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", internal.RemovePassword(rawURL), err)
	}
	return s, nil
}

func loadStore(c *cli.Context, rawURL string) ([]ufh.NamedDigest, error) {
	s, err := openStoreURL(c, rawURL)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	entries, err := s.Load(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", internal.RemovePassword(rawURL), err)
	}
	logger.Debugf("loaded %d digests from %s", len(entries), internal.RemovePassword(rawURL))
	return entries, nil
}

func saveStore(c *cli.Context, rawURL string, entries []ufh.NamedDigest, appending bool) error {
	s, err := openStoreURL(c, rawURL)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Save(c.Context, entries, appending); err != nil {
		return fmt.Errorf("failed to save %s: %w", internal.RemovePassword(rawURL), err)
	}
	logger.Infof("saved %d digests to %s", len(entries), internal.RemovePassword(rawURL))
	return nil
}

// isTerminal reports whether w is a terminal, so tables piped elsewhere
// stay plain.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func reportOptions(c *cli.Context) report.Options {
	return report.Options{
		Color:     !c.Bool("no-color") && isTerminal(c.App.Writer),
		Precision: c.Int("precision"),
	}
}
