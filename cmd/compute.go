package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/pkg/report"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufhs"
)

func cmdCompute() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "recursive",
			Aliases: []string{"r"},
			Usage:   "hash the files under directories",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "directory levels entered with --recursive, 0 for no limit",
		},
		&cli.BoolFlag{
			Name:  "full-paths",
			Usage: "name digests after the path instead of the base name",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: fmt.Sprintf("files hashed at once (default %d)", internal.DefaultWorkers),
		},
		&cli.BoolFlag{
			Name:    "append",
			Aliases: []string{"a"},
			Usage:   "append to the store instead of replacing it",
		},
	}

	return &cli.Command{
		Name:      "compute",
		Action:    compute,
		Category:  "HASH",
		Usage:     "Compute the digests of files",
		ArgsUsage: "PATH...",
		Description: `
			Without a store the digests are printed with their block statistics.
			Paths that do not exist are skipped.

			Examples:
			$ ufhash compute --factor 1023 a.bin b.bin
			$ ufhash compute -r --store digests.txt ./samples
			$ ufhash compute -r --store redis://localhost:6379/1?key=samples ./samples`,
		Flags: expandFlags(selfFlags, factorFlags(), storeFlags()),
	}
}

func compute(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("compute needs at least one PATH")
	}
	factor, err := factorOf(c)
	if err != nil {
		return err
	}

	entries, err := ufhs.FromNamedFiles(c.Context, c.Args().Slice(), factor, ufhs.Options{
		Workers:   workersOf(c),
		Recursive: c.Bool("recursive"),
		MaxDepth:  c.Int("max-depth"),
		FullPaths: c.Bool("full-paths"),
	})
	if err != nil {
		return err
	}
	logger.Debugf("computed %d digests with factor %d", len(entries), factor)

	rawURL, err := storeURL(c, "store")
	if errors.Is(err, errNoStore) {
		return report.PrintDigests(c.App.Writer, entries, report.Options{Statistics: true, Hashes: true})
	}
	if err != nil {
		return err
	}
	if err := saveStore(c, rawURL, entries, c.Bool("append")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "saved %d digests to %s\n", len(entries), internal.RemovePassword(rawURL))
	return nil
}
