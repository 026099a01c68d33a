package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/pkg/report"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

func cmdCompare() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "hash",
			Usage: "A and B are canonical digests instead of files",
		},
	}

	return &cli.Command{
		Name:      "compare",
		Action:    compare,
		Category:  "HASH",
		Usage:     "Print every similarity between two files or digests",
		ArgsUsage: "A B",
		Description: `
			Examples:
			$ ufhash compare a.bin b.bin
			$ ufhash compare --hash 5:1A2B-3/FF00-8 5:1A2B-3/77-2`,
		Flags: expandFlags(selfFlags, factorFlags(), reportFlags()),
	}
}

func compare(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("compare needs exactly two arguments, got %d", c.NArg())
	}
	nameA, nameB := c.Args().Get(0), c.Args().Get(1)

	var a, b *ufh.Digest
	var err error
	if c.Bool("hash") {
		if a, err = ufh.Parse(nameA); err != nil {
			return err
		}
		if b, err = ufh.Parse(nameB); err != nil {
			return err
		}
	} else {
		factor, err := factorOf(c)
		if err != nil {
			return err
		}
		if a, err = hashPath(nameA, factor); err != nil {
			return err
		}
		if b, err = hashPath(nameB, factor); err != nil {
			return err
		}
	}

	return report.PrintSimilarities(c.App.Writer, nameA, a,
		[]ufh.NamedDigest{{Name: nameB, Digest: b}}, nil, reportOptions(c))
}

func hashPath(path string, factor int) (*ufh.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := ufh.NewFromReader(bufio.NewReader(f), factor)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return d, nil
}
