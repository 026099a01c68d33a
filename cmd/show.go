package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/pkg/report"
)

func cmdShow() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "hashes",
			Usage: "print the canonical digests",
		},
		&cli.BoolFlag{
			Name:  "matrix",
			Usage: "also print the similarity of every digest to every other",
		},
	}

	return &cli.Command{
		Name:      "show",
		Action:    show,
		Category:  "STORE",
		Usage:     "List the stored digests",
		ArgsUsage: " ",
		Flags:     expandFlags(selfFlags, storeFlags(), reportFlags()),
	}
}

func show(c *cli.Context) error {
	rawURL, err := storeURL(c, "store")
	if err != nil {
		return err
	}
	entries, err := loadStore(c, rawURL)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if err := report.PrintDigests(w, entries, report.Options{Statistics: true, Hashes: c.Bool("hashes")}); err != nil {
		return err
	}
	if !c.Bool("matrix") {
		return nil
	}
	fmt.Fprintln(w)
	return report.PrintSimilarityTable(w, entries, entries, reportOptions(c))
}
