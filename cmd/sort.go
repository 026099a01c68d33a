package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/pkg/report"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

func cmdSort() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "reference",
			Aliases:  []string{"ref"},
			Required: true,
			Usage:    "name of the stored digest the others are compared with",
		},
		&cli.StringFlag{
			Name:  "criterion",
			Value: ufh.ReferenceToOthersDesc.String(),
			Usage: "sort order: " + strings.Join(ufh.SortCriteria(), "/"),
		},
	}

	return &cli.Command{
		Name:      "sort",
		Action:    sortStore,
		Category:  "STORE",
		Usage:     "Sort the stored digests by their similarity to one of them",
		ArgsUsage: " ",
		Description: `
			Digests without a value are listed last.

			Examples:
			$ ufhash sort --store digests.txt --reference a.bin
			$ ufhash sort --store digests.txt --reference a.bin --criterion others-to-ref-asc`,
		Flags: expandFlags(selfFlags, storeFlags(), reportFlags()),
	}
}

func sortStore(c *cli.Context) error {
	criterion, err := ufh.ParseSortCriterion(c.String("criterion"))
	if err != nil {
		return err
	}
	rawURL, err := storeURL(c, "store")
	if err != nil {
		return err
	}
	entries, err := loadStore(c, rawURL)
	if err != nil {
		return err
	}

	refName := c.String("reference")
	var ref *ufh.Digest
	others := make([]ufh.NamedDigest, 0, len(entries))
	for _, e := range entries {
		if ref == nil && e.Name == refName && e.Digest != nil {
			ref = e.Digest
			continue
		}
		others = append(others, e)
	}
	if ref == nil {
		return fmt.Errorf("reference %q not found in the store", refName)
	}

	return report.PrintSimilarities(c.App.Writer, refName, ref, others, &criterion, reportOptions(c))
}
