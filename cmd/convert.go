package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/internal"
)

func cmdConvert() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Required: true,
			Usage:    "store to read",
		},
		&cli.StringFlag{
			Name:     "to",
			Required: true,
			Usage:    "store to write",
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "compress the written file or S3 store: none/zlib/snappy/zstd",
		},
		&cli.BoolFlag{
			Name:    "append",
			Aliases: []string{"a"},
			Usage:   "append to the target instead of replacing it",
		},
	}

	return &cli.Command{
		Name:      "convert",
		Action:    convert,
		Category:  "STORE",
		Usage:     "Copy digests from one store to another",
		ArgsUsage: " ",
		Description: `
			Compression of the source is detected when reading.

			Examples:
			$ ufhash convert --from digests.txt --to digests.zst --compression zstd
			$ ufhash convert --from digests.txt --to s3://bucket/digests.txt?endpoint=http://127.0.0.1:9000`,
		Flags: selfFlags,
	}
}

func convert(c *cli.Context) error {
	from, to := c.String("from"), c.String("to")
	entries, err := loadStore(c, from)
	if err != nil {
		return err
	}
	if err := saveStore(c, to, entries, c.Bool("append")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "converted %d digests from %s to %s\n",
		len(entries), internal.RemovePassword(from), internal.RemovePassword(to))
	return nil
}
