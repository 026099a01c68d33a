package main

import (
	"os"

	"github.com/zhengshuai-xiao/ufhash/cmd"
	"github.com/zhengshuai-xiao/ufhash/internal"
)

var logger = internal.GetLogger("ufhash_main")

func main() {
	err := cmd.Main(os.Args)
	if err != nil {
		logger.Fatal(err)
	}
}
