package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/zhengshuai-xiao/ufhash/internal"
)

var logger = internal.GetLogger("ufhash_cmd")

const configKey = "config"

func Main(args []string) error {
	app := newApp()
	err := app.Run(reorderOptions(app, args))
	if errno, ok := err.(syscall.Errno); ok && errno == 0 {
		err = nil
	}

	return err
}

func newApp() *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print version only",
	}
	return &cli.App{
		Name:                 "ufhash",
		Usage:                "Compute and compare uniform fuzzy hashes.",
		Version:              internal.Version(),
		Copyright:            "Apache License 2.0",
		HideHelpCommand:      true,
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Before:               setup,
		Metadata:             map[string]interface{}{},
		Commands: []*cli.Command{
			cmdCompute(),
			cmdCompare(),
			cmdSort(),
			cmdShow(),
			cmdConvert(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML file with default factor, store, compression and log settings",
			EnvVars: []string{"UFHASH_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: trace/debug/info/warn/error",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "write logs to this file, rotated daily",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colors in logs and tables",
		},
	}
}

// setup loads the config file and applies the log settings before any
// command runs.
func setup(c *cli.Context) error {
	conf := internal.DefaultConfig()
	path := c.String("config")
	if path == "" && internal.Exists(defaultConfigPath()) {
		path = defaultConfigPath()
	}
	if path != "" {
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		conf = loaded
	}
	c.App.Metadata[configKey] = conf

	level := conf.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	lvl, err := internal.ParseLogLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	internal.SetLogLevel(lvl)

	if c.Bool("no-color") {
		internal.DisableLogColor()
	}

	logFile := conf.LogFile
	if c.IsSet("log-file") {
		logFile = c.String("log-file")
	}
	if logFile != "" {
		if err := internal.SetOutFile(logFile); err != nil {
			return err
		}
	}

	internal.SetLogID(uuid.NewString()[:8])
	logger.Debugf("ufhash %s: %s", internal.Version(), strings.Join(c.Args().Slice(), " "))
	return nil
}

// defaultConfigPath is read when --config is not given and the file exists.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ufhash", "config.yaml")
}

func reorderOptions(app *cli.App, args []string) []string {
	var newArgs = []string{args[0]}
	var others []string
	globalFlags := append(app.Flags, cli.VersionFlag)
	for i := 1; i < len(args); i++ {
		option := args[i]
		if ok, hasValue := isFlag(globalFlags, option); ok {
			newArgs = append(newArgs, option)
			if hasValue {
				i++
				if i >= len(args) {
					logger.Fatalf("option %s requires value", option)
				}
				newArgs = append(newArgs, args[i])
			}
		} else {
			others = append(others, option)
		}
	}
	// no command
	if len(others) == 0 {
		return newArgs
	}
	cmdName := others[0]
	var cmd *cli.Command
	for _, c := range app.Commands {
		if c.Name == cmdName {
			cmd = c
			break
		}
	}
	if cmd == nil {
		// can't recognize the command, skip it
		return append(newArgs, others...)
	}

	newArgs = append(newArgs, cmdName)
	args, others = others[1:], nil
	// -h is valid for all the commands
	cmdFlags := append(cmd.Flags, cli.HelpFlag)
	for i := 0; i < len(args); i++ {
		option := args[i]
		if ok, hasValue := isFlag(cmdFlags, option); ok {
			newArgs = append(newArgs, option)
			if hasValue && len(args[i+1:]) > 0 {
				i++
				newArgs = append(newArgs, args[i])
			}
		} else {
			if strings.HasPrefix(option, "-") && !internal.StringContains(args, "--generate-bash-completion") {
				logger.Fatalf("unknown option: %s", option)
			}
			others = append(others, option)
		}
	}
	return append(newArgs, others...)
}

func isFlag(flags []cli.Flag, option string) (bool, bool) {
	if !strings.HasPrefix(option, "-") {
		return false, false
	}
	// --V or -v work the same
	option = strings.TrimLeft(option, "-")
	for _, flag := range flags {
		_, isBool := flag.(*cli.BoolFlag)
		for _, name := range flag.Names() {
			if option == name || strings.HasPrefix(option, name+"=") {
				return true, !isBool && !strings.Contains(option, "=")
			}
		}
	}
	return false, false
}
