package cmd

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rami3l/blox/debug"
	e "github.com/rami3l/blox/errors"
	"github.com/rami3l/blox/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

const defaultVerbosityStr = "INFO"

func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:           "blox [FILE]",
		Args:          cobra.MaximumNArgs(1),
		Short:         "blox: a bytecode interpreter for the blox language.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	app.Flags().SortFlags = true

	flags := app.Flags()
	flags.StringP("verbosity", "v", defaultVerbosityStr, "logging verbosity")
	flags.Bool("trace", false, "trace the stack and every executed instruction")
	flags.Bool("disassemble", false, "print the bytecode of every compiled chunk")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("config", "", "config file to read settings from")

	// Settings come from flags, then BLOX_* env vars, then the config file.
	cfg := viper.New()
	cfg.SetEnvPrefix("blox")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	if err := cfg.BindPFlags(flags); err != nil {
		panic(err)
	}

	app.RunE = func(cmd *cobra.Command, args []string) error {
		if path := cfg.GetString("config"); path != "" {
			cfg.SetConfigFile(path)
			if err := cfg.ReadInConfig(); err != nil {
				return err
			}
		}

		verbosityLvl, err := logrus.ParseLevel(cfg.GetString("verbosity"))
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosityStr)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "%lvl% %msg%\n"})

		if cfg.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}

		vm_ := vm.NewVM(vmOptions(cfg, cmd)...)
		return appMain(vm_, args)
	}
	return
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := App().Execute()
	if err != nil {
		report(err)
	}
	return e.StatusOf(err).ExitCode()
}

func vmOptions(cfg *viper.Viper, cmd *cobra.Command) []vm.Option {
	opts := []vm.Option{
		vm.WithStdout(cmd.OutOrStdout()),
		vm.WithLogger(logrus.StandardLogger()),
	}
	if cfg.GetBool("trace") {
		opts = append(opts, vm.WithTrace(cmd.ErrOrStderr()))
	}
	if cfg.GetBool("disassemble") {
		opts = append(opts, vm.WithDisassembly(cmd.ErrOrStderr()))
	}
	return opts
}

func appMain(vm_ *vm.VM, args []string) error {
	switch len(args) {
	case 0:
		return REPL(vm_, os.Stdin, os.Stdout, isTerminal(os.Stdin, os.Stdout))
	case 1:
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return vm_.Interpret(string(src))
	default:
		panic(debug.Unreachable())
	}
}

func report(err error) { logrus.Error(color.RedString("%s", err)) }
