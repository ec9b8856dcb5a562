package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"png2jpg/contracts"
	"png2jpg/converter"
	"png2jpg/files_manager"
)

type InputFlags = contracts.InputFlags

const configFile = "png2jpg.toml"

const usageLine = "Usage: convert <input_png_file> <output_jpg_file>"

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	_ = setupLogger(stderr, "info")

	v := viper.New()
	cmd := newRootCommand(v, stdout, stderr)
	// cobra reads os.Args when given nil
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, contracts.ErrUsage):
		fmt.Fprintln(stdout, usageLine)
		return 1
	}

	var notFound *contracts.InputNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintln(stdout, notFound.Error())
		return 1
	}

	log.Error().Err(err).Msg("conversion failed")
	return 1
}

func newRootCommand(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "convert <input_png_file> <output_jpg_file>",
		Short:         "Convert a PNG image to a JPEG at quality 95",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return contracts.ErrUsage
			}
			return nil
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig(v)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			flags := InputFlags{
				InputPath:  args[0],
				OutputPath: args[1],
				LogLevel:   v.GetString("log_level"),
			}
			if err := setupLogger(stderr, flags.LogLevel); err != nil {
				return err
			}
			log.Debug().Str("input", flags.InputPath).Str("output", flags.OutputPath).Msg("starting conversion")

			if err := files_manager.CheckInputFile(flags.InputPath); err != nil {
				return err
			}

			c := converter.NewConverter(converter.NewImageCodec(), stdout)
			return c.Convert(contracts.ConversionRequest{
				InputPath:  flags.InputPath,
				OutputPath: flags.OutputPath,
			})
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", contracts.ErrUsage, err)
	})

	// Flags are only recognised ahead of the first path, so "in.png -out.jpg"
	// is two paths. A leading path starting with "-" needs "--" in front.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))

	return cmd
}

// loadConfig layers the optional png2jpg.toml in the working directory under
// PNG2JPG_* environment variables and command line flags. Only that exact file
// name is read.
func loadConfig(v *viper.Viper) error {
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("png2jpg")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not read config file: %w", err)
	}
	return nil
}

func setupLogger(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		With().
		Timestamp().
		Logger()
	return nil
}
