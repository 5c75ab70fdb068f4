package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cyp0633/libcalrepeat/client"
	"github.com/cyp0633/libcalrepeat/internal/config"
	"github.com/cyp0633/libcalrepeat/internal/logging"
	"github.com/cyp0633/libcalrepeat/notify"
	"github.com/cyp0633/libcalrepeat/notify/telegram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	loc        *time.Location
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:          "calrepeat",
		Short:        "Manage calendar events and repeating series",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "calrepeat.yaml", "path to the YAML config file")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("timezone", "", "IANA time zone of event dates and times")
	flags.String("server", "", "events API base URL used by client commands")
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	a.v.BindPFlag("timezone", flags.Lookup("timezone"))
	a.v.BindPFlag("client.server_url", flags.Lookup("server"))

	cmd.AddCommand(
		newServeCmd(a),
		newExpandCmd(a),
		newListCmd(a),
		newSaveCmd(a),
		newDeleteCmd(a),
		newWatchCmd(a),
	)
	return cmd
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Override(a.v)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.configPath, err)
	}

	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.loc = cfg, logger, loc
	return nil
}

// sink reports to out, the log, and Telegram when configured.
func (a *app) sink(out io.Writer) (notify.Sink, error) {
	sinks := notify.Multi{
		notify.Func(func(message string, level notify.Level) {
			fmt.Fprintf(out, "[%s] %s\n", level, message)
		}),
		notify.LogSink{Logger: a.logger},
	}
	if t := a.cfg.Notify.Telegram; t != nil {
		tg, err := telegram.NewFromToken(t.Token, t.ChatID, a.logger)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		sinks = append(sinks, tg)
	}
	return sinks, nil
}

func (a *app) client() (*client.EventsClient, error) {
	c := a.cfg.Client
	return client.Dial(c.ServerURL, c.Username, c.Password, a.logger)
}
