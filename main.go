package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"botfarm/bot"

	_ "botfarm/bots/Xeyla"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const stopOnFailure = false

const envPrefix = "BOTFARM"

// getLogger creates a logger in the given namespace
func getLogger(ns string) (*zap.SugaredLogger, func() error) {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", ns)))

	log := logger.Sugar()
	return log, logger.Sync
}

// readConfig reads configuration from the given JSON file
func readConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "couldn't read configuration from file %q", cfgFile)
	}
	return v, nil
}

// botConfig returns the bot's section of the configuration. Every field can
// be overridden with BOTFARM_<BOT>_<FIELD>, e.g. BOTFARM_XEYLABOT_TGTOKEN.
func botConfig(v *viper.Viper, name string) *viper.Viper {
	sub := v.Sub(name)
	if sub == nil {
		sub = viper.New()
	}

	sub.SetEnvPrefix(envPrefix + "_" + strings.ToUpper(name))
	for _, field := range bot.ConfigFields {
		_ = sub.BindEnv(field)
	}
	return sub
}

// validateConfig makes sure that all required fields are present in the config
func validateConfig(rec bot.Record, cfg *viper.Viper) error {
	missingFields := []string{}
	for _, field := range rec.RequiredConfigFields {
		if !cfg.IsSet(field) || cfg.GetString(field) == "" {
			missingFields = append(missingFields, field)
		}
	}

	if len(missingFields) > 0 {
		return errors.Errorf("%v's configuration is missing field(s): %s", rec.Name, strings.Join(missingFields, ", "))
	}

	return nil
}

func run(ctx context.Context, cfgFile string) error {
	logger, syncLogs := getLogger("Global")
	defer syncLogs()

	v, err := readConfig(cfgFile)
	if err != nil {
		logger.Errorw("failed reading configuration", "err", err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	started := 0

	for _, rec := range bot.GetThemAll() {
		s, syncBotLogs := getLogger(rec.Name)
		defer syncBotLogs()

		sub := botConfig(v, rec.Name)
		if err := validateConfig(rec, sub); err != nil {
			s.Error(err)
			if stopOnFailure {
				return err
			}
			continue
		}

		var cfg bot.Config
		if err := sub.Unmarshal(&cfg); err != nil {
			s.Errorw("couldn't parse configuration", "err", err)
			if stopOnFailure {
				return err
			}
			continue
		}

		bctx, err := rec.Bot.Init(cfg.WithDefaults(), s)
		if err != nil {
			s.Errorw("failed to initialize bot", "err", err)
			if stopOnFailure {
				return err
			}
			continue
		}

		b := rec.Bot
		g.Go(func() error {
			err := b.Run(gctx, bctx)
			if err != nil {
				s.Errorw("bot stopped", "err", err)
				if stopOnFailure {
					return err
				}
			}
			return nil
		})
		started++
	}

	if started == 0 {
		return errors.New("no bot has started")
	}

	logger.Infof("%d bot(s) running", started)
	return g.Wait()
}

func newRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "botfarm",
		Short:        "Runs the registered Telegram bots",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				cfgFile = os.Getenv("CONFIG_FILE")
			}
			if cfgFile == "" {
				return errors.New("configuration file name isn't set")
			}
			return run(cmd.Context(), cfgFile)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "configuration file, $CONFIG_FILE by default")
	return cmd
}

// Botfarm entry point
func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
