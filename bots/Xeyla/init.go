package xeyla

import (
	"context"
	"net/http"
	"time"

	"botfarm/bot"
	"botfarm/bots/Xeyla/db"
	"botfarm/bots/Xeyla/dispatch"
	"botfarm/bots/Xeyla/intent"
	"botfarm/bots/Xeyla/llm"
	"botfarm/bots/Xeyla/reminder"
	"botfarm/bots/Xeyla/tgbot"
	"botfarm/bots/Xeyla/timezone"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	botName          = "XeylaBot"
	metricsNamespace = "xeyla"
	shutdownTimeout  = 5 * time.Second
)

// Xeyla is a personal assistant keeping schedules and finances of its users.
type Xeyla struct {
	db         *db.Database
	tbot       *tgbot.TBot
	dispatcher *dispatch.Dispatcher
	reminders  *reminder.Manager
	registry   *prometheus.Registry
}

func (x *Xeyla) Init(cfg *bot.Config, l *zap.SugaredLogger) (*bot.Context, error) {
	cfg.WithDefaults()

	x.registry = prometheus.NewRegistry()
	x.registry.MustRegister(collectors.NewGoCollector())
	metrics, err := bot.NewMetrics(x.registry, metricsNamespace)
	if err != nil {
		return nil, errors.Wrap(err, "failed registering metrics")
	}

	clk, err := timezone.New(cfg.TimeZone, nil)
	if err != nil {
		l.Errorw("failed to initialize time zone", "err", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DBRetryAttempts)*(cfg.DBRetryDelay+cfg.DBTimeout))
	defer cancel()

	d, err := db.NewDatabase(ctx, cfg.DBConnStr, clk, db.Options{
		RetryAttempts: cfg.DBRetryAttempts,
		RetryDelay:    cfg.DBRetryDelay,
		Timeout:       cfg.DBTimeout,
	})
	if err != nil {
		l.Errorw("failed to initialize database", "err", err)
		return nil, err
	}

	if err := d.Migrate(ctx); err != nil {
		d.Close()
		l.Errorw("failed to migrate database", "err", err)
		return nil, err
	}

	tb, err := tgbot.NewTBot(cfg.TgToken, cfg.SendTimeout, clk, l)
	if err != nil {
		d.Close()
		return nil, err
	}

	completer := llm.NewClient(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	}, l, metrics)

	x.db = d
	x.tbot = tb
	x.dispatcher = dispatch.New(d, tb,
		intent.NewClassifier(completer, l),
		intent.NewExtractor(completer, clk, l),
		clk, l, metrics)
	x.reminders = reminder.NewManager(d, tb, clk, reminder.Options{
		Interval:     cfg.ReminderInterval,
		SendAttempts: cfg.ReminderSendAttempts,
	}, l, metrics)

	return bot.NewContext(botName, cfg, l, metrics), nil
}

// Run serves chat messages, reminders and metrics until ctx is done or one
// of them fails.
func (x *Xeyla) Run(ctx context.Context, bctx *bot.Context) error {
	if x.tbot == nil {
		bctx.Logger.Warn("Bot can't run")
		return errors.New("bot isn't initialized")
	}
	defer x.db.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return x.tbot.Run(gctx, x.dispatcher)
	})

	g.Go(func() error {
		return x.reminders.Run(gctx)
	})

	if addr := bctx.Config.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(x.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		g.Go(func() error {
			bctx.Logger.Infow("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server failed")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	return g.Wait()
}

func init() {
	bot.Register(botName, &Xeyla{}, bot.CfgTgToken, bot.CfgDbConnStr, bot.CfgLLMAPIKey)
}
