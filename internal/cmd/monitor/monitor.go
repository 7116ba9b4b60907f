package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clambin/ezone-monitor/internal/bot"
	"github.com/clambin/ezone-monitor/internal/collector"
	"github.com/clambin/ezone-monitor/internal/configuration"
	"github.com/clambin/ezone-monitor/internal/health"
	"github.com/clambin/ezone-monitor/internal/mqtt"
	"github.com/clambin/ezone-monitor/internal/notifier"
	"github.com/clambin/ezone-monitor/internal/poller"
	"github.com/clambin/ezone-monitor/pkg/ezone"
	"github.com/clambin/ezone-monitor/pkg/ezonetools"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var Cmd = cobra.Command{
	Use:   "monitor",
	Short: "Monitor and control an eZone controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), viper.GetViper(), cmd.Root().Version, slog.Default())
	},
}

type Task interface {
	Run(ctx context.Context) error
}

type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

func run(ctx context.Context, cfg *viper.Viper, version string, logger *slog.Logger) error {
	logger.Info("ezone-monitor starting", "version", version)
	defer logger.Info("ezone-monitor stopped")

	zones, err := configuration.MaybeLoad(configuration.ZonesFile(cfg.ConfigFileUsed()))
	if err != nil {
		return fmt.Errorf("zones: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics := ezonetools.NewCallMetrics("ezone", "monitor", nil)
	registry.MustRegister(metrics)
	client := ezonetools.GetInstrumentedClient(cfg.GetString("ezone.host"), cfg.GetInt("ezone.port"), metrics,
		ezone.WithRetries(cfg.GetInt("ezone.retries")),
		ezone.WithLogger(logger.With("component", "ezone")),
	)

	return runTasks(ctx, makeTasks(cfg, client, zones.Zones, registry, logger)...)
}

func makeTasks(cfg *viper.Viper, client poller.Client, aliases map[int]string, registry Registry, l *slog.Logger) []Task {
	var tasks []Task

	// Notifiers
	notifiers := notifier.Notifiers{notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	var slackClient *slack.Client
	if token := cfg.GetString("slack.token"); token != "" {
		slackClient = slack.New(token, slack.OptionAppLevelToken(cfg.GetString("slack.appToken")))
		notifiers = append(notifiers, &notifier.SlackNotifier{
			SlackSender: slackClient,
			Channel:     cfg.GetString("slack.channel"),
			Logger:      l.With("component", "slack-notifier"),
		})
	}

	// Poller
	p := poller.New(client, cfg.GetDuration("poller.interval"), l.With("component", "poller"),
		poller.WithAliases(aliases),
		poller.WithNotifier(notifiers),
	)
	tasks = append(tasks, p)

	// Collector
	coll := &collector.Collector{Poller: p, Logger: l.With("component", "collector")}
	registry.MustRegister(coll)
	tasks = append(tasks, coll)

	// Prometheus Server
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	tasks = append(tasks, httpServer{addr: cfg.GetString("exporter.addr"), handler: m})

	// Health Endpoint
	h := health.New(p, l.With("component", "health"))
	tasks = append(tasks, h)
	r := http.NewServeMux()
	r.Handle("/health", h)
	tasks = append(tasks, httpServer{addr: cfg.GetString("health.addr"), handler: r})

	// Slack bot. Socket mode requires an app-level token
	if slackClient != nil && cfg.GetString("slack.appToken") != "" {
		handler := socketmode.NewSocketmodeHandler(socketmode.New(slackClient))
		tasks = append(tasks, bot.New(handler, p, l.With("component", "bot")))
	}

	// MQTT bridge
	if broker := cfg.GetString("mqtt.broker"); broker != "" {
		tasks = append(tasks, mqtt.Task{
			Configuration: mqtt.Configuration{
				Broker:   broker,
				ClientID: cfg.GetString("mqtt.clientID"),
				Username: cfg.GetString("mqtt.username"),
				Password: cfg.GetString("mqtt.password"),
				Prefix:   cfg.GetString("mqtt.prefix"),
			},
			Poller: p,
			Logger: l.With("component", "mqtt"),
		})
	}

	return tasks
}

// runTasks runs all tasks until ctx is done or one of them fails.
func runTasks(ctx context.Context, tasks ...Task) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task.Run(ctx) })
	}
	return g.Wait()
}
