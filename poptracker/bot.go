package poptracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/health"
	"github.com/eqpop/poptracker/poptracker/logger"
)

func New(cfg Config, service *flags.Service, status *health.Status, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Service:   service,
		Health:    status,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	Service   *flags.Service
	Health    *health.Status
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListenerFunc(b.OnReady),
		bot.WithEventListenerFunc(b.OnResumed),
		bot.WithEventListenerFunc(b.OnHeartbeatAck),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	logger.LogSystem("PopTracker bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	b.Health.SetDiscordConnected(true)
	b.Health.MarkPing()
	b.Health.SetReady(true)

	ctx, cancel := context.WithTimeout(context.Background(), config.PresenceTimeout)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("Planes of Power flags"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		logger.LogError("Failed to set presence", err)
	}
}

func (b *Bot) OnResumed(_ *events.Resumed) {
	b.Health.SetDiscordConnected(true)
	b.Health.MarkPing()
}

func (b *Bot) OnHeartbeatAck(_ *events.HeartbeatAck) {
	b.Health.MarkPing()
}

// WatchGateway mirrors the gateway connection state into the health status
// every interval until ctx is done.
func (b *Bot) WatchGateway(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gw := b.Client.Gateway()
			b.Health.SetDiscordConnected(gw != nil && gw.Status().IsConnected())
		}
	}
}
