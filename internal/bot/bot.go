package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/handlers/greeter"
	"github.com/robalyx/leo/internal/bot/handlers/poll"
	"github.com/robalyx/leo/internal/bot/handlers/reputation"
	"github.com/robalyx/leo/internal/database"
	"github.com/robalyx/leo/internal/redis"
	"github.com/robalyx/leo/internal/setup/config"
	"go.uber.org/zap"
)

// nameCacheTTL is how long resolved display names are kept in Redis.
const nameCacheTTL = 6 * time.Hour

// Bot connects the feature handlers to Discord.
// Every inbound event is handled on its own goroutine.
type Bot struct {
	cfg        *config.Config
	client     bot.Client
	dispatcher *interaction.Dispatcher
	reputation *reputation.Handler
	greeter    *greeter.Handler
	ctx        context.Context //nolint:containedctx // cancelled on Close to stop pending handlers
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	logger     *zap.Logger
}

// New creates the Discord client and wires the reputation, poll and greeter handlers to it.
func New(cfg *config.Config, db database.Client, redisManager *redis.Manager, logger *zap.Logger) (*Bot, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMessageReactions,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnGuildMessageCreate:            b.handleMessageCreate,
			OnGuildMessageReactionAdd:       b.handleReactionAdd,
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnComponentInteraction:          b.handleComponentInteraction,
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client

	// Names are cached in Redis when it is configured and fetched directly otherwise
	nameClient, err := redisManager.GetClient(redis.NameCacheDBIndex)
	if err != nil && !errors.Is(err, redis.ErrRedisDisabled) {
		cancel()
		return nil, fmt.Errorf("failed to create name cache client: %w", err)
	}
	names := redis.NewNameCache(nameClient, b.fetchName, nameCacheTTL, logger)

	clock := clockwork.NewRealClock()
	msgr := &messenger{client: client}
	services := db.Service()

	b.reputation = reputation.New(&cfg.Reputation, services.Ledger(), names, msgr, clock, logger)
	b.greeter = greeter.New(&cfg.Greeter, msgr, clock, logger)
	polls := poll.New(services.Poll(), msgr, clock, logger)

	b.dispatcher, err = interaction.NewDispatcher(logger, b.reputation, polls)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build interaction routes: %w", err)
	}

	return b, nil
}

// Start registers the slash commands and opens the gateway connection.
// Commands are registered for the configured guild, or globally when none is set.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	definitions := commands(b.cfg.Reputation.PointsName)

	var err error
	if b.cfg.Discord.GuildID != 0 {
		_, err = b.client.Rest().SetGuildCommands(
			b.client.ApplicationID(), snowflake.ID(b.cfg.Discord.GuildID), definitions, rest.WithCtx(ctx))
	} else {
		_, err = b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), definitions, rest.WithCtx(ctx))
	}
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close stops pending handlers and shuts down the gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.cancel()
	b.client.Close(ctx)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Timed out waiting for event handlers")
	}
}

// fetchName resolves a display name from the guild member, falling back to the user.
func (b *Bot) fetchName(ctx context.Context, userID uint64) (string, error) {
	if b.cfg.Discord.GuildID != 0 {
		member, err := b.client.Rest().GetMember(
			snowflake.ID(b.cfg.Discord.GuildID), snowflake.ID(userID), rest.WithCtx(ctx))
		if err == nil {
			return member.EffectiveName(), nil
		}
	}

	user, err := b.client.Rest().GetUser(snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return user.EffectiveName(), nil
}

// inGuild reports whether an event belongs to the configured guild.
func (b *Bot) inGuild(guildID snowflake.ID) bool {
	return b.cfg.Discord.GuildID == 0 || uint64(guildID) == b.cfg.Discord.GuildID
}
