// Package bot is the Telegram front end. It receives chat messages, routes
// slash commands to account lookups and treats everything else as a trade
// command for the parser. Each update is handled on its own goroutine with a
// per command deadline so one slow exchange call cannot stall the chat.
package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rudder-lab/rudder-trading/internal/command"
	"github.com/rudder-lab/rudder-trading/internal/config"
	"github.com/rudder-lab/rudder-trading/internal/logger"
	"github.com/rudder-lab/rudder-trading/internal/trader"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"go.uber.org/zap"
)

const longPollTimeoutSeconds = 30

// TelegramClient is the slice of the Telegram Bot API the bot depends on.
// *tgbotapi.BotAPI satisfies it; tests substitute a fake.
type TelegramClient interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

var _ TelegramClient = (*tgbotapi.BotAPI)(nil)

// Bot long polls Telegram for updates and answers them. The zero value is
// not usable; construct with NewBot.
type Bot struct {
	client  TelegramClient
	trader  *trader.Trader
	allowed map[int64]struct{}
	timeout time.Duration
	log     *logger.Logger

	wg sync.WaitGroup
}

// NewBot authenticates against the Telegram Bot API and returns a Bot wired
// to the given trader.
func NewBot(cfg config.TelegramConfig, t *trader.Trader, log *logger.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to connect to telegram", err)
	}

	log.Info("Telegram bot authorized", zap.String("username", client.Self.UserName))

	return newBotWithClient(client, cfg, t, log), nil
}

// newBotWithClient creates a Bot with the provided client. Used by tests.
func newBotWithClient(client TelegramClient, cfg config.TelegramConfig, t *trader.Trader, log *logger.Logger) *Bot {
	allowed := make(map[int64]struct{}, len(cfg.AllowedChatIDs))
	for _, id := range cfg.AllowedChatIDs {
		allowed[id] = struct{}{}
	}

	if len(allowed) == 0 {
		log.Warn("No allowed chat ids configured, every chat will be rejected")
	}

	return &Bot{
		client:  client,
		trader:  t,
		allowed: allowed,
		timeout: cfg.CommandTimeout(),
		log:     log,
		wg:      sync.WaitGroup{},
	}
}

// Run long polls for updates until ctx is cancelled, then waits for in
// flight handlers to finish.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = longPollTimeoutSeconds

	updates := b.client.GetUpdatesChan(updateConfig)

	b.log.Info("Listening for telegram updates")

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.wg.Wait()

			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()

				return nil
			}

			b.dispatch(ctx, update)
		}
	}
}

// dispatch hands a single update to its own goroutine.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	if _, ok := b.allowed[message.Chat.ID]; !ok {
		b.log.Warn("Rejected message from unauthorized chat",
			zap.Int64("chatId", message.Chat.ID))

		return
	}

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		handleCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		b.handle(handleCtx, message)
	}()
}

// handle routes one message and replies with the result.
func (b *Bot) handle(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "balance":
		b.handleBalance(ctx, chatID)
	case "positions":
		b.handlePositions(ctx, chatID)
	case "price":
		b.handlePrice(ctx, chatID, message.CommandArguments())
	case "":
		b.handleTrade(ctx, chatID, message.Text)
	default:
		b.reply(chatID, "Unknown command. Send /help for usage.")
	}
}

func (b *Bot) handleBalance(ctx context.Context, chatID int64) {
	balance, err := b.trader.Balance(ctx)
	if err != nil {
		b.log.Error("Balance lookup failed", zap.Error(err))
		b.reply(chatID, formatError(err))

		return
	}

	b.reply(chatID, formatBalance(balance))
}

func (b *Bot) handlePositions(ctx context.Context, chatID int64) {
	positions, err := b.trader.Positions(ctx)
	if err != nil {
		b.log.Error("Positions lookup failed", zap.Error(err))
		b.reply(chatID, formatError(err))

		return
	}

	b.reply(chatID, formatPositions(positions))
}

func (b *Bot) handlePrice(ctx context.Context, chatID int64, args string) {
	symbol := strings.ToUpper(strings.TrimSpace(args))
	if symbol == "" {
		b.reply(chatID, "Usage: /price <symbol>")

		return
	}

	price, err := b.trader.LastPrice(ctx, symbol)
	if err != nil {
		b.log.Error("Price lookup failed", zap.String("symbol", symbol), zap.Error(err))
		b.reply(chatID, formatError(err))

		return
	}

	b.reply(chatID, formatPrice(symbol, price))
}

func (b *Bot) handleTrade(ctx context.Context, chatID int64, text string) {
	intent, err := command.Parse(text)
	if err != nil {
		b.log.Info("Rejected trade command",
			zap.Int64("chatId", chatID),
			zap.Error(err))
		b.reply(chatID, formatError(err))

		return
	}

	outcome, err := b.trader.Execute(ctx, intent)
	if err != nil {
		b.log.Error("Trade execution failed",
			zap.Int64("chatId", chatID),
			zap.String("symbol", intent.Symbol),
			zap.Error(err))
		b.reply(chatID, formatError(err))

		return
	}

	b.reply(chatID, formatOutcome(intent, outcome))
}

// reply sends a plain text message, logging send failures instead of
// surfacing them since there is nobody left to tell.
func (b *Bot) reply(chatID int64, text string) {
	message := tgbotapi.NewMessage(chatID, text)

	if _, err := b.client.Send(message); err != nil {
		b.log.Error("Failed to send telegram reply",
			zap.Int64("chatId", chatID),
			zap.Error(err))
	}
}
