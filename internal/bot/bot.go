package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
	"github.com/uybinhphan/goatcounter-bot/internal/stats"
	"github.com/uybinhphan/goatcounter-bot/internal/telegram"
)

const (
	pollTimeoutSeconds = 30
	pollErrorBackoff   = 3 * time.Second
	topPagesLimit      = 5
)

// sender is the slice of the Telegram client the bot needs for replies.
type sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Bot long-polls Telegram and answers the on-demand commands: /check probes
// every target right now, /stats and /weekly report GoatCounter traffic.
type Bot struct {
	client  *telegram.Client
	sender  sender
	runner  *monitor.Runner
	stats   *stats.Client
	metrics domain.MetricsCollector
	logger  *zap.Logger
	now     func() time.Time
}

func New(
	client *telegram.Client,
	runner *monitor.Runner,
	statsClient *stats.Client,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		client:  client,
		sender:  client,
		runner:  runner,
		stats:   statsClient,
		metrics: metrics,
		logger:  logger.With(zap.String("component", "bot")),
		now:     time.Now,
	}
}

// Run polls for updates until the context ends.
func (b *Bot) Run(ctx context.Context) {
	b.logger.Info("bot started")
	defer b.logger.Info("bot stopped")

	var offset int64
	for ctx.Err() == nil {
		updates, err := b.client.GetUpdates(ctx, offset, pollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("failed to poll updates", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollErrorBackoff):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *telegram.Message) {
	cmd := command(msg.Text)
	b.metrics.RecordBotCommand(cmd)
	b.logger.Debug("handling command",
		zap.String("command", cmd),
		zap.Int64("chat_id", msg.Chat.ID))

	var reply string
	switch cmd {
	case "/check":
		reply = b.checkReply(ctx)
	case "/stats":
		reply = b.statsReply(ctx, false)
	case "/weekly":
		reply = b.statsReply(ctx, true)
	default:
		reply = helpText
	}

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	if err := b.sender.SendMessage(ctx, chatID, reply); err != nil {
		b.logger.Error("failed to send reply",
			zap.String("command", cmd),
			zap.Error(err))
	}
}

func (b *Bot) checkReply(ctx context.Context) string {
	return formatReports(b.runner.CheckAll(ctx))
}

func (b *Bot) statsReply(ctx context.Context, weekly bool) string {
	if b.stats == nil {
		return "❌ Stats are not configured (set GOAT_SITE and GOAT_API_KEY)."
	}

	end := b.now()
	start := end
	if weekly {
		start = end.AddDate(0, 0, -7)
	}

	hits, err := b.stats.Hits(ctx, start, end, topPagesLimit)
	if err != nil {
		return "❌ API Error: " + err.Error()
	}

	if weekly {
		return formatWeekly(hits, start, end)
	}
	return formatDaily(hits, end)
}

// command extracts the leading command, dropping any @botname suffix.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}
