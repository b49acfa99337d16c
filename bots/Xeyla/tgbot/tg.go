package tgbot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"botfarm/bots/Xeyla/dispatch"
	"botfarm/bots/Xeyla/timezone"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	pollTimeout = 60
	seenUpdates = 1024
)

const (
	cmdStart   = "start"
	cmdHelp    = "help"
	cmdJadwal  = "jadwal"
	cmdLaporan = "laporan"
)

const (
	txtWelcome = `Halo kak! Aku XeylaBot 👋
Aku bisa nyatet jadwal dan ngingetin kamu pas waktunya, sekaligus nyatet pemasukan dan pengeluaran.

Contoh:
• "Ingetin meeting besok jam 2 siang"
• "Hapus jadwal olahraga"
• "Beli cilok 2k"
• "Saldo aku berapa?"

Ketik /help buat lihat semua perintah.`
	txtHelp = `Kamu bisa ngobrol biasa sama aku, atau pakai perintah ini:
/jadwal - lihat jadwal mendatang
/laporan - laporan keuangan bulan ini (PDF)
/laporan 2026-01 - laporan keuangan bulan tertentu
/help - bantuan`
	txtUnknownCommand = "Aku belum kenal perintah itu. Ketik /help ya, kak."
	txtBadMonth       = "Format bulannya YYYY-MM ya, kak. Contoh: /laporan 2026-01"
	txtTextOnly       = "Maaf kak, aku cuma bisa baca pesan teks."
)

var errBadMonth = errors.New("invalid month")

// Handler processes what comes in through the chat.
type Handler interface {
	Handle(ctx context.Context, msg dispatch.Message) error
	ListSchedules(ctx context.Context, usr int64) error
	MonthlyReport(ctx context.Context, usr int64, year int, month time.Month) error
}

type poller interface {
	GetUpdatesChan(config tg.UpdateConfig) tg.UpdatesChannel
	StopReceivingUpdates()
}

type sender interface {
	Send(c tg.Chattable) (tg.Message, error)
}

// TBot talks to Telegram. Long polling and sending use separate clients, so
// a send can time out without cutting a pending poll short.
type TBot struct {
	poller poller
	sender sender
	clock  *timezone.Clock
	logger *zap.SugaredLogger
	seen   *lru.Cache[string, struct{}]
}

func NewTBot(token string, sendTimeout time.Duration, clk *timezone.Clock, l *zap.SugaredLogger) (*TBot, error) {
	p, err := tg.NewBotAPI(token)
	if err != nil {
		l.Errorw("failed to initialize Telegram Bot", "err", err)
		return nil, errors.Wrap(err, "failed initializing telegram bot")
	}
	p.Debug = false

	s, err := tg.NewBotAPIWithClient(token, tg.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "failed initializing telegram sender")
	}

	l.Infof("authorized on account %q (%q, %d)", p.Self.FirstName, p.Self.UserName, p.Self.ID)

	return newTBot(p, s, clk, l)
}

func newTBot(p poller, s sender, clk *timezone.Clock, l *zap.SugaredLogger) (*TBot, error) {
	seen, err := lru.New[string, struct{}](seenUpdates)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating update cache")
	}

	return &TBot{poller: p, sender: s, clock: clk, logger: l, seen: seen}, nil
}

// Send delivers a plain text message. It makes a single attempt; callers
// decide about retries.
func (b *TBot) Send(ctx context.Context, usr int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := tg.NewMessage(usr, text)
	m.DisableWebPagePreview = true

	if _, err := b.sender.Send(m); err != nil {
		return errors.Wrapf(err, "failed sending message to %d", usr)
	}
	return nil
}

func (b *TBot) SendDocument(ctx context.Context, usr int64, fileName, mimeType string, data []byte, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.logger.Debugw("sending document", "usr", usr, "file", fileName, "mime", mimeType, "bytes", len(data))

	doc := tg.NewDocument(usr, tg.FileBytes{Name: fileName, Bytes: data})
	doc.Caption = caption

	if _, err := b.sender.Send(doc); err != nil {
		return errors.Wrapf(err, "failed sending document to %d", usr)
	}
	return nil
}

// Run handles updates one at a time, in the order they arrive, until ctx
// is done.
func (b *TBot) Run(ctx context.Context, h Handler) error {
	u := tg.NewUpdate(0)
	u.Timeout = pollTimeout

	updates := b.poller.GetUpdatesChan(u)
	defer b.poller.StopReceivingUpdates()

	b.logger.Info("listening for updates")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("telegram loop stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, h, upd)
		}
	}
}

func (b *TBot) handleUpdate(ctx context.Context, h Handler, upd tg.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || (msg.From != nil && msg.From.IsBot) {
		return
	}

	// Telegram redelivers updates after a reconnect
	if seen, _ := b.seen.ContainsOrAdd(updateKey(msg), struct{}{}); seen {
		return
	}

	usr := msg.Chat.ID
	l := b.logger.With("usr", usr)

	var err error
	switch {
	case msg.IsCommand():
		err = b.handleCommand(ctx, h, msg)
	case strings.TrimSpace(msg.Text) != "":
		err = h.Handle(ctx, dispatch.Message{UserID: usr, Text: msg.Text})
	default:
		err = b.Send(ctx, usr, txtTextOnly)
	}

	if err != nil {
		l.Errorw("failed handling message", "err", err)
	}
}

func (b *TBot) handleCommand(ctx context.Context, h Handler, msg *tg.Message) error {
	usr := msg.Chat.ID

	switch msg.Command() {
	case cmdStart:
		return b.Send(ctx, usr, txtWelcome)
	case cmdHelp:
		return b.Send(ctx, usr, txtHelp)
	case cmdJadwal:
		return h.ListSchedules(ctx, usr)
	case cmdLaporan:
		year, month, err := parseMonthArg(msg.CommandArguments(), b.clock.Now())
		if err != nil {
			return b.Send(ctx, usr, txtBadMonth)
		}
		return h.MonthlyReport(ctx, usr, year, month)
	}
	return b.Send(ctx, usr, txtUnknownCommand)
}

func updateKey(msg *tg.Message) string {
	return fmt.Sprintf("%d:%d", msg.Chat.ID, msg.MessageID)
}

// parseMonthArg reads "2026-01" or "01/2026"; an empty argument means the
// month of now.
func parseMonthArg(arg string, now time.Time) (int, time.Month, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return now.Year(), now.Month(), nil
	}

	for _, layout := range []string{"2006-01", "01/2006", "1/2006"} {
		if t, err := time.Parse(layout, arg); err == nil {
			return t.Year(), t.Month(), nil
		}
	}
	return 0, 0, errors.Wrapf(errBadMonth, "%q", arg)
}
