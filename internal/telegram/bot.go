package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spotcircuit/dmv-test/internal/catalog"
	"github.com/spotcircuit/dmv-test/internal/domain/questionbank"
	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/domain/section"
	"github.com/spotcircuit/dmv-test/internal/service"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      Sender
	quiz     *service.QuizService
	assetDir string // images are sent as photos when set
	logger   *slog.Logger
}

func NewBot(api Sender, quiz *service.QuizService, assetDir string, logger *slog.Logger) *Bot {
	return &Bot{api: api, quiz: quiz, assetDir: assetDir, logger: logger}
}

// SessionID maps a chat onto its quiz session.
func SessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

// Run handles updates until ctx is done or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		b.handleCommand(ctx, update.Message.Chat.ID, update.Message.Command())
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start", "menu":
		b.sendMainMenu(chatID)
	case "practice", "test":
		b.startQuiz(ctx, chatID, command)
	case "question":
		b.sendCurrent(ctx, chatID)
	case "results":
		b.sendResults(ctx, chatID)
	case "reset":
		b.reset(ctx, chatID)
	case "categories":
		b.sendCategories(ctx, chatID)
	default:
		b.sendMessage(chatID, "Unknown command. Try /start")
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}

	switch {
	case strings.HasPrefix(data, "mode_"):
		b.startQuiz(ctx, chatID, strings.TrimPrefix(data, "mode_"))
	case strings.HasPrefix(data, "ans_"):
		qid, option, ok := parseAnswer(data)
		if !ok {
			b.sendMessage(chatID, "That button is no longer valid.")
			return
		}
		b.answer(ctx, chatID, qid, option)
	case data == "results":
		b.sendResults(ctx, chatID)
	case data == "reset":
		b.reset(ctx, chatID)
	case data == "menu":
		b.sendMainMenu(chatID)
	default:
		b.sendMessage(chatID, "Unknown command. Try /start")
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🚗 DMV Test Trainer\n\nPractice repeats a question until you get it right. Test mode moves on after every answer. You need 30 correct to pass.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Practice", "mode_practice"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Test", "mode_test"),
		),
	)
	b.send(msg)
}

func (b *Bot) startQuiz(ctx context.Context, chatID int64, mode string) {
	fetch, err := b.quiz.SelectMode(ctx, SessionID(chatID), mode)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendFetch(chatID, fetch)
}

func (b *Bot) sendCurrent(ctx context.Context, chatID int64) {
	fetch, err := b.quiz.CurrentQuestion(ctx, SessionID(chatID))
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendFetch(chatID, fetch)
}

func (b *Bot) answer(ctx context.Context, chatID int64, qid questionbank.ID, option int) {
	ans, err := b.quiz.SubmitAnswerTo(ctx, SessionID(chatID), qid, option)
	if errors.Is(err, service.ErrStaleQuestion) {
		b.sendMessage(chatID, "That question has already been answered.")
		b.sendCurrent(ctx, chatID)
		return
	}
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendMessage(chatID, FormatAnswer(ans))

	if ans.QuizComplete {
		b.sendResults(ctx, chatID)
		return
	}
	b.sendCurrent(ctx, chatID)
}

func (b *Bot) sendResults(ctx context.Context, chatID int64) {
	res, err := b.quiz.Results(ctx, SessionID(chatID))
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, FormatResults(res))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Start over", "reset"),
		),
	)
	b.send(msg)
}

func (b *Bot) reset(ctx context.Context, chatID int64) {
	if err := b.quiz.Reset(ctx, SessionID(chatID)); err != nil {
		b.sendError(chatID, err)
		return
	}
	b.sendMainMenu(chatID)
}

func (b *Bot) sendCategories(ctx context.Context, chatID int64) {
	inv, err := b.quiz.Categories(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	var sb strings.Builder
	sb.WriteString("📂 Categories\n")
	for _, c := range inv {
		fmt.Fprintf(&sb, "\n%s: %d of %d", c.Name, min(c.Requested, c.Available), c.Requested)
		if c.Available < c.Requested {
			sb.WriteString(" ⚠️")
		}
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) sendFetch(chatID int64, fetch service.Fetch) {
	if fetch.QuizComplete || fetch.Question == nil {
		msg := tgbotapi.NewMessage(chatID, "🏁 Quiz complete!")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📊 Results", "results"),
				tgbotapi.NewInlineKeyboardButtonData("🔄 Start over", "reset"),
			),
		)
		b.send(msg)
		return
	}

	text := FormatQuestion(fetch)
	keyboard := answerKeyboard(*fetch.Question)

	if fetch.Question.Image != nil && b.assetDir != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(filepath.Join(b.assetDir, filepath.FromSlash(*fetch.Question.Image))))
		photo.Caption = text
		photo.ReplyMarkup = keyboard
		b.send(photo)
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) sendError(chatID int64, err error) {
	var loadErr *questionbank.LoadError
	switch {
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, quizsession.ErrInvalidState):
		b.sendMainMenu(chatID)
	case errors.Is(err, quizsession.ErrInvalidInput):
		b.sendMessage(chatID, "Pick one of the offered options.")
	case errors.As(err, &loadErr),
		errors.Is(err, section.ErrNoSectionsAvailable),
		errors.Is(err, catalog.ErrNotLoaded):
		b.logger.Error("question bank unavailable", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, "Questions are unavailable right now. Please try again later.")
	default:
		b.logger.Error("telegram request failed", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, "Something went wrong. Please try again.")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("failed to send telegram message", "error", err)
	}
}

func answerKeyboard(q service.QuestionView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, answerData(q.ID, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Results", "results"),
		tgbotapi.NewInlineKeyboardButtonData("🚪 Quit", "reset"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// answerData encodes a button press as ans_<question id>_<option index> so
// presses on stale keyboards can be told apart.
func answerData(qid questionbank.ID, option int) string {
	return fmt.Sprintf("ans_%d_%d", qid, option)
}

func parseAnswer(data string) (questionbank.ID, int, bool) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0] != "ans" {
		return 0, 0, false
	}
	qid, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	option, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return questionbank.ID(qid), option, true
}
