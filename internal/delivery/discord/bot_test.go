package discord

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"
	"unicode/utf8"

	"alias/internal/application"
	"alias/internal/game"
	"alias/internal/models"
	"alias/internal/repository"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	chatID  int64 = 555
	channel       = "555"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

type fakeAPI struct {
	mu        sync.Mutex
	sent      []*discordgo.MessageSend
	edits     []string
	deleted   []string
	responses []*discordgo.InteractionResponse
	webhooks  []*discordgo.WebhookEdit
	nextID    int
	editErr   error
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	f.nextID++
	return &discordgo.Message{ID: strconv.Itoa(f.nextID), ChannelID: channelID}, nil
}

func (f *fakeAPI) ChannelMessageEdit(_, messageID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, content)
	return &discordgo.Message{ID: messageID, Content: content}, nil
}

func (f *fakeAPI) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhooks = append(f.webhooks, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) lastSent(t *testing.T) *discordgo.MessageSend {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.responses)
	return f.responses[len(f.responses)-1]
}

type MockReports struct {
	mock.Mock
}

func (m *MockReports) SaveGame(ctx context.Context, record models.GameRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockReports) Leaderboard(ctx context.Context, chatID int64) ([]models.TeamStats, error) {
	args := m.Called(ctx, chatID)
	stats, _ := args.Get(0).([]models.TeamStats)
	return stats, args.Error(1)
}

func (m *MockReports) RecentGames(ctx context.Context, chatID int64) ([]models.GameRecord, error) {
	args := m.Called(ctx, chatID)
	games, _ := args.Get(0).([]models.GameRecord)
	return games, args.Error(1)
}

func (m *MockReports) GetExcelReport(ctx context.Context, chatID int64) ([]byte, error) {
	args := m.Called(ctx, chatID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockReports) SyncToGoogleSheet(ctx context.Context, chatID int64) (string, error) {
	args := m.Called(ctx, chatID)
	return args.String(0), args.Error(1)
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *MockReports) {
	t.Helper()
	words := repository.NewWordCatalog(fstest.MapFS{
		"en_easy_words.json": {Data: []byte(`{"cat": "", "dog": "", "sun": "", "moon": ""}`)},
	}, nopLogger{})
	clock := game.NewRealClock()
	engine := game.NewEngine(
		game.NewRegistry(game.DefaultSettings()),
		words,
		game.NewSampler(game.DefaultSampleSize),
		game.NewRoundTimer(clock, time.Hour),
		clock,
		nil,
		nopLogger{},
	)
	api := &fakeAPI{}
	reports := &MockReports{}
	b := newBot(api, engine, reports, words, nopLogger{}, "!")
	engine.SetNotifier(b)
	return b, api, reports
}

func message(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: channel,
		Content:   content,
		Author:    &discordgo.User{ID: "1"},
	}}
}

func press(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: channel,
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func slash(name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: channel,
		Data:      discordgo.ApplicationCommandInteractionData{Name: name},
	}}
}

func firstButton(t *testing.T, comps []discordgo.MessageComponent) discordgo.Button {
	t.Helper()
	require.NotEmpty(t, comps)
	row, ok := comps[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.NotEmpty(t, row.Components)
	btn, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	return btn
}

func setUpGame(t *testing.T, b *Bot) {
	t.Helper()
	b.onMessage(nil, message("!start"))
	b.onInteraction(nil, press("lang:en"))
	b.onInteraction(nil, press("diff:easy"))
	b.onInteraction(nil, press("teams:2"))
	for _, in := range []string{"Cats", "Dogs", "60", "10"} {
		b.onMessage(nil, message(in))
	}
}

func TestSlashCommands(t *testing.T) {
	cmds := slashCommands()
	require.Len(t, cmds, len(game.Commands))
	assert.Equal(t, "start", cmds[0].Name)
}

func TestBot_PrefixStartShowsLanguageButtons(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.onMessage(nil, message("!START"))

	msg := api.lastSent(t)
	assert.Equal(t, "Choose the language of the words:", msg.Content)
	assert.Equal(t, "lang:en", firstButton(t, msg.Components).CustomID)
}

func TestBot_IgnoresBotsAndChatter(t *testing.T) {
	b, api, _ := newTestBot(t)

	bot := message("!start")
	bot.Author.Bot = true
	b.onMessage(nil, bot)
	b.onMessage(nil, message("hello there"))

	assert.Empty(t, api.sent)
}

func TestBot_RoundCountdown(t *testing.T) {
	b, api, _ := newTestBot(t)
	setUpGame(t, b)

	b.onInteraction(nil, press("round:start"))
	require.True(t, b.hasCountdown(chatID))
	assert.Equal(t, "⏳ 60 s left", api.lastSent(t).Content)

	resp := api.lastResponse(t)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	btn := firstButton(t, resp.Data.Components)
	assert.Equal(t, "word:explained", btn.CustomID)
	assert.Equal(t, discordgo.SuccessButton, btn.Style)

	require.NoError(t, b.RoundTick(chatID, 59*time.Second))
	require.NoError(t, b.RoundTick(chatID, 58500*time.Millisecond))
	assert.Equal(t, []string{"⏳ 59 s left"}, api.edits)

	b.onInteraction(nil, press("word:skipped"))
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, api.lastResponse(t).Type)

	api.mu.Lock()
	api.editErr = errors.New("404 Not Found")
	api.mu.Unlock()
	assert.Error(t, b.RoundTick(chatID, 30*time.Second))

	b.onMessage(nil, message("!cancel"))
	assert.False(t, b.hasCountdown(chatID))
	assert.Len(t, api.deleted, 1)
	assert.Contains(t, api.lastSent(t).Content, "canceled")
}

func TestBot_RoundOver(t *testing.T) {
	b, api, _ := newTestBot(t)
	setUpGame(t, b)

	b.onMessage(nil, message("!next"))
	require.True(t, b.hasCountdown(chatID))

	r, err := b.engine.EndRound(chatID)
	require.NoError(t, err)
	b.RoundOver(chatID, r)

	assert.False(t, b.hasCountdown(chatID))
	msg := api.lastSent(t)
	assert.Contains(t, msg.Content, "Round over!")
	assert.Equal(t, "round:next", firstButton(t, msg.Components).CustomID)
}

func TestBot_LateRoundOverKeepsNextCountdown(t *testing.T) {
	b, api, _ := newTestBot(t)
	setUpGame(t, b)

	b.onMessage(nil, message("!next"))
	ended, err := b.engine.EndRound(chatID)
	require.NoError(t, err)

	// the next round starts before the previous round's result is rendered
	b.onInteraction(nil, press("round:next"))
	next := b.engine.Status(chatID).Round
	require.Greater(t, next, ended.Round)
	require.True(t, b.countdownFor(chatID, next))

	b.RoundOver(chatID, ended)

	assert.True(t, b.countdownFor(chatID, next))
	assert.Len(t, api.deleted, 1)
	require.NoError(t, b.RoundTick(chatID, 30*time.Second))
	assert.Equal(t, []string{"⏳ 30 s left"}, api.edits)
}

func TestBot_StaleButtonIsEphemeral(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.onInteraction(nil, press("word:explained"))

	resp := api.lastResponse(t)
	assert.Equal(t, "No active round.", resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Empty(t, api.sent)
}

func TestBot_SlashStats(t *testing.T) {
	b, api, reports := newTestBot(t)
	reports.On("Leaderboard", mock.Anything, chatID).Return([]models.TeamStats{
		{Name: "Cats", Games: 3, Wins: 2, Words: 40},
	}, nil).Once()
	reports.On("Leaderboard", mock.Anything, chatID).Return(nil, application.ErrNoHistory).Once()

	b.onInteraction(nil, slash("stats"))
	require.Len(t, api.webhooks, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, api.lastResponse(t).Type)
	embeds := *api.webhooks[0].Embeds
	require.Len(t, embeds, 1)
	assert.Equal(t, "🥇 Cats: `2` wins in 3 games, 40 words\n", embeds[0].Description)

	b.onInteraction(nil, slash("stats"))
	require.Len(t, api.webhooks, 2)
	assert.Equal(t, "No finished games in this channel yet.", *api.webhooks[1].Content)
	reports.AssertExpectations(t)
}

func TestBot_PrefixExport(t *testing.T) {
	b, api, reports := newTestBot(t)
	reports.On("GetExcelReport", mock.Anything, chatID).Return([]byte("xlsx"), nil)

	b.onMessage(nil, message("!export"))

	msg := api.lastSent(t)
	require.Len(t, msg.Files, 1)
	assert.Equal(t, exportFileName, msg.Files[0].Name)
	data, err := io.ReadAll(msg.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(data))
}

func TestBot_SlashHelp(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.onInteraction(nil, slash("help"))

	resp := api.lastResponse(t)
	assert.Contains(t, resp.Data.Content, "/sync_sheet")
	assert.Contains(t, resp.Data.Content, "en/easy")
}

func TestBot_UnknownPrefixCommand(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.onMessage(nil, message("!dance"))
	assert.Equal(t, "Unknown command. Use !help to see what I can do.", api.lastSent(t).Content)
}

func TestBot_PrefixHistory(t *testing.T) {
	b, api, reports := newTestBot(t)
	reports.On("RecentGames", mock.Anything, chatID).Return([]models.GameRecord{{
		Winner:     "Дружба",
		Language:   models.LanguageRussian,
		Difficulty: models.DifficultyMedium,
		Rounds:     3,
		FinishedAt: time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC),
		Teams: []models.TeamResult{
			{Name: "Дружба", Score: 15, Winner: true},
			{Name: "Мир", Score: 11},
		},
	}}, nil).Once()
	reports.On("RecentGames", mock.Anything, chatID).Return(nil, application.ErrNoHistory).Once()

	b.onMessage(nil, message("!history"))
	assert.Equal(t, "Recent games:\n\n1. 01.05 09:05 ru/medium, 3 rounds: Дружба 15 🏆, Мир 11", api.lastSent(t).Content)

	b.onMessage(nil, message("!history"))
	assert.Equal(t, "No finished games in this channel yet.", api.lastSent(t).Content)
	reports.AssertExpectations(t)
}

func TestTruncate(t *testing.T) {
	short := "кошка"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("ж", maxMessageLength)
	got := truncate(long)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxMessageLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}
