package handler

import (
	"sync"

	"goeha/internal/domain"
	"goeha/internal/middleware"
	"goeha/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender pushes messages to a chat outside of an update
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	sender       Sender
	authService  *service.AuthService
	wordService  *service.WordService
	statsService *service.StatsService
	drillService *service.DrillService
	logger       *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Running drills, one per chat
	drills   map[int64]*chatDrill
	drillMux sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	wordService *service.WordService,
	statsService *service.StatsService,
	drillService *service.DrillService,
	logger *zap.Logger,
) *Handler {
	h := newHandler(bot, authService, wordService, statsService, drillService, logger)
	h.bot = bot
	return h
}

func newHandler(
	sender Sender,
	authService *service.AuthService,
	wordService *service.WordService,
	statsService *service.StatsService,
	drillService *service.DrillService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sender:       sender,
		authService:  authService,
		wordService:  wordService,
		statsService: statsService,
		drillService: drillService,
		logger:       logger,
		states:       make(map[int64]*domain.StateData),
		drills:       make(map[int64]*chatDrill),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.AuthMiddleware(h.authService, h.handleStart, h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/delete", h.handleDelete)
	h.bot.Handle("/hard", h.handleHard)
	h.bot.Handle("/edit", h.handleEdit)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/stop", h.handleStop)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnListWords, h.handleListWords)
	h.bot.Handle(&btnDrillAll, h.handleDrillAll)
	h.bot.Handle(&btnDrillHard, h.handleDrillHard)
	h.bot.Handle(&btnSkipExample, h.handleSkipExample)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnMarkHard, h.handleMarkHard)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// Inline keyboard buttons
var (
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add word",
	}
	btnListWords = tele.Btn{
		Unique: "list_words",
		Text:   "📚 My words",
	}
	btnDrillAll = tele.Btn{
		Unique: "drill_all",
		Text:   "🎯 Drill all",
	}
	btnDrillHard = tele.Btn{
		Unique: "drill_hard",
		Text:   "🔥 Drill hard",
	}
	btnSkipExample = tele.Btn{
		Unique: "skip_example",
		Text:   "⏭ Skip",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "➡️ Next",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnAddWord, btnListWords),
		menu.Row(btnDrillAll, btnDrillHard),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
