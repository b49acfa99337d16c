package bot

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Each bot should implement the Bot interface.
type Bot interface {
	// Init method initializes the bot (connects to database, configures Telegram
	// Bot, etc.) and returns a context that should be used in the bot. On
	// failure, Init should return an error rather than panic.
	Init(*Config, *zap.SugaredLogger) (*Context, error)
	// Run starts the process of handling messages from the Telegram Bot. Multiple
	// bots are supposed to run concurrently, so Run should be started in a new
	// goroutine. Run returns when ctx is cancelled or the bot can't continue.
	Run(context.Context, *Context) error
}

type registration struct {
	bot      Bot
	required []string
}

var (
	botsRegistry = make(map[string]registration)
	botsMu       sync.Mutex
)

// Register adds the bot to the list of bots to run. To register a bot call
// Register in the init function. required lists configuration fields the bot
// can't start without.
func Register(name string, bot Bot, required ...string) bool {
	botsMu.Lock()
	defer botsMu.Unlock()

	_, ok := botsRegistry[name]
	if ok {
		return false
	}

	botsRegistry[name] = registration{bot: bot, required: required}
	return true
}

// Named bot record in the bots registry.
type Record struct {
	Name                 string
	Bot                  Bot
	RequiredConfigFields []string
}

// GetThemAll returns sorted list of bots.
func GetThemAll() []Record {
	botsMu.Lock()
	defer botsMu.Unlock()

	bots := []Record{}
	for n, r := range botsRegistry {
		bots = append(bots, Record{Name: n, Bot: r.bot, RequiredConfigFields: r.required})
	}

	sort.Slice(bots, func(i, j int) bool { return bots[i].Name < bots[j].Name })
	return bots
}
