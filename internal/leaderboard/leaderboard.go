// Package leaderboard keeps the top ten scores in a storage.KV.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/tomz197/figs-in-space/internal/storage"
)

const (
	// Key is the storage key of the serialised list.
	Key = "figsInSpaceLeaderboard"
	// MaxEntries is the length of the list.
	MaxEntries = 10
	// MaxNameLength is the longest name kept, in runes.
	MaxNameLength = 20
	// PlaceholderName fills the default list.
	PlaceholderName = "..."
)

var (
	adjectives = []string{"Hot", "Race", "Super", "Mega", "Ultra", "Cosmic", "Galactic", "Atomic", "Rocket", "Space"}
	nouns      = []string{"Dog", "Track", "Pilot", "Cadet", "Ranger", "Explorer", "Voyager", "Blaster", "Striker", "Fighter"}
)

// Entry is one line of the board.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Board is the high-score list. It is safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	kv      storage.KV
	entries []Entry
	rng     *rand.Rand
	logger  *log.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used for storage problems.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithRand sets the source used for generated names.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) { b.rng = r }
}

// New loads the board from kv. Missing or unreadable data is replaced by the
// default list, which is written back.
func New(ctx context.Context, kv storage.KV, opts ...Option) (*Board, error) {
	b := &Board{kv: kv}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b.entries = b.load(ctx)
	if len(b.entries) == 0 {
		b.entries = defaultEntries()
		if err := b.save(ctx); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func defaultEntries() []Entry {
	entries := make([]Entry, MaxEntries)
	for i := range entries {
		entries[i] = Entry{Name: PlaceholderName}
	}
	return entries
}

// load reads the stored list. Any failure degrades to an empty list.
func (b *Board) load(ctx context.Context) []Entry {
	raw, ok, err := b.kv.Get(ctx, Key)
	if err != nil {
		b.logger.Warn("cannot read leaderboard", "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		b.logger.Warn("corrupt leaderboard, resetting", "err", err)
		return nil
	}
	sortEntries(entries)
	return entries
}

func (b *Board) save(ctx context.Context) error {
	data, err := json.Marshal(b.entries)
	if err != nil {
		return fmt.Errorf("leaderboard: encode: %w", err)
	}
	if err := b.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("leaderboard: save: %w", err)
	}
	return nil
}

// Scores returns a copy of the list, highest first.
func (b *Board) Scores() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries)
}

// IsHighScore reports whether score would enter the board.
func (b *Board) IsHighScore(score int) bool {
	if score <= 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) < MaxEntries {
		return true
	}
	return score > b.entries[len(b.entries)-1].Score
}

// AddScore inserts a score and persists the list. A blank name is replaced by
// a generated one. It returns the entry as stored.
func (b *Board) AddScore(ctx context.Context, score int, name string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = CleanName(name)
	if name == "" {
		name = b.randomName()
	}
	e := Entry{Name: name, Score: score}

	b.entries = append(b.entries, e)
	sortEntries(b.entries)
	if len(b.entries) > MaxEntries {
		b.entries = b.entries[:MaxEntries]
	}
	if err := b.save(ctx); err != nil {
		return e, err
	}
	return e, nil
}

// CleanName trims whitespace and truncates to MaxNameLength runes.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
}

func (b *Board) randomName() string {
	return adjectives[b.rng.Intn(len(adjectives))] + " " + nouns[b.rng.Intn(len(nouns))]
}

// sortEntries orders by score, highest first. Equal scores keep their order.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Score - a.Score
	})
}
