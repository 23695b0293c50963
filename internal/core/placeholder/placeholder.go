// Package placeholder generates synthetic unique keys that stand in for a
// missing natural key (for example a client without a tax id), so that a
// UNIQUE column never sees two "no value" rows collide.
package placeholder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Strategy selects how the unique suffix is produced.
type Strategy string

const (
	// StrategyTimestamp produces PREFIX_NAME_YYYYMMDDHHMMSSffffff, the format
	// already present in existing databases.
	StrategyTimestamp Strategy = "timestamp"
	// StrategyUUID produces PREFIX_NAME_<uuid v4>; safe across processes.
	StrategyUUID Strategy = "uuid"
)

// Entity prefixes. Stored placeholders are recognised by prefix alone.
const (
	ClientTaxID = "TEMP_CPF_"
)

// KeyGenerator is the PlaceholderKeyGenerator capability.
type KeyGenerator interface {
	// Generate returns a fresh placeholder for the given entity prefix and label.
	Generate(prefix, label string) string
	// IsPlaceholder reports whether value was produced for prefix.
	IsPlaceholder(prefix, value string) bool
}

// Generator implements KeyGenerator. Timestamp keys are strictly increasing
// within one Generator, so they never repeat inside a process even when the
// clock does not advance between calls.
type Generator struct {
	strategy Strategy
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New creates a Generator. Unknown strategies fall back to timestamp.
func New(strategy Strategy) *Generator {
	if strategy != StrategyUUID {
		strategy = StrategyTimestamp
	}
	return &Generator{strategy: strategy, now: time.Now}
}

// NewWithClock creates a timestamp Generator driven by the given clock.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{strategy: StrategyTimestamp, now: now}
}

// Generate returns a placeholder such as TEMP_CPF_JOAO_SILVA_20240315143000123456.
func (g *Generator) Generate(prefix, label string) string {
	name := Sanitize(label)
	if g.strategy == StrategyUUID {
		return fmt.Sprintf("%s%s_%s", prefix, name, uuid.NewString())
	}
	return fmt.Sprintf("%s%s_%s", prefix, name, formatStamp(g.tick()))
}

// IsPlaceholder reports whether value carries the prefix.
func (g *Generator) IsPlaceholder(prefix, value string) bool {
	return IsPlaceholder(prefix, value)
}

func (g *Generator) tick() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Microsecond)
	if !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	return t
}

// IsPlaceholder reports whether value starts with prefix.
func IsPlaceholder(prefix, value string) bool {
	return strings.HasPrefix(value, prefix)
}

// Sanitize upper-cases label and replaces spaces with underscores.
func Sanitize(label string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
}

func formatStamp(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// Ensure Generator implements the interface.
var _ KeyGenerator = (*Generator)(nil)
