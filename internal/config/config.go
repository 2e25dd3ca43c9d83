// Package config loads logdex's tunables from a ".logdex.kdl" file and
// exposes a fsnotify-driven watch channel for live reload.
//
// Ground truth: grounded on the teacher's internal/config/kdl_config.go
// (node-walking over a parsed KDL document via firstIntArg/firstBoolArg
// style helpers) and internal/indexing/watcher.go (fsnotify wiring with a
// debounce timer). Defaults and field names follow spec.md §4.10.
package config

import (
	"os"
	"strings"
	"time"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/logdex/internal/errors"
	"github.com/standardbeagle/logdex/internal/fasthash"
)

const (
	DefaultMaxPostings  = 32_000
	DefaultStaleSecs    = 3600
	DefaultMaxNgramSize = 3
)

// seeded log-level priorities, per spec.md §4.10.
var logLevelPriority = map[string]int{
	"TRACE": 0,
	"DEBUG": 1,
	"INFO":  2,
	"WARN":  3,
	"ERROR": 4,
	"FATAL": 5,
}

// Config holds logdex's tunable parameters.
type Config struct {
	MaxPostings  uint64
	StaleSecs    uint64
	EnableNgrams bool
	MaxNgramSize int
	EnablePatterns bool

	// LogLevels maps hash_token(name) to that level's numeric priority.
	LogLevels map[uint64]int
	// Services maps hash_token(name) to a sequential, idempotently
	// assigned u8 id. RegisterService mutates this.
	Services map[uint64]uint8
	nextSvc  uint8
}

// Default returns the configuration spec.md §4.10 specifies when no file is
// present.
func Default() *Config {
	cfg := &Config{
		MaxPostings:    DefaultMaxPostings,
		StaleSecs:      DefaultStaleSecs,
		EnableNgrams:   true,
		MaxNgramSize:   DefaultMaxNgramSize,
		EnablePatterns: true,
		LogLevels:      make(map[uint64]int, len(logLevelPriority)),
		Services:       make(map[uint64]uint8),
	}
	for name, priority := range logLevelPriority {
		cfg.LogLevels[fasthash.HashToken(name)] = priority
	}
	return cfg
}

// RegisterService assigns name a sequential u8 id, idempotently: calling it
// again for the same name returns the id already assigned.
func (c *Config) RegisterService(name string) uint8 {
	h := fasthash.HashToken(name)
	if id, ok := c.Services[h]; ok {
		return id
	}
	id := c.nextSvc
	c.Services[h] = id
	c.nextSvc++
	return id
}

// Load reads and parses path, a ".logdex.kdl" file. A missing file is not an
// error: Load returns defaults. A present-but-unreadable or unparsable file
// returns a *errors.ConfigIOError wrapping the underlying cause.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigIOError(path, err)
	}

	cfg := Default()
	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, errors.NewConfigIOError(path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "max_postings":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxPostings = uint64(v)
			}
		case "stale_secs":
			if v, ok := firstIntArg(n); ok {
				cfg.StaleSecs = uint64(v)
			}
		case "enable_ngrams":
			if b, ok := firstBoolArg(n); ok {
				cfg.EnableNgrams = b
			}
		case "max_ngram_size":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxNgramSize = v
			}
		case "enable_patterns":
			if b, ok := firstBoolArg(n); ok {
				cfg.EnablePatterns = b
			}
		case "services":
			for _, cn := range n.Children {
				if s, ok := firstStringArg(cn); ok {
					cfg.RegisterService(s)
				} else if cn.Name != nil {
					if s, ok := cn.Name.Value.(string); ok {
						cfg.RegisterService(s)
					}
				}
			}
		}
	}

	return cfg, nil
}

// Watch loads path on every write event fsnotify reports for it, debounced
// by 100ms, and sends the freshly loaded Config on the returned channel. The
// returned cancel function stops the watch and closes the channel. Load
// errors during a reload are dropped silently; the previous Config stays in
// effect until a parseable file appears.
func Watch(path string) (<-chan *Config, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, nil, err
	}

	out := make(chan *Config, 1)
	done := make(chan struct{})

	go func() {
		var debounce *time.Timer
		reload := func() {
			if cfg, err := Load(path); err == nil {
				select {
				case out <- cfg:
				default:
				}
			}
		}
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, reload)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		w.Close()
		close(out)
	}
	return out, cancel, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
