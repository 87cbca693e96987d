// Package foundation holds site metadata, runtime feature flags and the
// analytics sink shared by every surface of the bot.
package foundation

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

type Metadata struct {
	SiteName     string   `json:"siteName"`
	DefaultTitle string   `json:"defaultTitle"`
	Description  string   `json:"description"`
	CanonicalURL string   `json:"canonicalUrl"`
	Keywords     []string `json:"keywords,omitempty"`
}

type Feature struct {
	Enabled     bool   `json:"enabled"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

type Config struct {
	Metadata Metadata           `json:"metadata"`
	Features map[string]Feature `json:"features"`
}

// Flags is a concurrency safe view over a set of features.
type Flags struct {
	mu       sync.RWMutex
	features map[string]Feature
}

func NewFlags(features map[string]Feature) *Flags {
	f := &Flags{features: make(map[string]Feature, len(features))}
	for name, feature := range features {
		f.features[name] = feature
	}
	return f
}

// Enabled reports false for features that were never configured.
func (f *Flags) Enabled(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.features[name].Enabled
}

// Set toggles a feature, creating it if needed.
func (f *Flags) Set(name string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	feature := f.features[name]
	feature.Enabled = enabled
	f.features[name] = feature
}

// Snapshot returns a copy of every feature.
func (f *Flags) Snapshot() map[string]Feature {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Feature, len(f.features))
	for name, feature := range f.features {
		out[name] = feature
	}
	return out
}

// Names returns the configured feature names in order.
func (f *Flags) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.features))
	for name := range f.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Event struct {
	Name       string
	Properties map[string]string
}

// Tracker records analytics events to a structured logger.
type Tracker struct {
	logger *zap.Logger
}

func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{logger: logger.Named("analytics")}
}

func (t *Tracker) Track(e Event) {
	fields := make([]zap.Field, 0, len(e.Properties)+2)
	fields = append(fields, zap.String("event", e.Name), zap.Namespace("properties"))

	keys := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, e.Properties[k]))
	}

	t.logger.Debug("track", fields...)
}
