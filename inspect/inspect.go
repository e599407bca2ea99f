/*
Package inspect runs the decoded-URI inspection pipeline: percent-decode
the URI, fast-scan it for suspicious literal tokens, and only then apply
the configured rule patterns with the relite engine, collecting findings
and per-inspector statistics.

The pipeline mirrors how an HTTP inspector feeds a matcher: matching runs
over the decoded bytes, case handling is an explicit option on the rule
set rather than inline pattern syntax, and a literal prefilter keeps the
pattern engine off the fast path for the vast majority of URIs.
*/
package inspect

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/d0lph1n98/relite"
	"github.com/d0lph1n98/relite/search"
	"github.com/d0lph1n98/relite/urlnorm"
)

// Rule is one pattern applied to decoded URIs.
type Rule struct {
	Name    string
	Pattern string
}

// DefaultScriptRules detect inline script injection in a decoded URI.
// The block rule prefers a closed script element but still fires on an
// unterminated one.
var DefaultScriptRules = []Rule{
	{Name: "script-open", Pattern: `<script[^>]*>`},
	{Name: "script-block", Pattern: `(<script[^>]*>[\s\S]*?</script[^>]*>|<script[^>]*>[\s\S]*?)`},
}

// Config describes one Inspector. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	// IgnoreCase applies to every rule pattern. Case handling is an
	// out-of-band option by engine contract; inline "(?i)" syntax is not
	// recognized and fails the rule.
	IgnoreCase bool

	// Rules are tried in order against each decoded URI; all hits are
	// reported, not just the first.
	Rules []Rule

	// MaxCaptures is the capture-slot capacity reserved per rule
	// application. Zero records no captures. A rule with more groups than
	// this fails the inspection with an error.
	MaxCaptures int

	// MatchTimeout bounds each single rule application. Zero means no
	// bound.
	MatchTimeout time.Duration

	// PrefilterTokens, when non-empty, gate the rule engine: URIs that
	// contain none of the tokens (case-insensitively) are passed over
	// without running any rule.
	PrefilterTokens []search.Token
}

// DefaultConfig inspects for script injection, case-insensitively, with
// four capture slots per rule and the script-tag prefilter.
func DefaultConfig() Config {
	return Config{
		IgnoreCase:      true,
		Rules:           DefaultScriptRules,
		MaxCaptures:     4,
		PrefilterTokens: search.ScriptTokens,
	}
}

// Describe reports the active configuration through l.
func (c Config) Describe(l *Logger) {
	l.Section("inspection config")
	l.Log("ignore case: %s", yesNo(c.IgnoreCase))
	l.Log("capture slots per rule: %d", c.MaxCaptures)
	if c.MatchTimeout > 0 {
		l.Log("match timeout: %s", c.MatchTimeout)
	} else {
		l.Log("match timeout: none")
	}
	if len(c.PrefilterTokens) > 0 {
		l.Log("prefilter tokens: %d", len(c.PrefilterTokens))
		for _, tok := range c.PrefilterTokens {
			l.Log("  %q (id %d)", tok.Name, tok.ID)
		}
	} else {
		l.Log("prefilter: OFF")
	}
	l.Log("rules: %d", len(c.Rules))
	for _, r := range c.Rules {
		l.Log("  %s: %s", r.Name, r.Pattern)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// Stats counts inspection activity. Values are updated atomically; read
// them through Inspector.Stats.
type Stats struct {
	Inspected uint64 // URIs handed to InspectURI
	Decoded   uint64 // URIs changed by percent-decoding
	TokenHits uint64 // URIs that passed the literal prefilter
	RuleHits  uint64 // individual rule matches
}

// Finding is one rule hit on a decoded URI.
type Finding struct {
	Rule    string
	Match   *relite.Match
	Decoded []byte
}

// Inspector applies a fixed Config to URIs. It is safe for concurrent use.
type Inspector struct {
	cfg     Config
	matcher *relite.Matcher
	filter  *search.Tool
	stats   Stats
}

// New validates cfg and builds its prefilter.
func New(cfg Config) (*Inspector, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("inspect: no rules configured")
	}
	for _, r := range cfg.Rules {
		if r.Name == "" || r.Pattern == "" {
			return nil, fmt.Errorf("inspect: rule %+v needs a name and a pattern", r)
		}
	}

	in := &Inspector{cfg: cfg, matcher: relite.New()}
	if cfg.MatchTimeout > 0 {
		in.matcher.MatchTimeout = cfg.MatchTimeout
	}
	if len(cfg.PrefilterTokens) > 0 {
		filter, err := search.New(cfg.PrefilterTokens, false)
		if err != nil {
			return nil, fmt.Errorf("inspect: %w", err)
		}
		in.filter = filter
	}
	return in, nil
}

// InspectURI decodes uri and applies the configured rules to the decoded
// bytes. A URI that matches no rule yields (nil, nil); pattern and timeout
// failures abort with an error.
func (in *Inspector) InspectURI(uri []byte) ([]Finding, error) {
	atomic.AddUint64(&in.stats.Inspected, 1)

	decoded := urlnorm.Decode(uri)
	if len(decoded) != len(uri) {
		atomic.AddUint64(&in.stats.Decoded, 1)
	}

	if in.filter != nil {
		if !in.filter.Contains(decoded) {
			return nil, nil
		}
		atomic.AddUint64(&in.stats.TokenHits, 1)
	}

	opt := relite.Options(0)
	if in.cfg.IgnoreCase {
		opt |= relite.IgnoreCase
	}

	var findings []Finding
	for _, rule := range in.cfg.Rules {
		var caps []relite.Capture
		if in.cfg.MaxCaptures > 0 {
			caps = make([]relite.Capture, in.cfg.MaxCaptures)
		}
		m, err := in.matcher.FindWithCaptures(rule.Pattern, decoded, caps, opt)
		if err != nil {
			return nil, fmt.Errorf("inspect: rule %q: %w", rule.Name, err)
		}
		if m == nil {
			continue
		}
		atomic.AddUint64(&in.stats.RuleHits, 1)
		findings = append(findings, Finding{Rule: rule.Name, Match: m, Decoded: decoded})
	}
	return findings, nil
}

// Stats returns a snapshot of the inspection counters.
func (in *Inspector) Stats() Stats {
	return Stats{
		Inspected: atomic.LoadUint64(&in.stats.Inspected),
		Decoded:   atomic.LoadUint64(&in.stats.Decoded),
		TokenHits: atomic.LoadUint64(&in.stats.TokenHits),
		RuleHits:  atomic.LoadUint64(&in.stats.RuleHits),
	}
}
