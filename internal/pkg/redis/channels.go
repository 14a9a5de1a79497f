package redis

import (
	"fmt"
	"strings"
)

const (
	// ChannelLogsPrefix is the prefix for console log channels.
	ChannelLogsPrefix = "devconsole:logs"
)

// GetLogsChannel returns the channel a backend publishes its log events on.
// An empty scope yields the shared channel.
func GetLogsChannel(scope string) string {
	if scope == "" {
		return ChannelLogsPrefix
	}
	return fmt.Sprintf("%s:%s", ChannelLogsPrefix, scope)
}

// LogsChannels returns the explicit channels followed by the logs channel of
// every non-empty scope, without duplicates. With neither it returns the
// shared logs channel.
func LogsChannels(channels, scopes []string) []string {
	out := make([]string, 0, len(channels)+len(scopes))
	seen := make(map[string]struct{}, len(channels)+len(scopes))
	add := func(ch string) {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			return
		}
		if _, ok := seen[ch]; ok {
			return
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}

	for _, ch := range channels {
		add(ch)
	}
	for _, scope := range scopes {
		if scope = strings.TrimSpace(scope); scope != "" {
			add(GetLogsChannel(scope))
		}
	}

	if len(out) == 0 {
		return []string{GetLogsChannel("")}
	}
	return out
}

// IsPattern reports whether the channel name must be subscribed by pattern.
func IsPattern(channel string) bool {
	return strings.ContainsAny(channel, "*?[")
}
