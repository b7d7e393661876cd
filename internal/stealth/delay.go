package stealth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// DelayProfile names how patiently the scraper moves between listing pages.
type DelayProfile string

const (
	ProfileCautious   DelayProfile = "cautious"
	ProfileNormal     DelayProfile = "normal"
	ProfileAggressive DelayProfile = "aggressive"
	ProfileOff        DelayProfile = "off"
)

// ParseDelayProfile accepts a profile name in any case. Empty means normal.
func ParseDelayProfile(s string) (DelayProfile, error) {
	switch p := DelayProfile(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProfileNormal, nil
	case ProfileCautious, ProfileNormal, ProfileAggressive, ProfileOff:
		return p, nil
	default:
		return "", fmt.Errorf("unknown delay profile %q", s)
	}
}

// HumanDelay adds randomized jitter between page visits.
type HumanDelay struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewHumanDelay creates a delay generator for the given profile.
func NewHumanDelay(profile DelayProfile) *HumanDelay {
	switch profile {
	case ProfileCautious:
		return &HumanDelay{MinDelay: 3 * time.Second, MaxDelay: 8 * time.Second}
	case ProfileAggressive:
		return &HumanDelay{MinDelay: 200 * time.Millisecond, MaxDelay: 800 * time.Millisecond}
	case ProfileOff:
		return &HumanDelay{}
	default:
		return &HumanDelay{MinDelay: 1 * time.Second, MaxDelay: 3 * time.Second}
	}
}

// Next returns a random delay within the configured range.
func (h *HumanDelay) Next() time.Duration {
	return h.randomBetween(h.MinDelay, h.MaxDelay)
}

func (h *HumanDelay) randomBetween(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)))
}

// Sleep waits for d unless ctx is done first. Non-positive d returns at once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
