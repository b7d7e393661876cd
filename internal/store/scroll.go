package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lukman83/offerscrap/internal/platform"
)

// ScrollOptions tunes the lazy-load scroll loop.
type ScrollOptions struct {
	// Fraction of the viewport height scrolled per round.
	Fraction float64
	// Settle is the pause after each scroll before recounting.
	Settle time.Duration
	// StableRounds is how many consecutive unchanged counts end the loop.
	StableRounds int
	// MaxRounds bounds the loop on pages that never stop growing.
	MaxRounds int
}

func DefaultScrollOptions() ScrollOptions {
	return ScrollOptions{
		Fraction:     1.2,
		Settle:       450 * time.Millisecond,
		StableRounds: 6,
		MaxRounds:    60,
	}
}

func (o ScrollOptions) withDefaults() ScrollOptions {
	d := DefaultScrollOptions()
	if o.Fraction <= 0 {
		o.Fraction = d.Fraction
	}
	if o.Settle < 0 {
		o.Settle = d.Settle
	}
	if o.StableRounds <= 0 {
		o.StableRounds = d.StableRounds
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = d.MaxRounds
	}
	return o
}

const countCardsJS = `(sel) => document.querySelectorAll(sel).length`

// ScrollUntilStable scrolls until the number of elements matching
// cardSelector stays the same for StableRounds consecutive rounds, or
// MaxRounds is reached. It returns the last observed count.
func ScrollUntilStable(ctx context.Context, page platform.Page, cardSelector string, opts ScrollOptions) (int, error) {
	opts = opts.withDefaults()

	last, err := countCards(ctx, page, cardSelector)
	if err != nil {
		return 0, err
	}

	stable := 0
	for round := 0; round < opts.MaxRounds; round++ {
		if err := page.ScrollByViewport(ctx, opts.Fraction); err != nil {
			return last, fmt.Errorf("scroll: %w", err)
		}
		if err := page.Delay(ctx, opts.Settle); err != nil {
			return last, err
		}
		n, err := countCards(ctx, page, cardSelector)
		if err != nil {
			return last, err
		}
		if n == last {
			stable++
			if stable >= opts.StableRounds {
				return n, nil
			}
			continue
		}
		stable = 0
		last = n
	}
	return last, nil
}

// ScrollFixed scrolls a fixed number of steps without looking at the page.
func ScrollFixed(ctx context.Context, page platform.Page, steps int, fraction float64, settle time.Duration) error {
	for i := 0; i < steps; i++ {
		if err := page.ScrollByViewport(ctx, fraction); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		if err := page.Delay(ctx, settle); err != nil {
			return err
		}
	}
	return nil
}

func countCards(ctx context.Context, page platform.Page, sel string) (int, error) {
	res, err := page.Eval(ctx, countCardsJS, sel)
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return int(res.Int()), nil
}
