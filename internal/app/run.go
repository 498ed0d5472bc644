package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gookit/color"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/deck"
	"github.com/vk/keydeck/internal/export"
	"github.com/vk/keydeck/internal/query"
	"github.com/vk/keydeck/internal/shell"
)

// ErrNoMatch is returned when a -keyword/-where lookup finds no card.
var ErrNoMatch = errors.New("no matching card")

// Run loads the deck and performs the configured actions in order: card
// lookup, export, summary, shell.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "deck", a.config.DeckPath)
	a.logger.Debug("App.Run method started.", "deck", a.config.DeckPath)

	start := time.Now()
	warnings := &deck.Collector{}
	d, err := deck.Open(ctx, a.config.DeckPath, a.table,
		deck.WithCommentMarker(a.config.CommentMarker),
		deck.WithKeywordMarker(a.config.KeywordMarker),
		deck.WithReporter(deck.Multi(deck.LogReporter{}, warnings)),
	)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	elapsed := time.Since(start)
	diags := warnings.Diagnostics()
	a.logger.Info("Deck loaded.", "cards", d.Len(), "keywords", len(d.Keywords()), "diagnostics", len(diags), "duration", elapsed)

	if a.config.Keyword != "" {
		if err := a.lookup(d); err != nil {
			return err
		}
	}
	if a.config.Export != "" {
		if err := a.export(ctx, d); err != nil {
			return err
		}
	}
	if a.config.Summary || !a.config.hasAction() {
		a.summary(d, len(diags), elapsed)
	}
	if a.config.Shell {
		sh := shell.New(d, a.table, a.outW,
			shell.WithColor(color.SupportColor()),
			shell.WithHistory(a.config.HistoryPath),
		)
		if err := sh.Run(ctx); err != nil {
			return fmt.Errorf("shell failed: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// lookup prints every card under the keyword, or the first card matching
// the -where conditions.
func (a *App) lookup(d *deck.Deck) error {
	q := query.Query{Keyword: strings.ToUpper(a.config.Keyword)}
	for _, w := range a.config.Where {
		c, err := query.ParseCondition(w)
		if err != nil {
			return err
		}
		q.Where = append(q.Where, c)
	}

	if len(q.Where) == 0 {
		for _, c := range d.Cards(q.Keyword) {
			fmt.Fprintln(a.outW, c)
		}
		return nil
	}

	preds, err := q.Predicates(a.table)
	if err != nil {
		return err
	}
	c, ok := d.FirstMatching(q.Keyword, preds)
	if !ok {
		return fmt.Errorf("%w for %s", ErrNoMatch, q)
	}
	fmt.Fprintln(a.outW, c)
	return nil
}

func (a *App) export(ctx context.Context, d *deck.Deck) (err error) {
	w := a.outW
	if a.config.OutPath != "" {
		fh, err := os.Create(a.config.OutPath)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() {
			if cerr := fh.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = fh
	}
	if err := export.Write(w, d, export.Format(a.config.Export)); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Deck exported.", "format", a.config.Export, "out", a.config.OutPath)
	return nil
}

// summary prints card counts per keyword, the size of the lookup tables and
// the number of diagnostics raised while parsing.
func (a *App) summary(d *deck.Deck, diagnostics int, elapsed time.Duration) {
	fmt.Fprintf(a.outW, "Deck %s: %d cards under %d keywords, parsed in %s.\n\n",
		a.config.DeckPath, d.Len(), len(d.Keywords()), elapsed.Round(time.Microsecond))

	tw := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tCARDS")
	for _, kw := range d.Keywords() {
		fmt.Fprintf(tw, "%s\t%d\n", kw, len(d.Cards(kw)))
	}
	_ = tw.Flush()

	fmt.Fprintf(a.outW, "\nnodes: %d, node sets: %d, extra node sets: %d\n",
		len(d.Nodes()), len(d.NodeSets()), len(d.ExtraNodeSets()))
	fmt.Fprintf(a.outW, "warnings: %d\n", diagnostics)
}
