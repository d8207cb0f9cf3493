// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package questionnaire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

// ErrInputClosed is returned when the input ends before the questionnaire
// is complete.
var ErrInputClosed = errors.New("questionnaire input closed")

// likertLabels are the prompts for each audio attribute, in asking order.
var likertLabels = []struct {
	attr  string
	label string
}{
	{catalog.AttrEnergy, "Énergie (calme → intense)"},
	{catalog.AttrValence, "Positivité (sombre → joyeux)"},
	{catalog.AttrDanceability, "Dansabilité"},
	{catalog.AttrAcousticness, "Son acoustique"},
	{catalog.AttrInstrumentalness, "Morceaux instrumentaux"},
	{catalog.AttrTempo, "Tempo (lent → rapide)"},
}

// Collector runs the questionnaire on a line-oriented console.
type Collector struct {
	in  *bufio.Reader
	out io.Writer

	title lipgloss.Style
	hint  lipgloss.Style
	warn  lipgloss.Style
}

// NewCollector creates a collector reading answers from in and writing
// prompts to out.
func NewCollector(in io.Reader, out io.Writer) *Collector {
	r := lipgloss.NewRenderer(out)
	return &Collector{
		in:    bufio.NewReader(in),
		out:   out,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C7A7B")),
		hint:  r.NewStyle().Faint(true).Italic(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#FF005F")),
	}
}

// Collect asks every question in order and returns normalized answers.
// At least one of mood and preferences is required; the collector asks again
// until one is given.
func (c *Collector) Collect(ctx context.Context) (Answers, error) {
	var a Answers

	for {
		if err := ctx.Err(); err != nil {
			return Answers{}, err
		}
		c.section("Mood actuel")
		mood, err := c.Ask("Mood actuel ou mood désiré (ex: motivé, chill, concentré, triste, soirée…)")
		if err != nil {
			return Answers{}, err
		}
		c.section("Tes goûts musicaux")
		prefs, err := c.Ask("Artistes, chansons, ambiances ou types de sons que tu apprécies")
		if err != nil {
			return Answers{}, err
		}
		if mood != "" || prefs != "" {
			a.Mood, a.Preferences = mood, prefs
			break
		}
		c.warnf("Merci de renseigner au minimum votre mood ou vos goûts musicaux.")
	}

	c.section("Genres préférés")
	genres, err := c.askGenres()
	if err != nil {
		return Answers{}, err
	}
	a.Genres = genres

	c.section("Infos complémentaires")
	a.Extra, err = c.Ask("Moments où tu écoutes de la musique (sport, travail, soirée…), instruments aimés, BPM préféré…")
	if err != nil {
		return Answers{}, err
	}

	c.section("Préférences audio")
	c.hintf("De 1 (pas du tout) à 5 (beaucoup). Entrée pour passer.")
	a.Likert = make(map[string]int, len(likertLabels))
	for _, q := range likertLabels {
		if err := ctx.Err(); err != nil {
			return Answers{}, err
		}
		v, ok, err := c.askScale(q.label, MinLikert, MaxLikert)
		if err != nil {
			return Answers{}, err
		}
		if ok {
			a.Likert[q.attr] = v
		}
	}

	c.section("Ouverture à la découverte")
	openness, ok, err := c.askScale(
		fmt.Sprintf("1 = mes goûts connus, 5 = surprends-moi (défaut %d)", DefaultOpenness),
		MinOpenness, MaxOpenness)
	if err != nil {
		return Answers{}, err
	}
	if ok {
		a.Openness = openness
	}

	a.Normalize()
	return a, nil
}

// Ask prints prompt and returns the trimmed answer line.
func (c *Collector) Ask(prompt string) (string, error) {
	fmt.Fprintf(c.out, "%s\n> ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. "o", "oui", "y" and "yes" mean yes; any
// other answer, or a closed input, means no.
func (c *Collector) Confirm(prompt string) bool {
	answer, err := c.Ask(prompt + " (o/n)")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "o", "oui", "y", "yes":
		return true
	default:
		return false
	}
}

// askGenres accepts numbers from the displayed list or genre names,
// separated by commas. Unrecognized entries are reported and skipped.
func (c *Collector) askGenres() ([]string, error) {
	for i, g := range KnownGenres {
		fmt.Fprintf(c.out, "  %2d. %s\n", i+1, g)
	}
	answer, err := c.Ask("Numéros ou noms séparés par des virgules (Entrée pour passer)")
	if err != nil {
		return nil, err
	}

	var genres []string
	for _, field := range strings.Split(answer, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if n, err := strconv.Atoi(field); err == nil {
			if n >= 1 && n <= len(KnownGenres) {
				genres = append(genres, KnownGenres[n-1])
				continue
			}
		} else if g, ok := CanonicalGenre(field); ok {
			genres = append(genres, g)
			continue
		}
		c.warnf("Genre inconnu ignoré : %s", field)
	}
	return genres, nil
}

// askScale reads an integer in [lo, hi], asking again on invalid input. An
// empty answer skips the question.
func (c *Collector) askScale(label string, lo, hi int) (value int, ok bool, err error) {
	for {
		answer, err := c.Ask(label)
		if err != nil {
			return 0, false, err
		}
		if answer == "" {
			return 0, false, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= lo && n <= hi {
			return n, true, nil
		}
		c.warnf("Entrez un nombre entre %d et %d.", lo, hi)
	}
}

func (c *Collector) section(name string) {
	fmt.Fprintf(c.out, "\n%s\n", c.title.Render(name))
}

func (c *Collector) hintf(format string, args ...any) {
	fmt.Fprintln(c.out, c.hint.Render(fmt.Sprintf(format, args...)))
}

func (c *Collector) warnf(format string, args ...any) {
	fmt.Fprintln(c.out, c.warn.Render(fmt.Sprintf(format, args...)))
}
