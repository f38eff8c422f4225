// Package advisor derives advice and a daily summary from DailyStats.
package advisor

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
)

// Kind classifies an advice item.
type Kind string

const (
	KindPositive   Kind = "positive"
	KindWarning    Kind = "warning"
	KindNeutral    Kind = "neutral"
	KindSuggestion Kind = "suggestion"
	KindInfo       Kind = "info"
)

// Topic names the rule that produced an advice item.
type Topic string

const (
	TopicProductive   Topic = "productive"
	TopicUnproductive Topic = "unproductive"
	TopicBalance      Topic = "balance"
	TopicFocus        Topic = "focus"
	TopicBreaks       Topic = "breaks"
	TopicApps         Topic = "apps"
	TopicWebsites     Topic = "websites"
)

// AdviceItem is one piece of advice.
type AdviceItem struct {
	Kind    Kind   `json:"kind"`
	Topic   Topic  `json:"topic"`
	Message string `json:"message"`
}

// Thresholds used by GenerateAdvice.
const (
	ProductiveRatioHigh = 0.7
	ProductiveRatioLow  = 0.3
	MaxAppsBeforeFocus  = 10
	LongDay             = 8 * time.Hour

	// FallbackTopCategory is reported when no category has any time.
	FallbackTopCategory = "развлечения"
)

var templates = map[Topic][]string{
	TopicProductive: {
		"Отличная работа! Вы провели {time} продуктивного времени.",
		"Вы хорошо сфокусировались на работе - {time} продуктивной активности.",
		"Отличная производительность! Продолжайте в том же духе.",
	},
	TopicUnproductive: {
		"Вы потратили {time} на развлечения. Попробуйте сократить это время.",
		"Слишком много времени на {category}. Рекомендую ограничить до 1-2 часов в день.",
		"Обратите внимание на баланс работы и отдыха.",
	},
	TopicBalance: {
		"Хороший баланс работы и отдыха!",
		"Вы поддерживаете здоровое соотношение продуктивности и расслабления.",
		"Отличный пример сбалансированного дня!",
	},
	TopicFocus: {
		"Вы часто переключались между приложениями. Попробуйте работать блоками по 25-30 минут.",
		"Рекомендую использовать технику Pomodoro для лучшей фокусировки.",
		"Слишком много переключений между задачами. Попробуйте работать над одной задачей за раз.",
	},
	TopicBreaks: {
		"Не забывайте делать перерывы каждые 45-60 минут.",
		"Рекомендую сделать 5-минутный перерыв для глаз.",
		"Хорошая идея встать и размяться!",
	},
}

var placeholderRegex = regexp.MustCompile(`\{(\w+)\}`)

// Source picks template indexes. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Advisor turns DailyStats into advice. It is safe for concurrent use.
type Advisor struct {
	mu  sync.Mutex
	src Source
}

// New returns an Advisor drawing template choices from src.
// A nil src uses a time-seeded PCG generator.
func New(src Source) *Advisor {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Advisor{src: src}
}

func (a *Advisor) pick(topic Topic, params map[string]string) string {
	choices := templates[topic]

	a.mu.Lock()
	i := a.src.IntN(len(choices))
	a.mu.Unlock()

	return fillTemplate(choices[i], params)
}

// fillTemplate replaces {name} placeholders. A missing or empty parameter
// leaves the placeholder as written.
func fillTemplate(tmpl string, params map[string]string) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v := params[key]; v != "" {
			return v
		}
		return m
	})
}

// ProductiveRatio returns productive/total, treating a zero total as 1.
func ProductiveRatio(stats *activity.DailyStats) float64 {
	return float64(stats.ProductiveTimeMs) / float64(max(stats.TotalTimeMs, 1))
}

// GenerateAdvice applies the advice rules in order: exactly one of
// productive/unproductive/balance, then focus, breaks, top apps and top
// websites when they apply.
func (a *Advisor) GenerateAdvice(stats *activity.DailyStats) []AdviceItem {
	items := make([]AdviceItem, 0, 5)

	ratio := ProductiveRatio(stats)
	switch {
	case ratio > ProductiveRatioHigh:
		items = append(items, AdviceItem{
			Kind:  KindPositive,
			Topic: TopicProductive,
			Message: a.pick(TopicProductive, map[string]string{
				"time": FormatDuration(stats.ProductiveTimeMs),
			}),
		})
	case ratio < ProductiveRatioLow:
		items = append(items, AdviceItem{
			Kind:  KindWarning,
			Topic: TopicUnproductive,
			Message: a.pick(TopicUnproductive, map[string]string{
				"time":     FormatDuration(stats.UnproductiveTimeMs),
				"category": TopCategory(stats.Categories),
			}),
		})
	default:
		items = append(items, AdviceItem{
			Kind:    KindNeutral,
			Topic:   TopicBalance,
			Message: a.pick(TopicBalance, nil),
		})
	}

	if len(stats.AppsUsed) > MaxAppsBeforeFocus {
		items = append(items, AdviceItem{
			Kind:    KindSuggestion,
			Topic:   TopicFocus,
			Message: a.pick(TopicFocus, nil),
		})
	}

	if time.Duration(stats.TotalTimeMs)*time.Millisecond > LongDay {
		items = append(items, AdviceItem{
			Kind:    KindWarning,
			Topic:   TopicBreaks,
			Message: a.pick(TopicBreaks, nil),
		})
	}

	if apps := TopEntries(stats.AppsUsed, 3); len(apps) > 0 {
		items = append(items, AdviceItem{
			Kind:    KindInfo,
			Topic:   TopicApps,
			Message: "Больше всего времени вы провели в: " + joinNames(apps),
		})
	}

	if sites := TopEntries(stats.WebsitesVisited, 3); len(sites) > 0 {
		items = append(items, AdviceItem{
			Kind:    KindInfo,
			Topic:   TopicWebsites,
			Message: "Топ сайты: " + joinNames(sites),
		})
	}

	return items
}

// Entry is a named duration from one of the DailyStats maps.
type Entry struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
}

// TopEntries returns up to limit entries ordered by duration descending.
// Equal durations are ordered by name.
func TopEntries[K ~string](m map[K]int64, limit int) []Entry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Name: string(k), DurationMs: v})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.DurationMs, a.DurationMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopCategory returns the category label with the most time, or
// FallbackTopCategory when there are none.
func TopCategory(categories map[activity.Category]int64) string {
	top := TopEntries(categories, 1)
	if len(top) == 0 {
		return FallbackTopCategory
	}
	return top[0].Name
}

func joinNames(entries []Entry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}

// FormatDuration renders milliseconds as "{H}ч {M}м", or "{M}м" under an hour.
// Both parts are floored.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dч %dм", hours, minutes)
	}
	return fmt.Sprintf("%dм", minutes)
}
