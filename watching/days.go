package watching

import (
	"fmt"

	"moltonf-server/story"
)

// WatchableDay una giornata consultabile, con l'etichetta da mostrare
type WatchableDay struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

// WatchableDays elenca le giornate della cronaca con le loro etichette.
// Day è l'indice del periodo, non l'attributo day dell'archivio.
func WatchableDays(s *story.Story) []WatchableDay {
	if s == nil {
		return nil
	}
	days := make([]WatchableDay, 0, len(s.Periods))
	for ix, period := range s.Periods {
		var label string
		switch period.Type {
		case story.PeriodPrologue:
			label = "プロローグ"
		case story.PeriodEpilogue:
			label = "エピローグ"
		default:
			label = fmt.Sprintf("%d日目", ix)
		}
		days = append(days, WatchableDay{Day: ix, Label: label})
	}
	return days
}
