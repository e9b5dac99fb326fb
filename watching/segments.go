package watching

import (
	"regexp"
	"strconv"

	"moltonf-server/story"
)

// SegmentType tipo di un frammento di messaggio
type SegmentType string

const (
	SegmentGeneral    SegmentType = "general"
	SegmentLinkToTalk SegmentType = "linkToTalk"
)

// Segment frammento di una riga di messaggio: testo semplice oppure
// riferimento cliccabile a uno o più discorsi
type Segment struct {
	Type  SegmentType  `json:"type"`
	Text  string       `json:"text"`
	Talks []LinkedTalk `json:"talks,omitempty"`
}

// LinkedTalk discorso referenziato da un frammento, con il suo giorno
type LinkedTalk struct {
	Day  int         `json:"day"`
	Talk *story.Talk `json:"talk"`
}

// SegmentOptions opzioni di ParseMessageSegments
type SegmentOptions struct {
	// CurrentDay giorno da assumere per i riferimenti orari senza giorno
	// esplicito; -1 se non disponibile
	CurrentDay int
	// TalkMap indice dei discorsi; nil disattiva i riferimenti
	TalkMap story.TalkMap
	// IsTalkVisible predicato di visibilità dal punto di vista corrente
	IsTalkVisible func(story.TalkWithDay) bool
}

var (
	anchorRegex = regexp.MustCompile(`^>>([0-9]+)`)
	momentRegex = regexp.MustCompile(`^(([0-9]+)[dD])?([0-9][0-9]):?([0-9][0-9])`)
)

// ParseMessageSegments scandisce una riga di messaggio e ne estrae i
// riferimenti ad altri discorsi: ancore come ">>123" e orari come
// "3d12:34", "12:34" o "1234".
//
// Scansione in un solo passaggio da sinistra a destra, senza retry: un
// riferimento non risolvibile (discorso inesistente o non visibile)
// resta testo semplice. La scansione per byte è sicura perché i punti
// di aggancio sono caratteri ASCII.
func ParseMessageSegments(text string, options SegmentOptions) []Segment {
	var segments []Segment
	begin := 0
	cur := 0

	pushGeneral := func() {
		if begin < cur {
			segments = append(segments, Segment{
				Type: SegmentGeneral,
				Text: text[begin:cur],
			})
			begin = cur
		}
	}

	for cur < len(text) {
		matched := false
		if options.TalkMap != nil && text[cur] == '>' {
			// possibile ancora, es. ">>123"
			if match := anchorRegex.FindStringSubmatch(text[cur:]); match != nil {
				if talkNo, err := strconv.Atoi(match[1]); err == nil {
					if twd, ok := options.TalkMap.TalkByNo(talkNo); ok && options.IsTalkVisible(twd) {
						pushGeneral()
						segments = append(segments, Segment{
							Type:  SegmentLinkToTalk,
							Text:  match[0],
							Talks: []LinkedTalk{{Day: twd.Day, Talk: twd.Talk}},
						})
						cur += len(match[0])
						begin = cur
						matched = true
					}
				}
			}
		} else if options.TalkMap != nil && text[cur] >= '0' && text[cur] <= '9' {
			// possibile riferimento orario, es. "3d12:34", "3d1234", "12:34", "1234"
			if match := momentRegex.FindStringSubmatch(text[cur:]); match != nil {
				hour, _ := strconv.Atoi(match[3])
				minute, _ := strconv.Atoi(match[4])

				// Senza giorno esplicito vale il giorno corrente
				day := options.CurrentDay
				if match[2] != "" {
					day, _ = strconv.Atoi(match[2])
				}
				if day >= 0 {
					var talks []LinkedTalk
					for _, talk := range options.TalkMap.TalksByTime(day, hour, minute) {
						twd := story.TalkWithDay{Talk: talk, Day: day}
						if options.IsTalkVisible(twd) {
							talks = append(talks, LinkedTalk{Day: day, Talk: talk})
						}
					}
					if len(talks) > 0 {
						pushGeneral()
						segments = append(segments, Segment{
							Type:  SegmentLinkToTalk,
							Text:  match[0],
							Talks: talks,
						})
						cur += len(match[0])
						begin = cur
						matched = true
					}
				}
			}
		}

		if !matched {
			cur++
		}
	}
	pushGeneral()
	return segments
}
