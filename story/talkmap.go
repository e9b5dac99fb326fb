package story

import "fmt"

// TalkWithDay un discorso insieme al giorno del periodo che lo contiene
type TalkWithDay struct {
	Talk *Talk
	Day  int
}

// TalkMap indicizza i discorsi di una cronaca per numero progressivo
// e per istante di pubblicazione
type TalkMap interface {
	// TalkByNo cerca un discorso pubblico per numero progressivo
	TalkByNo(talkNo int) (TalkWithDay, bool)
	// TalksByTime restituisce i discorsi di un giorno a una data ora e minuto
	TalksByTime(day, hour, minute int) []*Talk
}

type talkMap struct {
	byNo   map[int]TalkWithDay
	byTime map[string][]*Talk
}

func timeKey(day, hour, minute int) string {
	return fmt.Sprintf("%d-%d-%d", day, hour, minute)
}

// NewTalkMap costruisce gli indici dei discorsi di una cronaca
func NewTalkMap(s *Story) TalkMap {
	tm := &talkMap{
		byNo:   make(map[int]TalkWithDay),
		byTime: make(map[string][]*Talk),
	}
	for _, period := range s.Periods {
		for _, element := range period.Elements {
			talk, ok := element.(*Talk)
			if !ok {
				continue
			}
			if talk.TalkNo > 0 {
				tm.byNo[talk.TalkNo] = TalkWithDay{Talk: talk, Day: period.Day}
			}
			tp := TimePartFromMilliseconds(talk.Time)
			key := timeKey(period.Day, tp.Hour, tp.Minute)
			tm.byTime[key] = append(tm.byTime[key], talk)
		}
	}
	return tm
}

func (tm *talkMap) TalkByNo(talkNo int) (TalkWithDay, bool) {
	twd, ok := tm.byNo[talkNo]
	return twd, ok
}

func (tm *talkMap) TalksByTime(day, hour, minute int) []*Talk {
	return tm.byTime[timeKey(day, hour, minute)]
}

type nullTalkMap struct{}

// NullTalkMap è un TalkMap vuoto, utile quando non c'è una cronaca caricata
func NullTalkMap() TalkMap { return nullTalkMap{} }

func (nullTalkMap) TalkByNo(int) (TalkWithDay, bool)  { return TalkWithDay{}, false }
func (nullTalkMap) TalksByTime(int, int, int) []*Talk { return nil }
