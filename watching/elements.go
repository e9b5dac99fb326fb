package watching

import (
	"fmt"

	"moltonf-server/land"
	"moltonf-server/story"
)

// Message messaggio sintetizzato per il punto di vista corrente.
// Non esiste nell'archivio: viene generato agganciandolo all'elemento
// che lo provoca.
type Message struct {
	ID           string   `json:"elementId"`
	MessageLines []string `json:"messageLines"`
}

// ElementID restituisce l'id dell'elemento
func (m *Message) ElementID() string { return m.ID }

// CurrentStoryElements calcola gli elementi di una giornata visibili dal
// punto di vista di un personaggio.
//
// dayProgress è il cursore di avanzamento della lettura: nil significa
// che la partita è già stata letta fino in fondo e ogni elemento è
// visibile. currentDay è l'indice del periodo richiesto.
func CurrentStoryElements(
	s *story.Story,
	characterMap *story.CharacterMap,
	playerCharacter string,
	dayProgress *int,
	currentDay int,
) []story.Element {
	// Casi irregolari
	if s == nil {
		return nil
	}
	if currentDay < 0 || currentDay >= len(s.Periods) {
		return nil
	}
	period := s.Periods[currentDay]

	character := characterMap.Get(playerCharacter)
	if character == nil {
		return period.Elements
	}
	if dayProgress != nil && currentDay > *dayProgress {
		return nil
	}

	rules := land.RulesFor(s.LandID)

	var result []story.Element
	for _, element := range period.Elements {
		result = append(result, filterStoryElement(s, characterMap, rules, dayProgress, element, character, currentDay)...)
	}
	return result
}

func filterStoryElement(
	s *story.Story,
	characterMap *story.CharacterMap,
	rules land.Rules,
	dayProgress *int,
	element story.Element,
	character *story.Character,
	currentDay int,
) []story.Element {
	// L'elemento compare solo se visibile (o a lettura conclusa); i
	// messaggi sintetizzati aggiuntivi compaiono comunque
	filter := func(visible bool, extras ...*Message) []story.Element {
		var out []story.Element
		if dayProgress == nil || visible {
			out = append(out, element)
		}
		for _, extra := range extras {
			if extra != nil {
				out = append(out, extra)
			}
		}
		return out
	}

	switch e := element.(type) {
	case *story.Talk:
		switch e.TalkType {
		case story.TalkPublic:
			return filter(true)
		case story.TalkPrivate:
			return filter(e.AvatarID == character.Avatar.AvatarID)
		case story.TalkWolf:
			return filter(isWolfTalkVisible(rules, character))
		case story.TalkGrave:
			return filter(character.AliveUntil < currentDay)
		default:
			return []story.Element{element}
		}

	case *story.StartMirror:
		return filter(true, playerCharacterMessage(e.ID, character, characterMap))
	case *story.SuddenDeath:
		return filter(true, informedMessage(e.ID, currentDay, characterMap, character, e.AvatarID))
	case *story.Counting:
		return filter(true, informedMessage(e.ID, currentDay, characterMap, character, e.Victim))
	case *story.Execution:
		return filter(true, informedMessage(e.ID, currentDay, characterMap, character, e.Victim))
	case *story.Judge:
		return filter(
			character.Role == story.RoleSeer,
			judgeMessage(e.ID, rules, currentDay, characterMap, character, e.Target),
		)
	case *story.Guard:
		return filter(character.Role == story.RoleHunter)
	case *story.Counting2:
		return filter(false)
	case *story.Assault:
		return filter(
			character.Role == story.RoleWolf,
			guardedMessage(e.ID, s, rules, currentDay, characterMap, character, e.Target),
		)

	default:
		return []story.Element{element}
	}
}

func isWolfTalkVisible(rules land.Rules, character *story.Character) bool {
	return character.Role == story.RoleWolf ||
		(rules.MadmanHearsWolves() && character.Role == story.RoleMadman)
}

// TalkVisibility costruisce il predicato di visibilità dei discorsi usato
// per risolvere i riferimenti incrociati nei messaggi
func TalkVisibility(
	s *story.Story,
	characterMap *story.CharacterMap,
	playerCharacter string,
	dayProgress *int,
) func(story.TalkWithDay) bool {
	character := characterMap.Get(playerCharacter)
	rules := land.RulesFor(s.LandID)

	return func(twd story.TalkWithDay) bool {
		if dayProgress != nil && twd.Day > *dayProgress {
			return false
		}
		if character == nil || dayProgress == nil {
			return true
		}
		switch twd.Talk.TalkType {
		case story.TalkPublic:
			return true
		case story.TalkPrivate:
			return twd.Talk.AvatarID == character.Avatar.AvatarID
		case story.TalkWolf:
			return isWolfTalkVisible(rules, character)
		case story.TalkGrave:
			return character.AliveUntil < twd.Day
		default:
			return true
		}
	}
}

// playerCharacterMessage descrive al giocatore il proprio ruolo
// all'inizio della partita
func playerCharacterMessage(idBase string, character *story.Character, characterMap *story.CharacterMap) *Message {
	fullName := character.Avatar.FullName

	var messageLines []string
	switch character.Role {
	case story.RoleInnocent:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、ただの村人です。しかしあなたの推理力や発言が、村人側の勝利の鍵となるかもしれません。", fullName),
		}
	case story.RoleWolf:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、人狼です。村人を人狼と同数以下まで減らせば勝利です。村人に悟られないように、慎重に邪魔者を排除していきましょう。", fullName),
		}
	case story.RoleSeer:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、占い師です。毎夜、誰かひとりを占うことができます。それにより、相手が人狼か人間かを知ることができます。", fullName),
		}
	case story.RoleShaman:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、霊能者です。処刑によって命を失ったものが、人間であったか人狼であったかを知ることができます。", fullName),
		}
	case story.RoleHunter:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、狩人です。毎夜、ひとりだけを、人狼の襲撃から守ることができます。人狼の行動を読み、村人たちを人狼から守って下さい。", fullName),
		}
	case story.RoleFrater:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、共有者です。もうひとりの共有者が誰であるかを知る事ができます。", fullName),
		}
		var otherFrater *story.Character
		for _, ch := range characterMap.Characters() {
			if ch.Role == story.RoleFrater && ch.Avatar.AvatarID != character.Avatar.AvatarID {
				otherFrater = ch
				break
			}
		}
		if otherFrater != nil {
			messageLines = append(messageLines, "")
			messageLines = append(messageLines, fmt.Sprintf("もうひとりの共有者は、%s です。", otherFrater.Avatar.FullName))
		}
	case story.RoleMadman:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、人狼の繁栄を望む狂人です。人狼の勝利があなたの勝利となります。", fullName),
			"",
			"人狼の勝利のため、存分に議論をかきまわして下さい。",
		}
	case story.RoleHamster:
		messageLines = []string{
			fmt.Sprintf("あなたは %s、ハムスター人間です。人狼に襲撃されても死亡しませんが、占い師に占われると死亡します。", fullName),
			"",
			"人狼の全滅時、もしくは村人の数が人狼の数より少なくなった時に生存していればあなたの勝利になります。",
		}
	}

	return &Message{
		ID:           idBase + "_player-character",
		MessageLines: messageLines,
	}
}

// guardedMessage avvisa il guardiano di aver sventato un attacco
func guardedMessage(
	idBase string,
	s *story.Story,
	rules land.Rules,
	currentDay int,
	characterMap *story.CharacterMap,
	character *story.Character,
	targetID string,
) *Message {
	if character.Role != story.RoleHunter {
		return nil
	}
	if !rules.HunterKnowsGuardResult() {
		return nil
	}
	if character.AliveUntil < currentDay {
		return nil
	}
	if currentDay < 0 || currentDay >= len(s.Periods) {
		return nil
	}
	period := s.Periods[currentDay]

	var guard *story.Guard
	for _, element := range period.Elements {
		if g, ok := element.(*story.Guard); ok && g.ByWhom == character.Avatar.AvatarID {
			guard = g
			break
		}
	}
	if guard == nil {
		return nil
	}

	if guard.Target == targetID {
		if guarded := characterMap.Get(guard.Target); guarded != nil {
			return &Message{
				ID: idBase + "_guarded",
				MessageLines: []string{
					fmt.Sprintf("%s を人狼の襲撃から守った。", guarded.Avatar.FullName),
				},
			}
		}
	}
	return nil
}

// judgeMessage rivela all'indovino l'esito della divinazione
func judgeMessage(
	idBase string,
	rules land.Rules,
	currentDay int,
	characterMap *story.CharacterMap,
	character *story.Character,
	targetID string,
) *Message {
	if character.Role != story.RoleSeer {
		return nil
	}
	if character.AliveUntil < currentDay {
		return nil
	}
	target := characterMap.Get(targetID)
	if target == nil {
		return nil
	}

	var line string
	if target.Role == story.RoleWolf {
		line = rules.WolfJudgeMessage(target.Avatar.FullName)
	} else {
		line = rules.NonWolfJudgeMessage(target.Avatar.FullName)
	}

	return &Message{
		ID:           idBase + "_judgement",
		MessageLines: []string{line},
	}
}

// informedMessage rivela al medium la natura di chi è morto di giorno
func informedMessage(
	idBase string,
	currentDay int,
	characterMap *story.CharacterMap,
	character *story.Character,
	targetID string,
) *Message {
	if targetID == "" {
		return nil
	}
	if currentDay < 3 {
		return nil
	}
	if character.Role != story.RoleShaman {
		return nil
	}
	if character.AliveUntil < currentDay {
		return nil
	}
	target := characterMap.Get(targetID)
	if target == nil {
		return nil
	}

	var line string
	if target.Role == story.RoleWolf {
		line = fmt.Sprintf("%s は人狼だった。", target.Avatar.FullName)
	} else {
		line = fmt.Sprintf("%s は人狼ではなかった。", target.Avatar.FullName)
	}

	return &Message{
		ID:           idBase + "_informed",
		MessageLines: []string{line},
	}
}
