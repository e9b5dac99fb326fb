package story

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// InvalidArchiveError segnala un archivio malformato o incompleto
type InvalidArchiveError struct {
	Reason string
}

func (e *InvalidArchiveError) Error() string {
	return "archivio non valido: " + e.Reason
}

// hh ':' mm ':' ss ('.' s+)? -- vedi http://www.w3.org/TR/xmlschema-2/#dateTime
var timeRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?`)

// ParseArchive parsa il testo XML di un archivio e restituisce la Story.
// Il primo vincolo violato interrompe il parsing: non vengono mai
// restituite Story parziali.
func ParseArchive(xmlText string) (*Story, error) {
	root, err := buildNodeTree(xmlText)
	if err != nil {
		return nil, err
	}

	p := &archiveParser{}
	return p.parseVillage(root)
}

// ParseArchiveFile legge un archivio da file e lo parsa
func ParseArchiveFile(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("errore lettura archivio: %w", err)
	}
	return ParseArchive(string(data))
}

// ============================================
// Albero XML
// ============================================

// xmlNode è un elemento con attributi, figli e contenuto misto
// in ordine documentale
type xmlNode struct {
	name  string
	attrs []xml.Attr
	elems []*xmlNode
	parts []xmlPart
}

// xmlPart è un frammento di contenuto misto: testo oppure elemento figlio
type xmlPart struct {
	text string
	elem *xmlNode
}

func buildNodeTree(xmlText string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))

	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InvalidArchiveError{Reason: fmt.Sprintf("XML malformato: %v", err)}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{
				name:  t.Name.Local,
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.elems = append(parent.elems, node)
				parent.parts = append(parent.parts, xmlPart{elem: node})
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.parts = append(cur.parts, xmlPart{text: string(t)})
			}
		}
	}

	if root == nil {
		return nil, &InvalidArchiveError{Reason: "documento senza elemento radice"}
	}
	return root, nil
}

// attr restituisce il valore di un attributo senza namespace
func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// baseAttr restituisce l'attributo xml:base
func (n *xmlNode) baseAttr() (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == "base" &&
			(a.Name.Space == "xml" || a.Name.Space == "http://www.w3.org/XML/1998/namespace") {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) firstChild(name string) *xmlNode {
	for _, child := range n.elems {
		if child.name == name {
			return child
		}
	}
	return nil
}

func (n *xmlNode) children(name string) []*xmlNode {
	var result []*xmlNode
	for _, child := range n.elems {
		if child.name == name {
			result = append(result, child)
		}
	}
	return result
}

// ============================================
// Parser dell'archivio
// ============================================

// archiveParser mantiene lo stato del parsing di un archivio
type archiveParser struct {
	day             int
	elementIndex    int
	elementID       string
	publicTalkCount int
}

func (p *archiveParser) requireAttr(n *xmlNode, name string) (string, error) {
	value, ok := n.attr(name)
	if !ok {
		return "", &InvalidArchiveError{Reason: fmt.Sprintf("attributo %q mancante nell'elemento %q", name, n.name)}
	}
	return value, nil
}

func (p *archiveParser) requireChild(n *xmlNode, name string) (*xmlNode, error) {
	child := n.firstChild(name)
	if child == nil {
		return nil, &InvalidArchiveError{Reason: fmt.Sprintf("elemento figlio %q mancante nell'elemento %q", name, n.name)}
	}
	return child, nil
}

func (p *archiveParser) requireIntAttr(n *xmlNode, name string) (int, error) {
	raw, err := p.requireAttr(n, name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InvalidArchiveError{Reason: fmt.Sprintf("valore numerico non valido %q per l'attributo %q", raw, name)}
	}
	return value, nil
}

// parseTime converte un orario "HH:MM:SS(.frazione)?" in millisecondi
func (p *archiveParser) parseTime(timeString string) (int, error) {
	match := timeRegex.FindStringSubmatch(timeString)
	if match == nil {
		return 0, &InvalidArchiveError{Reason: fmt.Sprintf("orario non valido %q", timeString)}
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	second, _ := strconv.Atoi(match[3])
	millisecond := 0
	if match[4] != "" {
		// La frazione è in millesimi: oltre la terza cifra non conta
		fraction := match[4]
		if len(fraction) > 3 {
			fraction = fraction[:3]
		}
		millisecond, _ = strconv.Atoi(fraction)
	}

	return TimePart{
		Hour:        hour,
		Minute:      minute,
		Second:      second,
		Millisecond: millisecond,
	}.Milliseconds(), nil
}

func (p *archiveParser) parseBoolean(booleanString string) (bool, error) {
	switch booleanString {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, &InvalidArchiveError{Reason: fmt.Sprintf("valore booleano non valido %q", booleanString)}
	}
}

func (p *archiveParser) parseVillage(villageElem *xmlNode) (*Story, error) {
	villageFullName, err := p.requireAttr(villageElem, "fullName")
	if err != nil {
		return nil, err
	}
	baseURI, ok := villageElem.baseAttr()
	if !ok {
		return nil, &InvalidArchiveError{Reason: fmt.Sprintf("attributo %q mancante nell'elemento %q", "xml:base", villageElem.name)}
	}
	graveIconURI, err := p.requireAttr(villageElem, "graveIconURI")
	if err != nil {
		return nil, err
	}
	landID, _ := villageElem.attr("landId")

	avatarListElem, err := p.requireChild(villageElem, "avatarList")
	if err != nil {
		return nil, err
	}
	avatarList, err := p.parseAvatarList(avatarListElem)
	if err != nil {
		return nil, err
	}

	var periods []*Period
	for _, periodElem := range villageElem.children("period") {
		period, err := p.parsePeriod(periodElem)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return &Story{
		VillageFullName: villageFullName,
		BaseURI:         baseURI,
		LandID:          landID,
		GraveIconURI:    graveIconURI,
		AvatarList:      avatarList,
		Periods:         periods,
	}, nil
}

func (p *archiveParser) parseAvatarList(avatarListElem *xmlNode) ([]*Avatar, error) {
	var avatars []*Avatar
	for _, avatarElem := range avatarListElem.children("avatar") {
		avatarID, err := p.requireAttr(avatarElem, "avatarId")
		if err != nil {
			return nil, err
		}
		fullName, err := p.requireAttr(avatarElem, "fullName")
		if err != nil {
			return nil, err
		}
		shortName, err := p.requireAttr(avatarElem, "shortName")
		if err != nil {
			return nil, err
		}
		faceIconURI, _ := avatarElem.attr("faceIconURI")

		avatars = append(avatars, &Avatar{
			AvatarID:    avatarID,
			FullName:    fullName,
			ShortName:   shortName,
			FaceIconURI: faceIconURI,
		})
	}
	return avatars, nil
}

func (p *archiveParser) parsePeriod(periodElem *xmlNode) (*Period, error) {
	periodType, err := p.requireAttr(periodElem, "type")
	if err != nil {
		return nil, err
	}
	day, err := p.requireIntAttr(periodElem, "day")
	if err != nil {
		return nil, err
	}

	p.day = day
	p.elementIndex = 0

	var elements []Element
	for _, child := range periodElem.elems {
		element, err := p.parseElement(child)
		if err != nil {
			return nil, err
		}
		if element != nil {
			elements = append(elements, element)
			p.elementIndex++
		}
	}

	return &Period{
		Type:     PeriodType(periodType),
		Day:      day,
		Elements: elements,
	}, nil
}

// parseElement smista un figlio di period sul parser giusto.
// I tag sconosciuti vengono ignorati senza consumare un indice.
func (p *archiveParser) parseElement(elem *xmlNode) (Element, error) {
	p.elementID = fmt.Sprintf("%d/%d", p.day, p.elementIndex)

	switch elem.name {
	case "talk":
		return p.parseTalk(elem)

	// famiglia announce
	case "startEntry":
		return &StartEntry{EventBase: p.eventBase(elem, FamilyAnnounce, NameStartEntry)}, nil
	case "onStage":
		return p.parseOnStage(elem)
	case "startMirror":
		return &StartMirror{EventBase: p.eventBase(elem, FamilyAnnounce, NameStartMirror)}, nil
	case "openRole":
		return p.parseOpenRole(elem)
	case "murdered":
		return p.parseMurdered(elem)
	case "startAssault":
		return &StartAssault{EventBase: p.eventBase(elem, FamilyAnnounce, NameStartAssault)}, nil
	case "survivor":
		return p.parseSurvivor(elem)
	case "counting":
		return p.parseCounting(elem)
	case "suddenDeath":
		return p.parseSuddenDeath(elem)
	case "noMurder":
		return &NoMurder{EventBase: p.eventBase(elem, FamilyAnnounce, NameNoMurder)}, nil
	case "winVillage":
		return &WinVillage{EventBase: p.eventBase(elem, FamilyAnnounce, NameWinVillage)}, nil
	case "winWolf":
		return &WinWolf{EventBase: p.eventBase(elem, FamilyAnnounce, NameWinWolf)}, nil
	case "winHamster":
		return &WinHamster{EventBase: p.eventBase(elem, FamilyAnnounce, NameWinHamster)}, nil
	case "playerList":
		return p.parsePlayerList(elem)
	case "panic":
		return &Panic{EventBase: p.eventBase(elem, FamilyAnnounce, NamePanic)}, nil
	case "execution":
		return p.parseExecution(elem)
	case "vanish":
		return p.parseVanish(elem)
	case "checkout":
		return p.parseCheckout(elem)
	case "shortMember":
		return &ShortMember{EventBase: p.eventBase(elem, FamilyAnnounce, NameShortMember)}, nil

	// famiglia order
	case "askEntry":
		return &AskEntry{EventBase: p.eventBase(elem, FamilyOrder, NameAskEntry)}, nil
	case "askCommit":
		return &AskCommit{EventBase: p.eventBase(elem, FamilyOrder, NameAskCommit)}, nil
	case "noComment":
		return &NoComment{EventBase: p.eventBase(elem, FamilyOrder, NameNoComment)}, nil
	case "stayEpilogue":
		return &StayEpilogue{EventBase: p.eventBase(elem, FamilyOrder, NameStayEpilogue)}, nil
	case "gameOver":
		return &GameOver{EventBase: p.eventBase(elem, FamilyOrder, NameGameOver)}, nil

	// famiglia extra
	case "judge":
		return p.parseJudge(elem)
	case "guard":
		return p.parseGuard(elem)
	case "counting2":
		return p.parseCounting2(elem)
	case "assault":
		return p.parseAssault(elem)

	default:
		return nil, nil
	}
}

func (p *archiveParser) eventBase(elem *xmlNode, family EventFamily, name EventName) EventBase {
	return EventBase{
		ID:           p.elementID,
		Family:       family,
		Name:         name,
		MessageLines: p.parseMessageLines(elem),
	}
}

// parseMessageLines raccoglie il testo dei figli li
func (p *archiveParser) parseMessageLines(parentElem *xmlNode) []string {
	var lines []string
	for _, child := range parentElem.elems {
		if child.name == "li" {
			lines = append(lines, p.parseLi(child))
		}
	}
	return lines
}

// parseLi concatena i nodi testo diretti e il contenuto degli
// elementi rawdata annidati, in ordine documentale
func (p *archiveParser) parseLi(liElem *xmlNode) string {
	var builder strings.Builder
	for _, part := range liElem.parts {
		if part.elem != nil {
			if part.elem.name == "rawdata" {
				for _, inner := range part.elem.parts {
					if inner.elem == nil {
						builder.WriteString(inner.text)
					}
				}
			}
		} else {
			builder.WriteString(part.text)
		}
	}
	return builder.String()
}

func (p *archiveParser) parseAvatarRefs(parentElem *xmlNode) ([]string, error) {
	var avatarIDs []string
	for _, child := range parentElem.elems {
		if child.name == "avatarRef" {
			avatarID, err := p.requireAttr(child, "avatarId")
			if err != nil {
				return nil, err
			}
			avatarIDs = append(avatarIDs, avatarID)
		}
	}
	return avatarIDs, nil
}

func (p *archiveParser) parseVotes(parentElem *xmlNode) (map[string]string, error) {
	votes := make(map[string]string)
	for _, child := range parentElem.elems {
		if child.name == "vote" {
			byWhom, err := p.requireAttr(child, "byWhom")
			if err != nil {
				return nil, err
			}
			target, err := p.requireAttr(child, "target")
			if err != nil {
				return nil, err
			}
			votes[byWhom] = target
		}
	}
	return votes, nil
}

func (p *archiveParser) parseTalk(talkElem *xmlNode) (Element, error) {
	talkType, err := p.requireAttr(talkElem, "type")
	if err != nil {
		return nil, err
	}
	avatarID, err := p.requireAttr(talkElem, "avatarId")
	if err != nil {
		return nil, err
	}
	xname, err := p.requireAttr(talkElem, "xname")
	if err != nil {
		return nil, err
	}
	timeString, err := p.requireAttr(talkElem, "time")
	if err != nil {
		return nil, err
	}
	timeMs, err := p.parseTime(timeString)
	if err != nil {
		return nil, err
	}

	// Solo i discorsi pubblici ricevono un numero progressivo,
	// contato sull'intera cronaca
	talkNo := 0
	if TalkType(talkType) == TalkPublic {
		p.publicTalkCount++
		talkNo = p.publicTalkCount
	}

	return &Talk{
		ID:           p.elementID,
		TalkType:     TalkType(talkType),
		AvatarID:     avatarID,
		XName:        xname,
		Time:         timeMs,
		TalkNo:       talkNo,
		MessageLines: p.parseMessageLines(talkElem),
	}, nil
}

func (p *archiveParser) parseOnStage(elem *xmlNode) (Element, error) {
	entryNo, err := p.requireIntAttr(elem, "entryNo")
	if err != nil {
		return nil, err
	}
	avatarID, err := p.requireAttr(elem, "avatarId")
	if err != nil {
		return nil, err
	}
	return &OnStage{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameOnStage),
		EntryNo:   entryNo,
		AvatarID:  avatarID,
	}, nil
}

func (p *archiveParser) parseOpenRole(elem *xmlNode) (Element, error) {
	roleHeads := make(map[string]int)
	for _, child := range elem.elems {
		if child.name == "roleHeads" {
			role, err := p.requireAttr(child, "role")
			if err != nil {
				return nil, err
			}
			heads, err := p.requireIntAttr(child, "heads")
			if err != nil {
				return nil, err
			}
			roleHeads[role] = heads
		}
	}
	return &OpenRole{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameOpenRole),
		RoleHeads: roleHeads,
	}, nil
}

func (p *archiveParser) parseMurdered(elem *xmlNode) (Element, error) {
	avatarIDs, err := p.parseAvatarRefs(elem)
	if err != nil {
		return nil, err
	}
	return &Murdered{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameMurdered),
		AvatarIDs: avatarIDs,
	}, nil
}

func (p *archiveParser) parseSurvivor(elem *xmlNode) (Element, error) {
	avatarIDs, err := p.parseAvatarRefs(elem)
	if err != nil {
		return nil, err
	}
	return &Survivor{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameSurvivor),
		AvatarIDs: avatarIDs,
	}, nil
}

func (p *archiveParser) parseCounting(elem *xmlNode) (Element, error) {
	// La vittima manca in caso di parità
	victim, _ := elem.attr("victim")
	votes, err := p.parseVotes(elem)
	if err != nil {
		return nil, err
	}
	return &Counting{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameCounting),
		Victim:    victim,
		Votes:     votes,
	}, nil
}

func (p *archiveParser) parseSuddenDeath(elem *xmlNode) (Element, error) {
	avatarID, err := p.requireAttr(elem, "avatarId")
	if err != nil {
		return nil, err
	}
	return &SuddenDeath{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameSuddenDeath),
		AvatarID:  avatarID,
	}, nil
}

func (p *archiveParser) parsePlayerList(elem *xmlNode) (Element, error) {
	var players []*Player
	for _, child := range elem.elems {
		if child.name == "playerInfo" {
			playerID, err := p.requireAttr(child, "playerId")
			if err != nil {
				return nil, err
			}
			avatarID, err := p.requireAttr(child, "avatarId")
			if err != nil {
				return nil, err
			}
			surviveString, err := p.requireAttr(child, "survive")
			if err != nil {
				return nil, err
			}
			survive, err := p.parseBoolean(surviveString)
			if err != nil {
				return nil, err
			}
			role, err := p.requireAttr(child, "role")
			if err != nil {
				return nil, err
			}
			uri, _ := child.attr("uri")

			players = append(players, &Player{
				PlayerID: playerID,
				AvatarID: avatarID,
				Survive:  survive,
				Role:     Role(role),
				URI:      uri,
			})
		}
	}
	return &PlayerList{
		EventBase: p.eventBase(elem, FamilyAnnounce, NamePlayerList),
		Players:   players,
	}, nil
}

func (p *archiveParser) parseExecution(elem *xmlNode) (Element, error) {
	victim, err := p.requireAttr(elem, "victim")
	if err != nil {
		return nil, err
	}
	nominated := make(map[string]int)
	for _, child := range elem.elems {
		if child.name == "nominated" {
			avatarID, err := p.requireAttr(child, "avatarId")
			if err != nil {
				return nil, err
			}
			count, err := p.requireIntAttr(child, "count")
			if err != nil {
				return nil, err
			}
			nominated[avatarID] = count
		}
	}
	return &Execution{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameExecution),
		Victim:    victim,
		Nominated: nominated,
	}, nil
}

func (p *archiveParser) parseVanish(elem *xmlNode) (Element, error) {
	avatarID, err := p.requireAttr(elem, "avatarId")
	if err != nil {
		return nil, err
	}
	return &Vanish{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameVanish),
		AvatarID:  avatarID,
	}, nil
}

func (p *archiveParser) parseCheckout(elem *xmlNode) (Element, error) {
	avatarID, err := p.requireAttr(elem, "avatarId")
	if err != nil {
		return nil, err
	}
	return &Checkout{
		EventBase: p.eventBase(elem, FamilyAnnounce, NameCheckout),
		AvatarID:  avatarID,
	}, nil
}

func (p *archiveParser) parseJudge(elem *xmlNode) (Element, error) {
	byWhom, err := p.requireAttr(elem, "byWhom")
	if err != nil {
		return nil, err
	}
	target, err := p.requireAttr(elem, "target")
	if err != nil {
		return nil, err
	}
	return &Judge{
		EventBase: p.eventBase(elem, FamilyExtra, NameJudge),
		ByWhom:    byWhom,
		Target:    target,
	}, nil
}

func (p *archiveParser) parseGuard(elem *xmlNode) (Element, error) {
	byWhom, err := p.requireAttr(elem, "byWhom")
	if err != nil {
		return nil, err
	}
	target, err := p.requireAttr(elem, "target")
	if err != nil {
		return nil, err
	}
	return &Guard{
		EventBase: p.eventBase(elem, FamilyExtra, NameGuard),
		ByWhom:    byWhom,
		Target:    target,
	}, nil
}

func (p *archiveParser) parseCounting2(elem *xmlNode) (Element, error) {
	votes, err := p.parseVotes(elem)
	if err != nil {
		return nil, err
	}
	return &Counting2{
		EventBase: p.eventBase(elem, FamilyExtra, NameCounting2),
		Votes:     votes,
	}, nil
}

func (p *archiveParser) parseAssault(elem *xmlNode) (Element, error) {
	byWhom, err := p.requireAttr(elem, "byWhom")
	if err != nil {
		return nil, err
	}
	target, err := p.requireAttr(elem, "target")
	if err != nil {
		return nil, err
	}
	xname, err := p.requireAttr(elem, "xname")
	if err != nil {
		return nil, err
	}
	timeString, err := p.requireAttr(elem, "time")
	if err != nil {
		return nil, err
	}
	timeMs, err := p.parseTime(timeString)
	if err != nil {
		return nil, err
	}
	return &Assault{
		EventBase: p.eventBase(elem, FamilyExtra, NameAssault),
		ByWhom:    byWhom,
		Target:    target,
		XName:     xname,
		Time:      timeMs,
	}, nil
}
