package watching

import (
	"moltonf-server/story"
)

// Identificatori usati dai test per ritrovare elementi della cronaca di prova
const (
	fixStartMirror  = "6863C770-DB67-404E-B8CD-4ECFC61550A8"
	fixPrivateTalk  = "0355A0CF-8E2A-4D05-A509-0282533F959D"
	fixJudgeMoritz  = "4C8E1DA3-17A3-4DC8-A04F-C05F1D62677D"
	fixMurderedGerd = "3B5E9928-1EAF-4EEA-B143-F6AA7D76D536"
	fixCountingDay3 = "67772B89-1299-4DF6-99E0-A04179E120C3"
	fixJudgeDieter  = "8AE1DEB4-93CE-45F5-9EF0-05103535728F"
	fixAssaultDay3  = "43AA25F5-5135-4EC0-ADC4-C46A16587D16"
	fixGuardFail    = "BB770850-7822-498D-B528-32CE1949DA08"
	fixWolfTalkDay3 = "F720D764-05CC-4CBD-8ECC-69185C59EAE8"
	fixGraveTalk    = "924463B2-A292-4724-8B8C-74F32BC8B89F"
	fixSuddenDeath  = "2CFE5749-E222-4A49-B45F-A2AF17161FFE"
	fixCountingDay4 = "876FB844-FC38-4280-8A9E-7EBC598CB677"
	fixAssaultDay4  = "999B3138-8A03-41C0-9E61-5005ADC91B11"
	fixGuardGJ      = "12FBA65A-91A3-4E08-A748-974F3509A705"
	fixCounting2    = "53A31D5B-B687-4C36-895B-C5B24F98E53D"
	fixExecution    = "83C058BD-856B-4686-A1D4-9CC076ECA988"
	fixGuardDay5    = "705B0711-D040-48A4-8960-FC29A5C228C7"
)

func fixTime(hour, minute int) int {
	return story.TimePart{Hour: hour, Minute: minute}.Milliseconds()
}

func fixEvent(id string, family story.EventFamily, name story.EventName, lines ...string) story.EventBase {
	return story.EventBase{ID: id, Family: family, Name: name, MessageLines: lines}
}

// fixtureStory costruisce una cronaca di prova di 7 giornate con tutti i
// ruoli. Se deadAvatarID non è vuoto, quel personaggio muore insieme a
// gerd: sparisce dai survivor e risulta morto nel playerList finale.
func fixtureStory(deadAvatarID string) *story.Story {
	s := &story.Story{
		VillageFullName: "F9999 確認の村",
		BaseURI:         "http://ninjin002.x0.com/wolff/",
		LandID:          "wolff",
		GraveIconURI:    "plugin_wolf/img/face99.jpg",
		AvatarList: []*story.Avatar{
			{AvatarID: "gerd", FullName: "楽天家 ゲルト", ShortName: "ゲルト", FaceIconURI: "plugin_wolf/img/face01.jpg"},
			{AvatarID: "peter", FullName: "少年 ペーター", ShortName: "ペーター", FaceIconURI: "plugin_wolf/img/face08.jpg"},
			{AvatarID: "walter", FullName: "村長 ヴァルター", ShortName: "ヴァルター", FaceIconURI: "plugin_wolf/img/face02.jpg"},
			{AvatarID: "nicolas", FullName: "旅人 ニコラス", ShortName: "ニコラス", FaceIconURI: "plugin_wolf/img/face06.jpg"},
			{AvatarID: "liesa", FullName: "少女 リーザ", ShortName: "リーザ", FaceIconURI: "plugin_wolf/img/face09.jpg"},
			{AvatarID: "otto", FullName: "パン屋 オットー", ShortName: "オットー", FaceIconURI: "plugin_wolf/img/face12.jpg"},
			{AvatarID: "katharina", FullName: "羊飼い カタリナ", ShortName: "カタリナ", FaceIconURI: "plugin_wolf/img/face11.jpg"},
			{AvatarID: "moritz", FullName: "老人 モーリッツ", ShortName: "モーリッツ", FaceIconURI: "plugin_wolf/img/face03.jpg"},
			{AvatarID: "joachim", FullName: "青年 ヨアヒム", ShortName: "ヨアヒム", FaceIconURI: "plugin_wolf/img/face13.jpg"},
			{AvatarID: "simson", FullName: "神父 ジムゾン", ShortName: "ジムゾン", FaceIconURI: "plugin_wolf/img/face04.jpg"},
			{AvatarID: "dieter", FullName: "ならず者 ディーター", ShortName: "ディーター", FaceIconURI: "plugin_wolf/img/face07.jpg"},
			{AvatarID: "pamela", FullName: "村娘 パメラ", ShortName: "パメラ", FaceIconURI: "plugin_wolf/img/face14.jpg"},
			{AvatarID: "jacob", FullName: "農夫 ヤコブ", ShortName: "ヤコブ", FaceIconURI: "plugin_wolf/img/face15.jpg"},
			{AvatarID: "albin", FullName: "行商人 アルビン", ShortName: "アルビン", FaceIconURI: "plugin_wolf/img/face10.jpg"},
			{AvatarID: "thomas", FullName: "木こり トーマス", ShortName: "トーマス", FaceIconURI: "plugin_wolf/img/face05.jpg"},
			{AvatarID: "regina", FullName: "宿屋の女主人 レジーナ", ShortName: "レジーナ", FaceIconURI: "plugin_wolf/img/face16.jpg"},
		},
		Periods: []*story.Period{
			{
				Type: story.PeriodPrologue,
				Day:  0,
				Elements: []story.Element{
					&story.StartEntry{EventBase: fixEvent("F7A1FD8A-0832-45DD-8864-5093E81481C8", story.FamilyAnnounce, story.NameStartEntry,
						"昼間は人間のふりをして、夜に正体を現すという人狼。",
						"その人狼が、この村に紛れ込んでいるという噂が広がった。",
						"",
						"村人達は半信半疑ながらも、村はずれの宿に集められることになった。",
					)},
					&story.OnStage{
						EventBase: fixEvent("3E8FBF83-20D3-4139-8112-E48B2A809C89", story.FamilyAnnounce, story.NameOnStage,
							"1人目、楽天家 ゲルト。"),
						EntryNo:  1,
						AvatarID: "gerd",
					},
					&story.Talk{
						ID:       "824595DC-1CCC-4B74-99AF-AB842CCB7A8C",
						TalkType: story.TalkPublic,
						AvatarID: "gerd",
						XName:    "mes1106239652",
						Time:     fixTime(1, 47),
						TalkNo:   1,
						MessageLines: []string{
							"人狼なんているわけないじゃん。みんな大げさだなあ",
							"",
						},
					},
				},
			},
			{
				Type: story.PeriodProgress,
				Day:  1,
				Elements: []story.Element{
					&story.StartMirror{EventBase: fixEvent(fixStartMirror, story.FamilyAnnounce, story.NameStartMirror,
						"さあ、自らの姿を鏡に映してみよう。",
						"そこに映るのはただの村人か、それとも血に飢えた人狼か。",
						"",
						"例え人狼でも、多人数で立ち向かえば怖くはない。",
						"問題は、だれが人狼なのかという事だ。",
						"占い師の能力を持つ人間ならば、それを見破れるだろう。",
					)},
					&story.OpenRole{
						EventBase: fixEvent("A96EE08C-6B17-454C-89B0-8C365EE62C23", story.FamilyAnnounce, story.NameOpenRole,
							"どうやらこの中には、村人が7名、人狼が3名、占い師が1名、霊能者が1名、狂人が1名、狩人が1名、共有者が2名いるようだ。"),
						RoleHeads: map[string]int{
							"innocent": 7, "wolf": 3, "seer": 1, "shaman": 1, "madman": 1, "hunter": 1, "frater": 2,
						},
					},
					&story.Talk{
						ID:       fixPrivateTalk,
						TalkType: story.TalkPrivate,
						AvatarID: "regina",
						XName:    "mes1106305267",
						Time:     fixTime(20, 1),
						MessageLines: []string{
							"うわー、この役職かー。どうしようかなー",
						},
					},
					&story.Talk{
						ID:       "E2D8A295-7633-4781-B8CE-F811E9F2DE0D",
						TalkType: story.TalkWolf,
						AvatarID: "liesa",
						XName:    "mes1106305425",
						Time:     fixTime(20, 3),
						MessageLines: []string{
							"わおーん",
							"お仲間はいるかー？",
						},
					},
				},
			},
			{
				Type: story.PeriodProgress,
				Day:  2,
				Elements: []story.Element{
					&story.Judge{
						EventBase: fixEvent(fixJudgeMoritz, story.FamilyExtra, story.NameJudge,
							"パン屋 オットー は、老人 モーリッツ を占った。"),
						ByWhom: "otto",
						Target: "moritz",
					},
					&story.Murdered{
						EventBase: fixEvent(fixMurderedGerd, story.FamilyAnnounce, story.NameMurdered,
							"次の日の朝、楽天家 ゲルト が無残な姿で発見された。"),
						AvatarIDs: []string{"gerd"},
					},
					&story.StartAssault{EventBase: fixEvent("98B18CE8-7FD9-4212-A9C5-E365A2F775F6", story.FamilyAnnounce, story.NameStartAssault,
						"ついに犠牲者が出た。人狼はこの村人達のなかにいる。",
						"しかし、それを見分ける手段はない。",
						"",
						"村人達は、疑わしい者を排除するため、投票を行う事にした。",
					)},
					&story.Survivor{
						EventBase: fixEvent("77E537C5-776F-4A28-ACE7-B5111342CD76", story.FamilyAnnounce, story.NameSurvivor,
							"現在の生存者は 15 名。"),
						AvatarIDs: []string{
							"peter", "walter", "nicolas", "liesa", "otto", "katharina", "moritz", "joachim",
							"simson", "dieter", "pamela", "jacob", "albin", "thomas", "regina",
						},
					},
				},
			},
			{
				Type: story.PeriodProgress,
				Day:  3,
				Elements: []story.Element{
					&story.Counting{
						EventBase: fixEvent(fixCountingDay3, story.FamilyAnnounce, story.NameCounting,
							"神父 ジムゾン は村人達の手により処刑された。"),
						Victim: "simson",
						Votes: map[string]string{
							"peter": "simson", "walter": "simson", "nicolas": "simson", "liesa": "jacob",
							"otto": "jacob", "katharina": "simson", "moritz": "simson", "joachim": "jacob",
							"simson": "jacob", "dieter": "jacob", "pamela": "walter", "jacob": "simson",
							"albin": "simson", "thomas": "jacob", "regina": "jacob",
						},
					},
					&story.Judge{
						EventBase: fixEvent(fixJudgeDieter, story.FamilyExtra, story.NameJudge,
							"パン屋 オットー は、ならず者 ディーター を占った。"),
						ByWhom: "otto",
						Target: "dieter",
					},
					&story.Assault{
						EventBase: fixEvent(fixAssaultDay3, story.FamilyExtra, story.NameAssault,
							"宿屋の女主人 レジーナ ！ 今日がお前の命日だ！"),
						ByWhom: "dieter",
						Target: "regina",
						XName:  "mes1106478002",
						Time:   fixTime(20, 0),
					},
					&story.Guard{
						EventBase: fixEvent(fixGuardFail, story.FamilyExtra, story.NameGuard,
							"老人 モーリッツ は、村長 ヴァルター を守っている。"),
						ByWhom: "moritz",
						Target: "walter",
					},
					&story.Murdered{
						EventBase: fixEvent("5A7BEA37-B8C2-4076-BA39-0DF47F1E926B", story.FamilyAnnounce, story.NameMurdered,
							"次の日の朝、宿屋の女主人 レジーナ が無残な姿で発見された。"),
						AvatarIDs: []string{"regina"},
					},
					&story.Survivor{
						EventBase: fixEvent("84ED3554-AD3E-4C28-B0AE-1A518CB71A0A", story.FamilyAnnounce, story.NameSurvivor,
							"現在の生存者は 13 名。"),
						AvatarIDs: []string{
							"peter", "walter", "nicolas", "liesa", "otto", "katharina", "moritz", "joachim",
							"dieter", "pamela", "jacob", "albin", "thomas",
						},
					},
					&story.Talk{
						ID:       fixWolfTalkDay3,
						TalkType: story.TalkWolf,
						AvatarID: "liesa",
						XName:    "mes1106564465",
						Time:     fixTime(20, 1),
						MessageLines: []string{
							"もぐもぐ",
						},
					},
					&story.Talk{
						ID:       fixGraveTalk,
						TalkType: story.TalkGrave,
						AvatarID: "simson",
						XName:    "mes1106564466",
						Time:     fixTime(20, 8),
						MessageLines: []string{
							"あぁ、神よ…。貴方は私にかような試練をお与えになるのですね…",
						},
					},
				},
			},
			{
				Type: story.PeriodProgress,
				Day:  4,
				Elements: []story.Element{
					&story.SuddenDeath{
						EventBase: fixEvent(fixSuddenDeath, story.FamilyAnnounce, story.NameSuddenDeath,
							"農夫 ヤコブ は、突然死した。"),
						AvatarID: "jacob",
					},
					&story.Counting{
						EventBase: fixEvent(fixCountingDay4, story.FamilyAnnounce, story.NameCounting,
							"村娘 パメラ は村人達の手により処刑された。"),
						Victim: "pamela",
						Votes: map[string]string{
							"peter": "pamela", "walter": "peter", "nicolas": "pamela", "liesa": "peter",
							"otto": "peter", "katharina": "dieter", "moritz": "nicolas", "joachim": "jacob",
							"dieter": "thomas", "pamela": "jacob", "albin": "pamela", "thomas": "pamela",
						},
					},
					&story.Assault{
						EventBase: fixEvent(fixAssaultDay4, story.FamilyExtra, story.NameAssault,
							"羊飼い カタリナ ！ 今日がお前の命日だ！"),
						ByWhom: "liesa",
						Target: "katharina",
						XName:  "mes1106564403",
						Time:   fixTime(20, 0),
					},
					&story.Guard{
						EventBase: fixEvent(fixGuardGJ, story.FamilyExtra, story.NameGuard,
							"老人 モーリッツ は、羊飼い カタリナ を守っている。"),
						ByWhom: "moritz",
						Target: "katharina",
					},
					&story.NoMurder{EventBase: fixEvent("466C4739-1131-46CE-9F03-C298C7FD8E10", story.FamilyAnnounce, story.NameNoMurder,
						"今日は犠牲者がいないようだ。人狼は襲撃に失敗したのだろうか。")},
					&story.Survivor{
						EventBase: fixEvent("D73B7590-1623-4A5A-91CB-573947513537", story.FamilyAnnounce, story.NameSurvivor,
							"現在の生存者は 11 名。"),
						AvatarIDs: []string{
							"peter", "walter", "nicolas", "liesa", "otto", "katharina", "moritz", "joachim",
							"dieter", "albin", "thomas",
						},
					},
				},
			},
			{
				Type: story.PeriodProgress,
				Day:  5,
				Elements: []story.Element{
					&story.Counting2{
						EventBase: fixEvent(fixCounting2, story.FamilyExtra, story.NameCounting2,
							"少年 ペーター は 老人 モーリッツ に投票した。"),
						Votes: map[string]string{
							"peter": "moritz", "walter": "peter", "nicolas": "moritz", "liesa": "peter",
							"otto": "peter", "katharina": "dieter", "moritz": "nicolas", "joachim": "katharina",
							"dieter": "thomas", "albin": "moritz", "thomas": "peter",
						},
					},
					&story.Execution{
						EventBase: fixEvent(fixExecution, story.FamilyAnnounce, story.NameExecution,
							"少年 ペーター、4票。",
							"",
							"少年 ペーター は村人達の手により処刑された。"),
						Victim: "peter",
						Nominated: map[string]int{
							"dieter": 1, "nicolas": 1, "katharina": 1, "thomas": 1, "moritz": 3, "peter": 4,
						},
					},
					&story.Guard{
						EventBase: fixEvent(fixGuardDay5, story.FamilyExtra, story.NameGuard,
							"老人 モーリッツ は、旅人 ニコラス を守っている。"),
						ByWhom: "moritz",
						Target: "nicolas",
					},
					&story.NoMurder{EventBase: fixEvent("B66475CF-CF34-4CCE-940E-683A50F92E21", story.FamilyAnnounce, story.NameNoMurder,
						"今日は犠牲者がいないようだ。人狼は襲撃に失敗したのだろうか。")},
					&story.Survivor{
						EventBase: fixEvent("6D83E42C-C8CB-4E6C-9544-B4F3C1E6E058", story.FamilyAnnounce, story.NameSurvivor,
							"現在の生存者は 10 名。"),
						AvatarIDs: []string{
							"walter", "nicolas", "liesa", "otto", "katharina", "moritz", "joachim",
							"dieter", "albin", "thomas",
						},
					},
				},
			},
			{
				Type: story.PeriodEpilogue,
				Day:  6,
				Elements: []story.Element{
					&story.WinVillage{EventBase: fixEvent("B8FD5984-D0BA-406C-ACB6-CEBC22663F94", story.FamilyAnnounce, story.NameWinVillage,
						"全ての人狼を退治した……。人狼に怯える日々は去ったのだ！")},
					&story.WinWolf{EventBase: fixEvent("58A21314-3413-43EF-A401-1BEFDBF2CE0B", story.FamilyAnnounce, story.NameWinWolf,
						"もう人狼に抵抗できるほど村人は残っていない……。",
						"人狼は残った村人を全て食らい、別の獲物を求めてこの村を去っていった。")},
					&story.WinHamster{EventBase: fixEvent("E73C0538-5280-4A33-953D-EA0EC99A5C09", story.FamilyAnnounce, story.NameWinHamster,
						"全ては終わったかのように見えた。",
						"だが、奴が生き残っていた……。")},
					&story.PlayerList{
						EventBase: fixEvent("E15E7FBA-34D9-444C-AFD9-457415C1F834", story.FamilyAnnounce, story.NamePlayerList,
							"楽天家 ゲルト （master）、死亡。村人だった。"),
						Players: []*story.Player{
							{PlayerID: "master", AvatarID: "gerd", Survive: false, Role: story.RoleInnocent},
							{PlayerID: "p0", AvatarID: "peter", Survive: false, Role: story.RoleHamster},
							{PlayerID: "p1", AvatarID: "walter", Survive: false, Role: story.RoleFrater},
							{PlayerID: "p2", AvatarID: "nicolas", Survive: true, Role: story.RoleShaman},
							{PlayerID: "p3", AvatarID: "liesa", Survive: false, Role: story.RoleWolf},
							{PlayerID: "p4", AvatarID: "otto", Survive: false, Role: story.RoleSeer},
							{PlayerID: "p5", AvatarID: "katharina", Survive: false, Role: story.RoleInnocent},
							{PlayerID: "p6", AvatarID: "moritz", Survive: false, Role: story.RoleHunter},
							{PlayerID: "p7", AvatarID: "joachim", Survive: true, Role: story.RoleInnocent},
							{PlayerID: "p8", AvatarID: "simson", Survive: false, Role: story.RoleWolf},
							{PlayerID: "p9", AvatarID: "dieter", Survive: false, Role: story.RoleWolf},
							{PlayerID: "p10", AvatarID: "pamela", Survive: false, Role: story.RoleInnocent},
							{PlayerID: "p11", AvatarID: "jacob", Survive: false, Role: story.RoleInnocent},
							{PlayerID: "p12", AvatarID: "albin", Survive: true, Role: story.RoleMadman},
							{PlayerID: "p13", AvatarID: "thomas", Survive: true, Role: story.RoleInnocent},
							{PlayerID: "p14", AvatarID: "regina", Survive: false, Role: story.RoleFrater},
						},
					},
				},
			},
		},
	}

	// Il personaggio indicato muore insieme a gerd
	if deadAvatarID != "" {
		for _, period := range s.Periods {
			for _, element := range period.Elements {
				switch e := element.(type) {
				case *story.Murdered:
					if e.ID == fixMurderedGerd {
						e.AvatarIDs = append(e.AvatarIDs, deadAvatarID)
					}
				case *story.Survivor:
					filtered := e.AvatarIDs[:0]
					for _, avatarID := range e.AvatarIDs {
						if avatarID != deadAvatarID {
							filtered = append(filtered, avatarID)
						}
					}
					e.AvatarIDs = filtered
				case *story.PlayerList:
					for _, player := range e.Players {
						if player.AvatarID == deadAvatarID {
							player.Survive = false
						}
					}
				}
			}
		}
	}

	return s
}

// fixtureStoryWithLand clona la cronaca di prova cambiando il land
func fixtureStoryWithLand(landID string) *story.Story {
	s := fixtureStory("")
	s.LandID = landID
	return s
}
