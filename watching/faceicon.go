package watching

import (
	"net/url"

	"moltonf-server/story"
)

// GraveIconKey chiave della mappa delle icone riservata alla lapide
const GraveIconKey = "_grave"

// Due land storici hanno cambiato dominio: le icone vanno cercate
// alla nuova collocazione
var relocatedBaseURIs = map[string]string{
	"http://www.wolfg.x0.com/":       "http://ninjinix.x0.com/wolfg/",
	"http://ninjin002.x0.com/wolff/": "http://ninjinix.x0.com/wolff/",
}

// FaceIconURLMap costruisce la mappa avatarId -> URL assoluto dell'icona.
// Gli avatar senza icona non compaiono; la lapide è sotto GraveIconKey.
func FaceIconURLMap(s *story.Story) map[string]string {
	result := make(map[string]string)
	for _, avatar := range s.AvatarList {
		if avatar.FaceIconURI != "" {
			if iconURL, ok := faceIconURL(s.BaseURI, avatar.FaceIconURI); ok {
				result[avatar.AvatarID] = iconURL
			}
		}
	}
	if iconURL, ok := faceIconURL(s.BaseURI, s.GraveIconURI); ok {
		result[GraveIconKey] = iconURL
	}
	return result
}

func faceIconURL(baseURI, iconURI string) (string, bool) {
	if relocated, ok := relocatedBaseURIs[baseURI]; ok {
		baseURI = relocated
	}

	base, err := url.Parse(baseURI)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(iconURI)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
