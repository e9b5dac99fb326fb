package story

// TimePart rappresenta le componenti orarie di un istante.
// Non è legato a una data né a un fuso orario.
type TimePart struct {
	Hour        int `json:"hour"`
	Minute      int `json:"minute"`
	Second      int `json:"second"`
	Millisecond int `json:"millisecond"`
}

// TimePartFromMilliseconds converte un numero di millisecondi in TimePart
func TimePartFromMilliseconds(ms int) TimePart {
	return TimePart{
		Hour:        ms / (1000 * 60 * 60),
		Minute:      (ms / (1000 * 60)) % 60,
		Second:      (ms / 1000) % 60,
		Millisecond: ms % 1000,
	}
}

// Milliseconds converte il TimePart in millisecondi
func (tp TimePart) Milliseconds() int {
	return tp.Hour*(1000*60*60) +
		tp.Minute*(1000*60) +
		tp.Second*1000 +
		tp.Millisecond
}
