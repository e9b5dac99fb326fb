package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const batchArchiveXML = `<?xml version="1.0" encoding="UTF-8"?>
<village xml:base="http://ninjin002.x0.com/wolff/" fullName="F0400 batch" graveIconURI="plugin_wolf/img/face99.jpg" landId="wolff">
  <avatarList>
    <avatar avatarId="gerd" fullName="楽天家 ゲルト" shortName="ゲルト"/>
  </avatarList>
  <period type="prologue" day="0">
    <talk type="public" avatarId="gerd" xname="mes1" time="01:47:00">
      <li>やあ</li>
    </talk>
    <startEntry>
      <li>噂が広がった。</li>
    </startEntry>
  </period>
</village>`

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "buono.xml"), []byte(batchArchiveXML), 0644); err != nil {
		t.Fatalf("errore scrittura fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rotto.xml"), []byte("<village/>"), 0644); err != nil {
		t.Fatalf("errore scrittura fixture: %v", err)
	}

	summary, err := NewRunner(dir).Run()
	if err != nil {
		t.Fatalf("errore inatteso: %v", err)
	}
	if summary.TotalFiles != 2 || summary.ParseSuccess != 1 || summary.ParseFailed != 1 {
		t.Errorf("riassunto inatteso: %+v", summary)
	}

	// Accanto a ogni archivio compare il JSON con l'esito
	data, err := os.ReadFile(filepath.Join(dir, "buono_parsed.json"))
	if err != nil {
		t.Fatalf("JSON di output mancante: %v", err)
	}
	var output ParsedOutput
	if err := json.Unmarshal(data, &output); err != nil {
		t.Fatalf("JSON di output non valido: %v", err)
	}
	if !output.Success || output.Story == nil {
		t.Fatalf("esito inatteso: %+v", output)
	}
	if output.Story.VillageFullName != "F0400 batch" || output.Story.AvatarCount != 1 {
		t.Errorf("cronaca inattesa: %+v", output.Story)
	}
	if len(output.Story.Periods) != 1 || output.Story.Periods[0].TalkCount != 1 || output.Story.Periods[0].ElementCount != 2 {
		t.Errorf("giornate inattese: %+v", output.Story.Periods)
	}

	failed, err := os.ReadFile(filepath.Join(dir, "rotto_parsed.json"))
	if err != nil {
		t.Fatalf("JSON di output mancante: %v", err)
	}
	var failedOutput ParsedOutput
	if err := json.Unmarshal(failed, &failedOutput); err != nil {
		t.Fatalf("JSON di output non valido: %v", err)
	}
	if failedOutput.Success || failedOutput.Error == "" {
		t.Errorf("esito inatteso per l'archivio rotto: %+v", failedOutput)
	}
	t.Logf("✅ Batch completato: %+v", summary)
}

func TestRunnerErrors(t *testing.T) {
	if _, err := NewRunner(filepath.Join(t.TempDir(), "manca")).Run(); err == nil {
		t.Error("errore atteso per cartella inesistente")
	}
	if _, err := NewRunner(t.TempDir()).Run(); err == nil {
		t.Error("errore atteso per cartella senza archivi")
	}
	t.Logf("✅ Errori del batch segnalati")
}
