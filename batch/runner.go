package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moltonf-server/story"
	"moltonf-server/watching"
)

// Runner processa in batch una cartella di archivi XML
type Runner struct {
	baseDir string
}

// ParsedOutput rappresenta l'output completo del parsing di un archivio
type ParsedOutput struct {
	Filename string       `json:"filename"`
	ParsedAt string       `json:"parsed_at"`
	Success  bool         `json:"success"`
	Error    string       `json:"error,omitempty"`
	Story    *StoryOutput `json:"story,omitempty"`
}

// StoryOutput output di una cronaca parsata
type StoryOutput struct {
	VillageFullName string                  `json:"villageFullName"`
	LandID          string                  `json:"landId,omitempty"`
	AvatarCount     int                     `json:"avatarCount"`
	PeriodCount     int                     `json:"periodCount"`
	Days            []watching.WatchableDay `json:"days"`
	Avatars         []*story.Avatar         `json:"avatars"`
	Periods         []*PeriodOutput         `json:"periods"`
}

// PeriodOutput output di una singola giornata
type PeriodOutput struct {
	Type         story.PeriodType `json:"type"`
	Day          int              `json:"day"`
	ElementCount int              `json:"elementCount"`
	TalkCount    int              `json:"talkCount"`
	Elements     []story.Element  `json:"elements"`
}

// Summary riassunto di un giro di batch
type Summary struct {
	TotalFiles   int    `json:"total_files"`
	ParseSuccess int    `json:"parse_success"`
	ParseFailed  int    `json:"parse_failed"`
	Duration     string `json:"duration"`
}

// NewRunner crea un nuovo runner sulla cartella data
func NewRunner(baseDir string) *Runner {
	return &Runner{baseDir: baseDir}
}

// Run processa tutti gli archivi .xml della cartella, salvando accanto
// a ciascuno un JSON con l'esito del parsing
func (r *Runner) Run() (*Summary, error) {
	startTime := time.Now()

	// Verifica che la cartella esista
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("cartella %s non trovata", r.baseDir)
	}

	// Trova tutti i file .xml
	xmlFiles, err := r.findArchiveFiles()
	if err != nil {
		return nil, err
	}

	if len(xmlFiles) == 0 {
		return nil, fmt.Errorf("nessun file .xml trovato in %s", r.baseDir)
	}

	summary := &Summary{
		TotalFiles: len(xmlFiles),
	}

	fmt.Printf("\n📁 Trovati %d file .xml in %s\n", len(xmlFiles), r.baseDir)
	fmt.Println(strings.Repeat("─", 50))

	// Processa ogni file
	for _, xmlFile := range xmlFiles {
		filename := filepath.Base(xmlFile)
		fmt.Printf("\n📄 %s\n", filename)

		parseResult := r.parseFile(xmlFile)
		if parseResult.Success {
			summary.ParseSuccess++
			fmt.Printf("   ✅ Parsing OK - %s, %d giornate, %d personaggi\n",
				parseResult.Story.VillageFullName, parseResult.Story.PeriodCount, parseResult.Story.AvatarCount)

			totalElements, totalTalks := r.countElements(parseResult)
			fmt.Printf("   📊 Elementi: %d totali, %d discorsi\n", totalElements, totalTalks)
		} else {
			summary.ParseFailed++
			fmt.Printf("   ❌ Parsing FAILED: %s\n", parseResult.Error)
		}

		// Salva JSON parsing
		parseJSONPath := r.getOutputPath(xmlFile, "_parsed.json")
		if err := r.saveJSON(parseJSONPath, parseResult); err != nil {
			fmt.Printf("   ⚠️  Errore salvataggio JSON: %v\n", err)
		} else {
			fmt.Printf("   💾 %s\n", filepath.Base(parseJSONPath))
		}
	}

	summary.Duration = time.Since(startTime).String()

	// Stampa riassunto
	fmt.Println()
	fmt.Println(strings.Repeat("═", 50))
	fmt.Println("📊 RIASSUNTO BATCH")
	fmt.Println(strings.Repeat("═", 50))
	fmt.Printf("   File processati:  %d\n", summary.TotalFiles)
	fmt.Printf("   Parsing OK:       %d/%d\n", summary.ParseSuccess, summary.TotalFiles)
	fmt.Printf("   Durata:           %s\n", summary.Duration)
	fmt.Println(strings.Repeat("═", 50))

	return summary, nil
}

// findArchiveFiles trova tutti i file .xml nella cartella
func (r *Runner) findArchiveFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(r.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".xml") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// parseFile parsa un singolo archivio
func (r *Runner) parseFile(filePath string) *ParsedOutput {
	result := &ParsedOutput{
		Filename: filepath.Base(filePath),
		ParsedAt: time.Now().Format(time.RFC3339),
	}

	parsed, err := story.ParseArchiveFile(filePath)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}

	result.Success = true

	storyOutput := &StoryOutput{
		VillageFullName: parsed.VillageFullName,
		LandID:          parsed.LandID,
		AvatarCount:     len(parsed.AvatarList),
		PeriodCount:     len(parsed.Periods),
		Days:            watching.WatchableDays(parsed),
		Avatars:         parsed.AvatarList,
	}

	for _, period := range parsed.Periods {
		talkCount := 0
		for _, element := range period.Elements {
			if _, ok := element.(*story.Talk); ok {
				talkCount++
			}
		}
		storyOutput.Periods = append(storyOutput.Periods, &PeriodOutput{
			Type:         period.Type,
			Day:          period.Day,
			ElementCount: len(period.Elements),
			TalkCount:    talkCount,
			Elements:     period.Elements,
		})
	}

	result.Story = storyOutput

	return result
}

// countElements conta elementi e discorsi in un ParsedOutput
func (r *Runner) countElements(output *ParsedOutput) (elements, talks int) {
	if output.Story == nil {
		return 0, 0
	}

	for _, period := range output.Story.Periods {
		elements += period.ElementCount
		talks += period.TalkCount
	}

	return elements, talks
}

// getOutputPath genera il path per un file di output
func (r *Runner) getOutputPath(inputPath, suffix string) string {
	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), baseName+suffix)
}

// saveJSON salva un oggetto come JSON
func (r *Runner) saveJSON(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}
