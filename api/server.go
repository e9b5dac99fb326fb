package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"moltonf-server/storage"
	"moltonf-server/story"
	"moltonf-server/watcher"
	"moltonf-server/watching"
)

// Server rappresenta il server API
type Server struct {
	router         *gin.Engine
	storyStore     *storage.StoryStore
	workspaceStore *storage.WorkspaceStore
	saver          *storage.Saver
	watcher        *watcher.ArchiveWatcher
	watcherMutex   sync.Mutex
	wsClients      map[*websocket.Conn]bool
	wsMutex        sync.Mutex
	wsUpgrader     websocket.Upgrader
	port           int
	debounceTime   time.Duration
}

// ServerConfig configurazione del server
type ServerConfig struct {
	Port           int
	StoryStore     *storage.StoryStore
	WorkspaceStore *storage.WorkspaceStore
	Saver          *storage.Saver
	DebounceTime   time.Duration
	EnableCORS     bool
	Debug          bool
}

// NewServer crea un nuovo server API
func NewServer(config ServerConfig) *Server {
	// Imposta modalità Gin
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS se abilitato
	if config.EnableCORS {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
		}))
	}

	server := &Server{
		router:         router,
		storyStore:     config.StoryStore,
		workspaceStore: config.WorkspaceStore,
		saver:          config.Saver,
		wsClients:      make(map[*websocket.Conn]bool),
		wsUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in development
			},
		},
		port:         config.Port,
		debounceTime: config.DebounceTime,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// setupRoutes configura tutti gli endpoint
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		// Health check
		api.GET("/health", s.healthCheck)

		// Story endpoints
		api.POST("/story/parse", s.parseStory)
		api.POST("/stories", s.createStory)
		api.GET("/stories", s.getStories)
		api.GET("/stories/:id", s.getStory)
		api.DELETE("/stories/:id", s.deleteStory)
		api.GET("/stories/:id/days", s.getStoryDays)

		// Workspace endpoints
		api.POST("/workspaces", s.createWorkspace)
		api.GET("/workspaces", s.getWorkspaces)
		api.GET("/workspaces/:id", s.getWorkspace)
		api.PUT("/workspaces/:id", s.updateWorkspace)
		api.DELETE("/workspaces/:id", s.deleteWorkspace)
		api.GET("/workspaces/:id/elements", s.getWorkspaceElements)
		api.POST("/workspaces/:id/segments", s.parseSegments)

		// Watcher endpoints
		api.POST("/watch/start", s.startWatcher)
		api.POST("/watch/stop", s.stopWatcher)
		api.GET("/watch/status", s.getWatcherStatus)
	}

	// WebSocket endpoint
	s.router.GET("/ws", s.handleWebSocket)
}

// Start avvia il server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Info().Msgf("🚀 Server avviato su http://localhost%s", addr)
	log.Info().Msgf("📚 API disponibile su http://localhost%s/api", addr)
	log.Info().Msgf("🔌 WebSocket su ws://localhost%s/ws", addr)
	return s.router.Run(addr)
}

// ============================================
// Handlers
// ============================================

// healthCheck verifica lo stato del server
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": "0.1.0",
	})
}

// ParseStoryRequest richiesta di parsing senza registrazione
type ParseStoryRequest struct {
	XML string `json:"xml" binding:"required"`
}

// parseStory parsa un archivio XML senza salvarlo
func (s *Server) parseStory(c *gin.Context) {
	var req ParseStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := story.ParseArchive(req.XML)
	if err != nil {
		var invalidErr *story.InvalidArchiveError
		if errors.As(err, &invalidErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"story":   parsed,
	})
}

// CreateStoryRequest richiesta di registrazione di una cronaca
type CreateStoryRequest struct {
	Name string `json:"name"`
	XML  string `json:"xml" binding:"required"`
}

// createStory registra una nuova cronaca nel catalogo
func (s *Server) createStory(c *gin.Context) {
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.storyStore.Add(req.Name, req.XML)
	if err != nil {
		var invalidErr *story.InvalidArchiveError
		if errors.As(err, &invalidErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Int64("storyId", entry.ID).Str("name", entry.Name).Msg("📖 Cronaca registrata")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"story":   entry,
	})
}

// getStories elenca le cronache registrate
func (s *Server) getStories(c *gin.Context) {
	entries, err := s.storyStore.Entries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stories": entries,
		"count":   len(entries),
	})
}

// getStory restituisce una cronaca con avatar e icone risolte
func (s *Server) getStory(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	entry, err := s.storyStore.Entry(id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	parsed, err := s.storyStore.Story(id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"story":           entry,
		"villageFullName": parsed.VillageFullName,
		"landId":          parsed.LandID,
		"avatarList":      parsed.AvatarList,
		"days":            watching.WatchableDays(parsed),
		"faceIconUrls":    watching.FaceIconURLMap(parsed),
	})
}

// deleteStory elimina una cronaca dal catalogo
func (s *Server) deleteStory(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	if err := s.storyStore.Remove(id); err != nil {
		s.storeError(c, err)
		return
	}

	log.Info().Int64("storyId", id).Msg("🗑️  Cronaca eliminata")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// getStoryDays elenca le giornate consultabili di una cronaca
func (s *Server) getStoryDays(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	parsed, err := s.storyStore.Story(id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"days":    watching.WatchableDays(parsed),
	})
}

// ============================================
// Workspace Handlers
// ============================================

// CreateWorkspaceRequest richiesta di creazione workspace.
// Il punto di vista può essere esplicito (playerCharacter) oppure
// scelto a caso da team e roleOption.
type CreateWorkspaceRequest struct {
	StoryID         int64  `json:"storyId" binding:"required"`
	Name            string `json:"name"`
	PlayerCharacter string `json:"playerCharacter"`
	Team            string `json:"team"`
	RoleOption      string `json:"roleOption"`
}

// createWorkspace crea un nuovo workspace su una cronaca
func (s *Server) createWorkspace(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := s.storyStore.Story(req.StoryID)
	if err != nil {
		s.storeError(c, err)
		return
	}
	characterMap := story.NewCharacterMap(parsed)

	playerCharacter := req.PlayerCharacter
	name := req.Name
	if playerCharacter == "" {
		if req.Team == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "serve playerCharacter oppure team"})
			return
		}
		team := watching.Team(req.Team)
		roleOption := watching.RoleOption(req.RoleOption)
		picked := watching.PickCharacter(characterMap, team, roleOption)
		if picked == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nessun personaggio soddisfa i criteri"})
			return
		}
		playerCharacter = picked.Avatar.AvatarID
		if name == "" {
			name = watching.DefaultWorkspaceName(parsed, team, roleOption)
		}
	} else if characterMap.Get(playerCharacter) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personaggio sconosciuto"})
		return
	}
	if name == "" {
		name = parsed.VillageFullName
	}

	dayProgress := 0
	workspace := &storage.Workspace{
		StoryID:         req.StoryID,
		Name:            name,
		CurrentDay:      0,
		DayProgress:     &dayProgress,
		PlayerCharacter: playerCharacter,
	}
	if err := s.workspaceStore.Add(workspace); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info().Int64("workspaceId", workspace.ID).Str("playerCharacter", playerCharacter).Msg("📝 Workspace creato")

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"workspace": workspace,
	})
}

// getWorkspaces elenca i workspace, dal più recentemente usato
func (s *Server) getWorkspaces(c *gin.Context) {
	workspaces, err := s.workspaceStore.Workspaces()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"workspaces": workspaces,
		"count":      len(workspaces),
	})
}

// getWorkspace restituisce un workspace
func (s *Server) getWorkspace(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	workspace, err := s.workspaceStore.Workspace(id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workspace": workspace,
	})
}

// UpdateWorkspaceRequest richiesta di aggiornamento workspace.
// I campi assenti restano invariati; ClearDayProgress azzera il cursore
// segnando la lettura come conclusa.
type UpdateWorkspaceRequest struct {
	Name             *string `json:"name"`
	CurrentDay       *int    `json:"currentDay"`
	DayProgress      *int    `json:"dayProgress"`
	ClearDayProgress bool    `json:"clearDayProgress"`
}

// updateWorkspace aggiorna un workspace con salvataggio differito
func (s *Server) updateWorkspace(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workspace, err := s.workspaceStore.Workspace(id)
	if err != nil {
		s.storeError(c, err)
		return
	}

	if req.Name != nil {
		workspace.Name = *req.Name
	}
	if req.CurrentDay != nil {
		workspace.CurrentDay = *req.CurrentDay
	}
	if req.ClearDayProgress {
		workspace.DayProgress = nil
	} else if req.DayProgress != nil {
		workspace.DayProgress = req.DayProgress
	}

	s.saver.Schedule(workspace)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workspace": workspace,
	})
}

// deleteWorkspace elimina un workspace; la cronaca resta nel catalogo
func (s *Server) deleteWorkspace(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	if err := s.workspaceStore.Remove(id); err != nil {
		s.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// getWorkspaceElements restituisce gli elementi visibili di una giornata
// dal punto di vista del workspace
func (s *Server) getWorkspaceElements(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	workspace, err := s.workspaceStore.Workspace(id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	parsed, err := s.storyStore.Story(workspace.StoryID)
	if err != nil {
		s.storeError(c, err)
		return
	}

	day := workspace.CurrentDay
	if dayQuery := c.Query("day"); dayQuery != "" {
		day, err = strconv.Atoi(dayQuery)
		if err != nil || day < 0 || day >= len(parsed.Periods) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "giornata non valida"})
			return
		}
	}

	characterMap := story.NewCharacterMap(parsed)
	elements := watching.CurrentStoryElements(parsed, characterMap, workspace.PlayerCharacter, workspace.DayProgress, day)
	if elements == nil {
		elements = []story.Element{}
	}

	// La giornata consultata diventa quella corrente del workspace
	if day != workspace.CurrentDay {
		workspace.CurrentDay = day
		s.saver.Schedule(workspace)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"day":      day,
		"elements": elements,
		"count":    len(elements),
	})
}

// ParseSegmentsRequest richiesta di scomposizione di una riga di messaggio
type ParseSegmentsRequest struct {
	Text string `json:"text" binding:"required"`
	Day  *int   `json:"day"`
}

// parseSegments scompone una riga nei suoi riferimenti ad altri discorsi
func (s *Server) parseSegments(c *gin.Context) {
	id, ok := s.idParam(c)
	if !ok {
		return
	}

	var req ParseSegmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workspace, err := s.workspaceStore.Workspace(id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	parsed, err := s.storyStore.Story(workspace.StoryID)
	if err != nil {
		s.storeError(c, err)
		return
	}

	day := workspace.CurrentDay
	if req.Day != nil {
		day = *req.Day
	}

	characterMap := story.NewCharacterMap(parsed)
	segments := watching.ParseMessageSegments(req.Text, watching.SegmentOptions{
		CurrentDay:    day,
		TalkMap:       story.NewTalkMap(parsed),
		IsTalkVisible: watching.TalkVisibility(parsed, characterMap, workspace.PlayerCharacter, workspace.DayProgress),
	})
	if segments == nil {
		segments = []watching.Segment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"segments": segments,
	})
}

// ============================================
// Watcher Handlers
// ============================================

// StartWatcherRequest richiesta avvio watcher
type StartWatcherRequest struct {
	Paths        []string `json:"paths" binding:"required"`
	AutoRegister bool     `json:"auto_register"`
}

// startWatcher avvia il watcher degli archivi
func (s *Server) startWatcher(c *gin.Context) {
	s.watcherMutex.Lock()
	defer s.watcherMutex.Unlock()

	if s.watcher != nil && s.watcher.IsRunning() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Watcher già in esecuzione"})
		return
	}

	var req StartWatcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Crea watcher
	config := watcher.WatcherConfig{
		Paths:        req.Paths,
		StoryStore:   s.storyStore,
		DebounceTime: s.debounceTime,
		AutoRegister: req.AutoRegister,
	}

	aw, err := watcher.NewArchiveWatcher(config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := aw.Start(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.watcher = aw

	// Invia eventi ai client WebSocket
	go s.broadcastWatcherEvents(aw)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Watcher avviato",
		"paths":   req.Paths,
	})
}

// stopWatcher ferma il watcher degli archivi
func (s *Server) stopWatcher(c *gin.Context) {
	s.watcherMutex.Lock()
	defer s.watcherMutex.Unlock()

	if s.watcher == nil || !s.watcher.IsRunning() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Watcher non in esecuzione"})
		return
	}

	if err := s.watcher.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.watcher = nil

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Watcher fermato",
	})
}

// getWatcherStatus ottiene lo stato del watcher
func (s *Server) getWatcherStatus(c *gin.Context) {
	s.watcherMutex.Lock()
	defer s.watcherMutex.Unlock()

	isRunning := s.watcher != nil && s.watcher.IsRunning()
	var paths []string
	if s.watcher != nil {
		paths = s.watcher.WatchedPaths()
	}

	c.JSON(http.StatusOK, gin.H{
		"running": isRunning,
		"paths":   paths,
	})
}

// ============================================
// WebSocket
// ============================================

// handleWebSocket gestisce connessioni WebSocket
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Errore upgrade WebSocket")
		return
	}
	defer conn.Close()

	s.wsMutex.Lock()
	s.wsClients[conn] = true
	total := len(s.wsClients)
	s.wsMutex.Unlock()
	log.Info().Int("totale", total).Msg("🔌 Client WebSocket connesso")

	// Mantieni la connessione aperta
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			s.wsMutex.Lock()
			delete(s.wsClients, conn)
			total = len(s.wsClients)
			s.wsMutex.Unlock()
			log.Info().Int("totale", total).Msg("🔌 Client WebSocket disconnesso")
			break
		}
	}
}

// broadcastWatcherEvents invia eventi del watcher ai client WebSocket
func (s *Server) broadcastWatcherEvents(aw *watcher.ArchiveWatcher) {
	for event := range aw.Events() {
		message := gin.H{
			"type":      event.Type,
			"path":      filepath.Base(event.Path),
			"full_path": event.Path,
			"timestamp": event.Timestamp,
		}
		if event.StoryID != 0 {
			message["storyId"] = event.StoryID
		}

		// Broadcast a tutti i client connessi
		s.wsMutex.Lock()
		for client := range s.wsClients {
			if err := client.WriteJSON(message); err != nil {
				log.Error().Err(err).Msg("Errore invio WebSocket")
				client.Close()
				delete(s.wsClients, client)
			}
		}
		s.wsMutex.Unlock()
	}
}

// ============================================
// Helpers
// ============================================

func (s *Server) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id non valido"})
		return 0, false
	}
	return id, true
}

func (s *Server) storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Elemento non trovato"})
		return
	}
	var invalidErr *story.InvalidArchiveError
	if errors.As(err, &invalidErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
