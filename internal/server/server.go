// Package server is the thin HTTP surface over the analysis pipeline and
// the task shell.
package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkweave/inkgraph/internal/analysis"
	"github.com/inkweave/inkgraph/internal/config"
	"github.com/inkweave/inkgraph/internal/ingest"
	"github.com/inkweave/inkgraph/internal/lexicon"
	"github.com/inkweave/inkgraph/internal/model"
	"github.com/inkweave/inkgraph/internal/task"
)

type Server struct {
	cfg      *config.Config
	lex      *lexicon.Set
	store    analysis.Store
	enricher analysis.Enricher
	manager  *task.Manager
}

func New(cfg *config.Config, lex *lexicon.Set, store analysis.Store) *Server {
	return &Server{
		cfg:     cfg,
		lex:     lex,
		store:   store,
		manager: task.NewManager(),
	}
}

// SetEnricher attaches optional LLM enrichment to future analyses.
func (s *Server) SetEnricher(e analysis.Enricher) { s.enricher = e }

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/novels", s.uploadNovel)
	api.GET("/novels", s.listNovels)
	api.POST("/novels/:id/analyze", s.analyzeNovel)
	api.GET("/tasks/:id", s.getTask)
	api.DELETE("/tasks/:id", s.cancelTask)

	api.GET("/novels/:id/statistics", s.bundleView(func(b *model.Bundle) any { return b.Statistics }))
	api.GET("/novels/:id/characters", s.bundleView(func(b *model.Bundle) any {
		return gin.H{"characters": b.Characters, "relations": b.Relations, "communities": b.Communities}
	}))
	api.GET("/novels/:id/timeline", s.bundleView(func(b *model.Bundle) any {
		return gin.H{"events": b.Events, "causality": b.Causality, "main_plot_events": b.MainPlotEventIDs}
	}))
	api.GET("/novels/:id/locations", s.bundleView(func(b *model.Bundle) any {
		return gin.H{"locations": b.Locations, "scene_transitions": b.SceneTransitions, "visits": b.Visits}
	}))
	api.GET("/novels/:id/emotions", s.bundleView(func(b *model.Bundle) any {
		return gin.H{
			"chapter_emotions":   b.ChapterEmotions,
			"character_emotions": b.CharacterEmotions,
			"emotion_curve":      b.EmotionCurve,
			"emotional_peaks":    b.EmotionalPeaks,
		}
	}))
	api.GET("/novels/:id/states", s.bundleView(func(b *model.Bundle) any {
		return gin.H{"states": b.States, "state_transitions": b.StateTransitions}
	}))
	api.GET("/novels/:id/characters/:name", s.characterProfile)

	return r
}

type uploadRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
}

func (s *Server) uploadNovel(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "invalid request body"}})
		return
	}
	if int64(len(req.Text)) > s.cfg.Server.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "text too large"}})
		return
	}

	novel, err := ingest.Parse("", req.Title, req.Author, req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: err.Error()}})
		return
	}
	id := s.manager.AddNovel(novel)

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"title":    novel.Title,
		"author":   novel.Author,
		"chapters": len(novel.Chapters),
		"words":    novel.WordCount(),
	})
}

func (s *Server) listNovels(c *gin.Context) {
	type item struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Chapters int    `json:"chapters"`
	}
	var novels []item
	for _, n := range s.manager.Novels() {
		novels = append(novels, item{ID: n.ID, Title: n.Title, Chapters: len(n.Chapters)})
	}
	c.JSON(http.StatusOK, gin.H{"novels": novels})
}

func (s *Server) analyzeNovel(c *gin.Context) {
	novel, err := s.manager.Novel(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "novel not found"}})
		return
	}

	t, ctx := s.manager.StartTask(novel.ID)
	pipeline := analysis.New(s.cfg, s.lex, s.store, func(percent int, message string) {
		s.manager.SetProgress(t.ID, percent, message)
	})
	if s.enricher != nil {
		pipeline.SetEnricher(s.enricher)
	}

	go func() {
		bundle, err := pipeline.Analyze(ctx, novel)
		if err != nil {
			log.Printf("analysis task %s failed: %v", t.ID, err)
			s.manager.Fail(t.ID, err)
			return
		}
		s.manager.Complete(t.ID, bundle)
	}()

	c.JSON(http.StatusAccepted, gin.H{"task_id": t.ID})
}

func (s *Server) getTask(c *gin.Context) {
	t, err := s.manager.Task(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "task not found"}})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) cancelTask(c *gin.Context) {
	if err := s.manager.Cancel(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "task not found"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}

func (s *Server) bundleView(view func(*model.Bundle) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		bundle, err := s.manager.Bundle(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "no analysis for novel"}})
			return
		}
		c.JSON(http.StatusOK, view(bundle))
	}
}

// characterProfile assembles the restored per-character view: scores,
// relations, events, directed emotions and state history.
func (s *Server) characterProfile(c *gin.Context) {
	bundle, err := s.manager.Bundle(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "no analysis for novel"}})
		return
	}
	name := c.Param("name")
	char := bundle.CharacterByName(name)
	if char == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": analysis.ErrorBody{Kind: "InvalidInput", Message: "character not found"}})
		return
	}

	var relations []model.Relation
	for _, r := range bundle.Relations {
		if r.From == name || r.To == name {
			relations = append(relations, r)
		}
	}
	var events []model.Event
	for _, e := range bundle.Events {
		for _, p := range e.Participants {
			if p == name {
				events = append(events, e)
				break
			}
		}
	}
	var emotions []model.CharacterEmotion
	for _, e := range bundle.CharacterEmotions {
		if e.Source == name || e.Target == name {
			emotions = append(emotions, e)
		}
	}
	var states []model.StateSnapshot
	for _, st := range bundle.States {
		if st.Character == name {
			states = append(states, st)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"character": char,
		"relations": relations,
		"events":    events,
		"emotions":  emotions,
		"states":    states,
	})
}

// Manager exposes the task manager for tests.
func (s *Server) Manager() *task.Manager { return s.manager }
