// Package http wires the demo REST API over internal/session and
// internal/generator.
//
// Grounded on internal/transport/http/routes.go's route grouping and
// gin.H response shape. The teacher keys its practice-puzzle cache by a
// sync.RWMutex-guarded map (practiceCache); this package applies the same
// discipline to the live session store instead, since a GenerativeSession
// is stateful and outlives a single request.
package http

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshhills/logic-puzzle-generator/internal/clue"
	"github.com/joshhills/logic-puzzle-generator/internal/core"
	"github.com/joshhills/logic-puzzle-generator/internal/generator"
	"github.com/joshhills/logic-puzzle-generator/internal/scorer"
	"github.com/joshhills/logic-puzzle-generator/internal/session"
	"github.com/joshhills/logic-puzzle-generator/pkg/config"
	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

var store = struct {
	sync.RWMutex
	sessions map[string]*session.Session
}{sessions: make(map[string]*session.Session)}

// RegisterRoutes mounts the demo API onto r.
func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/sessions", startSessionHandler)
		api.GET("/sessions/:id", sessionStateHandler)
		api.POST("/sessions/:id/next-clue", nextClueHandler)
		api.POST("/sessions/:id/use-clue", useClueHandler)
		api.POST("/sessions/:id/scored-clues", scoredCluesHandler)
		api.POST("/sessions/:id/rollback", rollbackHandler)
		api.POST("/sessions/:id/move", moveClueHandler)
		api.DELETE("/sessions/:id/clues/:index", removeClueHandler)
		api.GET("/sessions/:id/solution", solutionHandler)
		api.POST("/generate", generateHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.APIVersion})
}

func puzzleError(c *gin.Context, err error) {
	pe, ok := err.(*core.PuzzleError)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := http.StatusBadRequest
	switch pe.Kind {
	case core.ErrNoMatchingClue:
		status = http.StatusNotFound
	case core.ErrTimeout:
		status = http.StatusGatewayTimeout
	case core.ErrConfiguration:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": pe.Kind, "message": pe.Message, "category": pe.Category, "value": pe.Value})
}

func lookupSession(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	store.RLock()
	sess, ok := store.sessions[id]
	store.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session id"})
		return nil, false
	}
	return sess, true
}

// TargetFactDTO names the optional fact a session should solve toward.
type TargetFactDTO struct {
	Cat1 string `json:"cat1" binding:"required"`
	Val1 string `json:"val1" binding:"required"`
	Cat2 string `json:"cat2" binding:"required"`
}

type startSessionRequest struct {
	Categories   []core.Category `json:"categories" binding:"required"`
	AllowedTypes []clue.Type     `json:"allowed_types"`
	TargetFact   *TargetFactDTO  `json:"target_fact"`
	Seed         int64           `json:"seed"`
}

func allowedTypesFrom(types []clue.Type) clue.AllowedTypes {
	if len(types) == 0 {
		return nil
	}
	allowed := make(clue.AllowedTypes, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return allowed
}

func startSessionHandler(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target *scorer.TargetFact
	if req.TargetFact != nil {
		target = &scorer.TargetFact{Cat1: req.TargetFact.Cat1, Val1: req.TargetFact.Val1, Cat2: req.TargetFact.Cat2}
	}

	sess, err := session.Start(req.Categories, allowedTypesFrom(req.AllowedTypes), target, req.Seed)
	if err != nil {
		puzzleError(c, err)
		return
	}

	id := uuid.NewString()
	store.Lock()
	store.sessions[id] = sess
	store.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"session_id":       id,
		"percent_complete": sess.CurrentGrid().PercentComplete(),
		"solved":           sess.IsSolved(),
	})
}

func sessionStateHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chain_length":     len(sess.Chain()),
		"percent_complete": sess.CurrentGrid().PercentComplete(),
		"solved":           sess.IsSolved(),
		"family_counts":    sess.ClueFamilyCounts(),
	})
}

func constraintsFromRequest(c *gin.Context) (session.Constraints, bool) {
	var req struct {
		AllowedTypes    []clue.Type `json:"allowed_types"`
		IncludeSubjects []string    `json:"include_subjects"`
		ExcludeSubjects []string    `json:"exclude_subjects"`
		MinDeductions   int         `json:"min_deductions"`
		MaxDeductions   int         `json:"max_deductions"`
		Limit           int         `json:"limit"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return session.Constraints{}, false
		}
	}
	return session.Constraints{
		AllowedTypes:    allowedTypesFrom(req.AllowedTypes),
		IncludeSubjects: req.IncludeSubjects,
		ExcludeSubjects: req.ExcludeSubjects,
		MinDeductions:   req.MinDeductions,
		MaxDeductions:   req.MaxDeductions,
	}, true
}

func nextClueHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	constraints, ok := constraintsFromRequest(c)
	if !ok {
		return
	}

	picked, solved, err := sess.GetNextClue(constraints)
	if err != nil {
		puzzleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clue": picked, "solved": solved})
}

func useClueHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var req struct {
		Clue clue.Clue `json:"clue" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	solved, err := sess.UseClue(req.Clue)
	if err != nil {
		puzzleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"solved": solved})
}

func scoredCluesHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var req struct {
		AllowedTypes    []clue.Type `json:"allowed_types"`
		IncludeSubjects []string    `json:"include_subjects"`
		ExcludeSubjects []string    `json:"exclude_subjects"`
		MinDeductions   int         `json:"min_deductions"`
		MaxDeductions   int         `json:"max_deductions"`
		Limit           int         `json:"limit"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	constraints := session.Constraints{
		AllowedTypes:    allowedTypesFrom(req.AllowedTypes),
		IncludeSubjects: req.IncludeSubjects,
		ExcludeSubjects: req.ExcludeSubjects,
		MinDeductions:   req.MinDeductions,
		MaxDeductions:   req.MaxDeductions,
	}

	matches, err := sess.GetScoredMatchingClues(constraints, req.Limit)
	if err != nil {
		puzzleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clues": matches, "count": len(matches)})
}

func rollbackHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	rolledBack := sess.RollbackLastClue()
	c.JSON(http.StatusOK, gin.H{"rolled_back": rolledBack})
}

func moveClueHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changed, err := sess.MoveClue(req.From, req.To)
	if err != nil {
		puzzleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func removeClueHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	var index int
	if _, err := fmt.Sscan(c.Param("index"), &index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	removed, err := sess.RemoveClueAt(index)
	if err != nil {
		puzzleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func solutionHandler(c *gin.Context) {
	sess, ok := lookupSession(c)
	if !ok {
		return
	}
	if !sess.IsSolved() {
		c.JSON(http.StatusConflict, gin.H{"error": "session is not yet solved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"solution": sess.GetSolution()})
}

type generateRequest struct {
	Categories   []core.Category `json:"categories" binding:"required"`
	AllowedTypes []clue.Type     `json:"allowed_types"`
	TargetFact   *TargetFactDTO  `json:"target_fact"`
	MinClues     int             `json:"min_clues"`
	MaxClues     int             `json:"max_clues"`
	Seed         int64           `json:"seed"`
}

func generateHandler(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := generator.Options{
		AllowedTypes: allowedTypesFrom(req.AllowedTypes),
		MinClues:     req.MinClues,
		MaxClues:     req.MaxClues,
		Seed:         req.Seed,
	}
	if req.TargetFact != nil {
		opts.TargetFact = &generator.TargetFactOption{Cat1: req.TargetFact.Cat1, Val1: req.TargetFact.Val1, Cat2: req.TargetFact.Cat2}
	}

	puzzle, err := generator.Generate(c.Request.Context(), req.Categories, opts)
	if err != nil {
		puzzleError(c, err)
		return
	}

	// Incomplete means the time/restart budget ran out before the puzzle
	// (or its target fact) fully solved; the caller decides whether to
	// accept the partial result, per spec.md §4.8.
	status := http.StatusOK
	if puzzle.Incomplete {
		status = http.StatusPartialContent
	}
	c.JSON(status, gin.H{
		"solution":    puzzle.Solution,
		"clues":       puzzle.Clues,
		"difficulty":  puzzle.Difficulty,
		"clue_counts": puzzle.ClueCounts,
		"elapsed":     puzzle.GeneratedIn.String(),
		"incomplete":  puzzle.Incomplete,
	})
}
