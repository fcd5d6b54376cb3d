package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/audit"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
)

// CharacterHandler handles character lifecycle REST endpoints.
type CharacterHandler struct {
	svc   *sheet.Service
	audit *audit.Service
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(svc *sheet.Service, auditSvc *audit.Service) *CharacterHandler {
	return &CharacterHandler{svc: svc, audit: auditSvc}
}

// charID parses the :id route parameter.
func charID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// record sends a mutation to the audit trail.
func record(auditSvc *audit.Service, c *gin.Context, charID int64, action string, req, resp interface{}, errMsg string) {
	if auditSvc == nil {
		return
	}
	accountID := mw.GetAccountID(c)
	auditSvc.Log(audit.Entry{
		TraceID:   mw.GetTraceID(c),
		CharID:    &charID,
		AccountID: &accountID,
		Action:    action,
		Request:   req,
		Response:  resp,
		Error:     errMsg,
		IP:        c.ClientIP(),
	})
}

// List handles GET /api/characters.
func (h *CharacterHandler) List(c *gin.Context) {
	chars, err := h.svc.List(mw.GetAccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

type createCharacterRequest struct {
	Name    string `json:"name"    binding:"required,min=1,max=64"`
	Concept string `json:"concept" binding:"max=256"`
}

// Create handles POST /api/characters.
func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Create(mw.GetAccountID(c), req.Name, req.Concept)
	if err != nil {
		fail(c, err)
		return
	}
	record(h.audit, c, m.ID, "character.create", req, nil, "")
	c.JSON(http.StatusCreated, m)
}

// Get handles GET /api/characters/:id. Returns the raw stored aggregate.
func (h *CharacterHandler) Get(c *gin.Context) {
	id, ok := charID(c)
	if !ok {
		return
	}
	m, err := h.svc.Get(mw.GetAccountID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Sheet handles GET /api/characters/:id/sheet. Returns the fully derived view.
func (h *CharacterHandler) Sheet(c *gin.Context) {
	id, ok := charID(c)
	if !ok {
		return
	}
	v, err := h.svc.View(mw.GetAccountID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /api/characters/:id.
func (h *CharacterHandler) Delete(c *gin.Context) {
	id, ok := charID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(mw.GetAccountID(c), id); err != nil {
		fail(c, err)
		return
	}
	record(h.audit, c, id, "character.delete", nil, nil, "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Export handles GET /api/characters/:id/export.
func (h *CharacterHandler) Export(c *gin.Context) {
	id, ok := charID(c)
	if !ok {
		return
	}
	raw, err := h.svc.Export(mw.GetAccountID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=character.json")
	c.Data(http.StatusOK, "application/json", raw)
}

// Import handles POST /api/characters/import with a raw character document
// as the request body.
func (h *CharacterHandler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return
	}
	m, err := h.svc.Import(mw.GetAccountID(c), raw)
	if err != nil {
		fail(c, err)
		return
	}
	record(h.audit, c, m.ID, "character.import", nil, nil, "")
	c.JSON(http.StatusCreated, m)
}
