package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/audit"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
)

// SpellHandler handles spell repertoire and attunement REST endpoints.
type SpellHandler struct {
	svc   *sheet.Service
	audit *audit.Service
}

// NewSpellHandler creates a new SpellHandler.
func NewSpellHandler(svc *sheet.Service, auditSvc *audit.Service) *SpellHandler {
	return &SpellHandler{svc: svc, audit: auditSvc}
}

func (h *SpellHandler) mutate(c *gin.Context, action string, req interface{}, fn func(*sheet.Sheet) error) {
	id, ok := charID(c)
	if !ok {
		return
	}
	m, err := h.svc.Mutate(mw.GetAccountID(c), id, fn)
	if err != nil {
		record(h.audit, c, id, action, req, nil, err.Error())
		fail(c, err)
		return
	}
	record(h.audit, c, id, action, req, nil, "")
	c.JSON(http.StatusOK, m)
}

type learnSpellRequest struct {
	// ID or Name selects the rules spell; custom spells carry their own
	// tier/limit instead.
	ID   string `json:"id"`
	Name string `json:"name"`

	Custom    bool `json:"custom"`
	Tier      int  `json:"tier"`
	LimitCost int  `json:"limitCost"`
	Advanced  bool `json:"advanced"`
}

// Learn handles POST /api/characters/:id/spells.
func (h *SpellHandler) Learn(c *gin.Context) {
	var req learnSpellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "spell.learn", req, func(s *sheet.Sheet) error {
		if req.Custom {
			_, err := s.LearnCustomSpell(req.Name, req.Tier, req.LimitCost, req.Advanced)
			return err
		}
		def := h.svc.Loader().SpellByID(req.ID)
		if def == nil {
			def = h.svc.Loader().SpellByName(req.Name)
		}
		_, err := s.LearnSpell(def)
		return err
	})
}

// Delete handles DELETE /api/characters/:id/spells/:spellID.
func (h *SpellHandler) Delete(c *gin.Context) {
	spellID := c.Param("spellID")
	h.mutate(c, "spell.delete", gin.H{"spellID": spellID}, func(s *sheet.Sheet) error {
		return s.DeleteSpell(spellID)
	})
}

// Upgrade handles POST /api/characters/:id/spells/:spellID/upgrade.
func (h *SpellHandler) Upgrade(c *gin.Context) {
	spellID := c.Param("spellID")
	h.mutate(c, "spell.upgrade", gin.H{"spellID": spellID}, func(s *sheet.Sheet) error {
		return s.UpgradeSpell(spellID, h.svc.Loader())
	})
}

type attuneRequest struct {
	Attuned bool `json:"attuned"`
}

// Attune handles PUT /api/characters/:id/spells/:spellID/attune.
func (h *SpellHandler) Attune(c *gin.Context) {
	var req attuneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spellID := c.Param("spellID")
	action := "spell.unattune"
	if req.Attuned {
		action = "spell.attune"
	}
	h.mutate(c, action, req, func(s *sheet.Sheet) error {
		if req.Attuned {
			will := sheet.DeriveAttributes(s.Log).Will
			return s.AttuneSpell(spellID, will)
		}
		return s.UnattuneSpell(spellID)
	})
}
