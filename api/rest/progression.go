package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/audit"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
)

// ProgressionHandler handles XP spending: skills, perks, conditioning,
// extra HP, and wound tracking.
type ProgressionHandler struct {
	svc   *sheet.Service
	audit *audit.Service
}

// NewProgressionHandler creates a new ProgressionHandler.
func NewProgressionHandler(svc *sheet.Service, auditSvc *audit.Service) *ProgressionHandler {
	return &ProgressionHandler{svc: svc, audit: auditSvc}
}

// mutate runs one progression mutation and replies with the updated row.
func (h *ProgressionHandler) mutate(c *gin.Context, action string, req interface{}, fn func(*sheet.Sheet) error) {
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

// ---- Skills ----

type skillRequest struct {
	Name      string `json:"name" binding:"required"`
	Attribute string `json:"attribute"`
}

// LearnSkill handles POST /api/characters/:id/skills.
func (h *ProgressionHandler) LearnSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def := h.svc.Loader().SkillByName(req.Name)
	h.mutate(c, "skill.learn", req, func(s *sheet.Sheet) error {
		return s.LearnSkill(def, req.Attribute)
	})
}

// LevelUpSkill handles POST /api/characters/:id/skills/levelup.
func (h *ProgressionHandler) LevelUpSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "skill.levelup", req, func(s *sheet.Sheet) error {
		return s.LevelUpSkill(req.Name, req.Attribute)
	})
}

// LevelDownSkill handles POST /api/characters/:id/skills/leveldown.
func (h *ProgressionHandler) LevelDownSkill(c *gin.Context) {
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "skill.leveldown", req, func(s *sheet.Sheet) error {
		return s.LevelDownSkill(req.Name)
	})
}

// RemoveSkill handles DELETE /api/characters/:id/skills/:name.
func (h *ProgressionHandler) RemoveSkill(c *gin.Context) {
	name := c.Param("name")
	h.mutate(c, "skill.remove", gin.H{"name": name}, func(s *sheet.Sheet) error {
		return s.RemoveSkill(name)
	})
}

// ---- Perks ----

type perkRequest struct {
	Name      string `json:"name" binding:"required"`
	Attribute string `json:"attribute"`
}

// BuyPerk handles POST /api/characters/:id/perks.
func (h *ProgressionHandler) BuyPerk(c *gin.Context) {
	var req perkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def := h.svc.Loader().PerkByName(req.Name)
	h.mutate(c, "perk.buy", req, func(s *sheet.Sheet) error {
		return s.BuyPerk(def, req.Attribute)
	})
}

// RemovePerk handles DELETE /api/characters/:id/perks/:name.
func (h *ProgressionHandler) RemovePerk(c *gin.Context) {
	name := c.Param("name")
	h.mutate(c, "perk.remove", gin.H{"name": name}, func(s *sheet.Sheet) error {
		return s.RemovePerk(name)
	})
}

// ---- Conditioning ----

// StartConditioning handles POST /api/characters/:id/conditioning.
func (h *ProgressionHandler) StartConditioning(c *gin.Context) {
	var req perkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def := h.svc.Loader().PerkByName(req.Name)
	h.mutate(c, "conditioning.start", req, func(s *sheet.Sheet) error {
		return s.StartConditioning(def)
	})
}

// AdvanceConditioning handles POST /api/characters/:id/conditioning/advance.
func (h *ProgressionHandler) AdvanceConditioning(c *gin.Context) {
	h.mutate(c, "conditioning.advance", nil, func(s *sheet.Sheet) error {
		return s.AdvanceConditioning()
	})
}

// AbandonConditioning handles DELETE /api/characters/:id/conditioning.
func (h *ProgressionHandler) AbandonConditioning(c *gin.Context) {
	h.mutate(c, "conditioning.abandon", nil, func(s *sheet.Sheet) error {
		return s.AbandonConditioning()
	})
}

// ---- HP and wounds ----

// BuyExtraHP handles POST /api/characters/:id/hp/extra.
func (h *ProgressionHandler) BuyExtraHP(c *gin.Context) {
	h.mutate(c, "hp.buy", nil, func(s *sheet.Sheet) error {
		return s.BuyExtraHP()
	})
}

// RemoveExtraHP handles DELETE /api/characters/:id/hp/extra.
func (h *ProgressionHandler) RemoveExtraHP(c *gin.Context) {
	h.mutate(c, "hp.remove", nil, func(s *sheet.Sheet) error {
		return s.RemoveExtraHP()
	})
}

type setHPRequest struct {
	Total *int `json:"total" binding:"required"`
}

// SetHP handles PUT /api/characters/:id/hp. The total is split across
// stamina and health server-side.
func (h *ProgressionHandler) SetHP(c *gin.Context) {
	var req setHPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := charID(c)
	if !ok {
		return
	}
	accountID := mw.GetAccountID(c)
	m, err := h.svc.Mutate(accountID, id, func(s *sheet.Sheet) error {
		v := sheet.BuildView(s, h.svc.Loader(), h.svc.StowedReduction())
		s.SetTotalHP(*req.Total, v.Combat.MaxStamina, v.Combat.MaxHealth)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	record(h.audit, c, id, "hp.set", req, nil, "")
	c.JSON(http.StatusOK, m)
}

type woundRequest struct {
	Marked bool `json:"marked"`
}

// SetWound handles POST /api/characters/:id/wounds. Marks or clears one.
func (h *ProgressionHandler) SetWound(c *gin.Context) {
	var req woundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action := "wound.unmark"
	if req.Marked {
		action = "wound.mark"
	}
	h.mutate(c, action, req, func(s *sheet.Sheet) error {
		if req.Marked {
			return s.MarkWound()
		}
		return s.UnmarkWound()
	})
}

// ---- Money ----

type moneyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustMoney handles POST /api/characters/:id/money.
func (h *ProgressionHandler) AdjustMoney(c *gin.Context) {
	var req moneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "money.adjust", req, func(s *sheet.Sheet) error {
		if s.Money+req.Delta < 0 {
			return fmt.Errorf("%w: not enough money", sheet.ErrInvalidState)
		}
		s.Money += req.Delta
		return nil
	})
}

type grantXPRequest struct {
	CombatXP int `json:"combatXP"`
	SocialXP int `json:"socialXP"`
}

// GrantXP handles POST /api/characters/:id/xp. Applies session rewards.
func (h *ProgressionHandler) GrantXP(c *gin.Context) {
	var req grantXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "xp.grant", req, func(s *sheet.Sheet) error {
		if s.CombatXP+req.CombatXP < 0 || s.SocialXP+req.SocialXP < 0 {
			return sheet.ErrNotEnoughXP
		}
		s.CombatXP += req.CombatXP
		s.SocialXP += req.SocialXP
		return nil
	})
}
