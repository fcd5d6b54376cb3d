package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/game/dice"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
)

// DiceHandler handles roll REST endpoints.
type DiceHandler struct {
	svc    *sheet.Service
	roller *dice.Roller
}

// NewDiceHandler creates a new DiceHandler.
func NewDiceHandler(svc *sheet.Service, roller *dice.Roller) *DiceHandler {
	return &DiceHandler{svc: svc, roller: roller}
}

type checkRequest struct {
	Modifier int `json:"modifier"`
}

// Check handles POST /api/dice/check: a bare three-d10 check with a flat
// modifier, no character needed.
func (h *DiceHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.roller.Check(req.Modifier))
}

type damageRequest struct {
	Weapon string `json:"weapon" binding:"required"`
}

// Damage handles POST /api/characters/:id/roll/damage. Rolls one equipped
// weapon's damage using the derived dice.
func (h *DiceHandler) Damage(c *gin.Context) {
	var req damageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := charID(c)
	if !ok {
		return
	}
	v, err := h.svc.View(mw.GetAccountID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	for _, d := range v.Combat.Damage {
		if d.Weapon == req.Weapon {
			res := h.roller.Damage(d.DiceCount, d.DiceSides, d.Bonus)
			c.JSON(http.StatusOK, gin.H{"weapon": d.Weapon, "result": res})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "weapon not equipped"})
}
