package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/audit"
	"github.com/exceedrpg/exceedsheet/server/game/item"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
)

// InventoryHandler handles inventory REST endpoints.
type InventoryHandler struct {
	svc   *sheet.Service
	audit *audit.Service
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc *sheet.Service, auditSvc *audit.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc, audit: auditSvc}
}

func (h *InventoryHandler) mutate(c *gin.Context, action string, req interface{}, fn func(*sheet.Sheet) error) {
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

type addItemRequest struct {
	// From rules data: type + name. Custom: full item payload.
	Type     string `json:"type" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
	Weight   int    `json:"weight"`
	Custom   bool   `json:"custom"`

	CustomArmor  *item.ArmorStats  `json:"customArmorData"`
	CustomWeapon *item.WeaponStats `json:"customWeaponData"`
	CustomShield *item.ShieldStats `json:"customShieldData"`
}

// Add handles POST /api/characters/:id/items.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, "item.add", req, func(s *sheet.Sheet) error {
		if req.Custom || req.Type == item.TypeItem {
			_, err := s.AddCustomItem(item.Item{
				Name:         req.Name,
				Type:         req.Type,
				Weight:       req.Weight,
				Quantity:     req.Quantity,
				CustomArmor:  req.CustomArmor,
				CustomWeapon: req.CustomWeapon,
				CustomShield: req.CustomShield,
			})
			return err
		}
		_, err := s.AddItemFromData(h.svc.Loader(), req.Type, req.Name, req.Quantity)
		return err
	})
}

// Remove handles DELETE /api/characters/:id/items/:itemID.
func (h *InventoryHandler) Remove(c *gin.Context) {
	itemID := c.Param("itemID")
	h.mutate(c, "item.remove", gin.H{"itemID": itemID}, func(s *sheet.Sheet) error {
		return s.RemoveItem(itemID)
	})
}

type itemStateRequest struct {
	State string `json:"state" binding:"required,oneof=equipped stowed packed"`
}

// SetState handles PUT /api/characters/:id/items/:itemID/state.
func (h *InventoryHandler) SetState(c *gin.Context) {
	var req itemStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID := c.Param("itemID")
	h.mutate(c, "item.state", req, func(s *sheet.Sheet) error {
		return s.SetItemState(itemID, req.State)
	})
}

type itemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SetQuantity handles PUT /api/characters/:id/items/:itemID/quantity.
func (h *InventoryHandler) SetQuantity(c *gin.Context) {
	var req itemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID := c.Param("itemID")
	h.mutate(c, "item.quantity", req, func(s *sheet.Sheet) error {
		return s.SetItemQuantity(itemID, req.Quantity)
	})
}

// Customize handles POST /api/characters/:id/items/:itemID/customize,
// detaching an item from its rules data.
func (h *InventoryHandler) Customize(c *gin.Context) {
	itemID := c.Param("itemID")
	h.mutate(c, "item.customize", gin.H{"itemID": itemID}, func(s *sheet.Sheet) error {
		return s.ConvertToCustom(h.svc.Loader(), itemID)
	})
}
