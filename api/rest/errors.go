package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exceedrpg/exceedsheet/server/game/sheet"
)

// fail maps a game error onto the REST status taxonomy: unknown entities
// are 404, slot conflicts 409, every other guarded rejection 400, and
// anything unrecognized a 500 with a generic body.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sheet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, sheet.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sheet.ErrNotEnoughXP),
		errors.Is(err, sheet.ErrSelectionRequired),
		errors.Is(err, sheet.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
