package rest_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	State    string `json:"state"`
	Weight   int    `json:"weight"`
	Quantity int    `json:"quantity"`
	IsCustom bool   `json:"isCustom"`
	DataRef  string `json:"dataRef"`
}

func decodeInventory(t *testing.T, body []byte) []itemRow {
	t.Helper()
	var row struct {
		Inventory []itemRow `json:"inventory"`
	}
	require.NoError(t, json.Unmarshal(body, &row))
	return row.Inventory
}

func TestAddItemFromRulesData(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "weapon", "name": "Longsword"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inv := decodeInventory(t, w.Body.Bytes())
	require.Len(t, inv, 1)
	assert.Equal(t, "Longsword", inv[0].Name)
	assert.Equal(t, "stowed", inv[0].State)
	assert.Equal(t, "Longsword", inv[0].DataRef)
	assert.Equal(t, 4, inv[0].Weight)
	assert.NotEmpty(t, inv[0].ID)

	// Unknown rules item is 404.
	w = postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "weapon", "name": "Vorpal Blade"}, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCustomItem(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items", map[string]interface{}{
		"type": "weapon", "name": "Heirloom Blade", "custom": true, "weight": 3,
		"customWeaponData": map[string]interface{}{"damage": "d6+Might"},
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inv := decodeInventory(t, w.Body.Bytes())
	require.Len(t, inv, 1)
	assert.True(t, inv[0].IsCustom)
	assert.Empty(t, inv[0].DataRef)

	// Custom equipment without its stats block is rejected.
	w = postJSON(ts.router, "/api/characters/"+id+"/items", map[string]interface{}{
		"type": "armor", "name": "Mystery Plate", "custom": true,
	}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func addAndEquip(t *testing.T, ts *testServer, id, token, itemType, name string) string {
	t.Helper()
	auth := []string{"Authorization", "Bearer " + token}
	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": itemType, "name": name}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inv := decodeInventory(t, w.Body.Bytes())
	itemID := inv[len(inv)-1].ID
	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "equipped"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return itemID
}

func TestEquipSlotLimits(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	addAndEquip(t, ts, id, token, "weapon", "Longsword")
	addAndEquip(t, ts, id, token, "weapon", "Dagger")

	// Third weapon equips over the two-hand limit.
	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "weapon", "name": "Shortbow"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	inv := decodeInventory(t, w.Body.Bytes())
	bowID := inv[len(inv)-1].ID

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+bowID+"/state",
		map[string]string{"state": "equipped"}, auth...)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestItemStateTransitions(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "armor", "name": "Leather Armor"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	itemID := decodeInventory(t, w.Body.Bytes())[0].ID

	// stowed -> packed -> equipped is forbidden; must go through stowed.
	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "packed"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "equipped"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "stowed"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "equipped"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "equipped", decodeInventory(t, w.Body.Bytes())[0].State)

	// Binding rejects made-up states before the rules even run.
	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/state",
		map[string]string{"state": "vaporized"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetItemQuantity(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items", map[string]interface{}{
		"type": "item", "name": "Torch", "weight": 1, "quantity": 3,
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	itemID := decodeInventory(t, w.Body.Bytes())[0].ID

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/quantity",
		map[string]int{"quantity": 7}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decodeInventory(t, w.Body.Bytes())[0].Quantity)

	w = putJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/quantity",
		map[string]int{"quantity": 0}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomizeItem(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "shield", "name": "Kite Shield"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	itemID := decodeInventory(t, w.Body.Bytes())[0].ID

	w = postJSON(ts.router, "/api/characters/"+id+"/items/"+itemID+"/customize", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var row struct {
		Inventory []struct {
			itemRow
			CustomShield *struct {
				DefenseBonus int `json:"defenseBonus"`
			} `json:"customShieldData"`
		} `json:"inventory"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	require.Len(t, row.Inventory, 1)
	assert.True(t, row.Inventory[0].IsCustom)
	assert.Empty(t, row.Inventory[0].DataRef)
	require.NotNil(t, row.Inventory[0].CustomShield)
	assert.Equal(t, 2, row.Inventory[0].CustomShield.DefenseBonus)
}

func TestRemoveItem(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice")
	id := ts.newCharacter(t, token, "Rella")
	auth := []string{"Authorization", "Bearer " + token}

	w := postJSON(ts.router, "/api/characters/"+id+"/items",
		map[string]interface{}{"type": "weapon", "name": "Dagger"}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	itemID := decodeInventory(t, w.Body.Bytes())[0].ID

	w = deleteReq(ts.router, "/api/characters/"+id+"/items/"+itemID, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeInventory(t, w.Body.Bytes()))

	w = deleteReq(ts.router, "/api/characters/"+id+"/items/"+itemID, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
