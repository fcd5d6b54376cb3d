package rest_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/exceedrpg/exceedsheet/server/api/rest"
	"github.com/exceedrpg/exceedsheet/server/config"
	"github.com/exceedrpg/exceedsheet/server/game/dice"
	"github.com/exceedrpg/exceedsheet/server/game/sheet"
	mw "github.com/exceedrpg/exceedsheet/server/middleware"
	"github.com/exceedrpg/exceedsheet/server/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer bundles the wired router with the pieces tests poke at.
type testServer struct {
	router   *gin.Engine
	svc      *sheet.Service
	sec      config.SecurityConfig
	rulesDir string
}

// newTestServer wires the full route table against an in-memory DB and
// local cache, mirroring main.go.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	sec := config.SecurityConfig{
		JWTSecret:      "test-secret",
		JWTTTLH:        72 * time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	game := config.GameConfig{
		MaxCharacters:         5,
		StartingCombatXP:      100,
		StartingSocialXP:      50,
		StowedWeightReduction: 2,
	}
	svc := sheet.NewService(db, testutil.TestLoader(), game, zap.NewNop())
	roller := dice.NewWithSource(rand.NewSource(42))

	authH := rest.NewAuthHandler(db, c, sec)
	charH := rest.NewCharacterHandler(svc, nil)
	progH := rest.NewProgressionHandler(svc, nil)
	invH := rest.NewInventoryHandler(svc, nil)
	spellH := rest.NewSpellHandler(svc, nil)
	diceH := rest.NewDiceHandler(svc, roller)
	adminH := rest.NewAdminHandler(db, zap.NewNop())
	rulesDir := t.TempDir()
	rulesH := rest.NewRulesHandler(c, config.RulesConfig{Dir: rulesDir, CacheTTL: time.Minute})

	r := gin.New()
	r.Use(mw.RateLimit(rate.Limit(sec.RateLimitRPS), sec.RateLimitBurst))
	api := r.Group("/api")

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", mw.Auth(sec, c), authH.Logout)
	api.POST("/auth/refresh", mw.Auth(sec, c), authH.Refresh)

	chars := api.Group("/characters")
	chars.Use(mw.Auth(sec, c))
	chars.GET("", charH.List)
	chars.POST("", charH.Create)
	chars.POST("/import", charH.Import)
	chars.GET("/:id", charH.Get)
	chars.GET("/:id/sheet", charH.Sheet)
	chars.GET("/:id/export", charH.Export)
	chars.DELETE("/:id", charH.Delete)

	chars.POST("/:id/skills", progH.LearnSkill)
	chars.POST("/:id/skills/levelup", progH.LevelUpSkill)
	chars.POST("/:id/skills/leveldown", progH.LevelDownSkill)
	chars.DELETE("/:id/skills/:name", progH.RemoveSkill)
	chars.POST("/:id/perks", progH.BuyPerk)
	chars.DELETE("/:id/perks/:name", progH.RemovePerk)
	chars.POST("/:id/conditioning", progH.StartConditioning)
	chars.POST("/:id/conditioning/advance", progH.AdvanceConditioning)
	chars.DELETE("/:id/conditioning", progH.AbandonConditioning)
	chars.POST("/:id/hp/extra", progH.BuyExtraHP)
	chars.DELETE("/:id/hp/extra", progH.RemoveExtraHP)
	chars.PUT("/:id/hp", progH.SetHP)
	chars.POST("/:id/wounds", progH.SetWound)
	chars.POST("/:id/money", progH.AdjustMoney)
	chars.POST("/:id/xp", progH.GrantXP)

	chars.POST("/:id/items", invH.Add)
	chars.DELETE("/:id/items/:itemID", invH.Remove)
	chars.PUT("/:id/items/:itemID/state", invH.SetState)
	chars.PUT("/:id/items/:itemID/quantity", invH.SetQuantity)
	chars.POST("/:id/items/:itemID/customize", invH.Customize)

	chars.POST("/:id/spells", spellH.Learn)
	chars.DELETE("/:id/spells/:spellID", spellH.Delete)
	chars.POST("/:id/spells/:spellID/upgrade", spellH.Upgrade)
	chars.PUT("/:id/spells/:spellID/attune", spellH.Attune)

	chars.POST("/:id/roll/damage", diceH.Damage)
	api.POST("/dice/check", mw.Auth(sec, c), diceH.Check)

	rules := api.Group("/rules")
	rules.GET("", rulesH.List)
	rules.GET("/:name", rulesH.Get)

	admin := api.Group("/admin")
	admin.Use(rest.AdminAuth("test-admin-key"))
	admin.GET("/metrics", adminH.Metrics)
	admin.POST("/accounts/:id/ban", adminH.BanAccount)
	admin.GET("/characters/:id/audit", adminH.AuditTrail)

	return &testServer{router: r, svc: svc, sec: sec, rulesDir: rulesDir}
}

// login registers (or logs into) an account and returns the bearer token.
func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := postJSON(ts.router, "/api/auth/login", map[string]string{
		"username": username,
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"].(string)
}

// newCharacter creates a character and returns its id as a string.
func (ts *testServer) newCharacter(t *testing.T, token, name string) string {
	t.Helper()
	w := postJSON(ts.router, "/api/characters", map[string]string{
		"name": name,
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return strconv.FormatInt(resp.ID, 10)
}

func do(r *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if raw, isRaw := body.([]byte); isRaw {
		reader = bytes.NewReader(raw)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, path, body, headers...)
}

func putJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	return do(r, http.MethodPut, path, body, headers...)
}

func deleteReq(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	return do(r, http.MethodDelete, path, nil, headers...)
}

func getReq(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
