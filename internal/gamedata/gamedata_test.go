package gamedata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dragons-den/internal/achievement"
	"dragons-den/internal/ledger"
	"dragons-den/internal/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("")
	require.NoError(t, err)
	return c
}

func TestEmbeddedCatalogMatchesLedger(t *testing.T) {
	c := loadCatalog(t)

	for id, u := range ledger.Upgrades {
		def, ok := c.UpgradeDefinition(id)
		require.True(t, ok, id)
		assert.Equal(t, u.BaseCost, def.BaseCost, id)
		assert.Equal(t, ledger.UpgradeCostMultiplier, def.CostMultiplier, id)
		assert.Equal(t, u.EffectRate, def.EffectRate, id)
	}
	assert.Equal(t, ledger.PrestigeThreshold, c.Float("PRESTIGE_REQUIREMENT", 0))
	assert.Equal(t, ledger.HireBaseCost, c.Float("HIRE_BASE_COST", 0))
}

func TestCatalogAchievementsEvaluate(t *testing.T) {
	c := loadCatalog(t)
	e := achievement.NewEvaluator(c.Achievements, nil)

	done := e.Check(achievement.Stats{achievement.GoldAccumulated: 1500})
	require.Len(t, done, 1)
	assert.Equal(t, "first_thousand", done[0].ID)
}

func TestTreasureChance(t *testing.T) {
	c := loadCatalog(t)
	assert.InDelta(t, 0.3, c.TreasureChance("unknown", "unknown"), 1e-9)
	assert.InDelta(t, 0.3*1.5*1.6, c.TreasureChance("magical", "legendary"), 1e-9)
	assert.True(t, c.ValidExplorationType("careful"))
	assert.False(t, c.ValidExplorationType("reckless"))
}

func TestPickTreasureByWeight(t *testing.T) {
	c := loadCatalog(t)
	// total weight 60+25+10+10+5 = 110
	assert.Equal(t, "ancient_coin", c.PickTreasure(random.NewFixed(0)).ID)
	assert.Equal(t, "golden_goblet", c.PickTreasure(random.NewFixed(61.0/110)).ID)
	assert.Equal(t, "ancient_golden_goblet", c.PickTreasure(random.NewFixed(0.999)).ID)
}

func TestClickMultipliersSkipUnknown(t *testing.T) {
	c := loadCatalog(t)
	assert.Equal(t, []float64{1.05}, c.ClickMultipliers([]string{"ancient_golden_goblet", "pebble"}))
}

func TestParseRejectsUnweightedRarity(t *testing.T) {
	_, err := Parse([]byte(`
constants: {A: 1}
exploration:
  rarity_weights: {common: 1}
treasures:
  - {id: x, rarity: mythic}
`))
	assert.Error(t, err)
}

func serve(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(loadCatalog(t)).Register(mux, "/api")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandlersServeCatalog(t *testing.T) {
	rec := serve(t, http.MethodGet, "/api/treasures/dragon_scale")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool     `json:"success"`
		Data    Treasure `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Dragon Scale", body.Data.Name)

	rec = serve(t, http.MethodGet, "/api/constants/HIRE_BASE_COST")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":50`)
}

func TestHandlersUnknownIDIs404(t *testing.T) {
	for _, path := range []string{
		"/api/treasures/nope",
		"/api/achievements/nope",
		"/api/upgrades/nope",
		"/api/upgrade-definitions/nope",
		"/api/constants/NOPE",
	} {
		rec := serve(t, http.MethodGet, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestHandlersRejectPost(t *testing.T) {
	rec := serve(t, http.MethodPost, "/api/upgrades")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
