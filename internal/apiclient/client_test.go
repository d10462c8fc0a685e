package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/", Token: "tok-123", Timeout: time.Second, Retries: retries}, nil)
}

func TestPlayerSendsBearerAndCoercesStrings(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/player", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"gold":"1500.5","goblins":3,"achievements":["first_thousand"]}`))
	}, 0)

	snap, err := c.Player(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500.5, snap.Gold)
	assert.Equal(t, 3, snap.Goblins)
	assert.Equal(t, []string{"first_thousand"}, snap.Achievements)
	assert.Equal(t, []string{}, snap.Treasures)
	assert.True(t, snap.Valid())
}

func TestSetTokenDropsCredential(t *testing.T) {
	var auth []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"gold":1,"goblins":0}`))
	}, 0)

	_, err := c.Player(context.Background())
	require.NoError(t, err)
	c.SetToken("")
	_, err = c.Player(context.Background())
	require.NoError(t, err)
	c.SetToken("tok-456")
	_, err = c.Player(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-123", "", "Bearer tok-456"}, auth)
}

func TestDecodeSnapshotRecordsProblems(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"gold":"lots","treasures":7}`))
	require.NoError(t, err)
	assert.Zero(t, snap.Gold)
	assert.Zero(t, snap.Goblins)
	assert.Empty(t, snap.Treasures)
	assert.Len(t, snap.Problems, 3)

	_, err = DecodeSnapshot([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestDecodeSnapshotCountsMustBeWhole(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"gold":10,"goblins":1e19,"prestige_level":"1.5"}`))
	require.NoError(t, err)
	assert.Zero(t, snap.Goblins)
	assert.Zero(t, snap.PrestigeLevel)
	assert.Equal(t, []string{"goblins: out of range", "prestige_level: not a whole number"}, snap.Problems)

	snap, err = DecodeSnapshot([]byte(`{"gold":10,"goblins":"2.7"}`))
	require.NoError(t, err)
	assert.Zero(t, snap.Goblins)
	assert.False(t, snap.Valid())

	snap, err = DecodeSnapshot([]byte(`{"gold":10,"goblins":"3"}`))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Goblins)
	assert.True(t, snap.Valid())
}

func TestNumberRejectsNonFinite(t *testing.T) {
	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"NaN"`), &n))
	assert.NoError(t, json.Unmarshal([]byte(`" 42 "`), &n))
	assert.Equal(t, Number(42), n)
}

func TestUnauthorizedCarriesLoginURL(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Authentication required","login_url":"https://den.test/login"}`))
	}, 0)

	_, err := c.CollectGold(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.Equal(t, "https://den.test/login", apiErr.LoginURL)
	assert.True(t, IsUnauthorized(err))
}

func TestRejectedAndValidationAreDistinct(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if r.URL.Path == "/api/player/hire-goblin" {
			_, _ = w.Write([]byte(`{"success":false,"error":"Not enough gold to hire goblin","error_type":"rejected"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error":"ruin_id and exploration_type are required","error_type":"validation"}`))
	}, 0)

	_, err := c.HireGoblin(context.Background())
	assert.Equal(t, KindRejected, KindOf(err))
	assert.Contains(t, err.Error(), "Not enough gold")

	_, err = c.ExploreRuins(context.Background(), "", "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSuccessFalseBodyIsRejected(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Minions are still resting"}`))
	}, 0)

	_, err := c.SendMinions(context.Background())
	assert.Equal(t, KindRejected, KindOf(err))
}

func TestSendMinionsEarnedAcceptsString(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"success":true,"gold_earned":"8"}`))
	}, 0)

	resp, err := c.SendMinions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8.0, resp.Earned(10))
	assert.Equal(t, 10.0, ActionResponse{}.Earned(10))
}

func TestServerErrorIsTransportAndOnlyGetRetries(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)

	_, err := c.Player(context.Background())
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	_, err = c.Prestige(context.Background())
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeoutIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)

	_, err := c.CollectGold(context.Background())
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestExploreSendsPayload(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ruin_10_20", req["ruin_id"])
		assert.Equal(t, "careful", req["exploration_type"])
		_, _ = w.Write([]byte(`{"success":true,"treasure_found":true,"treasure_id":"ancient_coin"}`))
	}, 0)

	resp, err := c.ExploreRuins(context.Background(), "ruin_10_20", "careful")
	require.NoError(t, err)
	assert.True(t, resp.TreasureFound)
	assert.Equal(t, "ancient_coin", resp.TreasureID)
}
