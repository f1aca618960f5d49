package buildinglink

import (
	"context"
	"os"
	"testing"

	"aptassist-backend/lib/configutil"
	"aptassist-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type liveConfig struct {
	BaseUrl            string `json:"base_url"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	ApiSubscriptionKey string `json:"api_subscription_key"`
}

// exercises the full login flow against the real portal. requires a
// buildinglink.json5 with credentials somewhere up the tree, otherwise
// the test is skipped.
func TestLiveLogin(t *testing.T) {
	config, err := configutil.ReadRecursively[liveConfig]("buildinglink.json5")
	if os.IsNotExist(err) {
		t.Skip("no buildinglink.json5 in environment")
	}
	if err != nil {
		t.Fatal(err)
	}

	cleanup := telemetry.SetupForTesting(t, "test:scrapers/buildinglink/live")
	defer cleanup()

	client, err := NewClient(Options{
		Username:           config.Username,
		Password:           config.Password,
		BaseUrl:            config.BaseUrl,
		ApiSubscriptionKey: config.ApiSubscriptionKey,
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := client.Fetch(context.Background(), "/", FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 200, res.StatusCode())
	require.True(t, client.Session.IsAuthenticated())
}
