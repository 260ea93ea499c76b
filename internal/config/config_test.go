package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
)

func TestPreset(t *testing.T) {
	for _, n := range []contract.Network{contract.NetworkMainnet, contract.NetworkTestnet, contract.NetworkLocal} {
		t.Run(string(n), func(t *testing.T) {
			cfg, err := Preset(n)
			require.NoError(t, err)

			assert.Equal(t, n, cfg.NetworkPreset)
			assert.Equal(t, int64(1000), cfg.MinAllowableBid)
			assert.Equal(t, int64(250), cfg.EscrowServiceFeeBasisPoints)
			assert.Equal(t, contract.BondingOptional, cfg.FurnisherBondingMode)
			assert.Equal(t, int64(604800), cfg.MaxWorkStartDelay)
			assert.Equal(t, int64(259200), cfg.MaxWorkApprovalDelay)
			assert.Equal(t, contract.AllowanceBySeekerOrPlatform, cfg.BountyIncreaseAllowanceMode)
			assert.Equal(t, contract.CutoffBidAcceptance, cfg.BountyIncreaseCutoffPoint)
			assert.Equal(t, "tm_escrow", cfg.Topic)
			assert.Equal(t, "ls_escrow", cfg.Service)
			assert.Equal(t, KeyDerivationProtocol{SecurityLevel: 2, ProtocolID: "paragon escrow"}, cfg.KeyDerivationProtocol)
			assert.NoError(t, cfg.Validate())
		})
	}

	_, err := Preset("regtest")
	assert.ErrorContains(t, err, `no preset for network "regtest"`)
}

func TestFromEnv_DefaultsToLocal(t *testing.T) {
	t.Setenv(EnvNetwork, "")
	t.Setenv(EnvPlatformKey, "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, contract.NetworkLocal, cfg.NetworkPreset)
	assert.Empty(t, cfg.PlatformKey)
}

func TestFromEnv_SelectsNetworkAndKey(t *testing.T) {
	key := "03" + strings.Repeat("1f", 32)
	t.Setenv(EnvNetwork, "testnet")
	t.Setenv(EnvPlatformKey, key)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, contract.NetworkTestnet, cfg.NetworkPreset)
	assert.Equal(t, key, cfg.PlatformKey)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv(EnvNetwork, "moonnet")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "PARAGON_NETWORK: unknown network")

	t.Setenv(EnvNetwork, "mainnet")
	t.Setenv(EnvPlatformKey, "not-a-key")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "platformKey: Invalid public key format")
}

func TestValidate_CollectsProblems(t *testing.T) {
	cfg, err := Preset(contract.NetworkLocal)
	require.NoError(t, err)
	cfg.EscrowServiceFeeBasisPoints = 20_000
	cfg.FurnisherBondingMode = "sometimes"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escrowServiceFeeBasisPoints must be within 0..10000")
	assert.Contains(t, err.Error(), `unknown bonding mode "sometimes"`)
}

func TestNewRecord(t *testing.T) {
	cfg, err := Preset(contract.NetworkLocal)
	require.NoError(t, err)
	cfg.ContractType = contract.TypeBounty

	r := cfg.NewRecord("02aa", "6869", 1_700_000_000)

	assert.Equal(t, contract.StatusInitial, r.Status)
	assert.Equal(t, contract.TypeBounty, r.ContractType)
	assert.Equal(t, int64(250), r.EscrowServiceFeeBasisPoints)
	assert.Len(t, r.Bids, contract.BidSlots)
	assert.Zero(t, contract.RealBidCount(contract.Snapshot{Record: r}))
	assert.Nil(t, r.AcceptedBid)
	assert.Equal(t, contract.NotYetAccepted, r.BidAcceptedBy)
}
