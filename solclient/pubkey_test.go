package solclient

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solbot/util"
)

const testVote = "Vote111111111111111111111111111111111111111"

func TestParsePublicKeyRoundTrip(t *testing.T) {

	pk, err := ParsePublicKey(util.StakeProgramID)
	require.NoError(t, err)
	assert.Equal(t, util.StakeProgramID, pk.String())

	_, err = ParsePublicKey("not-base58-0OIl")
	require.Error(t, err)

	_, err = ParsePublicKey("1111")
	require.Error(t, err)
}

func TestIsOnCurve(t *testing.T) {

	// ed25519 base point
	basePoint, _ := hex.DecodeString("5866666666666666666666666666666666666666666666666666666666666666")
	assert.True(t, IsOnCurve(basePoint))

	assert.False(t, IsOnCurve([]byte{1, 2, 3}))
}

func TestFindProgramAddress(t *testing.T) {

	programID := MustParsePublicKey(util.TipDistributionProgramID)
	seeds := TipDistributionSeeds(MustParsePublicKey(testVote), 500)

	pda, bump, err := FindProgramAddress(seeds, programID)
	require.NoError(t, err)
	assert.False(t, IsOnCurve(pda.Bytes()))

	again, againBump, err := FindProgramAddress(seeds, programID)
	require.NoError(t, err)
	assert.Equal(t, pda, again)
	assert.Equal(t, bump, againBump)

	// The bump found must reproduce the same address directly
	direct, err := CreateProgramAddress(append(seeds, []byte{bump}), programID)
	require.NoError(t, err)
	assert.Equal(t, pda, direct)

	other, _, err := FindProgramAddress(TipDistributionSeeds(MustParsePublicKey(testVote), 501), programID)
	require.NoError(t, err)
	assert.NotEqual(t, pda, other)
}

func TestCreateProgramAddressKnownVectors(t *testing.T) {

	programID := MustParsePublicKey("BPFLoaderUpgradeab1e11111111111111111111111")

	cases := []struct {
		name  string
		seeds [][]byte
		want  string
	}{
		{"empty and one", [][]byte{[]byte(""), {1}}, "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe"},
		{"utf8 and zero", [][]byte{[]byte("☉"), {0}}, "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19"},
		{"two words", [][]byte{[]byte("Talking"), []byte("Squirrels")}, "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pda, err := CreateProgramAddress(tc.seeds, programID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, pda.String())
		})
	}

	one, err := CreateProgramAddress([][]byte{[]byte("Talking")}, programID)
	require.NoError(t, err)
	assert.NotEqual(t, "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk", one.String())
}

func TestTipDistributionSeedsEpochLittleEndian(t *testing.T) {
	seeds := TipDistributionSeeds(MustParsePublicKey(testVote), 0x0102)
	require.Len(t, seeds, 3)
	assert.Equal(t, []byte("TIP_DISTRIBUTION_ACCOUNT"), seeds[0])
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}, seeds[2])
}

func TestCreateProgramAddressSeedLimits(t *testing.T) {

	programID := MustParsePublicKey(util.TipDistributionProgramID)

	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, programID)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	_, err = CreateProgramAddress(make([][]byte, MaxSeeds+1), programID)
	assert.ErrorIs(t, err, ErrTooManySeeds)
}

func TestTipDistributionAccountMemoized(t *testing.T) {

	c, err := New("http://solana.test", nil)
	require.NoError(t, err)

	first, err := c.TipDistributionAccount(testVote, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, c.pdaCache.Len())

	second, err := c.TipDistributionAccount(testVote, 500)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.pdaCache.Len())

	_, err = c.TipDistributionAccount("bogus", 500)
	require.Error(t, err)
}
