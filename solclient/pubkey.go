package solclient

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"

	"solbot/util"
)

const (
	PublicKeyLength = 32
	MaxSeedLength   = 32
	MaxSeeds        = 16

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = errors.New("Seed exceeds maximum length")
	ErrTooManySeeds          = errors.New("Too many seeds")
	ErrInvalidSeeds          = errors.New("Derived address lies on the ed25519 curve")
	ErrNoViableBump          = errors.New("Unable to find a viable program address bump")
)

type PublicKey [PublicKeyLength]byte

// ParsePublicKey decodes a base58 address
func ParsePublicKey(s string) (PublicKey, error) {

	var pk PublicKey

	b := base58.Decode(s)
	if len(b) != PublicKeyLength {
		return pk, errors.Errorf("Invalid public key %q: decoded to %d bytes", s, len(b))
	}

	copy(pk[:], b)

	return pk, nil
}

func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

func (p PublicKey) Bytes() []byte {
	return p[:]
}

// IsOnCurve reports whether b is a valid compressed ed25519 point
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes seeds and program id into an address. The
// result is only valid when it falls off the curve, so no private key exists.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {

	var pda PublicKey

	if len(seeds) > MaxSeeds {
		return pda, ErrTooManySeeds
	}

	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return pda, ErrMaxSeedLengthExceeded
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	copy(pda[:], h.Sum(nil))

	if IsOnCurve(pda[:]) {
		return pda, ErrInvalidSeeds
	}

	return pda, nil
}

// FindProgramAddress searches bump seeds from 255 downward and returns the
// first off-curve address along with its bump.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {

	for bump := 255; bump >= 0; bump-- {

		withBump := make([][]byte, 0, len(seeds)+1)
		withBump = append(withBump, seeds...)
		withBump = append(withBump, []byte{byte(bump)})

		pda, err := CreateProgramAddress(withBump, programID)
		switch {
		case err == nil:
			return pda, uint8(bump), nil
		case errors.Is(err, ErrInvalidSeeds):
			continue
		default:
			return PublicKey{}, 0, err
		}
	}

	return PublicKey{}, 0, ErrNoViableBump
}

// TipDistributionSeeds builds the seeds of the Jito tip distribution account
// for a vote account and epoch.
func TipDistributionSeeds(vote PublicKey, epoch uint64) [][]byte {

	epochBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(epochBytes, epoch)

	return [][]byte{
		[]byte(util.TipDistributionSeed),
		vote.Bytes(),
		epochBytes,
	}
}

// TipDistributionAccount derives the account holding the epoch's MEV tips
// for vote. Derivations are memoized.
func (c *Client) TipDistributionAccount(vote string, epoch uint64) (PublicKey, error) {

	key := vote + ":" + strconv.FormatUint(epoch, 10)
	if pda, ok := c.pdaCache.Get(key); ok {
		return pda, nil
	}

	votePk, err := ParsePublicKey(vote)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "Unable to parse vote address")
	}

	programID, err := ParsePublicKey(util.TipDistributionProgramID)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "Unable to parse tip distribution program")
	}

	pda, _, err := FindProgramAddress(TipDistributionSeeds(votePk, epoch), programID)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "Unable to derive tip distribution account")
	}

	c.pdaCache.Add(key, pda)

	return pda, nil
}
