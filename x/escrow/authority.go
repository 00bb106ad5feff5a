package escrow

import "github.com/blocto/solana-go-sdk/common"

// CustodySeed is the seed the custody authority is derived from.
const CustodySeed = "escrow"

// FindCustodyAuthority returns the keyless authority that owns every
// custody account of given program, together with the bump that moves it
// off the curve. The result depends on the program identity only, so it is
// recomputed whenever it is needed and never stored.
func FindCustodyAuthority(programID common.PublicKey) (common.PublicKey, uint8, error) {
	return common.FindProgramAddress([][]byte{[]byte(CustodySeed)}, programID)
}

// CustodySignerSeeds returns the seeds that let the program sign for its
// custody authority.
func CustodySignerSeeds(bump uint8) [][]byte {
	return [][]byte{[]byte(CustodySeed), {bump}}
}
