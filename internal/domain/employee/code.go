package employee

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codePrefix = "EMP"

// newEmployeeCode produces a candidate code of the form EMP followed
// by six digits. Uniqueness is enforced by the store, which retries on
// collision.
func newEmployeeCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to a constant the unique index will reject.
		return codePrefix + "000000"
	}
	return fmt.Sprintf("%s%06d", codePrefix, n.Int64())
}
