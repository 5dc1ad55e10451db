package badger

import (
	"fmt"

	"github.com/latforge/sondeo/core"
)

// Key prefix for vector records. Fingerprints are stable content hashes,
// so record keys need no sequence counter.
const vectorRecordPrefix = "vecrec"

// makeVectorRecordKey generates a key for a vector record by fingerprint.
func makeVectorRecordKey(id core.Fingerprint) []byte {
	return []byte(fmt.Sprintf("%s:%s", vectorRecordPrefix, id))
}
