// Package rotation spreads pending verification requests across eligible
// voters without any shared assignment state. Each voter's slice of the
// pending set is a deterministic function of (pending set, eligible voter
// count, voter id), so repeated calls agree and no coordination is needed.
// Assignment is advisory, not an exclusivity lock: two voters may be shown
// the same request and quorum counting resolves the overlap.
package rotation

import (
	"hash/fnv"
	"strconv"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
)

// startOffset derives a stable position in the pending list from the voter
// id. FNV-1a over the decimal form of the id is used deliberately instead of
// any runtime-dependent hash so the assignment is reproducible everywhere.
func startOffset(voterID int32, n int) int {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(int64(voterID), 10)))
	return int(h.Sum32() % uint32(n))
}

// Assign returns the ordered subset of pending requests the voter should
// review. The pending slice must already exclude requests the voter has
// voted on and must be in a stable order.
func Assign(pending []domain.VerificationRequest, eligibleVoters int, voterID int32) []domain.VerificationRequest {
	n := len(pending)
	if n == 0 || eligibleVoters <= 0 {
		return nil
	}

	// Ceiling division, never below one request per voter.
	share := (n + eligibleVoters - 1) / eligibleVoters
	if share < 1 {
		share = 1
	}
	if share > n {
		share = n
	}

	start := startOffset(voterID, n)
	assigned := make([]domain.VerificationRequest, 0, share)
	for i := 0; i < share; i++ {
		assigned = append(assigned, pending[(start+i)%n])
	}
	return assigned
}
