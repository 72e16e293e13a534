package featureflags

// Evaluate decides whether a flag is on for a user in an environment.
// A flag disabled for the environment is always off; enabled without a
// configured rollout it is on for everyone. Within a rollout, each user
// gets a stable bucket from a hash of the user ID and flag key, so the
// same user always gets the same answer for the same flag. Anonymous
// requests never enter a partial rollout.
func Evaluate(flag Flag, environment, userID string) bool {
	if !flag.Environments[environment] {
		return false
	}
	if flag.RolloutPercentage == nil {
		return true
	}
	pct := *flag.RolloutPercentage
	if pct >= 100 {
		return true
	}
	if pct <= 0 {
		return false
	}
	if userID == "" {
		return false
	}
	return rolloutBucket(userID+flag.Key) < pct
}

// rolloutBucket hashes the input into [0, 100) with a 31-polynomial
// rolling hash over 32 bits. Overflow is intentional.
func rolloutBucket(s string) int {
	var h int32
	for _, ch := range s {
		h = h*31 + int32(ch)
	}
	bucket := int(h)
	if bucket < 0 {
		bucket = -bucket
	}
	return bucket % 100
}
