package core

const (
	// SecretSizeLimitBytes approximates the maximum payload for a Secret.
	SecretSizeLimitBytes = 1048576 // 1MiB
	// SecretSizeWarnThresholdBytes raises a warning when above ~90%% of the limit.
	SecretSizeWarnThresholdBytes = SecretSizeLimitBytes * 9 / 10
)

// SizeCheckResult captures the outcome of validating a Secret payload size.
type SizeCheckResult struct {
	Bytes int
	Warn  bool
	Block bool
}

// CheckSecretSize sums the managed keys, values and hash tags to guard against oversized Secrets.
func CheckSecretSize(state *ActualState) SizeCheckResult {
	total := 0
	if state != nil {
		for name, value := range state.Values {
			total += len(name) + len(value)
		}
		for name, hash := range state.Tags {
			total += len(TagKey(name)) + len(hash)
		}
	}
	res := SizeCheckResult{Bytes: total}
	if total > SecretSizeLimitBytes {
		res.Block = true
	} else if total > SecretSizeWarnThresholdBytes {
		res.Warn = true
	}
	return res
}
