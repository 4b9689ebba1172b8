package signing

import (
	"crypto/hmac"
)

// Step names in a verification trace.
const (
	StepContentHash      = "Content Hash"
	StepStringToSign     = "String to Sign"
	StepComputedHMAC     = "Computed HMAC"
	StepSignatureCompare = "Signature Compare"
)

// Failure reasons.
const (
	ReasonContentHashMismatch = "content_hash_mismatch"
	ReasonSignatureMismatch   = "signature_mismatch"
)

// Step is one entry of the verification trace. Comparison steps carry
// Computed, Received and Valid; derivation steps carry Value.
type Step struct {
	Name     string `json:"step"`
	Computed string `json:"computed,omitempty"`
	Received string `json:"received,omitempty"`
	Value    string `json:"value,omitempty"`
	Valid    *bool  `json:"valid,omitempty"`
}

// Verification is the outcome of checking a received webhook. A mismatch is
// a normal result, not an error.
type Verification struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Steps  []Step `json:"steps"`
}

// Verify recomputes the content hash of body and the signature over the
// canonical string built from the received date, the configured host and
// path, and the declared content hash. A modified body therefore fails only
// the hash step, while a forged hash header or wrong secret fails the
// signature step. Both comparisons are constant time.
func Verify(body []byte, h Headers, cfg Config) (Verification, error) {
	if err := cfg.Validate(); err != nil {
		return Verification{}, err
	}

	computedHash := ContentHash(body)
	hashValid := hmac.Equal([]byte(computedHash), []byte(h.ContentSHA256))

	canonical := CanonicalString(cfg.Path, h.Date, cfg.Host, h.ContentSHA256)
	computedSig := ComputeSignature(cfg.Secret, canonical)
	receivedSig := h.Signature()
	sigValid := receivedSig != "" && hmac.Equal([]byte(computedSig), []byte(receivedSig))

	v := Verification{
		Valid: hashValid && sigValid,
		Steps: []Step{
			{Name: StepContentHash, Computed: computedHash, Received: h.ContentSHA256, Valid: &hashValid},
			{Name: StepStringToSign, Value: canonical},
			{Name: StepComputedHMAC, Value: computedSig},
			{Name: StepSignatureCompare, Computed: computedSig, Received: receivedSig, Valid: &sigValid},
		},
	}
	switch {
	case !hashValid:
		v.Reason = ReasonContentHashMismatch
	case !sigValid:
		v.Reason = ReasonSignatureMismatch
	}
	return v, nil
}
