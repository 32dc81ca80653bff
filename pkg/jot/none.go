package jot

type noneAlgorithm struct{}

// None returns the unsigned "none" algorithm. It signs nothing and verifies
// only an empty signature segment. Tokens using it carry no integrity
// protection, and it is matched during decoding only when the caller lists
// it explicitly among the candidate algorithms.
func None() Algorithm { return noneAlgorithm{} }

func (noneAlgorithm) Name() string { return "none" }

func (noneAlgorithm) Sign(signingInput []byte) ([]byte, error) { return nil, nil }

func (noneAlgorithm) Verify(signingInput, signature []byte) error {
	if len(signature) != 0 {
		return ErrSignatureInvalid
	}
	return nil
}
