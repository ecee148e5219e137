package assistant

import "fmt"

// GeneratorContractError means the model's reply to a fixed-format request
// (category match, category proposal, message interpretation) was not the
// bare JSON shape it was asked for. The raw response is kept for the logs.
type GeneratorContractError struct {
	Response string
	Err      error
}

func (e *GeneratorContractError) Error() string {
	return fmt.Sprintf("model broke the response contract: %v", e.Err)
}

func (e *GeneratorContractError) Unwrap() error { return e.Err }
