package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// maxTransformTimeout is the maximum execution time for jq transforms.
	maxTransformTimeout = 1 * time.Second

	// maxTransformInputSize is the maximum input size for transforms (10MB).
	maxTransformInputSize = 10 * 1024 * 1024
)

// TransformResponse applies a jq expression to reshape a response body.
// An empty expression returns the body unchanged. A single jq output is
// returned as-is; multiple outputs are collected into a slice.
func TransformResponse(expression string, response interface{}) (interface{}, *Error) {
	if expression == "" {
		return response, nil
	}

	if err := validateTransformInputSize(response); err != nil {
		return nil, NewValidationError(err.Error(), nil)
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Unable to parse transform expression %q", expression), err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Unable to compile transform expression %q", expression), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), maxTransformTimeout)
	defer cancel()

	var results []interface{}
	iter := code.RunWithContext(ctx, response)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if iterErr, isErr := v.(error); isErr {
			return nil, NewValidationError(fmt.Sprintf("Transform expression %q failed", expression), iterErr)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// validateTransformInputSize rejects oversized transform inputs.
func validateTransformInputSize(data interface{}) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("transform input is not JSON-encodable: %w", err)
	}
	if int64(len(encoded)) > maxTransformInputSize {
		return fmt.Errorf("transform input exceeds %d bytes", maxTransformInputSize)
	}
	return nil
}
