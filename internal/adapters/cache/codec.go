package cache

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/inbox-account-scanner/internal/core"
)

func encodeResult(result *core.AnalysisResult) (string, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return string(b), nil
}

func decodeResult(payload string) (*core.AnalysisResult, error) {
	var result core.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	if result.Accounts == nil {
		result.Accounts = []string{}
	}
	return &result, nil
}
