package costs

import "strings"

const perMillion = 1_000_000.0

// EstimateOpenAIUSD returns estimated USD cost for OpenAI-family models.
// Returns ok=false when no known pricing exists for the model. Models served
// through free tiers (e.g. GitHub Models) still get the list-price estimate.
func EstimateOpenAIUSD(model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	modelName := strings.ToLower(strings.TrimSpace(model))

	var inputPerMillion float64
	var outputPerMillion float64

	switch {
	case strings.Contains(modelName, "gpt-4.1-nano"):
		inputPerMillion = 0.10
		outputPerMillion = 0.40
	case strings.Contains(modelName, "gpt-4.1-mini"), strings.Contains(modelName, "gpt-4o-mini"):
		inputPerMillion = 0.40
		outputPerMillion = 1.60
	case strings.Contains(modelName, "gpt-4.1"):
		inputPerMillion = 2.00
		outputPerMillion = 8.00
	case strings.Contains(modelName, "gpt-4o"):
		inputPerMillion = 2.50
		outputPerMillion = 10.00
	default:
		return 0, false
	}

	inputCost := (float64(inputTokens) / perMillion) * inputPerMillion
	outputCost := (float64(outputTokens) / perMillion) * outputPerMillion
	return inputCost + outputCost, true
}

// EstimateAnthropicUSD returns estimated USD cost for Anthropic models.
func EstimateAnthropicUSD(model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	modelName := strings.ToLower(strings.TrimSpace(model))

	var inputPerMillion float64
	var outputPerMillion float64

	switch {
	case strings.Contains(modelName, "haiku"):
		inputPerMillion = 0.80
		outputPerMillion = 4.00
	case strings.Contains(modelName, "sonnet"):
		inputPerMillion = 3.00
		outputPerMillion = 15.00
	case strings.Contains(modelName, "opus"):
		inputPerMillion = 15.00
		outputPerMillion = 75.00
	default:
		return 0, false
	}

	inputCost := (float64(inputTokens) / perMillion) * inputPerMillion
	outputCost := (float64(outputTokens) / perMillion) * outputPerMillion
	return inputCost + outputCost, true
}

// EstimateUSD returns estimated USD cost by provider. Unknown models cost 0.
func EstimateUSD(providerName, model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case "openai":
		return EstimateOpenAIUSD(model, inputTokens, outputTokens)
	case "anthropic":
		return EstimateAnthropicUSD(model, inputTokens, outputTokens)
	default:
		return 0, false
	}
}
