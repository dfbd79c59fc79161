package recommend

import (
	"fmt"
	"sort"
	"strings"
)

const allocatorSystemPrompt = "You are an experienced PC expert. Only return the required JSON answer, " +
	"without any additional explanations or text. When providing a budget distribution, " +
	"make sure the sum is exactly 100% and the case share is at least 5%."

const composerSystemPrompt = "You are an experienced PC expert. Analyze the given components and create an optimal PC build. " +
	"Provide a detailed but concise recommendation that covers all required aspects."

const allocationCorrectionNote = "\n\nPlease repeat the calculation with a completely new approach. " +
	"The previous result did not sum up to exactly 100. This time, make absolutely sure that the " +
	"percentage values add up to exactly 100, with no rounding errors."

func allocationPrompt(budget float64, requirements string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a percentage-based budget distribution for a custom PC build based on the following:\n\n")
	fmt.Fprintf(&b, "- Total budget: %.2f Euros\n", budget)
	fmt.Fprintf(&b, "- Requirements: %s\n\n", requirements)
	b.WriteString("STRICT INSTRUCTIONS:\n")
	b.WriteString("- Return only a valid JSON object, without comments, explanation, or extra formatting\n")
	b.WriteString("- Use exactly these 8 component types as keys: \"cpu\", \"gpu\", \"ram\", \"ssd\", \"psu\", \"case\", \"motherboard\", \"cooler\"\n")
	b.WriteString("- The sum of all values must be exactly 100 (as percentages), with no rounding errors\n")
	b.WriteString("- All values must be positive numbers\n")
	b.WriteString("- The share for \"case\" must be at least 5%\n")
	b.WriteString("- Do not include extra keys like \"monitor\", \"keyboard\", \"others\"\n\n")
	b.WriteString("Example format (structure must match exactly):\n\n")
	b.WriteString(`{
  "cpu": 25,
  "gpu": 30,
  "ram": 15,
  "ssd": 10,
  "psu": 7,
  "case": 5,
  "motherboard": 5,
  "cooler": 3
}`)
	return b.String()
}

func composerPrompt(budget float64, requirements string, candidates CandidateSet, history []ConversationEntry) string {
	var b strings.Builder
	b.WriteString("You are a professional PC builder.\n\n")
	b.WriteString("Your task is to recommend a complete PC build using exactly one component from each of the following categories:\n")
	b.WriteString("- CPU\n- GPU\n- RAM\n- SSD\n- PSU\n- Case\n- Motherboard\n- Cooler\n\n")
	b.WriteString("STRICT RULES:\n")
	fmt.Fprintf(&b, "- Total budget: %.2f Euros\n", budget)
	fmt.Fprintf(&b, "- Use case: %s\n", requirements)
	b.WriteString("- Components must be chosen only from the list below\n")
	b.WriteString("- All 8 components must be included, none may be skipped\n")
	b.WriteString("- All components must be fully compatible\n")
	b.WriteString("- Total cost must be as close to the budget as possible (within 2-5% under it), without exceeding it\n")
	b.WriteString("- You must return only a valid JSON object, no extra text or explanation\n")
	b.WriteString("- If no valid build is possible from the list, return exactly {\"error\": \"NO_VALID_BUILD\"}\n\n")
	b.WriteString("JSON format (must match exactly):\n\n")
	b.WriteString(`{
  "name": "Short build name",
  "components": [
    { "name": "Example CPU", "price": 250.00 },
    { "name": "Example GPU", "price": 400.00 },
    { "name": "Example RAM", "price": 120.00 },
    { "name": "Example SSD", "price": 100.00 },
    { "name": "Example PSU", "price": 80.00 },
    { "name": "Example Case", "price": 70.00 },
    { "name": "Example Motherboard", "price": 130.00 },
    { "name": "Example Cooler", "price": 50.00 }
  ],
  "total_cost": 1200.00,
  "justification": "Explain briefly why these components were selected."
}`)
	b.WriteString("\n\nAvailable components to choose from:\n")

	keys := make([]string, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&b, "\n%s Components:\n", strings.ToUpper(key))
		for _, candidate := range candidates[key] {
			fmt.Fprintf(&b, "- %s (%s) - %s Euros\n", candidate.Name, candidate.Manufacturer, candidate.Price.StringFixed(2))
		}
	}

	if len(history) > 0 {
		b.WriteString("\nEarlier builds in this conversation (avoid repeating them unless asked):\n")
		for _, entry := range history {
			fmt.Fprintf(&b, "- %q for %q at %.2f Euros\n", entry.BuildName, entry.Requirements, entry.TotalCost)
		}
	}

	return b.String()
}
