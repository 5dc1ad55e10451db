package openai

import (
	"fmt"
	"slices"
	"strings"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/core"
)

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "module": {
      "type": "string"
    },
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    }
  },
  "required": ["module", "confidence"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `Classify the given vendor pricing text into exactly one product module category and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The module field must match exactly one of the listed values: %s.
- Confidence is an integer from 0 (pure guess) to 100 (unambiguous). Rate based on how clearly the text names the product category.
- Classify based only on what the text says. Do not hallucinate capabilities the vendor does not mention.
- If the text describes several products, pick the one the pricing applies to.
- If no category fits, use "Otro" with a low confidence.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Identity verification for onboarding: documentary checks, liveness and AML screening from $0.50 per applicant."
Output:
{"module":"KYC/KYB","confidence":92}

Example (informal listing):
Input: "white label crypto wallet, branded app, custody included, ask for pricing"
Output:
{"module":"Wallet Base","confidence":78}

Example (no clear category):
Input: "Contact our sales team for a custom quote."
Output:
{"module":"Otro","confidence":15}`

const priceResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "price": {
      "type": "string"
    },
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    }
  },
  "required": ["price", "confidence"],
  "additionalProperties": false
}`

const pricePromptTemplate = `Extract the single most relevant price from the given vendor pricing text and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The price field keeps the currency symbol or code exactly as written, e.g. "$0.50", "USD 300", "€1,200".
- Prefer the headline or per-unit price over add-ons, discounts, or crossed-out prices.
- If the text contains no price, return "price": "" with confidence 0.
- Confidence is an integer from 0 to 100 reflecting how certain you are that this is the operative price.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "KYC verification costs $0.50 per check, volume discounts available"
Output:
{"price":"$0.50","confidence":95}

Example (monthly plan):
Input: "Pro plan: USD 300 per month billed annually"
Output:
{"price":"USD 300","confidence":90}

Example (no price):
Input: "Pricing available on request."
Output:
{"price":"","confidence":0}`

const commercialResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "estimated_price": {
      "type": "string"
    },
    "module": {
      "type": "string"
    },
    "conditions": {
      "type": "object",
      "additionalProperties": {
        "type": "string"
      }
    },
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    }
  },
  "required": ["estimated_price", "module", "conditions", "confidence"],
  "additionalProperties": false
}`

const commercialPromptTemplate = `Analyze the given vendor pricing text and extract its commercial facts as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The module field must match exactly one of the listed values: %s.
- estimated_price keeps the currency symbol or code exactly as written; "" if the text has no price.
- conditions is a flat string map of commercial terms actually present in the text. Use keys like
  "setup_fee", "monthly_cost", "transaction_fees", "minimum_requirements", "contract_terms" when they apply.
  Omit keys the text says nothing about; an empty object is valid.
- Confidence is an integer from 0 to 100 reflecting how complete and unambiguous the extracted facts are.
- Extract only what the text states. Do not infer prices or terms that are not written.
- The JSON must parse without errors; no trailing commas, no extra keys outside conditions, and no extraneous text outside the object.

Example:
Input: "KYC verification costs $0.50 per check. Setup fee of $2,000, minimum 1,000 checks per month, 12 month contract."
Output:
{
  "estimated_price": "$0.50",
  "module": "KYC/KYB",
  "conditions": {
    "setup_fee": "$2,000",
    "minimum_requirements": "1,000 checks per month",
    "contract_terms": "12 month contract"
  },
  "confidence": 92
}

Example (thin marketing page):
Input: "The most complete white label wallet in LATAM. Talk to sales."
Output:
{
  "estimated_price": "",
  "module": "Wallet Base",
  "conditions": {},
  "confidence": 40
}`

const validationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    },
    "justification": {
      "type": "string"
    }
  },
  "required": ["confidence", "justification"],
  "additionalProperties": false
}`

const validationPromptTemplate = `You are given two independent observations of a vendor's pricing, extracted from different sources. Judge whether they describe the same commercial offering and return your verdict as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Confidence is an integer from 0 (contradictory observations) to 100 (clearly the same offering).
- Consider product category, price magnitude, currency, and commercial conditions. Small price differences
  from rounding, currency formatting, or snapshot dates are expected and should not lower the score much.
- A different product category or an order-of-magnitude price difference is a strong contradiction.
- Justification is one or two short sentences naming the decisive agreement or conflict.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Observation A: module "KYC/KYB", price "$0.50", source "vendor pricing page"
Observation B: module "KYC/KYB", price "$0.55", source "sales deck"
Output:
{"confidence":88,"justification":"Both describe per-check KYC pricing at essentially the same rate."}

Example (conflict):
Observation A: module "Payment Gateway", price "$2,000", source "vendor pricing page"
Observation B: module "KYC/KYB", price "$0.50", source "blog post"
Output:
{"confidence":12,"justification":"Different product categories and incompatible price magnitudes."}`

// buildClassificationPrompt creates the classification system prompt with
// the module taxonomy embedded.
func buildClassificationPrompt() string {
	return fmt.Sprintf(classificationPromptTemplate,
		classificationResponseSchema,
		strings.Join(ai.ModuleTypes, ", "))
}

// buildPricePrompt creates the price extraction system prompt.
func buildPricePrompt() string {
	return fmt.Sprintf(pricePromptTemplate, priceResponseSchema)
}

// buildCommercialPrompt creates the commercial analysis system prompt with
// the module taxonomy embedded.
func buildCommercialPrompt() string {
	return fmt.Sprintf(commercialPromptTemplate,
		commercialResponseSchema,
		strings.Join(ai.ModuleTypes, ", "))
}

// buildValidationPrompt creates the semantic validation system prompt.
func buildValidationPrompt() string {
	return fmt.Sprintf(validationPromptTemplate, validationResponseSchema)
}

// formatObservation renders one analysis result as a compact block for the
// semantic validation prompt.
func formatObservation(label string, r *core.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Observation %s:\n", label)
	fmt.Fprintf(&b, "  module: %q\n", r.Classification)
	fmt.Fprintf(&b, "  price: %q\n", r.EstimatedPrice)
	fmt.Fprintf(&b, "  source: %q\n", r.Source)
	if len(r.Conditions) > 0 {
		b.WriteString("  conditions:\n")
		keys := make([]string, 0, len(r.Conditions))
		for k := range r.Conditions {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s: %q\n", k, r.Conditions[k])
		}
	}
	return b.String()
}
