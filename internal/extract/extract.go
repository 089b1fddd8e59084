// Package extract turns notice PDF text into the seven tracked fields
// using one Claude tier per evaluated model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/pkg/anthropic"
)

const systemPrompt = `You are a utility notice analyzer. The user message contains the full text of one notice.

Extract ONLY the following fields and return VALID JSON:

"vendor_account_number": "...",
"vendor_name": "...",
"service_address": "...",
"notice_category": "One of: Late Notice, Maintenance, Address Change, Cheque Received, Disconnect Notice, Rate Change, Revert to Owner, 3rd Party Audit, Others",
"notice_date": "...",
"impact_date": "...",
"impact_amount": "..."

Rules:
- Dates must use the YYYY-MM-DD format.
- If text mentions 'inspection' or 'testing' treat the notice_category as "Maintenance".
- If any field is missing in the notice, set its value to "NA".
- Only if notice_category is "Late Notice" OR "Disconnect Notice":
  - Extract "impact_date" and "impact_amount" from the text if present.
  Otherwise set both "impact_date" and "impact_amount" to "NA".
- Use plain strings only (no arrays, no nested objects).
- Return ONLY valid JSON, with no explanations or markdown.`

// jsonKeys maps the prompt's JSON keys to record fields.
var jsonKeys = map[string]model.Field{
	"vendor_account_number": model.FieldAccountNumber,
	"vendor_name":           model.FieldVendorName,
	"service_address":       model.FieldServiceAddress,
	"notice_category":       model.FieldCategory,
	"notice_date":           model.FieldNoticeDate,
	"impact_date":           model.FieldImpactDate,
	"impact_amount":         model.FieldImpactAmount,
}

// Extractor extracts notice fields through one Claude model.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// New creates an Extractor for the given API model. requestsPerSecond
// bounds the call rate; zero or negative disables pacing.
func New(client anthropic.Client, apiModel string, maxTokens int64, requestsPerSecond float64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Extractor{
		client:    client,
		model:     apiModel,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Extract runs one extraction over the notice text and returns the
// populated record. A response the model mangled beyond parsing degrades
// to an all-NA record rather than failing the run; transport errors
// propagate.
func (e *Extractor) Extract(ctx context.Context, pdfName, noticeText string) (model.Notice, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return model.Notice{}, eris.Wrap(err, "extract: rate limit wait")
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: noticeText},
		},
	})
	if err != nil {
		return model.Notice{}, eris.Wrapf(err, "extract: %s", pdfName)
	}
	resp.Usage.LogCost(e.model, "extract")

	return parseNotice(pdfName, resp.Text()), nil
}

// parseNotice coerces the model's raw answer into a record with sane
// defaults: every missing or blank field becomes NA, category defaults
// to Others, and impact fields are forced to NA outside the
// impact-bearing categories.
func parseNotice(pdfName, raw string) model.Notice {
	n := defaultNotice(pdfName)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &data); err != nil {
		zap.L().Warn("extract: failed to parse answer JSON",
			zap.String("pdf", pdfName),
			zap.Error(err),
		)
		return n
	}

	for key, field := range jsonKeys {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s != "" {
			n.SetValue(field, s)
		}
	}

	if !model.IsImpactCategory(n.Category) {
		n.ImpactDate = model.SentinelNA
		n.ImpactAmount = model.SentinelNA
	}
	return n
}

func defaultNotice(pdfName string) model.Notice {
	n := model.Notice{PDFName: pdfName, Category: model.CategoryOthers}
	for _, f := range model.Fields {
		if f == model.FieldCategory {
			continue
		}
		n.SetValue(f, model.SentinelNA)
	}
	return n
}

// cleanJSON strips markdown fences and anything outside the outermost
// JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
