package agents

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/omakase-ai/concierge/components"
	"github.com/omakase-ai/concierge/schema"
)

// NoAnswerText is the canned answer used when nothing usable survives
// extraction.
const NoAnswerText = "AIの回答が見つかりませんでした。"

// ResultExtractor is one stage of the prioritized extraction chain. Stages
// are tried in order; the first stage yielding a syntactically valid array
// wins, even an empty one.
type ResultExtractor interface {
	Name() string
	Extract(msgs []components.Message) ([]Record, bool)
}

// DefaultChain is the extraction order: explicit field on the terminal
// message, message scan, embedded-JSON recovery, URL-marker heuristic.
func DefaultChain() []ResultExtractor {
	return []ResultExtractor{TraceField{}, MessageScan{}, JSONSubstring{}, KeywordHeuristic{}}
}

// Extract recovers {text, results} from a finished trace. It never panics
// and never returns nil results; any stage failure falls through to the next
// priority.
func Extract(trace *components.Trace) *Answer {
	msgs := trace.Messages()
	results := []Record{}
	for _, stage := range DefaultChain() {
		if found, ok := stage.Extract(msgs); ok {
			results = found
			break
		}
	}
	text := extractText(msgs)
	if text == "" {
		text = NoAnswerText
	}
	return &Answer{Text: text, Results: results}
}

// extractText resolves the answer text: explicit message field on the
// terminal message, then the last assistant content with chunk lists
// flattened, then an explicit error field, then the stringified trace.
func extractText(msgs []components.Message) string {
	if len(msgs) == 0 {
		return ""
	}
	terminal := msgs[len(msgs)-1]
	if m, ok := contentMap(terminal); ok {
		for _, key := range []string{"message", "text"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Role() != components.AssistantRole || len(msg.ToolCalls()) > 0 {
			continue
		}
		if s, ok := contentString(msg); ok && s != "" {
			return s
		}
		if chunks := flattenChunks(msg.Content().Raw()); chunks != "" {
			return chunks
		}
	}
	if m, ok := contentMap(terminal); ok {
		if s, ok := m["error"].(string); ok && s != "" {
			return s
		}
	}
	bs, err := json.Marshal(msgs)
	if err != nil || len(bs) == 0 {
		return ""
	}
	return string(bs)
}

// flattenChunks concatenates the text fields of a {type,text} chunk list.
func flattenChunks(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := m["text"].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// TraceField reads an explicit results field off the terminal message.
type TraceField struct{}

func (TraceField) Name() string { return "trace_field" }

func (TraceField) Extract(msgs []components.Message) ([]Record, bool) {
	if len(msgs) == 0 {
		return nil, false
	}
	if m, ok := contentMap(msgs[len(msgs)-1]); ok {
		return toRecords(m["results"])
	}
	return nil, false
}

// MessageScan looks for a structured payload with a results key anywhere in
// the trace, most recent first.
type MessageScan struct{}

func (MessageScan) Name() string { return "message_scan" }

func (MessageScan) Extract(msgs []components.Message) ([]Record, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := contentMap(msgs[i]); ok {
			if records, ok := toRecords(m["results"]); ok {
				return records, true
			}
		}
	}
	return nil, false
}

var resultsArrayRe = regexp.MustCompile(`(?s)"results"\s*:\s*(\[.*?\])`)

// JSONSubstring recovers results out of string content: strict parse first,
// then a best-effort regex around the "results": token when the string
// merely embeds the JSON.
type JSONSubstring struct{}

func (JSONSubstring) Name() string { return "json_substring" }

func (JSONSubstring) Extract(msgs []components.Message) ([]Record, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		s, ok := contentString(msgs[i])
		if !ok || s == "" {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			if records, ok := toRecords(parsed["results"]); ok {
				return records, true
			}
			continue
		}
		if !strings.Contains(s, `"results"`) {
			continue
		}
		if m := resultsArrayRe.FindStringSubmatch(s); m != nil {
			var arr []any
			if err := json.Unmarshal([]byte(m[1]), &arr); err == nil {
				if records, ok := toRecords(arr); ok {
					return records, true
				}
			}
		}
	}
	return nil, false
}

var (
	urlMarkers    = []string{"youtube_url", "spotify_url", "google_maps_url"}
	lazyArrayRe   = regexp.MustCompile(`(?s)\[.*?\]`)
	greedyArrayRe = regexp.MustCompile(`(?s)\[.*\]`)
)

// KeywordHeuristic is the last resort: string content mentioning a known
// domain URL key is scanned for a JSON array whose first element looks like
// a record.
type KeywordHeuristic struct{}

func (KeywordHeuristic) Name() string { return "keyword_heuristic" }

func (KeywordHeuristic) Extract(msgs []components.Message) ([]Record, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		s, ok := contentString(msgs[i])
		if !ok || s == "" {
			continue
		}
		if !containsAny(s, urlMarkers) {
			continue
		}
		for _, re := range []*regexp.Regexp{lazyArrayRe, greedyArrayRe} {
			m := re.FindString(s)
			if m == "" {
				continue
			}
			var arr []any
			if err := json.Unmarshal([]byte(m), &arr); err != nil {
				continue
			}
			records, ok := toRecords(arr)
			if !ok || len(records) == 0 {
				continue
			}
			if recordLike(records[0]) {
				return records, true
			}
		}
	}
	return nil, false
}

func recordLike(r Record) bool {
	keys := append([]string{"name", "title"}, urlMarkers...)
	for _, k := range keys {
		if hasKey(r, k) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// toRecords materializes an extracted value as a record list. A valid array
// wins even when empty; non-map elements are dropped.
func toRecords(v any) ([]Record, bool) {
	switch arr := v.(type) {
	case nil:
		return nil, false
	case []any:
		records := make([]Record, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]any); ok {
				records = append(records, Record(m))
			}
		}
		return records, true
	case []Record:
		return arr, true
	default:
		return nil, false
	}
}

func contentMap(msg components.Message) (map[string]any, bool) {
	if v, ok := msg.Content().(schema.Value); ok {
		return v.Map()
	}
	return nil, false
}

func contentString(msg components.Message) (string, bool) {
	if s, ok := msg.Content().(schema.String); ok {
		return string(s), true
	}
	return "", false
}
