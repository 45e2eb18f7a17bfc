package chatbot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/A-bd-1999/medical-agent/internal/domain/analysis"
)

// rule pairs a pattern with its intent builder. Rules are evaluated in slice
// order and the first match wins, so more specific patterns must stay above
// generic ones ("show patient 7" before "show patients").
type rule struct {
	re    *regexp.Regexp
	build func(m []string, original string) Intent
}

// The fixed rule table. Ordering is part of the contract:
//  1. patient by id
//  2. last result
//  3. list by exam type
//  4. count (optional "of type <exam>" filter)
//  5. list all
//  6. glossary definition
var rules = []rule{
	{
		re: regexp.MustCompile(`\b(?:show|get|find|fetch|display)\s+patient\s+#?(\d+)\b`),
		build: func(m []string, original string) Intent {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return Intent{Kind: KindUnrecognized, Original: original}
			}
			return Intent{Kind: KindGetByID, PatientID: id, Original: original}
		},
	},
	{
		re: regexp.MustCompile(`\b(?:last|latest|most recent|newest)\s+(?:result|patient|analysis|record)\b`),
		build: func(_ []string, original string) Intent {
			return Intent{Kind: KindGetLast, Original: original}
		},
	},
	{
		re: regexp.MustCompile(`\b(?:show|list|get|fetch)\s+(bone|lung|disease)s?\s+(?:patients?|results?|records?)\b`),
		build: func(m []string, original string) Intent {
			exam, _ := analysis.ParseExamType(m[1])
			return Intent{Kind: KindListByExamType, ExamType: exam, Original: original}
		},
	},
	{
		// Canonical filter form: "count patients of type bone".
		re: regexp.MustCompile(`\b(?:count|how many)\s+(?:all\s+)?patients(?:\s+of\s+type\s+(bone|lung|disease)s?)?\b`),
		build: func(m []string, original string) Intent {
			in := Intent{Kind: KindCount, Original: original}
			if m[1] != "" {
				exam, _ := analysis.ParseExamType(m[1])
				in.ExamType = exam
				in.HasFilter = true
			}
			return in
		},
	},
	{
		re: regexp.MustCompile(`\b(?:show|list|get|display|fetch)\s+(?:all\s+)?patients\b`),
		build: func(_ []string, original string) Intent {
			return Intent{Kind: KindListAll, Original: original}
		},
	},
	{
		re: regexp.MustCompile(`\bwhat\s+is\s+(.+)$`),
		build: func(m []string, original string) Intent {
			term := strings.TrimSpace(strings.TrimRight(m[1], "?!. "))
			if term == "" {
				return Intent{Kind: KindUnrecognized, Original: original}
			}
			return Intent{Kind: KindDefineTerm, Term: term, Original: original}
		},
	},
}

var whitespace = regexp.MustCompile(`\s+`)

// Parse turns a free-text question into an Intent. Pure and deterministic:
// matching is case-insensitive over whitespace-normalized text, no state.
func Parse(question string) Intent {
	original := strings.TrimSpace(question)
	norm := whitespace.ReplaceAllString(strings.ToLower(original), " ")
	if norm == "" {
		return Intent{Kind: KindUnrecognized, Original: original}
	}
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(norm); m != nil {
			return r.build(m, original)
		}
	}
	return Intent{Kind: KindUnrecognized, Original: original}
}
