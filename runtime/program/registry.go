package program

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/stepflow-lang/stepflow/runtime/engine"
)

// kinds maps document step-kind names to engine constructors. The "alias"
// kind is handled separately by the builder because it carries a nested
// prefix program.
var kinds = map[string]func(engine.Priority) engine.Step{
	"base":   func(p engine.Priority) engine.Step { return engine.NewBase(p) },
	"pipe":   func(p engine.Priority) engine.Step { return engine.NewPipe(p) },
	"with":   func(p engine.Priority) engine.Step { return engine.NewWith(p) },
	"args":   func(p engine.Priority) engine.Step { return engine.NewArgs(p) },
	"many":   func(p engine.Priority) engine.Step { return engine.NewMany(p) },
	"one":    func(p engine.Priority) engine.Step { return engine.NewOne(p) },
	"get":    func(p engine.Priority) engine.Step { return engine.NewGet(p) },
	"set":    func(p engine.Priority) engine.Step { return engine.NewSet(p) },
	"call":   func(p engine.Priority) engine.Step { return engine.NewInvoke(p) },
	"delete": func(p engine.Priority) engine.Step { return engine.NewDel(p) },
	"null":   func(p engine.Priority) engine.Step { return engine.NewNull(p) },
}

// Kinds lists the step kinds a document may name, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds)+1)
	for k := range kinds {
		names = append(names, k)
	}
	names = append(names, "alias")
	sort.Strings(names)
	return names
}

// closestKind finds the closest registered kind using fuzzy matching, or ""
// when nothing ranks.
func closestKind(target string) string {
	ranks := fuzzy.RankFindFold(target, Kinds())
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
