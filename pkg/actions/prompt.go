package actions

import (
	"fmt"
	"sort"
	"strings"
)

// PromptContext renders the action catalog as a prompt block for the
// executive agent's system instruction: how to format an action and what is
// available.
func PromptContext(principal string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `## Available Actions

You can propose actions to be executed on behalf of %s. When you want to
take an action, include it in your response using this format:

[ACTION: action_type]
{"parameter": "value"}
[/ACTION]

The action will be shown to %s for confirmation before being executed.

### Available Action Types:

`, principal, principal)

	types := make([]string, 0, len(definitions))
	for t := range definitions {
		types = append(types, string(t))
	}
	sort.Strings(types)

	for _, t := range types {
		def := definitions[Type(t)]
		fmt.Fprintf(&b, "**%s**: %s\n", t, def.Description)
		params := make([]string, 0, len(def.Parameters))
		for name := range def.Parameters {
			params = append(params, name)
		}
		sort.Strings(params)
		for _, name := range params {
			fmt.Fprintf(&b, "  - %s: %s\n", name, def.Parameters[name])
		}
		if def.Example != "" {
			fmt.Fprintf(&b, "  Example: %s\n", def.Example)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `### Guidelines for Actions:

1. Always explain what you are proposing and why before including an action
2. One action at a time: propose one, wait for confirmation, then the next
3. Be specific: use exact agent IDs and field names
4. Summarize changes after actions are confirmed

You are the strategic leader. Use these powers to help %s achieve their
vision for the company.
`, principal)

	return b.String()
}
