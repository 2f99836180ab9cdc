package fsm

import (
	"fmt"
	"strings"
)

// GenerateDOT converts a table to Graphviz DOT format.
func GenerateDOT[S, I comparable](t *Table[S, I], title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	// Invisible start node
	sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
	fmt.Fprintf(&sb, "    __start -> \"%s\";\n", escapeDOT(fmt.Sprint(t.Initial)))
	sb.WriteString("\n")

	for _, s := range t.states {
		fmt.Fprintf(&sb, "    \"%s\";\n", escapeDOT(fmt.Sprint(s)))
	}
	sb.WriteString("\n")

	// Group inputs by (from, to), keeping first-seen edge order
	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, tr := range t.transitions {
		e := edge{fmt.Sprint(tr.From), fmt.Sprint(tr.To)}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprint(tr.Input))
	}

	for _, e := range order {
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(e.from), escapeDOT(e.to), escapeDOT(strings.Join(labels[e], ", ")))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
