package ast

import "strings"

// Pretty renders the tree rooted at n as a multi-line, indented string
// suitable for line-by-line comparison and CLI "explain" output. Two trees
// with identical Pretty() output are structurally identical.
func Pretty(n *Node) string {
	var sb strings.Builder
	prettyLevel(&sb, n, "", "")
	return sb.String()
}

func prettyLevel(sb *strings.Builder, n *Node, firstPrefix, contPrefix string) {
	sb.WriteString(firstPrefix)
	if n == nil {
		sb.WriteString("(nil)")
		return
	}
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	switch n.Kind {
	case KindNumber:
		sb.WriteString(" ")
		sb.WriteString(n.String())
	case KindBool:
		sb.WriteString(" ")
		sb.WriteString(n.String())
	case KindVariable:
		sb.WriteString(" ")
		sb.WriteString(n.Name)
	case KindUnary, KindBinary:
		sb.WriteString(" ")
		sb.WriteString(n.Op)
	case KindFunctionCall:
		sb.WriteString(" ")
		sb.WriteString(n.Name)
	}
	sb.WriteString(")")

	for i, c := range n.Children {
		sb.WriteRune('\n')
		last := i+1 == len(n.Children)
		var childFirst, childCont string
		if last {
			childFirst = contPrefix + "└─ "
			childCont = contPrefix + "   "
		} else {
			childFirst = contPrefix + "├─ "
			childCont = contPrefix + "│  "
		}
		prettyLevel(sb, c, childFirst, childCont)
	}
}
