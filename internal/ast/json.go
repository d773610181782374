package ast

import "exprc/internal/span"

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// Every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *NumLit:
		return m("NumLit", n.Span, "value", n.Value)
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// m builds a map with "kind", "span", and additional key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"line":   s.Start.Line,
			"column": s.Start.Column,
			"offset": s.Start.Offset,
		},
		"end": map[string]interface{}{
			"line":   s.End.Line,
			"column": s.End.Column,
			"offset": s.End.Offset,
		},
	}
}
