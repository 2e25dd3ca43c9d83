package query

import (
	"math"
	"strconv"
	"strings"
)

// Parse turns a query string into an AST node. Parsing is total: any input,
// including the empty string, yields some Node.
func Parse(q string) Node {
	fields := strings.Fields(q)
	var nodes []Node

	for i := 0; i < len(fields); i++ {
		tok := fields[i]

		if idx := strings.Index(tok, ":"); idx >= 0 {
			field := tok[:idx]
			val := tok[idx+1:]

			if strings.HasPrefix(val, `"`) && !strings.HasSuffix(val, `"`) {
				for i+1 < len(fields) {
					i++
					next := fields[i]
					val += " " + next
					if strings.HasSuffix(next, `"`) {
						break
					}
				}
			}
			val = strings.Trim(val, `"`)

			nodes = append(nodes, parseFieldClause(field, val))
			continue
		}

		if strings.HasPrefix(tok, `"`) {
			nodes = append(nodes, Phrase{Text: strings.Trim(tok, `"`)})
			continue
		}

		switch strings.ToUpper(tok) {
		case "AND":
			continue
		case "OR":
			if len(nodes) > 0 {
				last := nodes[len(nodes)-1]
				if i+1 < len(fields) {
					i++
					next := Term{Word: fields[i]}
					nodes[len(nodes)-1] = Or{Children: []Node{last, next}}
				}
			}
		case "NOT":
			if i+1 < len(fields) {
				i++
				nodes = append(nodes, Not{Child: Term{Word: fields[i]}})
			}
		default:
			nodes = append(nodes, Term{Word: tok})
		}
	}

	switch len(nodes) {
	case 0:
		return Term{Word: ""}
	case 1:
		return nodes[0]
	default:
		return And{Children: nodes}
	}
}

func parseFieldClause(field, val string) Node {
	switch field {
	case "level":
		return FieldTerm{Field: "level", Value: val}
	case "service":
		return FieldTerm{Field: "service", Value: val}
	case "contains":
		return Contains{Word: val}
	case "phrase":
		return Phrase{Text: val}
	case "fuzzy":
		if word, dist, ok := strings.Cut(val, "~"); ok {
			d, err := strconv.ParseUint(dist, 10, 8)
			if err != nil {
				d = 1
			}
			return Fuzzy{Word: word, Distance: uint8(d)}
		}
		return Fuzzy{Word: val, Distance: 1}
	case "regex":
		return Regex{Pattern: val}
	case "timestamp":
		return parseTimestampRange(val)
	default:
		return FieldTerm{Field: "unknown", Value: val}
	}
}

func parseTimestampRange(val string) NumericRange {
	if lo, ok := strings.CutPrefix(val, ">="); ok {
		v, err := strconv.ParseUint(lo, 10, 64)
		if err != nil {
			v = 0
		}
		return NumericRange{Field: "timestamp", Lo: v, Hi: math.MaxUint64}
	}
	if hi, ok := strings.CutPrefix(val, "<="); ok {
		v, err := strconv.ParseUint(hi, 10, 64)
		if err != nil {
			v = math.MaxUint64
		}
		return NumericRange{Field: "timestamp", Lo: 0, Hi: v}
	}
	v, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		v = 0
	}
	return NumericRange{Field: "timestamp", Lo: v, Hi: v}
}
