// Package binding fills ${path} placeholders in input text from decoded JSON
// data before the text is laid out.
package binding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fill 将文本中的 ${path.to.value} 或 ${list[0].name} 替换为 data 中的值。
// 路径不存在时保留原占位符；"$${" 输出字面量 "${"。
func Fill(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	var sb strings.Builder
	for {
		i := strings.Index(text, "${")
		if i < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		if i > 0 && text[i-1] == '$' {
			sb.WriteString(text[:i-1])
			sb.WriteString("${")
			text = text[i+2:]
			continue
		}
		end := strings.IndexByte(text[i:], '}')
		if end < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		placeholder := text[i : i+end+1]
		sb.WriteString(text[:i])
		if val, ok := Lookup(data, strings.TrimSpace(placeholder[2:end])); ok {
			sb.WriteString(format(val))
		} else {
			sb.WriteString(placeholder)
		}
		text = text[i+end+1:]
	}
}

// Lookup resolves a dotted path with optional [index] suffixes in data as
// produced by encoding/json.
func Lookup(data any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// splitSegment 拆分 "name[1][2]" 形式的路径段。
func splitSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i < 0 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
