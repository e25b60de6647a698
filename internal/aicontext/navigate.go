package aicontext

import (
  "strconv"
  "strings"
)

// Safe navigation helpers over untyped profile documents. Every helper
// is total: an absent key, a nil value or a wrong type at any depth
// yields the zero result instead of panicking.

func getMap(mapping map[string]any, keys ...string) (map[string]any, bool) {
  current := mapping
  for _, key := range keys {
    if current == nil {
      return nil, false
    }
    next, ok := current[key].(map[string]any)
    if !ok {
      return nil, false
    }
    current = next
  }
  return current, current != nil
}

func getString(mapping map[string]any, keys ...string) (string, bool) {
  if len(keys) == 0 {
    return "", false
  }
  parent := mapping
  if len(keys) > 1 {
    var ok bool
    parent, ok = getMap(mapping, keys[:len(keys)-1]...)
    if !ok {
      return "", false
    }
  }
  value, ok := parent[keys[len(keys)-1]].(string)
  if !ok {
    return "", false
  }
  trimmed := strings.TrimSpace(value)
  if trimmed == "" {
    return "", false
  }
  return trimmed, true
}

// getFloat accepts numbers and numeric strings. Strings with a unit
// suffix ("3.5 acres") parse from their leading numeric prefix.
func getFloat(mapping map[string]any, keys ...string) (float64, bool) {
  if len(keys) == 0 {
    return 0, false
  }
  parent := mapping
  if len(keys) > 1 {
    var ok bool
    parent, ok = getMap(mapping, keys[:len(keys)-1]...)
    if !ok {
      return 0, false
    }
  }

  switch value := parent[keys[len(keys)-1]].(type) {
  case float64:
    return value, true
  case float32:
    return float64(value), true
  case int:
    return float64(value), true
  case int64:
    return float64(value), true
  case string:
    return parseNumericPrefix(value)
  default:
    return 0, false
  }
}

func getStringSlice(mapping map[string]any, keys ...string) ([]string, bool) {
  if len(keys) == 0 {
    return nil, false
  }
  parent := mapping
  if len(keys) > 1 {
    var ok bool
    parent, ok = getMap(mapping, keys[:len(keys)-1]...)
    if !ok {
      return nil, false
    }
  }

  raw, ok := parent[keys[len(keys)-1]].([]any)
  if !ok {
    return nil, false
  }
  results := make([]string, 0, len(raw))
  for _, item := range raw {
    if value, ok := item.(string); ok && strings.TrimSpace(value) != "" {
      results = append(results, strings.TrimSpace(value))
    }
  }
  if len(results) == 0 {
    return nil, false
  }
  return results, true
}

func parseNumericPrefix(value string) (float64, bool) {
  trimmed := strings.TrimSpace(value)
  if trimmed == "" {
    return 0, false
  }

  end := 0
  for end < len(trimmed) {
    ch := trimmed[end]
    if (ch >= '0' && ch <= '9') || ch == '.' || (end == 0 && ch == '-') {
      end++
      continue
    }
    break
  }
  if end == 0 {
    return 0, false
  }

  parsed, err := strconv.ParseFloat(trimmed[:end], 64)
  if err != nil {
    return 0, false
  }
  return parsed, true
}
