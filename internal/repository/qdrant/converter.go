package qdrant

import (
	"github.com/qdrant/go-client/qdrant"
)

// payloadToMap разворачивает protobuf-значения payload в обычную map.
// Поддерживаются типы, которые пишет индексация: строки, числа и булевы значения.
func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))

	for key, value := range payload {
		switch kind := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			out[key] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			out[key] = kind.IntegerValue
		case *qdrant.Value_DoubleValue:
			out[key] = kind.DoubleValue
		case *qdrant.Value_BoolValue:
			out[key] = kind.BoolValue
		}
	}

	return out
}
