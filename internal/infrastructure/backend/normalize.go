package backend

import (
	"encoding/json"

	"github.com/autoaccessories/pos-gateway/internal/core/domain"
)

// defaultDomainKeys is the compatibility table of top-level payload keys the
// backend historically returned instead of a proper envelope. Responses
// carrying one of these keys are merged into the envelope as-is. The table
// is extendable through Options.DomainKeys because the backend's key set
// drifts between releases.
var defaultDomainKeys = []string{
	"products",
	"categories",
	"brands",
	"customers",
	"sales",
	"expenses",
	"payments",
	"reports",
	"settings",
	"users",
	"sessions",
	"roles",
	"user",
}

// normalize folds the backend's heterogeneous 2xx response shapes into the
// one envelope every call site receives:
//
//   - body already enveloped (has "success")  → returned as-is
//   - bare array                              → {success:true, data:[...]}
//   - object with a recognized domain key     → merged, success:true
//   - any other JSON value                    → {success:true, data:<body>}
//   - non-JSON body                           → {success:true, data:null}
func normalize(raw []byte, keys map[string]struct{}) *domain.Envelope {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		// Malformed or empty body degrades to a null payload, not a crash.
		return &domain.Envelope{Success: true}
	}

	switch body := v.(type) {
	case []any:
		return &domain.Envelope{Success: true, Data: body}
	case map[string]any:
		if _, enveloped := body["success"]; enveloped {
			return passthrough(body)
		}
		for k := range body {
			if _, ok := keys[k]; ok {
				return &domain.Envelope{Success: true, Fields: body}
			}
		}
		return &domain.Envelope{Success: true, Data: body}
	default:
		return &domain.Envelope{Success: true, Data: body}
	}
}

// passthrough splits an already-enveloped body into the Envelope struct
// without altering its content; marshalling the result reproduces the
// original object. Values the struct fields cannot carry verbatim (a legacy
// numeric success, an explicit null data, a non-string error) stay in Fields
// so the re-marshal keeps them byte-for-byte.
func passthrough(body map[string]any) *domain.Envelope {
	env := &domain.Envelope{}
	keep := func(k string, v any) {
		if env.Fields == nil {
			env.Fields = make(map[string]any)
		}
		env.Fields[k] = v
	}
	for k, val := range body {
		switch k {
		case "success":
			if b, ok := val.(bool); ok {
				env.Success = b
				continue
			}
			env.Success = truthy(val)
			keep(k, val)
		case "error":
			if s, ok := val.(string); ok {
				env.Error = s
				continue
			}
			keep(k, val)
		case "data":
			if val == nil {
				keep(k, nil)
				continue
			}
			env.Data = val
		default:
			keep(k, val)
		}
	}
	return env
}

// truthy interprets the legacy non-bool success values some backend
// releases emitted (0/1, "true"/"false").
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "false" && t != "0"
	default:
		return true
	}
}
