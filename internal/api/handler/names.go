package handler

import "github.com/autoaccessories/pos-gateway/internal/core/domain"

func screenNames(screens []domain.Screen) []string {
	out := make([]string, len(screens))
	for i, s := range screens {
		out[i] = string(s)
	}
	return out
}

func capabilityNames(caps []domain.Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
