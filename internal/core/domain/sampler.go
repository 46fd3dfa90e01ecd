package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SamplerName is the sampler used by the backend. The underlying string is the wire value.
type SamplerName string

// Samplers supported by the Automatic1111 backend.
const (
	SamplerEulerA          SamplerName = "Euler a"
	SamplerEuler           SamplerName = "Euler"
	SamplerLMS             SamplerName = "LMS"
	SamplerHeun            SamplerName = "Heun"
	SamplerDPM2            SamplerName = "DPM2"
	SamplerDPM2A           SamplerName = "DPM2 a"
	SamplerDPMPP2SA        SamplerName = "DPM++ 2S a"
	SamplerDPMPP2M         SamplerName = "DPM++ 2M"
	SamplerDPMPPSDE        SamplerName = "DPM++ SDE"
	SamplerDPMFast         SamplerName = "DPM fast"
	SamplerDPMAdaptive     SamplerName = "DPM adaptive"
	SamplerLMSKarras       SamplerName = "LMS Karras"
	SamplerDPM2Karras      SamplerName = "DPM2 Karras"
	SamplerDPM2AKarras     SamplerName = "DPM2 a Karras"
	SamplerDPMPP2SAKarras  SamplerName = "DPM++ 2S a Karras"
	SamplerDPMPP2MKarras   SamplerName = "DPM++ 2M Karras"
	SamplerDPMPPSDEKarras  SamplerName = "DPM++ SDE Karras"
	SamplerDDIM            SamplerName = "DDIM"
	SamplerPLMS            SamplerName = "PLMS"
	DefaultSampler                     = SamplerEuler
)

var samplerOrder = []SamplerName{
	SamplerEulerA,
	SamplerEuler,
	SamplerLMS,
	SamplerHeun,
	SamplerDPM2,
	SamplerDPM2A,
	SamplerDPMPP2SA,
	SamplerDPMPP2M,
	SamplerDPMPPSDE,
	SamplerDPMFast,
	SamplerDPMAdaptive,
	SamplerLMSKarras,
	SamplerDPM2Karras,
	SamplerDPM2AKarras,
	SamplerDPMPP2SAKarras,
	SamplerDPMPP2MKarras,
	SamplerDPMPPSDEKarras,
	SamplerDDIM,
	SamplerPLMS,
}

// samplerLabels maps each sampler to the label shown in node schemas.
var samplerLabels = map[SamplerName]string{
	SamplerEulerA:         "Euler a",
	SamplerEuler:          "Euler",
	SamplerLMS:            "LMS",
	SamplerHeun:           "Heun",
	SamplerDPM2:           "DPM2",
	SamplerDPM2A:          "DPM2 a",
	SamplerDPMPP2SA:       "DPM++ 2S a",
	SamplerDPMPP2M:        "DPM++ 2M",
	SamplerDPMPPSDE:       "DPM++ SDE",
	SamplerDPMFast:        "DPM fast",
	SamplerDPMAdaptive:    "DPM adaptive",
	SamplerLMSKarras:      "LMS Karras",
	SamplerDPM2Karras:     "DPM2 Karras",
	SamplerDPM2AKarras:    "DPM2 a Karras",
	SamplerDPMPP2SAKarras: "DPM++ 2S a Karras",
	SamplerDPMPP2MKarras:  "DPM++ 2M Karras",
	SamplerDPMPPSDEKarras: "DPM++ SDE Karras",
	SamplerDDIM:           "DDIM",
	SamplerPLMS:           "PLMS",
}

// SamplerNames returns all samplers in display order.
func SamplerNames() []SamplerName {
	out := make([]SamplerName, len(samplerOrder))
	copy(out, samplerOrder)
	return out
}

// Label returns the display label of the sampler.
func (s SamplerName) Label() string {
	if l, ok := samplerLabels[s]; ok {
		return l
	}
	return string(s)
}

// Key returns the identifier form of the sampler, e.g. "dpmpp_2m_karras".
func (s SamplerName) Key() string {
	k := strings.ToLower(string(s))
	k = strings.ReplaceAll(k, "++", "pp")
	return strings.ReplaceAll(k, " ", "_")
}

// IsValid reports whether s is part of the sampler set.
func (s SamplerName) IsValid() bool {
	_, ok := samplerLabels[s]
	return ok
}

// ParseSamplerName accepts a wire value, key or label, case-insensitively.
func ParseSamplerName(v string) (SamplerName, error) {
	needle := strings.TrimSpace(v)
	for _, s := range samplerOrder {
		if strings.EqualFold(needle, string(s)) ||
			strings.EqualFold(needle, s.Key()) ||
			strings.EqualFold(needle, s.Label()) {
			return s, nil
		}
	}
	return "", zerr.With(ErrUnknownSampler, "sampler", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s SamplerName) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SamplerName) UnmarshalText(text []byte) error {
	parsed, err := ParseSamplerName(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
